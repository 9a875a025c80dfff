package transform

import "github.com/fleximart/fleximart-etl/internal/model"

// DropReason classifies why a row was filtered out of a transform pass.
type DropReason string

const (
	DropDuplicate     DropReason = "duplicate"
	DropMissingField  DropReason = "missing_field"
	DropBadDate       DropReason = "bad_date"
	DropBadQuantity   DropReason = "bad_quantity"
	DropUnresolvedRef DropReason = "unresolved_ref"
	DropNoPrice       DropReason = "no_price"
)

// Outcome is the fate of one row in a transform pass: either kept, carrying
// the (possibly rewritten) record, or dropped with a reason. Row-level
// defects are never raised as errors; they fold into counters.
type Outcome[T any] struct {
	Record T
	Kept   bool
	Reason DropReason
}

// Keep wraps a surviving record.
func Keep[T any](rec T) Outcome[T] {
	return Outcome[T]{Record: rec, Kept: true}
}

// Drop marks a row filtered out for the given reason.
func Drop[T any](reason DropReason) Outcome[T] {
	return Outcome[T]{Reason: reason}
}

// Fold tallies a pass's outcomes into stats and returns the kept records.
// Duplicates count toward DuplicatesRemoved, every other reason toward
// MissingHandled.
func Fold[T any](outs []Outcome[T], stats *model.TransformStats) []T {
	kept := make([]T, 0, len(outs))
	for _, o := range outs {
		if o.Kept {
			kept = append(kept, o.Record)
			continue
		}
		if o.Reason == DropDuplicate {
			stats.DuplicatesRemoved++
		} else {
			stats.MissingHandled++
		}
	}
	return kept
}
