package transform

import (
	"testing"

	"github.com/fleximart/fleximart-etl/internal/model"
)

func TestFoldTallies(t *testing.T) {
	outs := []Outcome[int]{
		Keep(1),
		Drop[int](DropDuplicate),
		Keep(2),
		Drop[int](DropBadDate),
		Drop[int](DropNoPrice),
	}
	var stats model.TransformStats
	kept := Fold(outs, &stats)
	if len(kept) != 2 || kept[0] != 1 || kept[1] != 2 {
		t.Fatalf("kept = %v", kept)
	}
	if stats.DuplicatesRemoved != 1 {
		t.Fatalf("duplicates = %d", stats.DuplicatesRemoved)
	}
	if stats.MissingHandled != 2 {
		t.Fatalf("missing = %d", stats.MissingHandled)
	}
}

func TestFoldEmpty(t *testing.T) {
	var stats model.TransformStats
	kept := Fold[string](nil, &stats)
	if len(kept) != 0 {
		t.Fatalf("kept = %v", kept)
	}
	if stats != (model.TransformStats{}) {
		t.Fatalf("stats = %+v", stats)
	}
}
