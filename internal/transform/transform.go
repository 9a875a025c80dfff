// Package transform cleans raw extracts into load-ready tables and reshapes
// sales rows into orders and order items. Everything in this package is pure:
// transforms read in-memory tables and return new ones plus counters, with no
// I/O and no mutation of their inputs.
package transform

import "time"

// DefaultOrderStatus is assigned to orders whose source rows carry no status.
const DefaultOrderStatus = "Pending"

// Transformer holds the knobs the cleaning passes depend on.
type Transformer struct {
	// CountryCode is the phone-number calling-code prefix, without the plus.
	CountryCode string
	// Now supplies the date used to backfill unparseable registration dates.
	// Overridable for tests; nil means time.Now.
	Now func() time.Time
}

// New returns a Transformer with the given phone country code.
func New(countryCode string) *Transformer {
	return &Transformer{CountryCode: countryCode}
}

func (tr *Transformer) today() string {
	now := tr.Now
	if now == nil {
		now = time.Now
	}
	return now().Format("2006-01-02")
}
