package transform

import (
	"strings"

	"github.com/fleximart/fleximart-etl/internal/clean"
	"github.com/fleximart/fleximart-etl/internal/model"
)

// Customers cleans a raw customer extract. Email is the unique key: duplicate
// emails keep the first occurrence, blank emails drop the row. Phone is
// optional; a phone that fails normalization counts as handled but the row
// survives. Unparseable registration dates default to today rather than
// dropping the row.
func (tr *Transformer) Customers(raw model.RawTable, cols ColumnMap) ([]model.CleanCustomer, model.TransformStats) {
	stats := model.TransformStats{Processed: len(raw.Rows)}
	t := cols.Rename(raw)

	// Deduplicate by email, first occurrence wins.
	outs := make([]Outcome[model.RawRecord], 0, len(t.Rows))
	seen := make(map[string]struct{}, len(t.Rows))
	for _, r := range t.Rows {
		key := r["email"]
		if _, dup := seen[key]; dup {
			outs = append(outs, Drop[model.RawRecord](DropDuplicate))
			continue
		}
		seen[key] = struct{}{}
		outs = append(outs, Keep(r))
	}
	rows := Fold(outs, &stats)

	// Email is required.
	outs = outs[:0]
	for _, r := range rows {
		if strings.TrimSpace(r["email"]) == "" {
			outs = append(outs, Drop[model.RawRecord](DropMissingField))
			continue
		}
		outs = append(outs, Keep(r))
	}
	rows = Fold(outs, &stats)

	customers := make([]model.CleanCustomer, 0, len(rows))
	for _, r := range rows {
		phone := clean.NormalizePhone(r["phone"], tr.CountryCode)
		if phone == "" {
			// Missing but tolerated: the column is nullable.
			stats.MissingHandled++
		}
		date := clean.ParseISODate(r["registration_date"])
		if date == "" {
			date = tr.today()
			stats.MissingHandled++
		}
		customers = append(customers, model.CleanCustomer{
			FirstName:        strings.TrimSpace(r["first_name"]),
			LastName:         strings.TrimSpace(r["last_name"]),
			Email:            strings.TrimSpace(r["email"]),
			Phone:            phone,
			City:             strings.TrimSpace(r["city"]),
			RegistrationDate: date,
			SourceID:         strings.TrimSpace(r["customer_id"]),
		})
	}

	// Required name fields must be non-blank after trimming.
	final := make([]model.CleanCustomer, 0, len(customers))
	for _, c := range customers {
		if c.FirstName == "" || c.LastName == "" || c.Email == "" {
			stats.MissingHandled++
			continue
		}
		final = append(final, c)
	}
	return final, stats
}
