package transform

import (
	"testing"

	"github.com/fleximart/fleximart-etl/internal/model"
)

func TestColumnMapRename(t *testing.T) {
	raw := model.RawTable{
		Columns: []string{"transaction_id", "transaction_date", "customer_email", "notes"},
		Rows: []model.RawRecord{
			{"transaction_id": "T1", "transaction_date": "2025-01-01", "customer_email": "a@x.com", "notes": "n"},
		},
	}
	out := DefaultSalesColumns().Rename(raw)
	want := []string{"order_id", "order_date", "customer_email", "notes"}
	for i, c := range want {
		if out.Columns[i] != c {
			t.Fatalf("column %d = %q, want %q", i, out.Columns[i], c)
		}
	}
	r := out.Rows[0]
	if r["order_id"] != "T1" || r["order_date"] != "2025-01-01" || r["notes"] != "n" {
		t.Fatalf("row = %v", r)
	}
	if _, ok := r["transaction_id"]; ok {
		t.Fatalf("source key should be gone")
	}
}

func TestRenameDoesNotMutateInput(t *testing.T) {
	raw := model.RawTable{
		Columns: []string{"transaction_id"},
		Rows:    []model.RawRecord{{"transaction_id": "T1"}},
	}
	_ = DefaultSalesColumns().Rename(raw)
	if raw.Columns[0] != "transaction_id" || raw.Rows[0]["transaction_id"] != "T1" {
		t.Fatalf("input mutated: %+v", raw)
	}
}
