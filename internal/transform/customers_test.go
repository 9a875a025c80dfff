package transform

import (
	"testing"
	"time"

	"github.com/fleximart/fleximart-etl/internal/model"
)

func testTransformer() *Transformer {
	tr := New("91")
	tr.Now = func() time.Time { return time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC) }
	return tr
}

func customerTable(rows ...model.RawRecord) model.RawTable {
	return model.RawTable{
		Columns: []string{"first_name", "last_name", "email", "phone", "city", "registration_date"},
		Rows:    rows,
	}
}

func TestCustomersHappyPath(t *testing.T) {
	tr := testTransformer()
	got, stats := tr.Customers(customerTable(
		model.RawRecord{"first_name": " Asha ", "last_name": "Rao", "email": " asha@x.com ", "phone": "9876543210", "city": "Pune", "registration_date": "30/12/2024"},
	), DefaultCustomerColumns())
	if len(got) != 1 {
		t.Fatalf("len = %d", len(got))
	}
	c := got[0]
	if c.FirstName != "Asha" || c.Email != "asha@x.com" || c.City != "Pune" {
		t.Fatalf("trim: %+v", c)
	}
	if c.Phone != "+91-9876543210" {
		t.Fatalf("phone: %q", c.Phone)
	}
	if c.RegistrationDate != "2024-12-30" {
		t.Fatalf("date: %q", c.RegistrationDate)
	}
	if stats.Processed != 1 || stats.DuplicatesRemoved != 0 || stats.MissingHandled != 0 {
		t.Fatalf("stats: %+v", stats)
	}
}

func TestCustomersDeduplicatesByEmail(t *testing.T) {
	tr := testTransformer()
	got, stats := tr.Customers(customerTable(
		model.RawRecord{"first_name": "A", "last_name": "B", "email": "dup@x.com", "registration_date": "2025-01-01"},
		model.RawRecord{"first_name": "Other", "last_name": "Person", "email": "dup@x.com", "registration_date": "2025-01-02"},
	), DefaultCustomerColumns())
	if len(got) != 1 || got[0].FirstName != "A" {
		t.Fatalf("first occurrence must win: %+v", got)
	}
	if stats.DuplicatesRemoved != 1 {
		t.Fatalf("stats: %+v", stats)
	}
}

func TestCustomersDropBlankEmail(t *testing.T) {
	tr := testTransformer()
	got, stats := tr.Customers(customerTable(
		model.RawRecord{"first_name": "A", "last_name": "B", "email": "  ", "registration_date": "2025-01-01"},
	), DefaultCustomerColumns())
	if len(got) != 0 {
		t.Fatalf("blank email must drop: %+v", got)
	}
	// One for the email drop; the row never reaches the phone/date stages.
	if stats.MissingHandled != 1 {
		t.Fatalf("stats: %+v", stats)
	}
}

func TestCustomersMissingPhoneKept(t *testing.T) {
	tr := testTransformer()
	got, stats := tr.Customers(customerTable(
		model.RawRecord{"first_name": "A", "last_name": "B", "email": "a@x.com", "phone": "12345", "registration_date": "2025-01-01"},
	), DefaultCustomerColumns())
	if len(got) != 1 {
		t.Fatalf("row with bad phone must be kept")
	}
	if got[0].Phone != "" {
		t.Fatalf("phone: %q", got[0].Phone)
	}
	if stats.MissingHandled != 1 {
		t.Fatalf("stats: %+v", stats)
	}
}

func TestCustomersBadDateDefaultsToToday(t *testing.T) {
	tr := testTransformer()
	got, stats := tr.Customers(customerTable(
		model.RawRecord{"first_name": "A", "last_name": "B", "email": "a@x.com", "phone": "9876543210", "registration_date": "not a date"},
	), DefaultCustomerColumns())
	if len(got) != 1 {
		t.Fatalf("bad date must not drop the row")
	}
	if got[0].RegistrationDate != "2025-06-15" {
		t.Fatalf("date: %q", got[0].RegistrationDate)
	}
	if stats.MissingHandled != 1 {
		t.Fatalf("stats: %+v", stats)
	}
}

func TestCustomersDropBlankRequiredNames(t *testing.T) {
	tr := testTransformer()
	got, stats := tr.Customers(customerTable(
		model.RawRecord{"first_name": "  ", "last_name": "B", "email": "a@x.com", "phone": "9876543210", "registration_date": "2025-01-01"},
	), DefaultCustomerColumns())
	if len(got) != 0 {
		t.Fatalf("blank first_name must drop: %+v", got)
	}
	if stats.MissingHandled != 1 {
		t.Fatalf("stats: %+v", stats)
	}
}

func TestCustomersCarriesSourceID(t *testing.T) {
	tr := testTransformer()
	raw := model.RawTable{
		Columns: []string{"customer_id", "first_name", "last_name", "email", "registration_date"},
		Rows: []model.RawRecord{
			{"customer_id": "C001", "first_name": "A", "last_name": "B", "email": "a@x.com", "registration_date": "2025-01-01"},
		},
	}
	got, _ := tr.Customers(raw, DefaultCustomerColumns())
	if len(got) != 1 || got[0].SourceID != "C001" {
		t.Fatalf("SourceID: %+v", got)
	}
}

func TestCustomersEmptyInput(t *testing.T) {
	tr := testTransformer()
	got, stats := tr.Customers(model.RawTable{}, DefaultCustomerColumns())
	if len(got) != 0 {
		t.Fatalf("got %+v", got)
	}
	if stats != (model.TransformStats{}) {
		t.Fatalf("stats: %+v", stats)
	}
}
