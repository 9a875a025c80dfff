// Package model defines the tabular domain types moved through the pipeline.
package model

// RawRecord is one row of a raw extract: column name to cell text. Cells are
// kept as text exactly as read; an absent key or empty string both mean the
// source cell was empty.
type RawRecord map[string]string

// RawTable is a raw extract with its column order preserved.
type RawTable struct {
	Columns []string
	Rows    []RawRecord
}

// HasColumns reports whether every named column is present in the table.
func (t RawTable) HasColumns(names ...string) bool {
	set := make(map[string]struct{}, len(t.Columns))
	for _, c := range t.Columns {
		set[c] = struct{}{}
	}
	for _, n := range names {
		if _, ok := set[n]; !ok {
			return false
		}
	}
	return true
}

// CleanCustomer is a load-ready customer row. Phone and City may be empty;
// Email and RegistrationDate never are.
type CleanCustomer struct {
	FirstName        string `db:"first_name"`
	LastName         string `db:"last_name"`
	Email            string `db:"email"`
	Phone            string `db:"phone"`
	City             string `db:"city"`
	RegistrationDate string `db:"registration_date"`

	// SourceID carries the extract's own customer_id column, when present.
	// It is the lookup key for translating coded sales references.
	SourceID string `db:"-"`
}

// CleanProduct is a load-ready product row. Price is a fixed two-decimal
// string and is never empty.
type CleanProduct struct {
	ProductName   string `db:"product_name"`
	Category      string `db:"category"`
	Price         string `db:"price"`
	StockQuantity int    `db:"stock_quantity"`

	// SourceID carries the extract's own product_id column, when present.
	SourceID string `db:"-"`
}

// LineItem is one product-quantity-price entry of an order. OrderKey ties it
// to its Order until the load stage assigns durable order ids.
type LineItem struct {
	OrderKey    string
	CustomerRef string
	ProductRef  string
	Quantity    int
	UnitPrice   string
	Subtotal    string
	Status      string
}

// Order is one aggregated order. TotalAmount is the sum of its line items'
// subtotals, as a fixed two-decimal string.
type Order struct {
	OrderKey    string
	CustomerRef string
	OrderDate   string
	TotalAmount string
	Status      string
}

// TransformStats counts what a transform pass did. Counters only ever grow.
type TransformStats struct {
	Processed         int
	DuplicatesRemoved int
	MissingHandled    int
}

// LoadStats counts what the warehouse load stage did.
type LoadStats struct {
	CustomersLoaded  int
	ProductsLoaded   int
	OrdersLoaded     int
	OrderItemsLoaded int
	MissingHandled   int
}
