package transform

import "github.com/fleximart/fleximart-etl/internal/model"

// ColumnMap maps canonical field names to the source column carrying them.
// It makes the expected raw headers an explicit configuration value instead
// of an assumption baked into the transforms.
type ColumnMap map[string]string

// DefaultCustomerColumns matches customers_raw.csv headers as-is.
func DefaultCustomerColumns() ColumnMap {
	return ColumnMap{
		"first_name":        "first_name",
		"last_name":         "last_name",
		"email":             "email",
		"phone":             "phone",
		"city":              "city",
		"registration_date": "registration_date",
		"customer_id":       "customer_id",
	}
}

// DefaultProductColumns matches products_raw.csv headers as-is.
func DefaultProductColumns() ColumnMap {
	return ColumnMap{
		"product_name":   "product_name",
		"category":       "category",
		"price":          "price",
		"stock_quantity": "stock_quantity",
		"product_id":     "product_id",
	}
}

// DefaultSalesColumns maps sales_raw.csv transaction headers onto the order
// vocabulary used by the reconciler.
func DefaultSalesColumns() ColumnMap {
	return ColumnMap{
		"order_id":       "transaction_id",
		"order_date":     "transaction_date",
		"customer_id":    "customer_id",
		"customer_email": "customer_email",
		"product_id":     "product_id",
		"product_name":   "product_name",
		"quantity":       "quantity",
		"unit_price":     "unit_price",
		"status":         "status",
	}
}

// Rename returns a copy of the table with source columns renamed to their
// canonical names. Columns without a mapping pass through unchanged.
func (m ColumnMap) Rename(t model.RawTable) model.RawTable {
	toCanonical := make(map[string]string, len(m))
	for canonical, source := range m {
		toCanonical[source] = canonical
	}
	out := model.RawTable{
		Columns: make([]string, 0, len(t.Columns)),
		Rows:    make([]model.RawRecord, 0, len(t.Rows)),
	}
	for _, c := range t.Columns {
		if canonical, ok := toCanonical[c]; ok {
			out.Columns = append(out.Columns, canonical)
		} else {
			out.Columns = append(out.Columns, c)
		}
	}
	for _, r := range t.Rows {
		nr := make(model.RawRecord, len(r))
		for k, v := range r {
			if canonical, ok := toCanonical[k]; ok {
				nr[canonical] = v
			} else {
				nr[k] = v
			}
		}
		out.Rows = append(out.Rows, nr)
	}
	return out
}
