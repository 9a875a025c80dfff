// Package report renders the data-quality summary written at the end of a
// pipeline run.
package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/fleximart/fleximart-etl/internal/model"
)

// Summary collects everything the quality report covers for one run.
type Summary struct {
	RunID     string
	Customers model.TransformStats
	Products  model.TransformStats
	Sales     model.TransformStats
	Load      model.LoadStats
}

// Render produces the report text.
func Render(s Summary) string {
	var b strings.Builder
	b.WriteString("Data Quality Report\n")
	b.WriteString("-------------------\n")
	fmt.Fprintf(&b, "Run: %s\n", s.RunID)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Customers processed: %d\n", s.Customers.Processed)
	fmt.Fprintf(&b, "Customers duplicates removed: %d\n", s.Customers.DuplicatesRemoved)
	fmt.Fprintf(&b, "Customers missing values handled: %d\n", s.Customers.MissingHandled)
	fmt.Fprintf(&b, "Customers loaded: %d\n", s.Load.CustomersLoaded)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Products processed: %d\n", s.Products.Processed)
	fmt.Fprintf(&b, "Products duplicates removed: %d\n", s.Products.DuplicatesRemoved)
	fmt.Fprintf(&b, "Products missing values handled: %d\n", s.Products.MissingHandled)
	fmt.Fprintf(&b, "Products loaded: %d\n", s.Load.ProductsLoaded)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Sales processed: %d\n", s.Sales.Processed)
	fmt.Fprintf(&b, "Sales duplicates removed: %d\n", s.Sales.DuplicatesRemoved)
	fmt.Fprintf(&b, "Sales missing values handled: %d\n", s.Sales.MissingHandled)
	fmt.Fprintf(&b, "Orders loaded: %d\n", s.Load.OrdersLoaded)
	fmt.Fprintf(&b, "Order items loaded: %d\n", s.Load.OrderItemsLoaded)
	return b.String()
}

// Write renders the report and writes it to path.
func Write(path string, s Summary) error {
	if err := os.WriteFile(path, []byte(Render(s)), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
