package transform

import (
	"strings"

	"github.com/fleximart/fleximart-etl/internal/clean"
	"github.com/fleximart/fleximart-etl/internal/model"
)

// Products cleans a raw product extract. Duplicate (name, category) pairs
// keep the first occurrence; rows without a parseable price are dropped;
// missing stock defaults to zero and counts as handled.
func (tr *Transformer) Products(raw model.RawTable, cols ColumnMap) ([]model.CleanProduct, model.TransformStats) {
	stats := model.TransformStats{Processed: len(raw.Rows)}
	t := cols.Rename(raw)

	outs := make([]Outcome[model.RawRecord], 0, len(t.Rows))
	seen := make(map[string]struct{}, len(t.Rows))
	for _, r := range t.Rows {
		key := r["product_name"] + "\x1f" + r["category"]
		if _, dup := seen[key]; dup {
			outs = append(outs, Drop[model.RawRecord](DropDuplicate))
			continue
		}
		seen[key] = struct{}{}
		outs = append(outs, Keep(r))
	}
	rows := Fold(outs, &stats)

	products := make([]model.CleanProduct, 0, len(rows))
	for _, r := range rows {
		price, ok := clean.ToFixedDecimal(r["price"])
		if !ok {
			stats.MissingHandled++
			continue
		}
		stock, stockOK := clean.AsInt(r["stock_quantity"])
		if !stockOK {
			stock = 0
			stats.MissingHandled++
		}
		products = append(products, model.CleanProduct{
			ProductName:   strings.TrimSpace(r["product_name"]),
			Category:      clean.TitleCase(r["category"]),
			Price:         price,
			StockQuantity: stock,
			SourceID:      strings.TrimSpace(r["product_id"]),
		})
	}
	return products, stats
}
