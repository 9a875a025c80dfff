package transform

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fleximart/fleximart-etl/internal/clean"
	"github.com/fleximart/fleximart-etl/internal/model"
)

// MissingColumnsError reports a sales extract exposing neither the name-based
// nor the id-based reference columns. It is the only fatal condition in the
// reconciler; every row-level defect is filtered and tallied instead.
type MissingColumnsError struct {
	Found []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf(
		"sales input must contain either (customer_email, product_name) or (customer_id, product_id); found columns: %s",
		strings.Join(e.Found, ", "))
}

// saleRow is one surviving sales line on its way to becoming a LineItem.
// custRef and prodRef hold either canonical names (email, product name) or
// numeric ids rendered as strings, depending on the detected schema.
type saleRow struct {
	orderID   string
	orderDate string
	custRef   string
	prodRef   string
	quantity  int
	unitPrice string
	subtotal  string
	status    string
}

// Sales reconciles a raw sales extract against the cleaned customer and
// product tables and reshapes it into orders and order items.
//
// The extract must expose either (customer_email, product_name) or
// (customer_id, product_id). Id-based extracts are classified once per run:
// if every non-blank id is numeric the rows join the product table by id,
// otherwise the ids are treated as codes and translated to canonical
// references through the cleaned tables, after which the rows follow the
// name-based path. Missing unit prices are backfilled from the product table;
// rows whose price still cannot be resolved are dropped and counted.
func (tr *Transformer) Sales(raw model.RawTable, cols ColumnMap, customers []model.CleanCustomer, products []model.CleanProduct) ([]model.Order, []model.LineItem, model.TransformStats, error) {
	stats := model.TransformStats{Processed: len(raw.Rows)}
	if len(raw.Rows) == 0 {
		return []model.Order{}, []model.LineItem{}, stats, nil
	}

	t := cols.Rename(raw)
	hasName := t.HasColumns("customer_email", "product_name")
	hasID := t.HasColumns("customer_id", "product_id")
	if !hasName && !hasID {
		return nil, nil, stats, &MissingColumnsError{Found: t.Columns}
	}
	byID := hasID

	// Exact duplicates over the schema's key columns plus date, quantity and
	// price are removed before any per-field cleaning.
	keyCols := []string{"customer_email", "product_name", "order_date", "quantity", "unit_price"}
	if byID {
		keyCols = []string{"customer_id", "product_id", "order_date", "quantity", "unit_price"}
	}
	outs := make([]Outcome[model.RawRecord], 0, len(t.Rows))
	seen := make(map[string]struct{}, len(t.Rows))
	for _, r := range t.Rows {
		parts := make([]string, len(keyCols))
		for i, c := range keyCols {
			parts[i] = r[c]
		}
		key := strings.Join(parts, "\x1f")
		if _, dup := seen[key]; dup {
			outs = append(outs, Drop[model.RawRecord](DropDuplicate))
			continue
		}
		seen[key] = struct{}{}
		outs = append(outs, Keep(r))
	}
	rows := Fold(outs, &stats)

	// Dates normalize to ISO; rows without a usable date are gone.
	outs = outs[:0]
	for _, r := range rows {
		d := clean.ParseISODate(r["order_date"])
		if d == "" {
			outs = append(outs, Drop[model.RawRecord](DropBadDate))
			continue
		}
		r["order_date"] = d
		outs = append(outs, Keep(r))
	}
	rows = Fold(outs, &stats)

	priceByName := make(map[string]string, len(products))
	for _, p := range products {
		priceByName[p.ProductName] = p.Price
	}

	var items []saleRow
	translated := false
	if byID {
		custNumeric := columnNumeric(rows, "customer_id")
		prodNumeric := columnNumeric(rows, "product_id")
		if !custNumeric || !prodNumeric {
			custByCode := make(map[string]string, len(customers))
			for _, c := range customers {
				if c.SourceID != "" {
					custByCode[c.SourceID] = c.Email
				}
			}
			prodByCode := make(map[string]string, len(products))
			for _, p := range products {
				if p.SourceID != "" {
					prodByCode[p.SourceID] = p.ProductName
				}
			}
			if len(custByCode) > 0 || len(prodByCode) > 0 {
				items = tr.translateCoded(rows, custByCode, prodByCode, priceByName, &stats)
				translated = true
			}
			// With no code mappings available the rows stay on the numeric
			// path, where non-numeric ids drop out.
		}
		if !translated {
			items = tr.numericIDPath(rows, products, &stats)
		}
	} else {
		items = tr.namePath(rows, priceByName, &stats)
	}

	items = tr.finalizePrices(items, &stats)
	orders, lineItems := tr.aggregateOrders(items, &stats)
	return orders, lineItems, stats, nil
}

// columnNumeric reports whether every non-blank value of the column parses as
// an integer. A column with no values at all is not numeric.
func columnNumeric(rows []model.RawRecord, col string) bool {
	any := false
	for _, r := range rows {
		v := strings.TrimSpace(r[col])
		if v == "" {
			continue
		}
		any = true
		if _, ok := clean.AsInt(v); !ok {
			return false
		}
	}
	return any
}

// translateCoded maps coded customer/product ids to canonical references.
// A row survives only when both references resolve and the quantity is a
// positive integer; anything else is filtered and tallied. Surviving rows are
// indistinguishable from name-based input for the remaining steps.
func (tr *Transformer) translateCoded(rows []model.RawRecord, custByCode, prodByCode, priceByName map[string]string, stats *model.TransformStats) []saleRow {
	outs := make([]Outcome[saleRow], 0, len(rows))
	for _, r := range rows {
		email := custByCode[strings.TrimSpace(r["customer_id"])]
		name := prodByCode[strings.TrimSpace(r["product_id"])]
		qty, qtyOK := clean.AsInt(r["quantity"])
		if email == "" || name == "" || !qtyOK || qty <= 0 {
			outs = append(outs, Drop[saleRow](DropUnresolvedRef))
			continue
		}
		unit, ok := clean.ToFixedDecimal(r["unit_price"])
		if !ok {
			unit = priceByName[name]
		}
		outs = append(outs, Keep(saleRow{
			orderID:   strings.TrimSpace(r["order_id"]),
			orderDate: r["order_date"],
			custRef:   email,
			prodRef:   name,
			quantity:  qty,
			unitPrice: unit,
			status:    r["status"],
		}))
	}
	return Fold(outs, stats)
}

// numericIDPath keeps id-based rows as numeric references, joining the
// product table on product_id to backfill missing unit prices.
func (tr *Transformer) numericIDPath(rows []model.RawRecord, products []model.CleanProduct, stats *model.TransformStats) []saleRow {
	priceByID := make(map[string]string, len(products))
	for _, p := range products {
		if n, ok := clean.AsInt(p.SourceID); ok {
			priceByID[strconv.Itoa(n)] = p.Price
		}
	}
	outs := make([]Outcome[saleRow], 0, len(rows))
	for _, r := range rows {
		custID, custOK := clean.AsInt(r["customer_id"])
		prodID, prodOK := clean.AsInt(r["product_id"])
		if !custOK || !prodOK {
			outs = append(outs, Drop[saleRow](DropUnresolvedRef))
			continue
		}
		qty, qtyOK := clean.AsInt(r["quantity"])
		if !qtyOK || qty <= 0 {
			outs = append(outs, Drop[saleRow](DropBadQuantity))
			continue
		}
		prodRef := strconv.Itoa(prodID)
		unit, ok := clean.ToFixedDecimal(r["unit_price"])
		if !ok {
			unit = priceByID[prodRef]
		}
		if unit == "" {
			outs = append(outs, Drop[saleRow](DropNoPrice))
			continue
		}
		outs = append(outs, Keep(saleRow{
			orderID:   strings.TrimSpace(r["order_id"]),
			orderDate: r["order_date"],
			custRef:   strconv.Itoa(custID),
			prodRef:   prodRef,
			quantity:  qty,
			unitPrice: unit,
			status:    r["status"],
		}))
	}
	return Fold(outs, stats)
}

// namePath cleans rows already keyed by email and product name.
func (tr *Transformer) namePath(rows []model.RawRecord, priceByName map[string]string, stats *model.TransformStats) []saleRow {
	outs := make([]Outcome[saleRow], 0, len(rows))
	for _, r := range rows {
		email := strings.TrimSpace(r["customer_email"])
		name := strings.TrimSpace(r["product_name"])
		if email == "" || name == "" {
			outs = append(outs, Drop[saleRow](DropMissingField))
			continue
		}
		qty, qtyOK := clean.AsInt(r["quantity"])
		if !qtyOK || qty <= 0 {
			outs = append(outs, Drop[saleRow](DropBadQuantity))
			continue
		}
		unit, ok := clean.ToFixedDecimal(r["unit_price"])
		if !ok {
			unit = priceByName[name]
		}
		if unit == "" {
			outs = append(outs, Drop[saleRow](DropNoPrice))
			continue
		}
		outs = append(outs, Keep(saleRow{
			orderID:   strings.TrimSpace(r["order_id"]),
			orderDate: r["order_date"],
			custRef:   email,
			prodRef:   name,
			quantity:  qty,
			unitPrice: unit,
			status:    r["status"],
		}))
	}
	return Fold(outs, stats)
}

// finalizePrices re-parses every surviving unit price to a fixed two-decimal
// string regardless of which path produced it, and computes subtotals.
func (tr *Transformer) finalizePrices(items []saleRow, stats *model.TransformStats) []saleRow {
	outs := make([]Outcome[saleRow], 0, len(items))
	for _, it := range items {
		unit, ok := clean.ToFixedDecimal(it.unitPrice)
		if !ok {
			outs = append(outs, Drop[saleRow](DropNoPrice))
			continue
		}
		it.unitPrice = unit
		uv, _ := strconv.ParseFloat(unit, 64)
		it.subtotal = fmt.Sprintf("%.2f", float64(it.quantity)*uv)
		outs = append(outs, Keep(it))
	}
	return Fold(outs, stats)
}

// aggregateOrders groups line items by order key. A supplied order id wins;
// otherwise the key is customer reference plus date, which deliberately
// collapses same-customer same-date rows without an explicit id into one
// order. Group order follows input order; the first row of a group supplies
// the order's customer and date, the first non-blank status supplies its
// status.
func (tr *Transformer) aggregateOrders(items []saleRow, stats *model.TransformStats) ([]model.Order, []model.LineItem) {
	type agg struct {
		order model.Order
		total float64
	}
	keys := make([]string, 0, len(items))
	groups := make(map[string]*agg, len(items))
	lineItems := make([]model.LineItem, 0, len(items))

	for _, it := range items {
		key := it.orderID
		if key == "" {
			key = it.custRef + "|" + it.orderDate
		}
		status := strings.TrimSpace(it.status)
		lineItems = append(lineItems, model.LineItem{
			OrderKey:    key,
			CustomerRef: it.custRef,
			ProductRef:  it.prodRef,
			Quantity:    it.quantity,
			UnitPrice:   it.unitPrice,
			Subtotal:    it.subtotal,
			Status:      status,
		})
		g, ok := groups[key]
		if !ok {
			g = &agg{order: model.Order{
				OrderKey:    key,
				CustomerRef: it.custRef,
				OrderDate:   it.orderDate,
			}}
			groups[key] = g
			keys = append(keys, key)
		}
		if g.order.Status == "" && status != "" {
			g.order.Status = status
		}
		sv, _ := strconv.ParseFloat(it.subtotal, 64)
		g.total += sv
	}

	orders := make([]model.Order, 0, len(keys))
	for _, key := range keys {
		g := groups[key]
		if g.order.Status == "" {
			g.order.Status = DefaultOrderStatus
			stats.MissingHandled++
		}
		g.order.TotalAmount = fmt.Sprintf("%.2f", g.total)
		orders = append(orders, g.order)
	}
	return orders, lineItems
}
