// Package pipeline wires the stages of an ETL run: extract the raw CSVs,
// clean and reconcile them, load the warehouse, write the quality report.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fleximart/fleximart-etl/internal/config"
	"github.com/fleximart/fleximart-etl/internal/extract"
	"github.com/fleximart/fleximart-etl/internal/model"
	"github.com/fleximart/fleximart-etl/internal/obs"
	"github.com/fleximart/fleximart-etl/internal/report"
	"github.com/fleximart/fleximart-etl/internal/transform"
	"github.com/fleximart/fleximart-etl/internal/warehouse"
)

// Pipeline executes one batch run end to end.
type Pipeline struct {
	cfg   config.Config
	runID string
}

// New builds a Pipeline for the given configuration, stamped with a fresh
// run id.
func New(cfg config.Config) *Pipeline {
	return &Pipeline{cfg: cfg, runID: uuid.NewString()}
}

// RunID returns the identifier stamped on this run's logs and report.
func (p *Pipeline) RunID() string { return p.runID }

// Run executes the pipeline. Row-level defects are absorbed by the transform
// stage; any stage-level failure aborts the run.
func (p *Pipeline) Run(ctx context.Context) error {
	log := obs.Logger.With("run_id", p.runID)
	log.Info("run_starting")

	rawCustomers, err := extract.ReadTable(p.cfg.CustomersCSV)
	if err != nil {
		return err
	}
	rawProducts, err := extract.ReadTable(p.cfg.ProductsCSV)
	if err != nil {
		return err
	}
	rawSales, err := extract.ReadTable(p.cfg.SalesCSV)
	if err != nil {
		return err
	}
	log.Info("extract_complete",
		"customers", len(rawCustomers.Rows),
		"products", len(rawProducts.Rows),
		"sales", len(rawSales.Rows))

	tr := transform.New(p.cfg.CountryCode)
	customers, customerStats := tr.Customers(rawCustomers, transform.DefaultCustomerColumns())
	products, productStats := tr.Products(rawProducts, transform.DefaultProductColumns())
	orders, items, salesStats, err := tr.Sales(rawSales, transform.DefaultSalesColumns(), customers, products)
	if err != nil {
		return fmt.Errorf("reconcile sales: %w", err)
	}
	log.Info("transform_complete",
		"customers", len(customers),
		"products", len(products),
		"orders", len(orders),
		"order_items", len(items))

	db, err := warehouse.Open(p.cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.EnsureSchema(ctx); err != nil {
		return err
	}

	load, err := p.load(ctx, db, customers, products, orders, items)
	if err != nil {
		return err
	}
	log.Info("load_complete",
		"customers_loaded", load.CustomersLoaded,
		"products_loaded", load.ProductsLoaded,
		"orders_loaded", load.OrdersLoaded,
		"order_items_loaded", load.OrderItemsLoaded)

	summary := report.Summary{
		RunID:     p.runID,
		Customers: customerStats,
		Products:  productStats,
		Sales:     salesStats,
		Load:      load,
	}
	if err := report.Write(p.cfg.ReportPath, summary); err != nil {
		return err
	}
	log.Info("run_complete", "report", p.cfg.ReportPath)
	return nil
}

func (p *Pipeline) load(ctx context.Context, db *warehouse.DB, customers []model.CleanCustomer, products []model.CleanProduct, orders []model.Order, items []model.LineItem) (model.LoadStats, error) {
	var stats model.LoadStats
	var err error
	stats.CustomersLoaded, err = db.LoadCustomers(ctx, customers)
	if err != nil {
		return stats, err
	}
	stats.ProductsLoaded, err = db.LoadProducts(ctx, products)
	if err != nil {
		return stats, err
	}
	orderStats, err := db.LoadOrders(ctx, orders, items)
	if err != nil {
		return stats, err
	}
	stats.OrdersLoaded = orderStats.OrdersLoaded
	stats.OrderItemsLoaded = orderStats.OrderItemsLoaded
	stats.MissingHandled = orderStats.MissingHandled
	return stats, nil
}
