// Package warehouse is the relational load stage. It owns the target schema
// and the resolution of transform output against generated ids: customer
// references to customer_id, product references to product_id, and each line
// item's order key to the order id minted at insert time.
package warehouse

import (
	"context"
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/fleximart/fleximart-etl/internal/config"
	"github.com/fleximart/fleximart-etl/internal/model"
	"github.com/fleximart/fleximart-etl/internal/obs"
)

//go:embed schema_sqlite.sql
var schemaSQLite string

//go:embed schema_mysql.sql
var schemaMySQL string

//go:embed schema_postgres.sql
var schemaPostgres string

func init() {
	// modernc registers its driver as "sqlite", which sqlx does not know a
	// bindvar style for.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// DB wraps the warehouse connection together with its SQL dialect.
type DB struct {
	db      *sqlx.DB
	dialect string
}

// Open connects to the warehouse selected by DB_TYPE.
func Open(cfg config.Config) (*DB, error) {
	var (
		db  *sqlx.DB
		err error
	)
	switch cfg.DBType {
	case "sqlite":
		db, err = sqlx.Open("sqlite", cfg.DBPath)
		if db != nil {
			// A pool of connections to :memory: would each see a
			// different database.
			db.SetMaxOpenConns(1)
		}
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
		db, err = sqlx.Open("mysql", dsn)
	case "postgres":
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
		db, err = sqlx.Open("pgx", dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q", cfg.DBType)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s warehouse: %w", cfg.DBType, err)
	}
	return &DB{db: db, dialect: cfg.DBType}, nil
}

// Close releases the underlying connection.
func (d *DB) Close() error { return d.db.Close() }

// EnsureSchema creates the warehouse tables when they do not exist yet.
func (d *DB) EnsureSchema(ctx context.Context) error {
	schema := schemaSQLite
	switch d.dialect {
	case "mysql":
		schema = schemaMySQL
	case "postgres":
		schema = schemaPostgres
	}
	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// LoadCustomers inserts cleaned customers, skipping rows whose email already
// exists. It returns the number of rows actually written.
func (d *DB) LoadCustomers(ctx context.Context, customers []model.CleanCustomer) (int, error) {
	q := `INSERT INTO customers (first_name, last_name, email, phone, city, registration_date)
	      VALUES (:first_name, :last_name, :email, :phone, :city, :registration_date)
	      ON CONFLICT (email) DO NOTHING`
	if d.dialect == "mysql" {
		q = `INSERT INTO customers (first_name, last_name, email, phone, city, registration_date)
		     VALUES (:first_name, :last_name, :email, :phone, :city, :registration_date)
		     ON DUPLICATE KEY UPDATE email=email`
	}
	loaded := 0
	for _, c := range customers {
		args := map[string]any{
			"first_name":        c.FirstName,
			"last_name":         c.LastName,
			"email":             c.Email,
			"phone":             nullable(c.Phone),
			"city":              nullable(c.City),
			"registration_date": c.RegistrationDate,
		}
		res, err := sqlx.NamedExecContext(ctx, d.db, q, args)
		if err != nil {
			obs.Logger.Warn("customer_insert_skipped", "email", c.Email, "error", err)
			continue
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			loaded++
		}
	}
	return loaded, nil
}

// LoadProducts inserts cleaned products and returns the number written.
// Duplicates were already removed by the transform stage.
func (d *DB) LoadProducts(ctx context.Context, products []model.CleanProduct) (int, error) {
	q := `INSERT INTO products (product_name, category, price, stock_quantity)
	      VALUES (:product_name, :category, :price, :stock_quantity)`
	loaded := 0
	for _, p := range products {
		if _, err := sqlx.NamedExecContext(ctx, d.db, q, p); err != nil {
			obs.Logger.Warn("product_insert_skipped", "product_name", p.ProductName, "error", err)
			continue
		}
		loaded++
	}
	return loaded, nil
}

// LoadOrders inserts orders and their items. Customer and product references
// are resolved against the loaded tables (emails and product names look up
// their generated ids, numeric references pass through), and each item's
// order key maps to the order id minted for its group. Rows whose references
// do not resolve are skipped and counted.
func (d *DB) LoadOrders(ctx context.Context, orders []model.Order, items []model.LineItem) (model.LoadStats, error) {
	var stats model.LoadStats

	emailToID, err := d.customerIDs(ctx, orders)
	if err != nil {
		return stats, err
	}
	nameToID, err := d.productIDs(ctx, items)
	if err != nil {
		return stats, err
	}

	insertOrder := `INSERT INTO orders (customer_id, order_date, total_amount, status)
	                VALUES (?, ?, ?, ?)`
	keyToID := make(map[string]int64, len(orders))
	for _, o := range orders {
		custID, ok := resolveRef(o.CustomerRef, emailToID)
		if !ok {
			obs.Logger.Warn("order_skipped_unresolved_customer", "order_key", o.OrderKey, "customer_ref", o.CustomerRef)
			stats.MissingHandled++
			continue
		}
		var orderID int64
		if d.dialect == "postgres" {
			q := d.db.Rebind(insertOrder + " RETURNING order_id")
			if err := d.db.QueryRowContext(ctx, q, custID, o.OrderDate, o.TotalAmount, o.Status).Scan(&orderID); err != nil {
				obs.Logger.Warn("order_insert_skipped", "order_key", o.OrderKey, "error", err)
				continue
			}
		} else {
			res, err := d.db.ExecContext(ctx, d.db.Rebind(insertOrder), custID, o.OrderDate, o.TotalAmount, o.Status)
			if err != nil {
				obs.Logger.Warn("order_insert_skipped", "order_key", o.OrderKey, "error", err)
				continue
			}
			orderID, err = res.LastInsertId()
			if err != nil {
				return stats, fmt.Errorf("order id for %s: %w", o.OrderKey, err)
			}
		}
		keyToID[o.OrderKey] = orderID
		stats.OrdersLoaded++
	}

	insertItem := d.db.Rebind(`INSERT INTO order_items (order_id, product_id, quantity, unit_price, subtotal)
	                           VALUES (?, ?, ?, ?, ?)`)
	for _, it := range items {
		orderID, ok := keyToID[it.OrderKey]
		if !ok {
			stats.MissingHandled++
			continue
		}
		prodID, ok := resolveRef(it.ProductRef, nameToID)
		if !ok {
			obs.Logger.Warn("item_skipped_unresolved_product", "order_key", it.OrderKey, "product_ref", it.ProductRef)
			stats.MissingHandled++
			continue
		}
		if _, err := d.db.ExecContext(ctx, insertItem, orderID, prodID, it.Quantity, it.UnitPrice, it.Subtotal); err != nil {
			obs.Logger.Warn("item_insert_skipped", "order_key", it.OrderKey, "product_ref", it.ProductRef, "error", err)
			continue
		}
		stats.OrderItemsLoaded++
	}
	return stats, nil
}

// customerIDs maps the non-numeric customer references of the given orders to
// their generated customer ids.
func (d *DB) customerIDs(ctx context.Context, orders []model.Order) (map[string]int64, error) {
	var emails []string
	seen := map[string]struct{}{}
	for _, o := range orders {
		if _, err := strconv.ParseInt(o.CustomerRef, 10, 64); err == nil {
			continue
		}
		if _, ok := seen[o.CustomerRef]; ok {
			continue
		}
		seen[o.CustomerRef] = struct{}{}
		emails = append(emails, o.CustomerRef)
	}
	return d.lookupIDs(ctx, "SELECT customer_id, email FROM customers WHERE email IN (?)", emails)
}

// productIDs maps the non-numeric product references of the given items to
// their generated product ids.
func (d *DB) productIDs(ctx context.Context, items []model.LineItem) (map[string]int64, error) {
	var names []string
	seen := map[string]struct{}{}
	for _, it := range items {
		if _, err := strconv.ParseInt(it.ProductRef, 10, 64); err == nil {
			continue
		}
		if _, ok := seen[it.ProductRef]; ok {
			continue
		}
		seen[it.ProductRef] = struct{}{}
		names = append(names, it.ProductRef)
	}
	return d.lookupIDs(ctx, "SELECT product_id, product_name FROM products WHERE product_name IN (?)", names)
}

func (d *DB) lookupIDs(ctx context.Context, query string, keys []string) (map[string]int64, error) {
	out := make(map[string]int64, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	q, args, err := sqlx.In(query, keys)
	if err != nil {
		return nil, err
	}
	rows, err := d.db.QueryContext(ctx, d.db.Rebind(q), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var key string
		if err := rows.Scan(&id, &key); err != nil {
			return nil, err
		}
		out[key] = id
	}
	return out, rows.Err()
}

// resolveRef turns a reference into a warehouse id: numeric references pass
// through, everything else consults the lookup built from the loaded table.
func resolveRef(ref string, byKey map[string]int64) (int64, bool) {
	if n, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return n, true
	}
	id, ok := byKey[ref]
	return id, ok
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
