package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second

	maxOpenConns    = 5
	maxIdleConns    = 5
	connMaxLifetime = 5 * time.Minute
)

func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open catalog db: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	if err := withTimeout(ctx, pingTimeout, db.PingContext); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping catalog db: %w", err)
	}
	return db, nil
}

// LoadPostgres reads the whole products table once. The returned catalog does
// not keep a reference to db.
func LoadPostgres(ctx context.Context, db *sql.DB) (*Catalog, error) {
	var products []Product

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		rows, err := db.QueryContext(ctx, `
			SELECT item_id, item_name, price, initial_stock
			FROM products
			ORDER BY item_id ASC
		`)
		if err != nil {
			return err
		}
		defer rows.Close()

		products = make([]Product, 0, 16)
		for rows.Next() {
			var p Product
			if err := rows.Scan(&p.ItemID, &p.ItemName, &p.Price, &p.InitialStock); err != nil {
				return err
			}
			products = append(products, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	return New(products)
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
