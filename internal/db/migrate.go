package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rogerio-castellano/product-catalog/internal/repo"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id SERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		brand VARCHAR(255) NOT NULL DEFAULT '',
		price DOUBLE PRECISION NOT NULL DEFAULT 0,
		quantity INTEGER NOT NULL DEFAULT 0,
		image_url VARCHAR(512),
		created_by VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS pricing_details (
		id SERIAL PRIMARY KEY,
		product_id INTEGER NOT NULL UNIQUE REFERENCES products(id),
		discount_percentage DOUBLE PRECISION NOT NULL DEFAULT 0,
		discount_price DOUBLE PRECISION NOT NULL DEFAULT 0,
		tax_percentage DOUBLE PRECISION NOT NULL DEFAULT 18,
		tax_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
		net_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
		total_price DOUBLE PRECISION NOT NULL DEFAULT 0
	)`,
}

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		brand VARCHAR(255) NOT NULL DEFAULT '',
		price DOUBLE NOT NULL DEFAULT 0,
		quantity INT NOT NULL DEFAULT 0,
		image_url VARCHAR(512) NULL,
		created_by VARCHAR(255) NOT NULL,
		created_at DATETIME(6) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS pricing_details (
		id INT AUTO_INCREMENT PRIMARY KEY,
		product_id INT NOT NULL UNIQUE,
		discount_percentage DOUBLE NOT NULL DEFAULT 0,
		discount_price DOUBLE NOT NULL DEFAULT 0,
		tax_percentage DOUBLE NOT NULL DEFAULT 18,
		tax_amount DOUBLE NOT NULL DEFAULT 0,
		net_amount DOUBLE NOT NULL DEFAULT 0,
		total_price DOUBLE NOT NULL DEFAULT 0,
		CONSTRAINT fk_pricing_details_product FOREIGN KEY (product_id) REFERENCES products(id)
	)`,
}

// Schema returns the idempotent DDL statements for a dialect.
func Schema(d repo.Dialect) []string {
	if d == repo.MySQL {
		return mysqlSchema
	}
	return postgresSchema
}

// Migrate creates the catalog tables when they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB, d repo.Dialect) error {
	for _, stmt := range Schema(d) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate %s schema: %w", d, err)
		}
	}
	return nil
}
