package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rogerio-castellano/product-catalog/internal/models"
)

// DefaultQueryTimeout bounds each repository call when no timeout is configured.
const DefaultQueryTimeout = 3 * time.Second

const selectProducts = `SELECT p.id, p.name, p.brand, p.price, p.quantity, p.image_url, p.created_by, p.created_at,
	d.id, d.discount_percentage, d.discount_price, d.tax_percentage, d.tax_amount, d.net_amount, d.total_price
	FROM products p LEFT JOIN pricing_details d ON d.product_id = p.id`

// SQLProductRepository stores products in PostgreSQL or MySQL through database/sql.
type SQLProductRepository struct {
	db      *sql.DB
	dialect Dialect
	timeout time.Duration
}

func NewSQLProductRepository(db *sql.DB, dialect Dialect, timeout time.Duration) *SQLProductRepository {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return &SQLProductRepository{db: db, dialect: dialect, timeout: timeout}
}

func (r *SQLProductRepository) Save(ctx context.Context, p *models.Product) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	saved := p.Clone()
	if saved.ID == 0 {
		id, err := r.insertProduct(ctx, tx, saved)
		if err != nil {
			return nil, err
		}
		saved.ID = id
	} else if err := r.updateProduct(ctx, tx, saved); err != nil {
		return nil, err
	}

	if d := saved.Details(); d != nil {
		saved.SetDetails(d)
		if err := r.saveDetails(ctx, tx, saved.ID, d); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit save: %w", err)
	}
	return saved, nil
}

func (r *SQLProductRepository) insertProduct(ctx context.Context, tx *sql.Tx, p *models.Product) (int, error) {
	query := `INSERT INTO products (name, brand, price, quantity, image_url, created_by, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
	args := []any{p.Name, p.Brand, p.Price, p.Quantity, nullString(p.ImageURL), p.CreatedBy, p.CreatedAt}

	if r.dialect == Postgres {
		var id int
		if err := tx.QueryRowContext(ctx, r.dialect.Rebind(query+" RETURNING id"), args...).Scan(&id); err != nil {
			return 0, fmt.Errorf("insert product: %w", err)
		}
		return id, nil
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert product: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert product id: %w", err)
	}
	return int(id), nil
}

func (r *SQLProductRepository) updateProduct(ctx context.Context, tx *sql.Tx, p *models.Product) error {
	var exists int
	err := tx.QueryRowContext(ctx, r.dialect.Rebind(`SELECT 1 FROM products WHERE id = ?`), p.ID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrProductNotFound
	}
	if err != nil {
		return fmt.Errorf("lookup product %d: %w", p.ID, err)
	}

	// created_by and created_at are never rewritten after the insert.
	query := `UPDATE products SET name = ?, brand = ?, price = ?, quantity = ?, image_url = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, r.dialect.Rebind(query), p.Name, p.Brand, p.Price, p.Quantity, nullString(p.ImageURL), p.ID); err != nil {
		return fmt.Errorf("update product %d: %w", p.ID, err)
	}
	return nil
}

func (r *SQLProductRepository) saveDetails(ctx context.Context, tx *sql.Tx, productID int, d *models.PricingDetail) error {
	amounts := []any{d.DiscountPercentage, d.DiscountPrice, d.TaxPercentage, d.TaxAmount, d.NetAmount, d.TotalPrice}

	if d.ID != 0 {
		query := `UPDATE pricing_details SET discount_percentage = ?, discount_price = ?, tax_percentage = ?,
			tax_amount = ?, net_amount = ?, total_price = ? WHERE id = ? AND product_id = ?`
		if _, err := tx.ExecContext(ctx, r.dialect.Rebind(query), append(amounts, d.ID, productID)...); err != nil {
			return fmt.Errorf("update pricing details: %w", err)
		}
		return nil
	}

	query := `INSERT INTO pricing_details (product_id, discount_percentage, discount_price, tax_percentage,
		tax_amount, net_amount, total_price) VALUES (?, ?, ?, ?, ?, ?, ?)`
	args := append([]any{productID}, amounts...)

	if r.dialect == Postgres {
		if err := tx.QueryRowContext(ctx, r.dialect.Rebind(query+" RETURNING id"), args...).Scan(&d.ID); err != nil {
			return fmt.Errorf("insert pricing details: %w", err)
		}
		return nil
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("insert pricing details: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert pricing details id: %w", err)
	}
	d.ID = int(id)
	return nil
}

func (r *SQLProductRepository) FindByID(ctx context.Context, id int) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, r.dialect.Rebind(selectProducts+` WHERE p.id = ?`), id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product %d: %w", id, err)
	}
	return p, nil
}

func (r *SQLProductRepository) FindAll(ctx context.Context) ([]*models.Product, error) {
	return r.query(ctx, selectProducts+` ORDER BY p.id`)
}

func (r *SQLProductRepository) FindByNameContaining(ctx context.Context, term string) ([]*models.Product, error) {
	query := selectProducts + ` WHERE ` + r.dialect.NameContains("p.name") + ` ORDER BY p.id`
	return r.query(ctx, r.dialect.Rebind(query), ContainsPattern(term))
}

func (r *SQLProductRepository) ExistsByID(ctx context.Context, id int) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var count int
	if err := r.db.QueryRowContext(ctx, r.dialect.Rebind(`SELECT COUNT(*) FROM products WHERE id = ?`), id).Scan(&count); err != nil {
		return false, fmt.Errorf("check product %d: %w", id, err)
	}
	return count > 0, nil
}

// DeleteByID removes the pricing detail before the product inside one transaction.
func (r *SQLProductRepository) DeleteByID(ctx context.Context, id int) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, r.dialect.Rebind(`DELETE FROM pricing_details WHERE product_id = ?`), id); err != nil {
		return fmt.Errorf("delete pricing details of %d: %w", id, err)
	}
	res, err := tx.ExecContext(ctx, r.dialect.Rebind(`DELETE FROM products WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return tx.Commit()
}

func (r *SQLProductRepository) query(ctx context.Context, query string, args ...any) ([]*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := []*models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (*models.Product, error) {
	var (
		p        models.Product
		imageURL sql.NullString
		detailID sql.NullInt64
		amounts  [6]sql.NullFloat64
	)
	err := s.Scan(&p.ID, &p.Name, &p.Brand, &p.Price, &p.Quantity, &imageURL, &p.CreatedBy, &p.CreatedAt,
		&detailID, &amounts[0], &amounts[1], &amounts[2], &amounts[3], &amounts[4], &amounts[5])
	if err != nil {
		return nil, err
	}
	p.ImageURL = imageURL.String

	if detailID.Valid {
		p.RestoreDetails(models.PricingDetail{
			ID:                 int(detailID.Int64),
			DiscountPercentage: amounts[0].Float64,
			DiscountPrice:      amounts[1].Float64,
			TaxPercentage:      amounts[2].Float64,
			TaxAmount:          amounts[3].Float64,
			NetAmount:          amounts[4].Float64,
			TotalPrice:         amounts[5].Float64,
		})
	}
	return &p, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
