// Package repository contains data access logic separated from HTTP handlers.
// This file holds the inventory queries. A Product is a stock line with a
// name, an on-hand quantity and a unit price.
package repository

import (
	"context"      // context allows passing deadlines and cancellation signals to DB operations
	"database/sql" // sql provides generic database operations and drivers
	"errors"

	"github.com/iliyamo/inventory-service/internal/model"
)

// ProductRepo encapsulates all database queries related to inventory.
type ProductRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewProductRepo constructs a ProductRepo with the provided DB handle.
func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

const productColumns = "id, product_name, quantity, price, created_at, updated_at"

// Create inserts p and then re-reads the row so that callers receive the
// generated id and the default timestamps.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO inventory (product_name, quantity, price) VALUES (?, ?, ?)",
		p.ProductName, p.Quantity, p.Price)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return r.reload(ctx, p)
}

// List returns all products ordered by id.
func (r *ProductRepo) List(ctx context.Context) ([]*model.Product, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+productColumns+" FROM inventory ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Product
	for rows.Next() {
		p := new(model.Product)
		if err := rows.Scan(&p.ID, &p.ProductName, &p.Quantity, &p.Price, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update overwrites name, quantity and price of p.ID. It returns
// ErrProductNotFound when no row matches.
func (r *ProductRepo) Update(ctx context.Context, p *model.Product) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE inventory
		 SET product_name = ?, quantity = ?, price = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		p.ProductName, p.Quantity, p.Price, p.ID)
	if err != nil {
		return err
	}
	if err := expectOne(res, ErrProductNotFound); err != nil {
		return err
	}
	return r.reload(ctx, p)
}

// Delete removes product id.
func (r *ProductRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM inventory WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectOne(res, ErrProductNotFound)
}

func (r *ProductRepo) reload(ctx context.Context, p *model.Product) error {
	err := r.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM inventory WHERE id = ?", p.ID).
		Scan(&p.ID, &p.ProductName, &p.Quantity, &p.Price, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrProductNotFound
	}
	return err
}
