package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/inventory-service/internal/model"
)

// SupplierRepo encapsulates all database queries related to suppliers.
type SupplierRepo struct {
	db *sql.DB
}

func NewSupplierRepo(db *sql.DB) *SupplierRepo {
	return &SupplierRepo{db: db}
}

const supplierColumns = "id, company_name, created_at, updated_at"

// Create inserts s and populates its id and timestamps.
func (r *SupplierRepo) Create(ctx context.Context, s *model.Supplier) error {
	res, err := r.db.ExecContext(ctx, "INSERT INTO suppliers (company_name) VALUES (?)", s.CompanyName)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return r.reload(ctx, s)
}

// List returns all suppliers ordered by id.
func (r *SupplierRepo) List(ctx context.Context) ([]*model.Supplier, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+supplierColumns+" FROM suppliers ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Supplier
	for rows.Next() {
		s := new(model.Supplier)
		if err := rows.Scan(&s.ID, &s.CompanyName, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateName renames supplier s.ID. ErrSupplierNotFound when no row matches.
func (r *SupplierRepo) UpdateName(ctx context.Context, s *model.Supplier) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE suppliers SET company_name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		s.CompanyName, s.ID)
	if err != nil {
		return err
	}
	if err := expectOne(res, ErrSupplierNotFound); err != nil {
		return err
	}
	return r.reload(ctx, s)
}

// Delete removes supplier id.
func (r *SupplierRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM suppliers WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectOne(res, ErrSupplierNotFound)
}

func (r *SupplierRepo) reload(ctx context.Context, s *model.Supplier) error {
	err := r.db.QueryRowContext(ctx, "SELECT "+supplierColumns+" FROM suppliers WHERE id = ?", s.ID).
		Scan(&s.ID, &s.CompanyName, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrSupplierNotFound
	}
	return err
}
