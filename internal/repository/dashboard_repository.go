package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/inventory-service/internal/model"
)

// DashboardRepo reads aggregate counters across the three resource tables.
type DashboardRepo struct{ DB *sql.DB }

func NewDashboardRepo(db *sql.DB) *DashboardRepo { return &DashboardRepo{DB: db} }

// Counts returns the row totals of inventory, suppliers and users in one
// round trip.
func (r *DashboardRepo) Counts(ctx context.Context) (model.DashboardCounts, error) {
	var c model.DashboardCounts
	err := r.DB.QueryRowContext(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM inventory),
		   (SELECT COUNT(*) FROM suppliers),
		   (SELECT COUNT(*) FROM users)`).
		Scan(&c.TotalProducts, &c.TotalSuppliers, &c.TotalUsers)
	return c, err
}
