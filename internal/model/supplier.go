package model

import "time"

// Supplier represents a company that provides inventory. This struct
// corresponds to a row in the `suppliers` table.
type Supplier struct {
	ID          uint64    // suppliers.id
	CompanyName string    // suppliers.company_name
	CreatedAt   time.Time // suppliers.created_at
	UpdatedAt   time.Time // suppliers.updated_at
}

// DashboardCounts holds the row totals shown on the dashboard.
type DashboardCounts struct {
	TotalProducts  int64
	TotalSuppliers int64
	TotalUsers     int64
}
