package handler

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/inventory-service/internal/model"
)

// CountSource is implemented by *repository.DashboardRepo.
type CountSource interface {
	Counts(ctx context.Context) (model.DashboardCounts, error)
}

// Dashboard returns the row totals of products, suppliers and users.
func Dashboard(src CountSource, timeout time.Duration) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := requestCtx(c, timeout)
		defer cancel()

		n, err := src.Counts(ctx)
		if err != nil {
			return failed("Failed to fetch dashboard data", err)
		}
		return ok(c, "Dashboard data fetched", echo.Map{
			"totalProducts":  n.TotalProducts,
			"totalSuppliers": n.TotalSuppliers,
			"totalUsers":     n.TotalUsers,
		})
	}
}
