package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/inventory-service/internal/auth"
	"github.com/iliyamo/inventory-service/internal/middleware"
)

// RegisterCatalog registers inventory, suppliers and the dashboard. Reads
// are public and cached; writes need a catalog writer role and purge the
// cached reads they affect.
func RegisterCatalog(e *echo.Echo, d Deps) {
	writers := func(groups ...string) []echo.MiddlewareFunc {
		return []echo.MiddlewareFunc{
			d.authenticate(),
			middleware.RequireRole(auth.CatalogWriters...),
			d.invalidates(groups...),
		}
	}

	inv := d.Inventory
	e.GET("/inventory", inv.List, d.cached())
	w := writers("inventory", "dashboard-data")
	e.POST("/inventory", inv.Create, w...)
	e.PUT("/inventory/:id", inv.Update, w...)
	e.DELETE("/inventory/:id", inv.Delete, w...)

	sup := d.Suppliers
	e.GET("/suppliers", sup.List, d.cached())
	w = writers("suppliers", "dashboard-data")
	e.POST("/suppliers", sup.Create, w...)
	e.PUT("/suppliers/:id", sup.Update, w...)
	e.DELETE("/suppliers/:id", sup.Delete, w...)

	e.GET("/dashboard-data", d.Dashboard, d.cached())
}

// RegisterUsers registers the user directory. Listing needs any valid
// token; changes need a user manager role.
func RegisterUsers(e *echo.Echo, d Deps) {
	u := d.Users
	e.GET("/users", u.List, d.authenticate(), middleware.RequireRole(auth.Authenticated...))
	managers := []echo.MiddlewareFunc{
		d.authenticate(),
		middleware.RequireRole(auth.UserManagers...),
		d.invalidates("dashboard-data"),
	}
	e.PUT("/users/:id", u.Update, managers...)
	e.DELETE("/users/:id", u.Delete, managers...)
}
