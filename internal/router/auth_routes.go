package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/inventory-service/internal/auth"
	"github.com/iliyamo/inventory-service/internal/middleware"
)

// RegisterAuth registers the credential endpoints. /register and /login sit
// behind the rate limiter; /logout validates the token itself.
func RegisterAuth(e *echo.Echo, d Deps) {
	a := d.Auth
	e.POST("/register", a.Register, d.rateLimit(), d.invalidates("dashboard-data"))
	e.POST("/login", a.Login, d.rateLimit())
	e.POST("/logout", a.Logout)
	e.GET("/me", a.Me, d.authenticate())
	e.POST("/assign-role", a.AssignRole, d.authenticate(), middleware.RequireRole(auth.RoleManagers...))
}
