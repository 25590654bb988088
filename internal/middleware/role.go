package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/inventory-service/internal/auth"
	"github.com/iliyamo/inventory-service/internal/model"
)

// RequireRole admits only users whose role is one of roles. It must run
// after Authenticate; a request with no user fails with ErrMissingAuthHeader,
// a user outside the set with ErrPermissionDenied.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u, ok := CurrentUser(c)
			if !ok {
				return auth.ErrMissingAuthHeader
			}
			if !auth.Authorize(u, roles...) {
				return auth.ErrPermissionDenied
			}
			return next(c)
		}
	}
}
