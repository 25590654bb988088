package middleware

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/inventory-service/internal/model"
)

// Authenticator resolves an Authorization header to the user holding the
// token. *auth.Service satisfies it.
type Authenticator interface {
	AuthenticateRequest(ctx context.Context, header string) (model.User, error)
}

// Authenticate rejects requests without a valid bearer token. The failure
// is returned as-is so the HTTP error handler maps it to 401. On success the
// user is available through CurrentUser.
func Authenticate(a Authenticator, timeout time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
			defer cancel()
			u, err := a.AuthenticateRequest(ctx, c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return err
			}
			SetUser(c, u)
			return next(c)
		}
	}
}
