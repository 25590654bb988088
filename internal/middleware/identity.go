package middleware

// identity.go holds the context plumbing shared by the middlewares and the
// handlers: Authenticate stores the resolved user under userKey and the
// accessors below read it back.

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/inventory-service/internal/model"
)

const userKey = "user"

// SetUser records u as the authenticated principal of the request.
func SetUser(c echo.Context, u model.User) { c.Set(userKey, u) }

// CurrentUser returns the user stored by Authenticate.
func CurrentUser(c echo.Context) (model.User, bool) {
	u, ok := c.Get(userKey).(model.User)
	return u, ok
}

// userID returns the authenticated user's id as a string, or "anon".
func userID(c echo.Context) string {
	if u, ok := CurrentUser(c); ok && u.ID != 0 {
		return strconv.FormatUint(u.ID, 10)
	}
	return "anon"
}
