// Package router wires handlers and middlewares onto an echo instance.
package router

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/inventory-service/internal/handler"
	"github.com/iliyamo/inventory-service/internal/logging"
	"github.com/iliyamo/inventory-service/internal/metrics"
	"github.com/iliyamo/inventory-service/internal/middleware"
)

// Deps holds everything the routes need. Cache and RateLimit may be left
// nil to run without them.
type Deps struct {
	Auth      *handler.AuthHandler
	Inventory *handler.InventoryHandler
	Suppliers *handler.SupplierHandler
	Users     *handler.UserHandler
	Dashboard echo.HandlerFunc

	Authenticator middleware.Authenticator
	DB            handler.Pinger
	RateLimit     echo.MiddlewareFunc
	Cache         *middleware.ResponseCache

	CORSOrigins []string
	Timeout     time.Duration
	Log         logrus.FieldLogger
}

// New builds the echo instance with the global middleware chain and every
// route registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ErrorHandler(d.Log)

	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	e.Use(
		logging.RequestID(),
		logging.RequestLogger(d.Log),
		metrics.Middleware(),
		echomw.Recover(),
		echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
			AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
		}),
	)

	RegisterRoutes(e, d)
	RegisterAuth(e, d)
	RegisterCatalog(e, d)
	RegisterUsers(e, d)
	return e
}

// RegisterRoutes registers the operational endpoints.
func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)
	if d.DB != nil {
		e.GET("/readyz", handler.Ready(d.DB))
	}
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
}

func (d Deps) authenticate() echo.MiddlewareFunc {
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = handler.DefaultTimeout
	}
	return middleware.Authenticate(d.Authenticator, timeout)
}

func (d Deps) rateLimit() echo.MiddlewareFunc {
	if d.RateLimit == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return d.RateLimit
}

func (d Deps) cached() echo.MiddlewareFunc {
	if d.Cache == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return d.Cache.Middleware()
}

// invalidates drops the cached reads of groups after a successful mutation.
func (d Deps) invalidates(groups ...string) echo.MiddlewareFunc {
	if d.Cache == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return d.Cache.Invalidate(groups...)
}
