package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/inventory-service/internal/auth"
	"github.com/iliyamo/inventory-service/internal/repository"
)

// envelope is the body of every JSON response.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func ok(c echo.Context, message string, data any) error {
	return c.JSON(http.StatusOK, envelope{Success: true, Message: message, Data: data})
}

// badRequest is a client error detected by a handler before any service
// call, such as a malformed body or id.
type badRequest string

func (b badRequest) Error() string { return string(b) }

// opError attaches the message shown to clients when err turns into a 500.
type opError struct {
	msg string
	err error
}

func (e *opError) Error() string { return fmt.Sprintf("%s: %v", e.msg, e.err) }
func (e *opError) Unwrap() error { return e.err }

func failed(msg string, err error) error { return &opError{msg: msg, err: err} }

// statusFor maps an error returned by a handler or middleware to the HTTP
// status and the message sent to the client.
func statusFor(err error) (int, string) {
	var (
		br  badRequest
		ve  *auth.ValidationError
		he  *echo.HTTPError
		ope *opError
	)
	if errors.Is(err, auth.ErrStorage) {
		if errors.As(err, &ope) {
			return http.StatusInternalServerError, ope.msg
		}
		return http.StatusInternalServerError, "Internal server error"
	}
	switch {
	case errors.As(err, &br):
		return http.StatusBadRequest, string(br)
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Error()
	case errors.Is(err, auth.ErrValidation):
		return http.StatusBadRequest, "Invalid request"
	case errors.Is(err, auth.ErrInvalidRole):
		return http.StatusBadRequest, "Invalid role"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, auth.ErrMissingAuthHeader):
		return http.StatusUnauthorized, "Authorization header is missing"
	case errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized, "Token is missing"
	case errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized, "Invalid token"
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden, "Not authorized to update role"
	case errors.Is(err, auth.ErrPermissionDenied):
		return http.StatusForbidden, "Permission denied"
	case errors.Is(err, repository.ErrEmailExists):
		return http.StatusConflict, "Email already exists"
	case errors.Is(err, repository.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, repository.ErrProductNotFound):
		return http.StatusNotFound, "Product not found"
	case errors.Is(err, repository.ErrSupplierNotFound):
		return http.StatusNotFound, "Supplier not found"
	case errors.As(err, &he):
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok && s != "" {
			msg = s
		}
		return he.Code, msg
	case errors.As(err, &ope):
		return http.StatusInternalServerError, ope.msg
	}
	return http.StatusInternalServerError, "Internal server error"
}

// ErrorHandler renders every error as an envelope. Server errors are logged
// with their cause; the client only sees the mapped message.
func ErrorHandler(log logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, msg := statusFor(err)
		if status >= http.StatusInternalServerError {
			log.WithError(err).WithFields(logrus.Fields{
				"method": c.Request().Method,
				"route":  c.Path(),
			}).Error("request failed")
		}
		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, envelope{Success: false, Message: msg})
		}
		if werr != nil {
			log.WithError(werr).Warn("write error response")
		}
	}
}
