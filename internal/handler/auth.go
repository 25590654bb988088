package handler

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/inventory-service/internal/auth"
	"github.com/iliyamo/inventory-service/internal/middleware"
	"github.com/iliyamo/inventory-service/internal/model"
)

// AuthService is the part of *auth.Service the HTTP layer calls.
type AuthService interface {
	Register(ctx context.Context, in auth.RegisterInput) (model.User, error)
	Login(ctx context.Context, email, password string) (model.User, string, error)
	AssignRole(ctx context.Context, actingID, targetID uint64, newRole string) error
	Logout(ctx context.Context, token string) error
}

// AuthHandler serves registration, login, role assignment and logout.
type AuthHandler struct {
	svc     AuthService
	timeout time.Duration
}

func NewAuthHandler(svc AuthService, timeout time.Duration) *AuthHandler {
	return &AuthHandler{svc: svc, timeout: timeout}
}

type registerReq struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// assignRoleReq accepts adminId for older clients; the acting user is
// always the bearer of the request.
type assignRoleReq struct {
	AdminID uint64 `json:"adminId"`
	UserID  uint64 `json:"userId"`
	NewRole string `json:"newRole"`
}

// Register creates a user with role "user".
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	u, err := h.svc.Register(ctx, auth.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		return failed("Failed to register user", err)
	}
	return ok(c, "User registered", echo.Map{
		"user": echo.Map{"id": u.ID, "username": u.Username, "email": u.Email, "role": u.Role},
	})
}

// Login returns a fresh bearer token. Any previous token of the user stops
// working.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := required("email", req.Email, "password", req.Password); err != nil {
		return err
	}
	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	u, token, err := h.svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return failed("Login failed", err)
	}
	return ok(c, "Login successful", echo.Map{
		"user":  echo.Map{"id": u.ID, "role": u.Role},
		"token": token,
	})
}

// AssignRole changes the role of another user. Only a super_admin may call
// it.
func (h *AuthHandler) AssignRole(c echo.Context) error {
	actor, found := middleware.CurrentUser(c)
	if !found {
		return auth.ErrMissingAuthHeader
	}
	var req assignRoleReq
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.UserID == 0 {
		return &auth.ValidationError{Fields: []string{"userId"}}
	}
	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	if err := h.svc.AssignRole(ctx, actor.ID, req.UserID, req.NewRole); err != nil {
		return failed("Failed to update role", err)
	}
	return ok(c, "Role updated successfully", nil)
}

// Logout invalidates the bearer token of the request.
func (h *AuthHandler) Logout(c echo.Context) error {
	token, err := auth.BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
	if err != nil {
		return err
	}
	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	if err := h.svc.Logout(ctx, token); err != nil {
		return failed("Logout failed", err)
	}
	return ok(c, "Logout successful", nil)
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c echo.Context) error {
	u, found := middleware.CurrentUser(c)
	if !found {
		return auth.ErrMissingAuthHeader
	}
	return ok(c, "User fetched", echo.Map{"user": viewUser(u)})
}
