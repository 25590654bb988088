package handler

import (
	"context"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/inventory-service/internal/model"
)

// UserDirectory is implemented by *repository.UserRepo.
type UserDirectory interface {
	List(ctx context.Context) ([]model.User, error)
	UpdateProfile(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id uint64) (model.User, error)
	Delete(ctx context.Context, id uint64) error
}

// UserHandler serves /users. Roles are changed only through /assign-role.
type UserHandler struct {
	users   UserDirectory
	timeout time.Duration
}

func NewUserHandler(users UserDirectory, timeout time.Duration) *UserHandler {
	return &UserHandler{users: users, timeout: timeout}
}

type profileReq struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	list, err := h.users.List(ctx)
	if err != nil {
		return failed("Failed to fetch users", err)
	}
	out := make([]userView, 0, len(list))
	for _, u := range list {
		out = append(out, viewUser(u))
	}
	return ok(c, "Users fetched", echo.Map{"users": out})
}

// Update rewrites username, email and names of a user.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := parseID(c, "Invalid user ID")
	if err != nil {
		return err
	}
	var req profileReq
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := required("username", req.Username, "email", req.Email,
		"firstName", req.FirstName, "lastName", req.LastName); err != nil {
		return err
	}
	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	u := &model.User{
		ID:        id,
		Username:  strings.TrimSpace(req.Username),
		Email:     req.Email,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
	}
	if err := h.users.UpdateProfile(ctx, u); err != nil {
		return failed("Failed to update user", err)
	}
	fresh, err := h.users.GetByID(ctx, id)
	if err != nil {
		return failed("Failed to update user", err)
	}
	return ok(c, "User updated", echo.Map{"user": viewUser(fresh)})
}

func (h *UserHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "Invalid user ID")
	if err != nil {
		return err
	}
	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	if err := h.users.Delete(ctx, id); err != nil {
		return failed("Failed to delete user", err)
	}
	return ok(c, "User deleted", nil)
}
