package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/inventory-service/internal/auth"
	"github.com/iliyamo/inventory-service/internal/middleware"
	"github.com/iliyamo/inventory-service/internal/model"
	"github.com/iliyamo/inventory-service/internal/repository"
)

type response struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newEcho(t *testing.T) *echo.Echo {
	t.Helper()
	log, _ := test.NewNullLogger()
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(log)
	return e
}

func as(u model.User) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			middleware.SetUser(c, u)
			return next(c)
		}
	}
}

func do(t *testing.T, e *echo.Echo, method, target, body string, hdr ...string) (int, response) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	var r response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &r), rec.Body.String())
	return rec.Code, r
}

type fakeAuth struct {
	registerErr error
	loginErr    error
	assignErr   error
	logoutErr   error

	gotRegister           auth.RegisterInput
	gotActor, gotTarget   uint64
	gotRole, gotLogoutTok string
}

func (f *fakeAuth) Register(_ context.Context, in auth.RegisterInput) (model.User, error) {
	f.gotRegister = in
	if f.registerErr != nil {
		return model.User{}, f.registerErr
	}
	return model.User{ID: 11, Username: in.Username, Email: in.Email, Role: model.RoleUser}, nil
}

func (f *fakeAuth) Login(_ context.Context, email, _ string) (model.User, string, error) {
	if f.loginErr != nil {
		return model.User{}, "", f.loginErr
	}
	return model.User{ID: 11, Email: email, Role: model.RoleAdmin}, "tok", nil
}

func (f *fakeAuth) AssignRole(_ context.Context, actingID, targetID uint64, newRole string) error {
	f.gotActor, f.gotTarget, f.gotRole = actingID, targetID, newRole
	return f.assignErr
}

func (f *fakeAuth) Logout(_ context.Context, token string) error {
	f.gotLogoutTok = token
	return f.logoutErr
}

func TestRegister(t *testing.T) {
	svc := &fakeAuth{}
	e := newEcho(t)
	h := NewAuthHandler(svc, time.Second)
	e.POST("/register", h.Register)

	code, r := do(t, e, http.MethodPost, "/register",
		`{"username":"alice","email":"alice@example.com","firstName":"A","lastName":"L","password":"hunter2"}`)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, r.Success)
	assert.Equal(t, "User registered", r.Message)
	assert.JSONEq(t, `{"user":{"id":11,"username":"alice","email":"alice@example.com","role":"user"}}`, string(r.Data))
	assert.Equal(t, "hunter2", svc.gotRegister.Password)

	svc.registerErr = &auth.ValidationError{Fields: []string{"firstName", "password"}}
	code, r = do(t, e, http.MethodPost, "/register", `{"username":"alice"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, r.Success)
	assert.Equal(t, "The following fields are required: firstName, password", r.Message)
	assert.Equal(t, "null", string(r.Data))

	svc.registerErr = fmt.Errorf("%w: %w", auth.ErrStorage, repository.ErrEmailExists)
	code, r = do(t, e, http.MethodPost, "/register", `{"username":"alice"}`)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Failed to register user", r.Message)

	code, r = do(t, e, http.MethodPost, "/register", `{not json`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid JSON format", r.Message)
}

func TestLogin(t *testing.T) {
	svc := &fakeAuth{}
	e := newEcho(t)
	h := NewAuthHandler(svc, time.Second)
	e.POST("/login", h.Login)

	code, r := do(t, e, http.MethodPost, "/login", `{"email":"a@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Login successful", r.Message)
	assert.JSONEq(t, `{"user":{"id":11,"role":"admin"},"token":"tok"}`, string(r.Data))

	code, r = do(t, e, http.MethodPost, "/login", `{"email":"a@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "The following fields are required: password", r.Message)

	svc.loginErr = auth.ErrInvalidCredentials
	code, r = do(t, e, http.MethodPost, "/login", `{"email":"a@example.com","password":"bad"}`)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid credentials", r.Message)
}

func TestAssignRole(t *testing.T) {
	svc := &fakeAuth{}
	e := newEcho(t)
	h := NewAuthHandler(svc, time.Second)
	e.POST("/assign-role", h.AssignRole, as(model.User{ID: 1, Role: model.RoleSuperAdmin}))

	code, r := do(t, e, http.MethodPost, "/assign-role", `{"adminId":99,"userId":5,"newRole":"admin"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Role updated successfully", r.Message)
	assert.Equal(t, uint64(1), svc.gotActor, "acting user comes from the token, not the body")
	assert.Equal(t, uint64(5), svc.gotTarget)
	assert.Equal(t, "admin", svc.gotRole)

	code, _ = do(t, e, http.MethodPost, "/assign-role", `{"newRole":"admin"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	for err, want := range map[error]int{
		auth.ErrForbidden:    http.StatusForbidden,
		auth.ErrInvalidRole:  http.StatusBadRequest,
		auth.ErrUserNotFound: http.StatusNotFound,
	} {
		svc.assignErr = err
		code, r = do(t, e, http.MethodPost, "/assign-role", `{"userId":5,"newRole":"x"}`)
		assert.Equal(t, want, code, err.Error())
		assert.False(t, r.Success)
	}
}

func TestAssignRoleWithoutUser(t *testing.T) {
	e := newEcho(t)
	e.POST("/assign-role", NewAuthHandler(&fakeAuth{}, time.Second).AssignRole)
	code, _ := do(t, e, http.MethodPost, "/assign-role", `{"userId":5,"newRole":"admin"}`)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestLogoutAndMe(t *testing.T) {
	svc := &fakeAuth{}
	e := newEcho(t)
	h := NewAuthHandler(svc, time.Second)
	e.POST("/logout", h.Logout)
	e.GET("/me", h.Me, as(model.User{ID: 3, Username: "bob", Email: "bob@example.com", PasswordHash: "secret-hash", Role: model.RoleUser}))

	code, r := do(t, e, http.MethodPost, "/logout", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Authorization header is missing", r.Message)

	code, r = do(t, e, http.MethodPost, "/logout", "", echo.HeaderAuthorization, "Bearer")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Token is missing", r.Message)

	code, r = do(t, e, http.MethodPost, "/logout", "", echo.HeaderAuthorization, "Bearer abc")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Logout successful", r.Message)
	assert.Equal(t, "abc", svc.gotLogoutTok)

	svc.logoutErr = auth.ErrInvalidToken
	code, r = do(t, e, http.MethodPost, "/logout", "", echo.HeaderAuthorization, "Bearer abc")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid token", r.Message)

	code, r = do(t, e, http.MethodGet, "/me", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"user":{"id":3,"username":"bob","email":"bob@example.com","role":"user"}}`, string(r.Data))
}

type memProducts struct {
	items map[uint64]*model.Product
	next  uint64
	fail  error
}

func newMemProducts() *memProducts { return &memProducts{items: map[uint64]*model.Product{}} }

func (m *memProducts) Create(_ context.Context, p *model.Product) error {
	if m.fail != nil {
		return m.fail
	}
	m.next++
	p.ID = m.next
	cp := *p
	m.items[p.ID] = &cp
	return nil
}

func (m *memProducts) List(context.Context) ([]*model.Product, error) {
	if m.fail != nil {
		return nil, m.fail
	}
	var out []*model.Product
	for i := uint64(1); i <= m.next; i++ {
		if p, ok := m.items[i]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProducts) Update(_ context.Context, p *model.Product) error {
	if _, ok := m.items[p.ID]; !ok {
		return repository.ErrProductNotFound
	}
	cp := *p
	m.items[p.ID] = &cp
	return nil
}

func (m *memProducts) Delete(_ context.Context, id uint64) error {
	if _, ok := m.items[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(m.items, id)
	return nil
}

func TestInventoryCRUD(t *testing.T) {
	store := newMemProducts()
	h := NewInventoryHandler(store, time.Second)
	e := newEcho(t)
	e.GET("/inventory", h.List)
	e.POST("/inventory", h.Create)
	e.PUT("/inventory/:id", h.Update)
	e.DELETE("/inventory/:id", h.Delete)

	code, r := do(t, e, http.MethodPost, "/inventory", `{"productName":" Widget ","quantity":0,"price":2.5}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Product created", r.Message)
	assert.Equal(t, "Widget", store.items[1].ProductName)
	assert.Equal(t, 0, store.items[1].Quantity)

	code, r = do(t, e, http.MethodPost, "/inventory", `{"productName":"x"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "The following fields are required: quantity, price", r.Message)

	code, _ = do(t, e, http.MethodPost, "/inventory", `{"productName":"x","quantity":-1,"price":1}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, r = do(t, e, http.MethodPut, "/inventory/1", `{"productName":"Gadget","quantity":3,"price":4}`)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(r.Data), `"productName":"Gadget"`)

	code, r = do(t, e, http.MethodPut, "/inventory/42", `{"productName":"Gadget","quantity":3,"price":4}`)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Product not found", r.Message)

	code, r = do(t, e, http.MethodDelete, "/inventory/abc", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid product ID", r.Message)

	code, r = do(t, e, http.MethodGet, "/inventory", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(r.Data), `"quantity":3`)

	code, _ = do(t, e, http.MethodDelete, "/inventory/1", "")
	assert.Equal(t, http.StatusOK, code)
	code, r = do(t, e, http.MethodGet, "/inventory", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"products":[]}`, string(r.Data))

	store.fail = errors.New("db down")
	code, r = do(t, e, http.MethodGet, "/inventory", "")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Failed to fetch products", r.Message)
}

type memSuppliers struct{ items map[uint64]*model.Supplier }

func (m *memSuppliers) Create(_ context.Context, s *model.Supplier) error {
	s.ID = uint64(len(m.items) + 1)
	m.items[s.ID] = s
	return nil
}

func (m *memSuppliers) List(context.Context) ([]*model.Supplier, error) {
	var out []*model.Supplier
	for _, s := range m.items {
		out = append(out, s)
	}
	return out, nil
}

func (m *memSuppliers) UpdateName(_ context.Context, s *model.Supplier) error {
	if _, ok := m.items[s.ID]; !ok {
		return repository.ErrSupplierNotFound
	}
	m.items[s.ID] = s
	return nil
}

func (m *memSuppliers) Delete(_ context.Context, id uint64) error {
	if _, ok := m.items[id]; !ok {
		return repository.ErrSupplierNotFound
	}
	delete(m.items, id)
	return nil
}

func TestSuppliers(t *testing.T) {
	store := &memSuppliers{items: map[uint64]*model.Supplier{}}
	h := NewSupplierHandler(store, time.Second)
	e := newEcho(t)
	e.GET("/suppliers", h.List)
	e.POST("/suppliers", h.Create)
	e.PUT("/suppliers/:id", h.Update)
	e.DELETE("/suppliers/:id", h.Delete)

	code, r := do(t, e, http.MethodPost, "/suppliers", `{"companyName":""}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "The following fields are required: companyName", r.Message)

	code, _ = do(t, e, http.MethodPost, "/suppliers", `{"companyName":"Acme"}`)
	require.Equal(t, http.StatusOK, code)

	code, r = do(t, e, http.MethodPut, "/suppliers/1", `{"companyName":"Acme Ltd"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(r.Data), "Acme Ltd")

	code, r = do(t, e, http.MethodDelete, "/suppliers/7", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Supplier not found", r.Message)

	code, r = do(t, e, http.MethodDelete, "/suppliers/0", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid Supplier ID", r.Message)

	code, r = do(t, e, http.MethodGet, "/suppliers", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(r.Data), `"companyName":"Acme Ltd"`)
}

type memUsers struct {
	items map[uint64]model.User
}

func (m *memUsers) List(context.Context) ([]model.User, error) {
	return []model.User{m.items[1], m.items[2]}, nil
}

func (m *memUsers) UpdateProfile(_ context.Context, u *model.User) error {
	cur, ok := m.items[u.ID]
	if !ok {
		return repository.ErrUserNotFound
	}
	for id, other := range m.items {
		if id != u.ID && other.Email == u.Email {
			return repository.ErrEmailExists
		}
	}
	cur.Username, cur.Email, cur.FirstName, cur.LastName = u.Username, u.Email, u.FirstName, u.LastName
	m.items[u.ID] = cur
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := m.items[id]
	if !ok {
		return model.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (m *memUsers) Delete(_ context.Context, id uint64) error {
	if _, ok := m.items[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(m.items, id)
	return nil
}

func TestUsers(t *testing.T) {
	tok := "secret-token"
	store := &memUsers{items: map[uint64]model.User{
		1: {ID: 1, Username: "root", Email: "root@example.com", Role: model.RoleSuperAdmin, PasswordSalt: "salt", PasswordHash: "hash", Token: &tok},
		2: {ID: 2, Username: "bob", Email: "bob@example.com", Role: model.RoleUser},
	}}
	h := NewUserHandler(store, time.Second)
	e := newEcho(t)
	e.GET("/users", h.List)
	e.PUT("/users/:id", h.Update)
	e.DELETE("/users/:id", h.Delete)

	code, r := do(t, e, http.MethodGet, "/users", "")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(r.Data), `"username":"root"`)
	assert.NotContains(t, string(r.Data), "hash")
	assert.NotContains(t, string(r.Data), tok)

	code, r = do(t, e, http.MethodPut, "/users/2", `{"username":"bobby","email":"root@example.com","firstName":"B","lastName":"C"}`)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Email already exists", r.Message)

	code, r = do(t, e, http.MethodPut, "/users/2", `{"username":"bobby","email":"bob@example.com","firstName":"B","lastName":"C","role":"super_admin"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(r.Data), `"username":"bobby"`)
	assert.Equal(t, model.RoleUser, store.items[2].Role, "profile update never changes the role")

	code, r = do(t, e, http.MethodDelete, "/users/9", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "User not found", r.Message)

	code, r = do(t, e, http.MethodDelete, "/users/2", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "User deleted", r.Message)
}

type counts struct {
	n   model.DashboardCounts
	err error
}

func (c counts) Counts(context.Context) (model.DashboardCounts, error) { return c.n, c.err }

func TestDashboard(t *testing.T) {
	e := newEcho(t)
	e.GET("/ok", Dashboard(counts{n: model.DashboardCounts{TotalProducts: 3, TotalSuppliers: 2, TotalUsers: 1}}, time.Second))
	e.GET("/fail", Dashboard(counts{err: errors.New("boom")}, time.Second))

	code, r := do(t, e, http.MethodGet, "/ok", "")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"totalProducts":3,"totalSuppliers":2,"totalUsers":1}`, string(r.Data))

	code, r = do(t, e, http.MethodGet, "/fail", "")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Failed to fetch dashboard data", r.Message)
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{auth.ErrValidation, http.StatusBadRequest},
		{auth.ErrInvalidRole, http.StatusBadRequest},
		{auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{auth.ErrInvalidToken, http.StatusUnauthorized},
		{auth.ErrMissingAuthHeader, http.StatusUnauthorized},
		{auth.ErrMissingToken, http.StatusUnauthorized},
		{auth.ErrForbidden, http.StatusForbidden},
		{auth.ErrPermissionDenied, http.StatusForbidden},
		{auth.ErrUserNotFound, http.StatusNotFound},
		{repository.ErrProductNotFound, http.StatusNotFound},
		{repository.ErrSupplierNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: %w", auth.ErrStorage, errors.New("x")), http.StatusInternalServerError},
		{failed("Failed", repository.ErrProductNotFound), http.StatusNotFound},
		{echo.ErrNotFound, http.StatusNotFound},
		{errors.New("anything"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		status, msg := statusFor(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.NotEmpty(t, msg)
	}
}

func TestReady(t *testing.T) {
	e := newEcho(t)
	e.GET("/up", Ready(pinger{}))
	e.GET("/down", Ready(pinger{err: errors.New("no")}))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/up", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	code, r := do(t, e, http.MethodGet, "/down", "")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.False(t, r.Success)
}

type pinger struct{ err error }

func (p pinger) PingContext(context.Context) error { return p.err }
