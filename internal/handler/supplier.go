package handler

import (
	"context"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/inventory-service/internal/model"
)

// SupplierStore is implemented by *repository.SupplierRepo.
type SupplierStore interface {
	Create(ctx context.Context, s *model.Supplier) error
	List(ctx context.Context) ([]*model.Supplier, error)
	UpdateName(ctx context.Context, s *model.Supplier) error
	Delete(ctx context.Context, id uint64) error
}

// SupplierHandler serves /suppliers.
type SupplierHandler struct {
	suppliers SupplierStore
	timeout   time.Duration
}

func NewSupplierHandler(suppliers SupplierStore, timeout time.Duration) *SupplierHandler {
	return &SupplierHandler{suppliers: suppliers, timeout: timeout}
}

type supplierReq struct {
	CompanyName string `json:"companyName"`
}

type supplierResp struct {
	ID          uint64    `json:"id"`
	CompanyName string    `json:"companyName"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toSupplierResp(s *model.Supplier) supplierResp {
	return supplierResp{ID: s.ID, CompanyName: s.CompanyName, CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt}
}

func (h *SupplierHandler) List(c echo.Context) error {
	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	list, err := h.suppliers.List(ctx)
	if err != nil {
		return failed("Failed to fetch suppliers", err)
	}
	out := make([]supplierResp, 0, len(list))
	for _, s := range list {
		out = append(out, toSupplierResp(s))
	}
	return ok(c, "Suppliers fetched", echo.Map{"suppliers": out})
}

func (h *SupplierHandler) Create(c echo.Context) error {
	var req supplierReq
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := required("companyName", req.CompanyName); err != nil {
		return err
	}
	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	s := &model.Supplier{CompanyName: strings.TrimSpace(req.CompanyName)}
	if err := h.suppliers.Create(ctx, s); err != nil {
		return failed("Failed to create supplier", err)
	}
	return ok(c, "Supplier created", echo.Map{"supplier": toSupplierResp(s)})
}

func (h *SupplierHandler) Update(c echo.Context) error {
	id, err := parseID(c, "Invalid Supplier ID")
	if err != nil {
		return err
	}
	var req supplierReq
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := required("companyName", req.CompanyName); err != nil {
		return err
	}
	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	s := &model.Supplier{ID: id, CompanyName: strings.TrimSpace(req.CompanyName)}
	if err := h.suppliers.UpdateName(ctx, s); err != nil {
		return failed("Failed to update supplier", err)
	}
	return ok(c, "Supplier updated", echo.Map{"supplier": toSupplierResp(s)})
}

func (h *SupplierHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "Invalid Supplier ID")
	if err != nil {
		return err
	}
	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	if err := h.suppliers.Delete(ctx, id); err != nil {
		return failed("Failed to delete supplier", err)
	}
	return ok(c, "Supplier deleted", nil)
}
