package handler

import (
	"context"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/inventory-service/internal/auth"
	"github.com/iliyamo/inventory-service/internal/model"
)

// ProductStore is implemented by *repository.ProductRepo.
type ProductStore interface {
	Create(ctx context.Context, p *model.Product) error
	List(ctx context.Context) ([]*model.Product, error)
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id uint64) error
}

// InventoryHandler serves /inventory.
type InventoryHandler struct {
	products ProductStore
	timeout  time.Duration
}

func NewInventoryHandler(products ProductStore, timeout time.Duration) *InventoryHandler {
	return &InventoryHandler{products: products, timeout: timeout}
}

type productReq struct {
	ProductName string   `json:"productName"`
	Quantity    *int     `json:"quantity"`
	Price       *float64 `json:"price"`
}

type productResp struct {
	ID          uint64    `json:"id"`
	ProductName string    `json:"productName"`
	Quantity    int       `json:"quantity"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toProductResp(p *model.Product) productResp {
	return productResp{
		ID:          p.ID,
		ProductName: p.ProductName,
		Quantity:    p.Quantity,
		Price:       p.Price,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// product validates the request and converts it into a model value.
func (r productReq) product() (*model.Product, error) {
	var missing []string
	if strings.TrimSpace(r.ProductName) == "" {
		missing = append(missing, "productName")
	}
	if r.Quantity == nil {
		missing = append(missing, "quantity")
	}
	if r.Price == nil {
		missing = append(missing, "price")
	}
	if len(missing) > 0 {
		return nil, &auth.ValidationError{Fields: missing}
	}
	if *r.Quantity < 0 {
		return nil, badRequest("quantity must not be negative")
	}
	if *r.Price < 0 {
		return nil, badRequest("price must not be negative")
	}
	return &model.Product{ProductName: strings.TrimSpace(r.ProductName), Quantity: *r.Quantity, Price: *r.Price}, nil
}

func (h *InventoryHandler) List(c echo.Context) error {
	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	list, err := h.products.List(ctx)
	if err != nil {
		return failed("Failed to fetch products", err)
	}
	out := make([]productResp, 0, len(list))
	for _, p := range list {
		out = append(out, toProductResp(p))
	}
	return ok(c, "Products fetched", echo.Map{"products": out})
}

func (h *InventoryHandler) Create(c echo.Context) error {
	var req productReq
	if err := bind(c, &req); err != nil {
		return err
	}
	p, err := req.product()
	if err != nil {
		return err
	}
	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	if err := h.products.Create(ctx, p); err != nil {
		return failed("Failed to create product", err)
	}
	return ok(c, "Product created", echo.Map{"product": toProductResp(p)})
}

func (h *InventoryHandler) Update(c echo.Context) error {
	id, err := parseID(c, "Invalid product ID")
	if err != nil {
		return err
	}
	var req productReq
	if err := bind(c, &req); err != nil {
		return err
	}
	p, err := req.product()
	if err != nil {
		return err
	}
	p.ID = id
	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	if err := h.products.Update(ctx, p); err != nil {
		return failed("Failed to update product", err)
	}
	return ok(c, "Product updated", echo.Map{"product": toProductResp(p)})
}

func (h *InventoryHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "Invalid product ID")
	if err != nil {
		return err
	}
	ctx, cancel := requestCtx(c, h.timeout)
	defer cancel()

	if err := h.products.Delete(ctx, id); err != nil {
		return failed("Failed to delete product", err)
	}
	return ok(c, "Product deleted", nil)
}
