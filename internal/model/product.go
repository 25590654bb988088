package model

import "time"

// Product is a row in the `inventory` table.
type Product struct {
	ID          uint64    // inventory.id
	ProductName string    // inventory.product_name
	Quantity    int       // inventory.quantity
	Price       float64   // inventory.price
	CreatedAt   time.Time // inventory.created_at
	UpdatedAt   time.Time // inventory.updated_at
}
