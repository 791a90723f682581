package model

import "time"

type Order struct {
	ID              int64     `db:"id" json:"id"`
	UserID          string    `db:"user_id" json:"-"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	TotalPrice      float64   `db:"total_price" json:"total_price"`
	TotalDisplay    string    `db:"-" json:"total_display,omitempty"`
	Status          string    `db:"status" json:"status"`
	ShippingAddress string    `db:"shipping_address" json:"shipping_address"`

	// Virtual lines (packages, builds) reference no product rows and are
	// stored as one JSON document on the order itself.
	VirtualItemsJSON *string `db:"virtual_items" json:"-"`

	Items        []OrderItem `db:"-" json:"order_items"`
	VirtualItems []CartLine  `db:"-" json:"virtual_items"`
}

type OrderItem struct {
	OrderID         int64   `db:"order_id" json:"-"`
	ProductID       int64   `db:"product_id" json:"product_id"`
	Quantity        int     `db:"quantity" json:"quantity"`
	PriceAtPurchase float64 `db:"price_at_purchase" json:"price_at_purchase"`
	ProductName     string  `db:"product_name" json:"product_name"`
	ProductImage    string  `db:"product_image" json:"product_image"`
}
