// Package storage provides database models and repositories for the
// knowledge engine's backing catalog.
package storage

import (
	"time"

	"github.com/google/uuid"
)

// VariantType classifies a product variant.
type VariantType string

const (
	VariantTypeColor VariantType = "color"
	VariantTypeSize  VariantType = "size"
	VariantTypeStyle VariantType = "style"
)

// OrderStatus represents the fulfillment status of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Product is a catalog product belonging to exactly one tenant.
type Product struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	Name        string
	Description string
	Price       float64
	Stock       int
	Category    string
	ImagesRaw   string // JSON text column, defensively parsed
	Variants    []ProductVariant
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductVariant is a color/size/style variation of a product.
type ProductVariant struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	Name      string
	Type      VariantType
	Price     float64
	Stock     int
	ImagesRaw string
}

// FAQ is a frequently-asked question with its canned answer.
type FAQ struct {
	ID       int64
	Question string
	Answer   string
}

// Policy is a store policy document (shipping, returns, warranty).
type Policy struct {
	ID    int64
	Title string
	Body  string
}

// Order is a customer's purchase record.
type Order struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	CustomerID   string
	Status       OrderStatus
	Total        float64
	ProductNames []string
	CreatedAt    time.Time
}
