package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateWarehouseRequest entrada para crear una bodega.
type CreateWarehouseRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Location string `json:"location" validate:"max=300"`
	Code     string `json:"code" validate:"max=50"`
	Capacity *int   `json:"capacity" validate:"omitempty,min=0"`
}

// UpdateWarehouseRequest entrada para actualizar una bodega.
type UpdateWarehouseRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	Location *string `json:"location" validate:"omitempty,max=300"`
	Code     *string `json:"code" validate:"omitempty,max=50"`
	Capacity *int    `json:"capacity" validate:"omitempty,min=0"`
}

// WarehouseResponse salida de una bodega.
type WarehouseResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Code      string    `json:"code,omitempty"`
	Capacity  *int      `json:"capacity,omitempty"`
	IsHub     bool      `json:"is_hub"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WarehouseListResponse lista de bodegas (más antiguas primero).
type WarehouseListResponse struct {
	Items []WarehouseResponse `json:"items"`
}

// StockItem saldo de un producto en una bodega.
type StockItem struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// WarehouseStockResponse saldos de una bodega.
type WarehouseStockResponse struct {
	WarehouseID string      `json:"warehouse_id"`
	Total       int64       `json:"total"`
	Items       []StockItem `json:"items"`
}

// WarehouseValuationResponse valor del inventario de la bodega.
type WarehouseValuationResponse struct {
	WarehouseID string          `json:"warehouse_id"`
	Value       decimal.Decimal `json:"value"`
}
