package entity

import "time"

// StockBalance representa el saldo actual de un producto en una bodega.
// Quantity nunca es negativa.
type StockBalance struct {
	ProductID   string
	WarehouseID string
	Quantity    int64
	UpdatedAt   time.Time
}
