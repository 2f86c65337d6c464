package dto

import "time"

// MovementRequest body para POST /api/inventory/inbound y /outbound.
// La cantidad la valida el motor (ErrInvalidQuantity).
type MovementRequest struct {
	WarehouseID string `json:"warehouse_id" validate:"required"`
	ProductID   string `json:"product_id" validate:"required"`
	Quantity    int64  `json:"quantity"`
	Note        string `json:"note" validate:"max=500"`
}

// TransferRequest body para POST /api/inventory/transfer.
type TransferRequest struct {
	FromWarehouseID string `json:"from_warehouse_id" validate:"required"`
	ToWarehouseID   string `json:"to_warehouse_id" validate:"required,nefield=FromWarehouseID"`
	ProductID       string `json:"product_id" validate:"required"`
	Quantity        int64  `json:"quantity"`
	Note            string `json:"note" validate:"max=500"`
}

// TransactionResponse un registro del libro de movimientos.
type TransactionResponse struct {
	ID                string    `json:"id"`
	Type              string    `json:"type"`
	ProductID         string    `json:"product_id"`
	SourceWarehouseID *string   `json:"source_warehouse_id"`
	TargetWarehouseID *string   `json:"target_warehouse_id"`
	Quantity          int64     `json:"quantity"`
	Note              *string   `json:"note"`
	Timestamp         time.Time `json:"timestamp"`
}

// TransactionListResponse movimientos, más recientes primero.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
}

// ConsolidationResponse resultado del barrido hacia la bodega central.
type ConsolidationResponse struct {
	Moved        int                   `json:"moved"`
	Transactions []TransactionResponse `json:"transactions"`
}
