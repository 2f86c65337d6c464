package entity

import "time"

// MovementType tipo de movimiento registrado en el libro de stock.
type MovementType string

// Tipos de movimiento.
const (
	MovementInbound           MovementType = "INBOUND"
	MovementOutbound          MovementType = "OUTBOUND"
	MovementTransfer          MovementType = "TRANSFER"
	MovementInitialAdjustment MovementType = "INITIAL_ADJUSTMENT"
)

// Valid indica si el tipo es uno de los conocidos.
func (t MovementType) Valid() bool {
	switch t {
	case MovementInbound, MovementOutbound, MovementTransfer, MovementInitialAdjustment:
		return true
	}
	return false
}

// TransactionRecord es una entrada inmutable del libro de stock.
// Las referencias a bodegas pueden quedar en nil si la bodega se elimina después.
type TransactionRecord struct {
	ID                string
	Type              MovementType
	ProductID         string
	SourceWarehouseID *string
	TargetWarehouseID *string
	Quantity          int64 // siempre > 0
	Note              *string
	Timestamp         time.Time
}
