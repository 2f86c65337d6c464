package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInvalidQuantity   = errors.New("cantidad inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrStoreUnavailable  = errors.New("almacenamiento no disponible")
)

// InsufficientStockError detalla la bodega sin saldo suficiente.
// errors.Is(err, ErrInsufficientStock) es verdadero para este tipo.
type InsufficientStockError struct {
	WarehouseID   string
	WarehouseName string
	Available     int64
	Requested     int64
}

func (e *InsufficientStockError) Error() string {
	name := e.WarehouseName
	if name == "" {
		name = e.WarehouseID
	}
	return fmt.Sprintf("stock insuficiente en bodega %s: disponible %d, solicitado %d", name, e.Available, e.Requested)
}

// Shortfall unidades que faltan para cubrir la solicitud.
func (e *InsufficientStockError) Shortfall() int64 {
	return e.Requested - e.Available
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
