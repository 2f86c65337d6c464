package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// TransactionRepository define el puerto del libro de movimientos (solo anexar).
type TransactionRepository interface {
	// Append asigna ID y Timestamp y persiste el registro.
	Append(ctx context.Context, record *entity.TransactionRecord) error
	// ListRecent devuelve los más recientes primero; sin límite si limit <= 0.
	ListRecent(ctx context.Context, limit int) ([]*entity.TransactionRecord, error)
	ListByProduct(ctx context.Context, productID string, limit int) ([]*entity.TransactionRecord, error)
	// DetachWarehouse deja en nil las referencias a la bodega (origen y destino) sin borrar historial.
	DetachWarehouse(ctx context.Context, warehouseID string) (int64, error)
}
