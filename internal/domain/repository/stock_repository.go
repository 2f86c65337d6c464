package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StockRepository define el puerto para consultar/actualizar saldos por producto+bodega.
// Dentro de TxRunner.Run todas las operaciones participan de la misma transacción.
type StockRepository interface {
	// Get devuelve el saldo; Quantity 0 si no existe la fila.
	Get(ctx context.Context, productID, warehouseID string) (*entity.StockBalance, error)
	// GetForUpdate igual que Get pero bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.StockBalance, error)
	// Increment crea o suma; devuelve la cantidad resultante.
	Increment(ctx context.Context, productID, warehouseID string, amount int64) (int64, error)
	// Decrement resta; falla con ErrInsufficientStock si el resultado sería negativo.
	Decrement(ctx context.Context, productID, warehouseID string, amount int64) (int64, error)
	// Delete elimina la fila solo si su cantidad es cero.
	Delete(ctx context.Context, productID, warehouseID string) error

	SumByProduct(ctx context.Context, productID string) (int64, error)
	SumByWarehouse(ctx context.Context, warehouseID string) (int64, error)
	ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.StockBalance, error)
	// ListPositiveOutside lista saldos > 0 de todas las bodegas excepto la indicada.
	ListPositiveOutside(ctx context.Context, warehouseID string) ([]*entity.StockBalance, error)
	DeleteEmptyByWarehouse(ctx context.Context, warehouseID string) error
	// ValuationByWarehouse suma cantidad * precio de los productos de la bodega.
	ValuationByWarehouse(ctx context.Context, warehouseID string) (decimal.Decimal, error)
}
