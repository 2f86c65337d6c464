package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el saldo actual de un producto en una bodega.
func (r *StockRepo) Get(ctx context.Context, productID, warehouseID string) (*entity.StockBalance, error) {
	return r.get(ctx, productID, warehouseID, false)
}

// GetForUpdate obtiene el saldo y bloquea la fila (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.StockBalance, error) {
	return r.get(ctx, productID, warehouseID, true)
}

func (r *StockRepo) get(ctx context.Context, productID, warehouseID string, lock bool) (*entity.StockBalance, error) {
	query := `
		SELECT product_id, warehouse_id, quantity, updated_at
		FROM stock WHERE product_id = $1 AND warehouse_id = $2`
	if lock {
		query += ` FOR UPDATE`
	}
	var s entity.StockBalance
	err := r.q.QueryRow(ctx, query, productID, warehouseID).Scan(
		&s.ProductID, &s.WarehouseID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockBalance{ProductID: productID, WarehouseID: warehouseID}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// Increment inserta o suma la cantidad y devuelve el saldo resultante.
func (r *StockRepo) Increment(ctx context.Context, productID, warehouseID string, amount int64) (int64, error) {
	query := `
		INSERT INTO stock (product_id, warehouse_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET quantity = stock.quantity + EXCLUDED.quantity, updated_at = now()
		RETURNING quantity`
	var qty int64
	if err := r.q.QueryRow(ctx, query, productID, warehouseID, amount).Scan(&qty); err != nil {
		switch {
		case isForeignKeyViolation(err):
			return 0, fmt.Errorf("increment stock: %w", domain.ErrNotFound)
		case isCheckViolation(err), isNumericOutOfRange(err):
			return 0, fmt.Errorf("increment stock: %w", domain.ErrInvalidQuantity)
		}
		return 0, fmt.Errorf("increment stock: %w", err)
	}
	return qty, nil
}

// Decrement resta solo si alcanza; si no, InsufficientStockError con el saldo leído.
func (r *StockRepo) Decrement(ctx context.Context, productID, warehouseID string, amount int64) (int64, error) {
	query := `
		UPDATE stock SET quantity = quantity - $3, updated_at = now()
		WHERE product_id = $1 AND warehouse_id = $2 AND quantity >= $3
		RETURNING quantity`
	var qty int64
	err := r.q.QueryRow(ctx, query, productID, warehouseID, amount).Scan(&qty)
	if err == nil {
		return qty, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("decrement stock: %w", err)
	}
	current, getErr := r.Get(ctx, productID, warehouseID)
	if getErr != nil {
		return 0, getErr
	}
	return 0, &domain.InsufficientStockError{
		WarehouseID: warehouseID,
		Available:   current.Quantity,
		Requested:   amount,
	}
}

// Delete elimina la fila solo si su cantidad es cero.
func (r *StockRepo) Delete(ctx context.Context, productID, warehouseID string) error {
	_, err := r.q.Exec(ctx,
		`DELETE FROM stock WHERE product_id = $1 AND warehouse_id = $2 AND quantity = 0`,
		productID, warehouseID)
	if err != nil {
		return fmt.Errorf("delete stock: %w", err)
	}
	return nil
}

// SumByProduct total del producto en todas las bodegas.
func (r *StockRepo) SumByProduct(ctx context.Context, productID string) (int64, error) {
	return r.sum(ctx, `SELECT COALESCE(SUM(quantity), 0)::bigint FROM stock WHERE product_id = $1`, productID)
}

// SumByWarehouse total de unidades en la bodega.
func (r *StockRepo) SumByWarehouse(ctx context.Context, warehouseID string) (int64, error) {
	return r.sum(ctx, `SELECT COALESCE(SUM(quantity), 0)::bigint FROM stock WHERE warehouse_id = $1`, warehouseID)
}

func (r *StockRepo) sum(ctx context.Context, query, id string) (int64, error) {
	var total int64
	if err := r.q.QueryRow(ctx, query, id).Scan(&total); err != nil {
		if isNumericOutOfRange(err) {
			return 0, fmt.Errorf("sum stock: %w", domain.ErrInvalidQuantity)
		}
		return 0, fmt.Errorf("sum stock: %w", err)
	}
	return total, nil
}

// ListByWarehouse saldos de la bodega, mayor cantidad primero.
func (r *StockRepo) ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.StockBalance, error) {
	return r.list(ctx, `
		SELECT product_id, warehouse_id, quantity, updated_at
		FROM stock WHERE warehouse_id = $1
		ORDER BY quantity DESC, product_id`, warehouseID)
}

// ListPositiveOutside saldos > 0 fuera de la bodega indicada.
func (r *StockRepo) ListPositiveOutside(ctx context.Context, warehouseID string) ([]*entity.StockBalance, error) {
	return r.list(ctx, `
		SELECT product_id, warehouse_id, quantity, updated_at
		FROM stock WHERE warehouse_id <> $1 AND quantity > 0
		ORDER BY warehouse_id, product_id`, warehouseID)
}

func (r *StockRepo) list(ctx context.Context, query string, args ...any) ([]*entity.StockBalance, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.StockBalance, 0)
	for rows.Next() {
		var s entity.StockBalance
		if err := rows.Scan(&s.ProductID, &s.WarehouseID, &s.Quantity, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// DeleteEmptyByWarehouse borra las filas en cero de la bodega.
func (r *StockRepo) DeleteEmptyByWarehouse(ctx context.Context, warehouseID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM stock WHERE warehouse_id = $1 AND quantity = 0`, warehouseID); err != nil {
		return fmt.Errorf("delete empty stock: %w", err)
	}
	return nil
}

// ValuationByWarehouse suma cantidad * precio (NUMERIC escaneado a decimal.Decimal).
func (r *StockRepo) ValuationByWarehouse(ctx context.Context, warehouseID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(s.quantity::numeric * p.price_cents), 0) / 100
		FROM stock s JOIN products p ON p.id = s.product_id
		WHERE s.warehouse_id = $1`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, warehouseID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("warehouse valuation: %w", err)
	}
	return total, nil
}
