package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo libro de movimientos (stock_transactions). Solo anexa; el orden lo da seq.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

const transactionColumns = `id, type, product_id, source_warehouse_id, target_warehouse_id, quantity, note, created_at`

// Append inserta el registro; el timestamp lo asigna la base (clock_timestamp()).
func (r *TransactionRepo) Append(ctx context.Context, rec *entity.TransactionRecord) error {
	if rec.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			id = uuid.New()
		}
		rec.ID = id.String()
	}
	query := `
		INSERT INTO stock_transactions (id, type, product_id, source_warehouse_id, target_warehouse_id, quantity, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`
	err := r.q.QueryRow(ctx, query,
		rec.ID, string(rec.Type), rec.ProductID, rec.SourceWarehouseID, rec.TargetWarehouseID, rec.Quantity, rec.Note,
	).Scan(&rec.Timestamp)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrDuplicate
		case isForeignKeyViolation(err):
			return fmt.Errorf("append transaction: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("append transaction: %w", err)
	}
	return nil
}

// ListRecent más recientes primero; sin límite si limit <= 0.
func (r *TransactionRepo) ListRecent(ctx context.Context, limit int) ([]*entity.TransactionRecord, error) {
	query := `SELECT ` + transactionColumns + ` FROM stock_transactions ORDER BY seq DESC`
	if limit > 0 {
		return r.list(ctx, query+` LIMIT $1`, limit)
	}
	return r.list(ctx, query)
}

// ListByProduct historial de un producto, más recientes primero.
func (r *TransactionRepo) ListByProduct(ctx context.Context, productID string, limit int) ([]*entity.TransactionRecord, error) {
	query := `SELECT ` + transactionColumns + ` FROM stock_transactions WHERE product_id = $1 ORDER BY seq DESC`
	if limit > 0 {
		return r.list(ctx, query+` LIMIT $2`, productID, limit)
	}
	return r.list(ctx, query, productID)
}

func (r *TransactionRepo) list(ctx context.Context, query string, args ...any) ([]*entity.TransactionRecord, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.TransactionRecord, 0)
	for rows.Next() {
		var (
			t       entity.TransactionRecord
			movType string
		)
		if err := rows.Scan(&t.ID, &movType, &t.ProductID, &t.SourceWarehouseID, &t.TargetWarehouseID,
			&t.Quantity, &t.Note, &t.Timestamp); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Type = entity.MovementType(movType)
		list = append(list, &t)
	}
	return list, rows.Err()
}

// DetachWarehouse deja en NULL las referencias a la bodega; devuelve los registros afectados.
func (r *TransactionRepo) DetachWarehouse(ctx context.Context, warehouseID string) (int64, error) {
	query := `
		UPDATE stock_transactions SET
			source_warehouse_id = NULLIF(source_warehouse_id, $1),
			target_warehouse_id = NULLIF(target_warehouse_id, $1)
		WHERE source_warehouse_id = $1 OR target_warehouse_id = $1`
	cmd, err := r.q.Exec(ctx, query, warehouseID)
	if err != nil {
		return 0, fmt.Errorf("detach warehouse: %w", err)
	}
	return cmd.RowsAffected(), nil
}
