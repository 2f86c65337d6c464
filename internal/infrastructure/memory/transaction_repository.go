package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo libro de movimientos en memoria, en orden de inserción.
type TransactionRepo struct {
	*view
}

// Append asigna ID y Timestamp.
func (r *TransactionRepo) Append(_ context.Context, record *entity.TransactionRecord) error {
	defer r.lock()()
	if err := r.check(OpTransactionAppend, record.ProductID, derefString(record.TargetWarehouseID)); err != nil {
		return err
	}
	if record.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			id = uuid.New()
		}
		record.ID = id.String()
	}
	record.Timestamp = r.stamp()
	r.s.data.transactions = append(r.s.data.transactions, *record)
	return nil
}

// ListRecent más recientes primero.
func (r *TransactionRepo) ListRecent(_ context.Context, limit int) ([]*entity.TransactionRecord, error) {
	defer r.rlock()()
	return r.collect(limit, func(*entity.TransactionRecord) bool { return true }), nil
}

// ListByProduct historial de un producto, más recientes primero.
func (r *TransactionRepo) ListByProduct(_ context.Context, productID string, limit int) ([]*entity.TransactionRecord, error) {
	defer r.rlock()()
	return r.collect(limit, func(t *entity.TransactionRecord) bool { return t.ProductID == productID }), nil
}

func (r *TransactionRepo) collect(limit int, keep func(*entity.TransactionRecord) bool) []*entity.TransactionRecord {
	list := make([]*entity.TransactionRecord, 0)
	for i := len(r.s.data.transactions) - 1; i >= 0; i-- {
		t := r.s.data.transactions[i]
		if !keep(&t) {
			continue
		}
		list = append(list, &t)
		if limit > 0 && len(list) == limit {
			break
		}
	}
	return list
}

// DetachWarehouse deja sin referencia a la bodega los registros que la nombran.
func (r *TransactionRepo) DetachWarehouse(_ context.Context, warehouseID string) (int64, error) {
	defer r.lock()()
	var n int64
	for i := range r.s.data.transactions {
		t := &r.s.data.transactions[i]
		touched := false
		if t.SourceWarehouseID != nil && *t.SourceWarehouseID == warehouseID {
			t.SourceWarehouseID = nil
			touched = true
		}
		if t.TargetWarehouseID != nil && *t.TargetWarehouseID == warehouseID {
			t.TargetWarehouseID = nil
			touched = true
		}
		if touched {
			n++
		}
	}
	return n, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
