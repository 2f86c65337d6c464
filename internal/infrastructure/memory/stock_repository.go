package memory

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo saldos en memoria.
type StockRepo struct {
	*view
}

// Get devuelve el saldo (0 si no existe).
func (r *StockRepo) Get(_ context.Context, productID, warehouseID string) (*entity.StockBalance, error) {
	defer r.rlock()()
	return r.get(productID, warehouseID), nil
}

// GetForUpdate en memoria equivale a Get: la unidad ya es exclusiva.
func (r *StockRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.StockBalance, error) {
	return r.Get(ctx, productID, warehouseID)
}

func (r *StockRepo) get(productID, warehouseID string) *entity.StockBalance {
	if b, ok := r.s.data.stock[stockKey{productID, warehouseID}]; ok {
		return &b
	}
	return &entity.StockBalance{ProductID: productID, WarehouseID: warehouseID}
}

// Increment crea o suma. Rechaza con ErrInvalidQuantity si el saldo o el total del producto
// dejarían de caber en int64.
func (r *StockRepo) Increment(_ context.Context, productID, warehouseID string, amount int64) (int64, error) {
	defer r.lock()()
	if err := r.check(OpStockIncrement, productID, warehouseID); err != nil {
		return 0, err
	}
	if amount < 0 {
		return 0, domain.ErrInvalidQuantity
	}
	total, err := r.sumWhere(func(k stockKey) bool { return k.productID == productID })
	if err != nil {
		return 0, err
	}
	if _, ok := addQuantity(total, amount); !ok {
		return 0, fmt.Errorf("increment stock: %w", domain.ErrInvalidQuantity)
	}
	b := r.get(productID, warehouseID)
	b.Quantity += amount
	b.UpdatedAt = r.s.now().UTC()
	r.s.data.stock[stockKey{productID, warehouseID}] = *b
	return b.Quantity, nil
}

// Decrement resta si alcanza.
func (r *StockRepo) Decrement(_ context.Context, productID, warehouseID string, amount int64) (int64, error) {
	defer r.lock()()
	if err := r.check(OpStockDecrement, productID, warehouseID); err != nil {
		return 0, err
	}
	if amount < 0 {
		return 0, domain.ErrInvalidQuantity
	}
	key := stockKey{productID, warehouseID}
	b, ok := r.s.data.stock[key]
	if !ok || b.Quantity < amount {
		return 0, &domain.InsufficientStockError{WarehouseID: warehouseID, Available: b.Quantity, Requested: amount}
	}
	b.Quantity -= amount
	b.UpdatedAt = r.s.now().UTC()
	r.s.data.stock[key] = b
	return b.Quantity, nil
}

// Delete elimina la fila solo si está en cero.
func (r *StockRepo) Delete(_ context.Context, productID, warehouseID string) error {
	defer r.lock()()
	if err := r.check(OpStockDelete, productID, warehouseID); err != nil {
		return err
	}
	key := stockKey{productID, warehouseID}
	if b, ok := r.s.data.stock[key]; ok && b.Quantity == 0 {
		delete(r.s.data.stock, key)
	}
	return nil
}

// SumByProduct total del producto en todas las bodegas.
func (r *StockRepo) SumByProduct(_ context.Context, productID string) (int64, error) {
	defer r.rlock()()
	return r.sumWhere(func(k stockKey) bool { return k.productID == productID })
}

// SumByWarehouse total de unidades en la bodega.
func (r *StockRepo) SumByWarehouse(_ context.Context, warehouseID string) (int64, error) {
	defer r.rlock()()
	return r.sumWhere(func(k stockKey) bool { return k.warehouseID == warehouseID })
}

func (r *StockRepo) sumWhere(keep func(stockKey) bool) (int64, error) {
	var total int64
	for k, b := range r.s.data.stock {
		if !keep(k) {
			continue
		}
		var ok bool
		if total, ok = addQuantity(total, b.Quantity); !ok {
			return 0, fmt.Errorf("sum stock: %w", domain.ErrInvalidQuantity)
		}
	}
	return total, nil
}

// addQuantity suma cantidades no negativas; ok es false si el resultado no cabe en int64.
func addQuantity(a, b int64) (int64, bool) {
	if b > math.MaxInt64-a {
		return 0, false
	}
	return a + b, true
}

// ListByWarehouse saldos de la bodega, mayor cantidad primero.
func (r *StockRepo) ListByWarehouse(_ context.Context, warehouseID string) ([]*entity.StockBalance, error) {
	defer r.rlock()()
	var list []*entity.StockBalance
	for k, b := range r.s.data.stock {
		if k.warehouseID == warehouseID {
			b := b
			list = append(list, &b)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Quantity != list[j].Quantity {
			return list[i].Quantity > list[j].Quantity
		}
		return list[i].ProductID < list[j].ProductID
	})
	return list, nil
}

// ListPositiveOutside saldos > 0 fuera de la bodega indicada.
func (r *StockRepo) ListPositiveOutside(_ context.Context, warehouseID string) ([]*entity.StockBalance, error) {
	defer r.rlock()()
	var list []*entity.StockBalance
	for k, b := range r.s.data.stock {
		if k.warehouseID != warehouseID && b.Quantity > 0 {
			b := b
			list = append(list, &b)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].WarehouseID != list[j].WarehouseID {
			return list[i].WarehouseID < list[j].WarehouseID
		}
		return list[i].ProductID < list[j].ProductID
	})
	return list, nil
}

// DeleteEmptyByWarehouse borra las filas en cero de la bodega.
func (r *StockRepo) DeleteEmptyByWarehouse(_ context.Context, warehouseID string) error {
	defer r.lock()()
	for k, b := range r.s.data.stock {
		if k.warehouseID == warehouseID && b.Quantity == 0 {
			delete(r.s.data.stock, k)
		}
	}
	return nil
}

// ValuationByWarehouse suma cantidad * precio.
func (r *StockRepo) ValuationByWarehouse(_ context.Context, warehouseID string) (decimal.Decimal, error) {
	defer r.rlock()()
	total := decimal.Zero
	for k, b := range r.s.data.stock {
		if k.warehouseID != warehouseID {
			continue
		}
		p, ok := r.s.data.products[k.productID]
		if !ok {
			continue
		}
		total = total.Add(p.Price().Mul(decimal.NewFromInt(b.Quantity)))
	}
	return total, nil
}
