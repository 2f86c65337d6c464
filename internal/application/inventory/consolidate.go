package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ConsolidateToHub traslada todo el stock positivo de las sucursales a la bodega central.
// Cada saldo se mueve en su propia transacción y genera un TRANSFER. Si una fila falla, se
// devuelve lo ya consolidado junto con el error.
func (e *MovementEngine) ConsolidateToHub(ctx context.Context) ([]*entity.TransactionRecord, error) {
	var (
		pending []*entity.StockBalance
		central *entity.Warehouse
	)
	err := e.txRunner.Run(ctx, func(ctx context.Context, r Repos) error {
		var err error
		if central, err = e.resolveHub(ctx, r); err != nil || central == nil {
			return err
		}
		pending, err = r.Stock.ListPositiveOutside(ctx, central.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if central == nil {
		return nil, nil
	}

	var moved []*entity.TransactionRecord
	for _, b := range pending {
		rec, err := e.run(ctx, "consolidate", func(ctx context.Context, r Repos) (*entity.TransactionRecord, error) {
			return e.consolidateBalance(ctx, r, b.ProductID, b.WarehouseID)
		})
		if err != nil {
			return moved, err
		}
		if rec != nil {
			moved = append(moved, rec)
		}
	}
	e.log.Info().Int("moved", len(moved)).Str("hub_id", central.ID).Msg("consolidación terminada")
	return moved, nil
}

// consolidateBalance relee el saldo con bloqueo; si cambió desde el listado se mueve lo que haya.
func (e *MovementEngine) consolidateBalance(ctx context.Context, r Repos, productID, warehouseID string) (*entity.TransactionRecord, error) {
	warehouses, err := r.Warehouses.List(ctx)
	if err != nil {
		return nil, err
	}
	central := e.resolver.Resolve(warehouses)
	if central == nil || central.ID == warehouseID {
		return nil, nil
	}
	var branch *entity.Warehouse
	for _, w := range warehouses {
		if w.ID == warehouseID {
			branch = w
			break
		}
	}
	if branch == nil {
		return nil, nil
	}
	stock, err := r.Stock.GetForUpdate(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	if stock.Quantity <= 0 {
		return nil, nil
	}
	if _, err := r.Stock.Decrement(ctx, productID, warehouseID, stock.Quantity); err != nil {
		return nil, err
	}
	if _, err := r.Stock.Increment(ctx, productID, central.ID, stock.Quantity); err != nil {
		return nil, err
	}
	rec := &entity.TransactionRecord{
		Type:              entity.MovementTransfer,
		ProductID:         productID,
		SourceWarehouseID: strPtr(warehouseID),
		TargetWarehouseID: strPtr(central.ID),
		Quantity:          stock.Quantity,
		Note:              strPtr(fmt.Sprintf("AUTO-CONSOLIDATION: moved from %s to %s", branch.Name, central.Name)),
	}
	return rec, r.Transactions.Append(ctx, rec)
}
