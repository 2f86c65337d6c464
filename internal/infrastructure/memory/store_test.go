package memory_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

func TestStore_RunRestoresStateOnError(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()
	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: "w1", Name: "Main"}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p1", SKU: "A", Name: "A"}))

	boom := errors.New("boom")
	err := store.Run(ctx, func(ctx context.Context, r inventory.Repos) error {
		_, err := r.Stock.Increment(ctx, "p1", "w1", 7)
		require.NoError(t, err)
		require.NoError(t, r.Transactions.Append(ctx, &entity.TransactionRecord{Type: entity.MovementInbound, ProductID: "p1", Quantity: 7}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	s, err := repos.Stock.Get(ctx, "p1", "w1")
	require.NoError(t, err)
	assert.Zero(t, s.Quantity)
	recent, err := repos.Transactions.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestStore_FaultInjection(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	injected := errors.New("disk full")
	store.SetFault(func(op memory.Op, _, warehouseID string) error {
		if op == memory.OpStockIncrement && warehouseID == "w2" {
			return injected
		}
		return nil
	})

	repos := store.Repos()
	_, err := repos.Stock.Increment(ctx, "p1", "w1", 1)
	require.NoError(t, err)
	_, err = repos.Stock.Increment(ctx, "p1", "w2", 1)
	require.ErrorIs(t, err, injected)

	store.SetFault(nil)
	_, err = repos.Stock.Increment(ctx, "p1", "w2", 1)
	require.NoError(t, err)
}

func TestStore_RunHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := memory.NewStore().Run(ctx, func(context.Context, inventory.Repos) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestStockRepo_DecrementAndDelete(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repos()

	_, err := repos.Stock.Increment(ctx, "p1", "w1", 5)
	require.NoError(t, err)

	_, err = repos.Stock.Decrement(ctx, "p1", "w1", 6)
	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(5), insufficient.Available)
	assert.Equal(t, int64(1), insufficient.Shortfall())

	// Delete no toca filas con saldo.
	require.NoError(t, repos.Stock.Delete(ctx, "p1", "w1"))
	rows, err := repos.Stock.ListByWarehouse(ctx, "w1")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	left, err := repos.Stock.Decrement(ctx, "p1", "w1", 5)
	require.NoError(t, err)
	assert.Zero(t, left)
	require.NoError(t, repos.Stock.Delete(ctx, "p1", "w1"))
	rows, err = repos.Stock.ListByWarehouse(ctx, "w1")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestStockRepo_QuantitiesNeverOverflow(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repos()

	_, err := repos.Stock.Increment(ctx, "p1", "w1", math.MaxInt64)
	require.NoError(t, err)

	_, err = repos.Stock.Increment(ctx, "p1", "w1", 1)
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)
	// El total del producto tampoco puede desbordar repartido en otra bodega.
	_, err = repos.Stock.Increment(ctx, "p1", "w2", 1)
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)

	s, err := repos.Stock.Get(ctx, "p1", "w1")
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), s.Quantity)

	// Dos productos distintos sí caben por separado, pero no sumados por bodega.
	_, err = repos.Stock.Increment(ctx, "p2", "w1", 1)
	require.NoError(t, err)
	_, err = repos.Stock.SumByWarehouse(ctx, "w1")
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)

	total, err := repos.Stock.SumByProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), total)
}

func TestStockRepo_Valuation(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p1", SKU: "A", Name: "A", PriceCents: 250}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p2", SKU: "B", Name: "B", PriceCents: 1999}))
	_, _ = repos.Stock.Increment(ctx, "p1", "w1", 4)
	_, _ = repos.Stock.Increment(ctx, "p2", "w1", 2)
	_, _ = repos.Stock.Increment(ctx, "p2", "w2", 100)

	v, err := repos.Stock.ValuationByWarehouse(ctx, "w1")
	require.NoError(t, err)
	assert.True(t, v.Equal(decimal.RequireFromString("49.98")), v.String())
}

func TestTransactionRepo_OrderAndDetach(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repos := memory.NewStore(memory.WithClock(func() time.Time { return fixed })).Repos()

	w1, w2 := "w1", "w2"
	for i, rec := range []*entity.TransactionRecord{
		{Type: entity.MovementInbound, ProductID: "p1", TargetWarehouseID: &w1, Quantity: 1},
		{Type: entity.MovementTransfer, ProductID: "p1", SourceWarehouseID: &w1, TargetWarehouseID: &w2, Quantity: 1},
		{Type: entity.MovementOutbound, ProductID: "p2", SourceWarehouseID: &w2, Quantity: 1},
	} {
		require.NoError(t, repos.Transactions.Append(ctx, rec), i)
		assert.NotEmpty(t, rec.ID)
	}

	recent, err := repos.Transactions.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, entity.MovementOutbound, recent[0].Type)
	assert.Equal(t, entity.MovementTransfer, recent[1].Type)
	// Reloj fijo: los timestamps siguen siendo estrictamente crecientes.
	assert.True(t, recent[0].Timestamp.After(recent[1].Timestamp))

	history, err := repos.Transactions.ListByProduct(ctx, "p1", 0)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	n, err := repos.Transactions.DetachWarehouse(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	history, err = repos.Transactions.ListByProduct(ctx, "p1", 0)
	require.NoError(t, err)
	assert.Nil(t, history[0].SourceWarehouseID)
	assert.Equal(t, "w2", *history[0].TargetWarehouseID)
	assert.Nil(t, history[1].TargetWarehouseID)
}

func TestCatalog_DuplicatesAndOrdering(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repos()

	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: "b", Name: "B", Code: "WH-1"}))
	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: "a", Name: "A"}))
	require.ErrorIs(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: "c", Name: "C", Code: "WH-1"}), domain.ErrDuplicate)

	list, err := repos.Warehouses.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID, "más antigua primero")

	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p1", SKU: "A", Name: "A"}))
	require.ErrorIs(t, repos.Products.Create(ctx, &entity.Product{ID: "p2", SKU: "A", Name: "A2"}), domain.ErrDuplicate)
	require.NoError(t, repos.Products.SoftDelete(ctx, "p1"))
	require.ErrorIs(t, repos.Products.SoftDelete(ctx, "p1"), domain.ErrNotFound)

	got, err := repos.Products.GetByID(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Deleted())

	active, err := repos.Products.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestWarehouseRepo_DeleteRequiresNoReferences(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	require.NoError(t, repos.Warehouses.Create(ctx, &entity.Warehouse{ID: "w1", Name: "A"}))
	_, err := repos.Stock.Increment(ctx, "p1", "w1", 0)
	require.NoError(t, err)

	require.ErrorIs(t, repos.Warehouses.Delete(ctx, "w1"), domain.ErrConflict)
	require.NoError(t, repos.Stock.DeleteEmptyByWarehouse(ctx, "w1"))
	require.NoError(t, repos.Warehouses.Delete(ctx, "w1"))
	require.ErrorIs(t, repos.Warehouses.Delete(ctx, "w1"), domain.ErrNotFound)
}
