package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
)

func TestQuery_LowStockThreshold(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "A", 9)

	assert.Equal(t, inventory.DefaultLowStockThreshold, f.query.LowStockThreshold())
	low, err := f.query.IsLowStock(f.ctx, p)
	require.NoError(t, err)
	assert.True(t, low, "9 < 10")

	_, err = f.engine.Inbound(f.ctx, inventory.MovementInput{WarehouseID: f.hubID, ProductID: p, Quantity: 1})
	require.NoError(t, err)
	low, err = f.query.IsLowStock(f.ctx, p)
	require.NoError(t, err)
	assert.False(t, low, "10 no es bajo")

	custom := inventory.NewQueryService(f.repos.Stock, f.repos.Transactions, f.repos.Products, f.repos.Warehouses, 50)
	assert.Equal(t, int64(50), custom.LowStockThreshold())
	low, err = custom.IsLowStock(f.ctx, p)
	require.NoError(t, err)
	assert.True(t, low)
}

func TestQuery_UnknownReferences(t *testing.T) {
	f := newFixture(t)

	_, err := f.query.TotalStock(f.ctx, "nope")
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.query.ProductHistory(f.ctx, "nope", 0)
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.query.WarehouseStock(f.ctx, "nope")
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.query.WarehouseValuation(f.ctx, "nope")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQuery_HistoryAndRecent(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "A", 20)
	b := f.product(t, "B", 0)

	out, err := f.engine.Outbound(f.ctx, inventory.MovementInput{WarehouseID: f.hubID, ProductID: a, Quantity: 5})
	require.NoError(t, err)
	_, err = f.engine.Inbound(f.ctx, inventory.MovementInput{WarehouseID: f.hubID, ProductID: b, Quantity: 3})
	require.NoError(t, err)

	history, err := f.query.ProductHistory(f.ctx, a, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, out.ID, history[0].ID, "más reciente primero")

	recent, err := f.query.RecentTransactions(f.ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, b, recent[0].ProductID)
	assert.Equal(t, out.ID, recent[1].ID)
}

func TestQuery_WarehouseStockAndValuation(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "A", 2) // 1.25 c/u
	b := f.product(t, "B", 8)

	rows, err := f.query.WarehouseStock(f.ctx, f.hubID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, b, rows[0].ProductID, "orden por cantidad descendente")
	assert.Equal(t, a, rows[1].ProductID)

	value, err := f.query.WarehouseValuation(f.ctx, f.hubID)
	require.NoError(t, err)
	assert.Equal(t, "12.5", value.String())

	empty, err := f.query.WarehouseValuation(f.ctx, f.branch)
	require.NoError(t, err)
	assert.True(t, empty.IsZero())
}
