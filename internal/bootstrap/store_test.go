package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

func TestOpenStore_Memory(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: config.StoreDriverMemory}}
	s, err := OpenStore(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer s.Close()

	require.NotNil(t, s.TxRunner)
	list, err := s.Repos.Warehouses.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: "sqlite"}}
	_, err := OpenStore(context.Background(), cfg, logger.Nop())
	require.Error(t, err)
}

func TestResolver_ConfiguredPolicy(t *testing.T) {
	warehouses := []*entity.Warehouse{
		{ID: "a", Name: "Gudang Utama", Code: "WH-GUDANG-UTAMA"},
		{ID: "b", Name: "Central", Code: "HQ"},
	}

	assert.Equal(t, "a", Resolver(config.HubConfig{}).Resolve(warehouses).ID)
	assert.Equal(t, "b", Resolver(config.HubConfig{PrimaryCode: "HQ"}).Resolve(warehouses).ID)
}
