package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	assert.Equal(t, 3, cfg.DB.TxMaxAttempts)
	assert.True(t, cfg.DB.Migrate)
	assert.Equal(t, "WH-GUDANG-UTAMA", cfg.Hub.PrimaryCode)
	assert.Equal(t, "WH-MAIN", cfg.Hub.SecondaryCode)
	assert.Equal(t, []string{"Utama", "Main", "Pusat"}, cfg.Hub.NameHints)
	assert.Equal(t, int64(10), cfg.Inventory.LowStockThreshold)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("STORE_DRIVER", "MEMORY")
	t.Setenv("DB_TX_MAX_ATTEMPTS", "5")
	t.Setenv("DB_MIGRATE", "false")
	t.Setenv("HUB_NAME_HINTS", " Central , ,Hub")
	t.Setenv("LOW_STOCK_THRESHOLD", "25")
	t.Setenv("HTTP_PORT", "9090")

	v := viper.New()
	v.AutomaticEnv()
	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, 5, cfg.DB.TxMaxAttempts)
	assert.False(t, cfg.DB.Migrate)
	assert.Equal(t, []string{"Central", "Hub"}, cfg.Hub.NameHints)
	assert.Equal(t, int64(25), cfg.Inventory.LowStockThreshold)
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestLoad_InvalidDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	v := viper.New()
	v.AutomaticEnv()
	_, err := fromViper(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_DRIVER")
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "ledger", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/ledger?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
