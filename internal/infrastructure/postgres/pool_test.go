package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/pkg/config"
)

func TestPoolConfig(t *testing.T) {
	pc, err := poolConfig(config.DBConfig{
		DatabaseURL: "postgres://ledger:secret@db:5432/ledger?sslmode=disable",
		MaxConns:    7,
		ForceIPv4:   true,
	})
	require.NoError(t, err)

	assert.Equal(t, int32(7), pc.MaxConns)
	assert.Equal(t, int32(2), pc.MinConns)
	assert.Equal(t, "db", pc.ConnConfig.Host)
	assert.NotNil(t, pc.ConnConfig.DialFunc)
	assert.NotNil(t, pc.AfterConnect)
}

func TestPoolConfig_SingleConnection(t *testing.T) {
	pc, err := poolConfig(config.DBConfig{DatabaseURL: "postgres://u@localhost/db", MaxConns: 1})
	require.NoError(t, err)
	assert.Equal(t, int32(1), pc.MinConns)
}
