package hub_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/hub"
)

var base = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func wh(id, code, name string, ageRank int) *entity.Warehouse {
	return &entity.Warehouse{ID: id, Code: code, Name: name, CreatedAt: base.Add(time.Duration(ageRank) * time.Hour)}
}

func TestResolve_SinBodegas(t *testing.T) {
	r := hub.NewResolver(hub.DefaultPolicy())
	assert.Nil(t, r.Resolve(nil))
	assert.Nil(t, r.Resolve([]*entity.Warehouse{}))
}

func TestResolve_CodigoPrimarioGana(t *testing.T) {
	r := hub.NewResolver(hub.DefaultPolicy())
	list := []*entity.Warehouse{
		wh("a", "WH-MAIN", "Gudang Main", 0),
		wh("b", "WH-PUSAT", "Gudang Pusat", 1),
		wh("c", "WH-GUDANG-UTAMA", "Bodega Norte", 2),
	}
	got := r.Resolve(list)
	require.NotNil(t, got)
	assert.Equal(t, "c", got.ID)
}

func TestResolve_CodigoSecundario(t *testing.T) {
	r := hub.NewResolver(hub.DefaultPolicy())
	list := []*entity.Warehouse{
		wh("a", "WH-01", "Gudang Pusat", 0),
		wh("b", "WH-MAIN", "Cabang Timur", 1),
	}
	got := r.Resolve(list)
	require.NotNil(t, got)
	assert.Equal(t, "b", got.ID, "el código secundario tiene prioridad sobre las pistas de nombre")
}

func TestResolve_PistaDeNombreSinDistinguirMayusculas(t *testing.T) {
	r := hub.NewResolver(hub.DefaultPolicy())
	list := []*entity.Warehouse{
		wh("a", "WH-01", "Cabang Barat", 0),
		wh("b", "WH-02", "GUDANG UTAMA JAKARTA", 1),
		wh("c", "WH-03", "gudang pusat", 2),
	}
	got := r.Resolve(list)
	require.NotNil(t, got)
	assert.Equal(t, "b", got.ID, "entre varias coincidencias gana la más antigua")
}

func TestResolve_FallbackBodegaMasAntigua(t *testing.T) {
	r := hub.NewResolver(hub.DefaultPolicy())
	list := []*entity.Warehouse{
		wh("z", "WH-09", "Cabang Selatan", 3),
		wh("y", "WH-08", "Cabang Utara", 1),
		wh("x", "WH-07", "Cabang Timur", 2),
	}
	got := r.Resolve(list)
	require.NotNil(t, got)
	assert.Equal(t, "y", got.ID)
}

func TestResolve_FallbackDesempatePorID(t *testing.T) {
	r := hub.NewResolver(hub.DefaultPolicy())
	list := []*entity.Warehouse{
		wh("02", "A", "Uno", 0),
		wh("01", "B", "Dos", 0),
	}
	got := r.Resolve(list)
	require.NotNil(t, got)
	assert.Equal(t, "01", got.ID)
}

func TestResolve_PoliticaPersonalizada(t *testing.T) {
	r := hub.NewResolver(hub.Policy{PrimaryCode: "CENTRAL", NameHints: []string{"  ", "Bodega Central"}})
	list := []*entity.Warehouse{
		wh("a", "WH-MAIN", "Gudang Main", 0),
		wh("b", "X", "bodega central sur", 1),
	}
	got := r.Resolve(list)
	require.NotNil(t, got)
	assert.Equal(t, "b", got.ID, "WH-MAIN no es reservado en esta política")
}

func TestIsHub(t *testing.T) {
	r := hub.NewResolver(hub.DefaultPolicy())
	list := []*entity.Warehouse{
		wh("hub", "WH-MAIN", "Central", 1),
		wh("branch", "WH-01", "Cabang", 0),
	}
	assert.True(t, r.IsHub(list, "hub"))
	assert.False(t, r.IsHub(list, "branch"))
	assert.False(t, r.IsHub(nil, "hub"))
}
