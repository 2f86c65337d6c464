package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/hub"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/stock-ledger/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "stock-ledger-test"
	testUserID    = "staff-42"
)

// buildTestApp construye la API completa sobre el almacenamiento en memoria.
// Con signer nil la API queda sin autenticación.
func buildTestApp(t *testing.T, signer *pkgjwt.Signer) (*fiber.App, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	resolver := hub.NewResolver(hub.DefaultPolicy())
	engine := inventory.NewMovementEngine(store, resolver)
	query := inventory.NewQueryService(repos.Stock, repos.Transactions, repos.Products, repos.Warehouses, 0)

	deps := apphttp.RouterDeps{
		Engine:      engine,
		Query:       query,
		WarehouseUC: usecase.NewWarehouseUseCase(store, repos, resolver, nil),
		ProductUC:   usecase.NewProductUseCase(store, repos, engine),
	}
	if signer != nil {
		deps.Auth = signer
	}
	app := fiber.New()
	apphttp.Router(app, deps)
	return app, store
}

func testSigner(t *testing.T) *pkgjwt.Signer {
	t.Helper()
	s, err := pkgjwt.NewSigner(testJWTSecret, testIssuer, time.Hour)
	require.NoError(t, err)
	return s
}

// call lanza la petición y decodifica el body JSON (si lo hay).
func call(t *testing.T, app *fiber.App, method, path string, body any, authHeader string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func mustCreate(t *testing.T, app *fiber.App, path string, body any) string {
	t.Helper()
	status, out := call(t, app, http.MethodPost, path, body, "")
	require.Equal(t, http.StatusCreated, status, out)
	return out["id"].(string)
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo completo
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_ProductStockReportsLowStock(t *testing.T) {
	app, _ := buildTestApp(t, nil)
	hubID := mustCreate(t, app, "/api/warehouses", map[string]any{"name": "Gudang Utama", "code": hub.DefaultPrimaryCode})
	productID := mustCreate(t, app, "/api/products", map[string]any{
		"sku": "SKU-LOW", "name": "Arandela", "initial_stock": 3, "warehouse_id": hubID,
	})

	status, out := call(t, app, http.MethodGet, "/api/products/"+productID+"/stock", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 3, out["total_stock"])
	assert.Equal(t, true, out["low_stock"])
	assert.EqualValues(t, inventory.DefaultLowStockThreshold, out["threshold"])

	status, out = call(t, app, http.MethodGet, "/api/products/missing/stock", nil, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", out["code"])
}

func TestRouter_InventoryFlow(t *testing.T) {
	app, _ := buildTestApp(t, nil)

	hubID := mustCreate(t, app, "/api/warehouses", map[string]any{"name": "Gudang Utama", "code": hub.DefaultPrimaryCode})
	branchID := mustCreate(t, app, "/api/warehouses", map[string]any{"name": "Cabang Bandung", "code": "WH-BDG"})
	productID := mustCreate(t, app, "/api/products", map[string]any{
		"sku": "SKU-1", "name": "Tornillo", "price": "2.50", "initial_stock": 20, "warehouse_id": hubID,
	})

	status, out := call(t, app, http.MethodGet, "/api/warehouses/"+hubID, nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, out["is_hub"])

	// Entrada a sucursal: sale de la central.
	status, out = call(t, app, http.MethodPost, "/api/inventory/inbound",
		map[string]any{"warehouse_id": branchID, "product_id": productID, "quantity": 5}, "")
	require.Equal(t, http.StatusCreated, status, out)
	assert.Equal(t, "TRANSFER", out["type"])
	assert.Equal(t, hubID, out["source_warehouse_id"])
	assert.Nil(t, out["note"], "sin usuario no hay nota por defecto")

	// Salida mayor al saldo.
	status, out = call(t, app, http.MethodPost, "/api/inventory/outbound",
		map[string]any{"warehouse_id": branchID, "product_id": productID, "quantity": 10}, "")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", out["code"])

	// Traslado a la misma bodega.
	status, out = call(t, app, http.MethodPost, "/api/inventory/transfer", map[string]any{
		"from_warehouse_id": branchID, "to_warehouse_id": branchID, "product_id": productID, "quantity": 1,
	}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", out["code"])

	status, out = call(t, app, http.MethodGet, "/api/products/"+productID+"/stock", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 20, out["total_stock"])
	assert.Equal(t, false, out["low_stock"])

	status, out = call(t, app, http.MethodGet, "/api/inventory/transactions?limit=10", nil, "")
	require.Equal(t, http.StatusOK, status)
	items := out["items"].([]any)
	require.Len(t, items, 2)
	assert.Equal(t, "TRANSFER", items[0].(map[string]any)["type"])
	assert.Equal(t, "INITIAL_ADJUSTMENT", items[1].(map[string]any)["type"])

	status, out = call(t, app, http.MethodGet, "/api/warehouses/"+branchID+"/valuation", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "12.5", out["value"])

	// Bodega con stock no se elimina; el producto tampoco.
	status, out = call(t, app, http.MethodDelete, "/api/warehouses/"+hubID, nil, "")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", out["code"])
	status, _ = call(t, app, http.MethodDelete, "/api/products/"+productID, nil, "")
	assert.Equal(t, http.StatusConflict, status)

	// Consolidación: la sucursal vuelve a la central.
	status, out = call(t, app, http.MethodPost, "/api/inventory/consolidate", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, out["moved"])

	status, out = call(t, app, http.MethodGet, "/api/warehouses/"+branchID+"/stock", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 0, out["total"])

	status, _ = call(t, app, http.MethodDelete, "/api/warehouses/"+branchID, nil, "")
	assert.Equal(t, http.StatusNoContent, status)
}

func TestRouter_ErrorMapping(t *testing.T) {
	app, store := buildTestApp(t, nil)
	whID := mustCreate(t, app, "/api/warehouses", map[string]any{"name": "Main"})
	productID := mustCreate(t, app, "/api/products", map[string]any{"sku": "A", "name": "A"})

	cases := []struct {
		name   string
		body   map[string]any
		status int
		code   string
	}{
		{"cantidad cero", map[string]any{"warehouse_id": whID, "product_id": productID, "quantity": 0}, http.StatusBadRequest, "INVALID_QUANTITY"},
		{"sin bodega", map[string]any{"product_id": productID, "quantity": 1}, http.StatusBadRequest, "VALIDATION"},
		{"producto inexistente", map[string]any{"warehouse_id": whID, "product_id": "nope", "quantity": 1}, http.StatusNotFound, "NOT_FOUND"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, out := call(t, app, http.MethodPost, "/api/inventory/inbound", tc.body, "")
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, out["code"])
		})
	}

	status, out := call(t, app, http.MethodPost, "/api/products", map[string]any{"sku": "A", "name": "otro"}, "")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE", out["code"])

	store.SetFault(func(memory.Op, string, string) error {
		return fmt.Errorf("begin transaction: %w", domain.ErrStoreUnavailable)
	})
	status, out = call(t, app, http.MethodPost, "/api/inventory/inbound",
		map[string]any{"warehouse_id": whID, "product_id": productID, "quantity": 1}, "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "STORE_UNAVAILABLE", out["code"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Autenticación
// ──────────────────────────────────────────────────────────────────────────────

func TestCallerIdentity_RequiresToken(t *testing.T) {
	app, _ := buildTestApp(t, testSigner(t))

	status, out := call(t, app, http.MethodGet, "/api/warehouses", nil, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "MISSING_TOKEN", out["code"])

	status, out = call(t, app, http.MethodGet, "/api/warehouses", nil, "Bearer token.invalido.aqui")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_TOKEN", out["code"])

	status, out = call(t, app, http.MethodGet, "/api/warehouses", nil, "Basic abc")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_TOKEN", out["code"])
}

func TestCallerIdentity_CallerDrivesDefaultNote(t *testing.T) {
	signer := testSigner(t)
	app, _ := buildTestApp(t, signer)
	tok, err := signer.Issue(testUserID)
	require.NoError(t, err)
	bearer := "Bearer " + tok

	status, out := call(t, app, http.MethodPost, "/api/warehouses", map[string]any{"name": "Main Warehouse"}, bearer)
	require.Equal(t, http.StatusCreated, status, out)
	whID := out["id"].(string)
	status, out = call(t, app, http.MethodPost, "/api/products", map[string]any{"sku": "A", "name": "A"}, bearer)
	require.Equal(t, http.StatusCreated, status, out)
	productID := out["id"].(string)

	status, out = call(t, app, http.MethodPost, "/api/inventory/inbound",
		map[string]any{"warehouse_id": whID, "product_id": productID, "quantity": 3}, bearer)
	require.Equal(t, http.StatusCreated, status, out)
	assert.Equal(t, "INBOUND", out["type"])
	assert.Equal(t, "Inbound by staff staff-42 (Supplier)", out["note"])
}
