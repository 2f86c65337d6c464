package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Engine      *inventory.MovementEngine
	Query       *inventory.QueryService
	WarehouseUC *usecase.WarehouseUseCase
	ProductUC   *usecase.ProductUseCase
	Auth        TokenVerifier // nil = sin autenticación
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	if deps.Auth != nil {
		api.Use(CallerIdentity(deps.Auth))
	}

	// Warehouses
	warehouses := api.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC, deps.Query)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", warehouseHandler.Update)
	warehouses.Delete("/:id", warehouseHandler.Delete)
	warehouses.Get("/:id/stock", warehouseHandler.Stock)
	warehouses.Get("/:id/valuation", warehouseHandler.Valuation)

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.Query)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Get("/:id/stock", productHandler.Stock)
	products.Get("/:id/transactions", productHandler.History)

	// Inventory movements
	invGroup := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Engine, deps.Query)
	invGroup.Post("/inbound", inventoryHandler.Inbound)
	invGroup.Post("/outbound", inventoryHandler.Outbound)
	invGroup.Post("/transfer", inventoryHandler.Transfer)
	invGroup.Get("/transactions", inventoryHandler.Transactions)
	invGroup.Post("/consolidate", inventoryHandler.Consolidate)
}
