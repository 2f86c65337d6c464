package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// InventoryHandler maneja las peticiones HTTP de movimientos y del libro.
type InventoryHandler struct {
	engine *inventory.MovementEngine
	query  *inventory.QueryService
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(engine *inventory.MovementEngine, query *inventory.QueryService) *InventoryHandler {
	return &InventoryHandler{engine: engine, query: query}
}

// Inbound godoc
// @Summary      Registrar entrada de stock
// @Description  En la bodega central es recepción de proveedor (INBOUND); en una sucursal se toma de la central (TRANSFER).
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MovementRequest  true  "warehouse_id, product_id, quantity, note"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/inbound [post]
func (h *InventoryHandler) Inbound(c *fiber.Ctx) error {
	return h.movement(c, h.engine.Inbound)
}

// Outbound godoc
// @Summary      Registrar salida de stock
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MovementRequest  true  "warehouse_id, product_id, quantity, note"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/outbound [post]
func (h *InventoryHandler) Outbound(c *fiber.Ctx) error {
	return h.movement(c, h.engine.Outbound)
}

type movementFunc func(ctx context.Context, in inventory.MovementInput) (*entity.TransactionRecord, error)

func (h *InventoryHandler) movement(c *fiber.Ctx, run movementFunc) error {
	var body dto.MovementRequest
	if err := c.BodyParser(&body); err != nil {
		return badBody(c)
	}
	if err := dto.Validate(body); err != nil {
		return writeError(c, err)
	}
	rec, err := run(c.UserContext(), inventory.MovementInput{
		WarehouseID: body.WarehouseID,
		ProductID:   body.ProductID,
		Quantity:    body.Quantity,
		Note:        body.Note,
		CallerID:    CallerID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTransactionResponse(rec))
}

// Transfer godoc
// @Summary      Trasladar stock entre bodegas
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "from_warehouse_id, to_warehouse_id, product_id, quantity, note"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfer [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	var body dto.TransferRequest
	if err := c.BodyParser(&body); err != nil {
		return badBody(c)
	}
	if err := dto.Validate(body); err != nil {
		return writeError(c, err)
	}
	rec, err := h.engine.Transfer(c.UserContext(), inventory.TransferInput{
		FromWarehouseID: body.FromWarehouseID,
		ToWarehouseID:   body.ToWarehouseID,
		ProductID:       body.ProductID,
		Quantity:        body.Quantity,
		Note:            body.Note,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTransactionResponse(rec))
}

// Transactions godoc
// @Summary      Últimos movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Máximo de registros (vacío = todos)"
// @Success      200  {object}  dto.TransactionListResponse
// @Router       /api/inventory/transactions [get]
func (h *InventoryHandler) Transactions(c *fiber.Ctx) error {
	list, err := h.query.RecentTransactions(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.TransactionListResponse{Items: toTransactionList(list)})
}

// Consolidate godoc
// @Summary      Consolidar stock de sucursales en la bodega central
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ConsolidationResponse
// @Router       /api/inventory/consolidate [post]
func (h *InventoryHandler) Consolidate(c *fiber.Ctx) error {
	moved, err := h.engine.ConsolidateToHub(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ConsolidationResponse{Moved: len(moved), Transactions: toTransactionList(moved)})
}
