package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/hub"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// WarehouseUseCase casos de uso CRUD para bodegas.
type WarehouseUseCase struct {
	txRunner inventory.TxRunner
	repos    inventory.Repos
	resolver *hub.Resolver
	log      *logger.Logger
}

// NewWarehouseUseCase construye el caso de uso. repos se usa para lecturas fuera de transacción.
func NewWarehouseUseCase(txRunner inventory.TxRunner, repos inventory.Repos, resolver *hub.Resolver, log *logger.Logger) *WarehouseUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &WarehouseUseCase{txRunner: txRunner, repos: repos, resolver: resolver, log: log}
}

// Create crea una nueva bodega. El código, si se indica, debe ser único.
func (uc *WarehouseUseCase) Create(ctx context.Context, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	warehouse := &entity.Warehouse{
		ID:       newID(),
		Name:     strings.TrimSpace(in.Name),
		Location: in.Location,
		Code:     strings.TrimSpace(in.Code),
		Capacity: in.Capacity,
	}
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r inventory.Repos) error {
		if err := ensureCodeFree(ctx, r, warehouse.Code, ""); err != nil {
			return err
		}
		return r.Warehouses.Create(ctx, warehouse)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("warehouse_id", warehouse.ID).Str("code", warehouse.Code).Msg("bodega creada")
	return uc.respond(ctx, warehouse)
}

// GetByID obtiene una bodega por ID.
func (uc *WarehouseUseCase) GetByID(ctx context.Context, id string) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.repos.Warehouses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil {
		return nil, fmt.Errorf("bodega %s: %w", id, domain.ErrNotFound)
	}
	return uc.respond(ctx, warehouse)
}

// Update actualiza una bodega.
func (uc *WarehouseUseCase) Update(ctx context.Context, id string, in dto.UpdateWarehouseRequest) (*dto.WarehouseResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	var warehouse *entity.Warehouse
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r inventory.Repos) error {
		w, err := r.Warehouses.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if w == nil {
			return fmt.Errorf("bodega %s: %w", id, domain.ErrNotFound)
		}
		if in.Name != nil {
			w.Name = strings.TrimSpace(*in.Name)
		}
		if in.Location != nil {
			w.Location = *in.Location
		}
		if in.Code != nil {
			w.Code = strings.TrimSpace(*in.Code)
			if err := ensureCodeFree(ctx, r, w.Code, w.ID); err != nil {
				return err
			}
		}
		if in.Capacity != nil {
			w.Capacity = in.Capacity
		}
		warehouse = w
		return r.Warehouses.Update(ctx, w)
	})
	if err != nil {
		return nil, err
	}
	return uc.respond(ctx, warehouse)
}

// List lista todas las bodegas, marcando la central.
func (uc *WarehouseUseCase) List(ctx context.Context) (*dto.WarehouseListResponse, error) {
	list, err := uc.repos.Warehouses.List(ctx)
	if err != nil {
		return nil, err
	}
	central := uc.resolver.Resolve(list)
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, toWarehouseResponse(w, central != nil && central.ID == w.ID))
	}
	return &dto.WarehouseListResponse{Items: items}, nil
}

// Delete elimina una bodega vacía. Con stock > 0 falla con ErrConflict; si no, en una sola
// transacción borra sus filas en cero, desvincula el historial y elimina la bodega.
func (uc *WarehouseUseCase) Delete(ctx context.Context, id string) error {
	var detached int64
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r inventory.Repos) error {
		w, err := r.Warehouses.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if w == nil {
			return fmt.Errorf("bodega %s: %w", id, domain.ErrNotFound)
		}
		total, err := r.Stock.SumByWarehouse(ctx, id)
		if err != nil {
			return err
		}
		if total > 0 {
			return fmt.Errorf("bodega %s tiene %d unidades: %w", id, total, domain.ErrConflict)
		}
		if err := r.Stock.DeleteEmptyByWarehouse(ctx, id); err != nil {
			return err
		}
		if detached, err = r.Transactions.DetachWarehouse(ctx, id); err != nil {
			return err
		}
		return r.Warehouses.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("warehouse_id", id).Int64("detached_transactions", detached).Msg("bodega eliminada")
	return nil
}

func (uc *WarehouseUseCase) respond(ctx context.Context, w *entity.Warehouse) (*dto.WarehouseResponse, error) {
	list, err := uc.repos.Warehouses.List(ctx)
	if err != nil {
		return nil, err
	}
	out := toWarehouseResponse(w, uc.resolver.IsHub(list, w.ID))
	return &out, nil
}

func ensureCodeFree(ctx context.Context, r inventory.Repos, code, selfID string) error {
	if code == "" {
		return nil
	}
	existing, err := r.Warehouses.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return fmt.Errorf("código %s: %w", code, domain.ErrDuplicate)
	}
	return nil
}

func toWarehouseResponse(w *entity.Warehouse, isHub bool) dto.WarehouseResponse {
	return dto.WarehouseResponse{
		ID:        w.ID,
		Name:      w.Name,
		Location:  w.Location,
		Code:      w.Code,
		Capacity:  w.Capacity,
		IsHub:     isHub,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
