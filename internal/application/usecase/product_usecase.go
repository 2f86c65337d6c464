package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ProductUseCase casos de uso CRUD para productos. El stock solo cambia vía movimientos.
type ProductUseCase struct {
	txRunner inventory.TxRunner
	repos    inventory.Repos
	engine   *inventory.MovementEngine
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(txRunner inventory.TxRunner, repos inventory.Repos, engine *inventory.MovementEngine) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, repos: repos, engine: engine}
}

// Create crea el producto y, si se indica, siembra el stock inicial en la bodega (INITIAL_ADJUSTMENT).
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	product, err := uc.engine.CreateProductWithInitialStock(ctx, inventory.ProductInput{
		SKU:      in.SKU,
		Name:     in.Name,
		Category: in.Category,
		Price:    in.Price,
	}, in.InitialStock, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto activo por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repos.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil || product.Deleted() {
		return nil, fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
	}
	return toProductResponse(product), nil
}

// Update actualiza nombre, categoría y precio.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.Price != nil && in.Price.IsNegative() {
		return nil, fmt.Errorf("precio negativo: %w", domain.ErrInvalidInput)
	}
	var product *entity.Product
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r inventory.Repos) error {
		p, err := r.Products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil || p.Deleted() {
			return fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
		}
		if in.Name != nil {
			p.Name = strings.TrimSpace(*in.Name)
		}
		if in.Category != nil {
			p.Category = *in.Category
		}
		if in.Price != nil {
			p.PriceCents = entity.PriceToCents(*in.Price)
		}
		product = p
		return r.Products.Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos activos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	if err := dto.Validate(page); err != nil {
		return nil, err
	}
	list, err := uc.repos.Products.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete da de baja el producto; solo si no queda stock en ninguna bodega.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(ctx context.Context, r inventory.Repos) error {
		p, err := r.Products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil || p.Deleted() {
			return fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
		}
		total, err := r.Stock.SumByProduct(ctx, id)
		if err != nil {
			return err
		}
		if total > 0 {
			return fmt.Errorf("producto %s tiene %d unidades: %w", id, total, domain.ErrConflict)
		}
		return r.Products.SoftDelete(ctx, id)
	})
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:        p.ID,
		SKU:       p.SKU,
		Name:      p.Name,
		Category:  p.Category,
		Price:     p.Price(),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
