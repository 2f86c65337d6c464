package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID devuelve nil, nil si no existe; los productos dados de baja se devuelven con DeletedAt.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila en exclusiva hasta el fin de la transacción (baja, edición).
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// GetForShare bloquea la fila en modo compartido: los movimientos no se cruzan con una baja.
	GetForShare(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	SoftDelete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
}
