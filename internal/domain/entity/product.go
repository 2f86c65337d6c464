package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del inventario (multi-bodega).
// El precio se guarda en unidades menores (centavos) para evitar errores de punto flotante;
// el stock vive en StockBalance por bodega.
type Product struct {
	ID         string
	SKU        string // único e inmutable
	Name       string
	Category   string
	PriceCents int64
	DeletedAt  *time.Time // borrado lógico
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Price devuelve el precio como decimal (PriceCents / 100).
func (p *Product) Price() decimal.Decimal {
	return decimal.New(p.PriceCents, -2)
}

// Deleted indica si el producto fue dado de baja.
func (p *Product) Deleted() bool {
	return p.DeletedAt != nil
}

// PriceToCents convierte un precio decimal a centavos redondeando al centavo más cercano.
func PriceToCents(price decimal.Decimal) int64 {
	return price.Shift(2).Round(0).IntPart()
}
