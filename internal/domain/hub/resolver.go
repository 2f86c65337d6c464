// Package hub resuelve cuál bodega actúa como central (hub) de la red.
// La resolución es una función pura sobre el listado de bodegas: no consulta la BD ni cachea.
package hub

import (
	"strings"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"golang.org/x/text/cases"
)

// Valores por defecto de la convención de nombres.
const (
	DefaultPrimaryCode   = "WH-GUDANG-UTAMA"
	DefaultSecondaryCode = "WH-MAIN"
)

// DefaultNameHints fragmentos de nombre que identifican a la bodega central.
var DefaultNameHints = []string{"Utama", "Main", "Pusat"}

// Policy códigos reservados y pistas de nombre, en orden de precedencia.
type Policy struct {
	PrimaryCode   string
	SecondaryCode string
	NameHints     []string
}

// DefaultPolicy devuelve la política estándar.
func DefaultPolicy() Policy {
	hints := make([]string, len(DefaultNameHints))
	copy(hints, DefaultNameHints)
	return Policy{
		PrimaryCode:   DefaultPrimaryCode,
		SecondaryCode: DefaultSecondaryCode,
		NameHints:     hints,
	}
}

// Resolver aplica una Policy.
type Resolver struct {
	policy Policy
}

// NewResolver construye el resolver.
func NewResolver(policy Policy) *Resolver {
	return &Resolver{policy: policy}
}

// Resolve devuelve la bodega central o nil si no hay bodegas. Primera coincidencia gana:
//  1. código == PrimaryCode
//  2. código == SecondaryCode
//  3. nombre contiene alguna pista (sin distinguir mayúsculas); si hay varias, la más antigua
//  4. la bodega más antigua (CreatedAt, desempate por ID)
func (r *Resolver) Resolve(warehouses []*entity.Warehouse) *entity.Warehouse {
	if len(warehouses) == 0 {
		return nil
	}
	if w := byCode(warehouses, r.policy.PrimaryCode); w != nil {
		return w
	}
	if w := byCode(warehouses, r.policy.SecondaryCode); w != nil {
		return w
	}
	if w := r.byNameHint(warehouses); w != nil {
		return w
	}
	return oldest(warehouses)
}

// IsHub indica si warehouseID es la bodega central resuelta.
func (r *Resolver) IsHub(warehouses []*entity.Warehouse, warehouseID string) bool {
	h := r.Resolve(warehouses)
	return h != nil && h.ID == warehouseID
}

func byCode(warehouses []*entity.Warehouse, code string) *entity.Warehouse {
	if code == "" {
		return nil
	}
	var match []*entity.Warehouse
	for _, w := range warehouses {
		if w != nil && w.Code == code {
			match = append(match, w)
		}
	}
	return oldest(match)
}

func (r *Resolver) byNameHint(warehouses []*entity.Warehouse) *entity.Warehouse {
	// cases.Caser tiene estado: uno por llamada.
	fold := cases.Fold()
	hints := make([]string, 0, len(r.policy.NameHints))
	for _, h := range r.policy.NameHints {
		if h = strings.TrimSpace(h); h != "" {
			hints = append(hints, fold.String(h))
		}
	}
	if len(hints) == 0 {
		return nil
	}
	var match []*entity.Warehouse
	for _, w := range warehouses {
		if w == nil {
			continue
		}
		name := fold.String(w.Name)
		for _, h := range hints {
			if strings.Contains(name, h) {
				match = append(match, w)
				break
			}
		}
	}
	return oldest(match)
}

func oldest(warehouses []*entity.Warehouse) *entity.Warehouse {
	var best *entity.Warehouse
	for _, w := range warehouses {
		if w == nil {
			continue
		}
		if best == nil || w.CreatedAt.Before(best.CreatedAt) ||
			(w.CreatedAt.Equal(best.CreatedAt) && w.ID < best.ID) {
			best = w
		}
	}
	return best
}
