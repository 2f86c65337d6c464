package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.ProductRepository   = (*ProductRepo)(nil)
	_ repository.WarehouseRepository = (*WarehouseRepo)(nil)
)

// ProductRepo catálogo de productos en memoria.
type ProductRepo struct {
	*view
}

// Create falla con ErrDuplicate si el ID o el SKU ya existen.
func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	defer r.lock()()
	if err := r.check(OpProductCreate, p.ID, ""); err != nil {
		return err
	}
	if _, ok := r.s.data.products[p.ID]; ok {
		return fmt.Errorf("product create: %w", domain.ErrDuplicate)
	}
	for _, existing := range r.s.data.products {
		if existing.SKU == p.SKU {
			return fmt.Errorf("product create: sku %q: %w", p.SKU, domain.ErrDuplicate)
		}
	}
	now := r.stamp()
	p.CreatedAt, p.UpdatedAt = now, now
	r.s.data.products[p.ID] = *p
	return nil
}

// GetByID nil, nil si no existe.
func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	defer r.rlock()()
	if p, ok := r.s.data.products[id]; ok {
		return &p, nil
	}
	return nil, nil
}

// GetForUpdate igual que GetByID: Run ya serializa las unidades.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// GetForShare igual que GetByID.
func (r *ProductRepo) GetForShare(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// GetBySKU nil, nil si no existe.
func (r *ProductRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	defer r.rlock()()
	for _, p := range r.s.data.products {
		if p.SKU == sku {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

// Update reemplaza nombre, categoría, SKU y precio.
func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	defer r.lock()()
	current, ok := r.s.data.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	for id, existing := range r.s.data.products {
		if id != p.ID && existing.SKU == p.SKU {
			return fmt.Errorf("product update: sku %q: %w", p.SKU, domain.ErrDuplicate)
		}
	}
	p.CreatedAt = current.CreatedAt
	p.DeletedAt = current.DeletedAt
	p.UpdatedAt = r.stamp()
	r.s.data.products[p.ID] = *p
	return nil
}

// SoftDelete marca DeletedAt.
func (r *ProductRepo) SoftDelete(_ context.Context, id string) error {
	defer r.lock()()
	p, ok := r.s.data.products[id]
	if !ok || p.Deleted() {
		return domain.ErrNotFound
	}
	now := r.stamp()
	p.DeletedAt = &now
	p.UpdatedAt = now
	r.s.data.products[id] = p
	return nil
}

// List productos activos, más recientes primero.
func (r *ProductRepo) List(_ context.Context, limit, offset int) ([]*entity.Product, error) {
	defer r.rlock()()
	list := make([]*entity.Product, 0, len(r.s.data.products))
	for _, p := range r.s.data.products {
		if p.Deleted() {
			continue
		}
		p := p
		list = append(list, &p)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
	if offset > 0 {
		if offset >= len(list) {
			return []*entity.Product{}, nil
		}
		list = list[offset:]
	}
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// WarehouseRepo bodegas en memoria.
type WarehouseRepo struct {
	*view
}

// Create falla con ErrDuplicate si el código ya existe.
func (r *WarehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	defer r.lock()()
	if _, ok := r.s.data.warehouses[w.ID]; ok {
		return fmt.Errorf("warehouse create: %w", domain.ErrDuplicate)
	}
	if r.codeTaken(w.Code, w.ID) {
		return fmt.Errorf("warehouse create: code %q: %w", w.Code, domain.ErrDuplicate)
	}
	now := r.stamp()
	w.CreatedAt, w.UpdatedAt = now, now
	r.s.data.warehouses[w.ID] = *w
	return nil
}

func (r *WarehouseRepo) codeTaken(code, exceptID string) bool {
	if code == "" {
		return false
	}
	for id, existing := range r.s.data.warehouses {
		if id != exceptID && existing.Code == code {
			return true
		}
	}
	return false
}

// GetByID nil, nil si no existe.
func (r *WarehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	defer r.rlock()()
	if w, ok := r.s.data.warehouses[id]; ok {
		return &w, nil
	}
	return nil, nil
}

// GetByCode nil, nil si no existe.
func (r *WarehouseRepo) GetByCode(_ context.Context, code string) (*entity.Warehouse, error) {
	defer r.rlock()()
	for _, w := range r.s.data.warehouses {
		if w.Code == code {
			w := w
			return &w, nil
		}
	}
	return nil, nil
}

// Update reemplaza nombre, ubicación, código y capacidad.
func (r *WarehouseRepo) Update(_ context.Context, w *entity.Warehouse) error {
	defer r.lock()()
	current, ok := r.s.data.warehouses[w.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if r.codeTaken(w.Code, w.ID) {
		return fmt.Errorf("warehouse update: code %q: %w", w.Code, domain.ErrDuplicate)
	}
	w.CreatedAt = current.CreatedAt
	w.UpdatedAt = r.stamp()
	r.s.data.warehouses[w.ID] = *w
	return nil
}

// List más antiguas primero.
func (r *WarehouseRepo) List(_ context.Context) ([]*entity.Warehouse, error) {
	defer r.rlock()()
	list := make([]*entity.Warehouse, 0, len(r.s.data.warehouses))
	for _, w := range r.s.data.warehouses {
		w := w
		list = append(list, &w)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

// Delete falla con ErrConflict si aún hay saldos o movimientos que la referencian.
func (r *WarehouseRepo) Delete(_ context.Context, id string) error {
	defer r.lock()()
	if _, ok := r.s.data.warehouses[id]; !ok {
		return domain.ErrNotFound
	}
	for k := range r.s.data.stock {
		if k.warehouseID == id {
			return fmt.Errorf("warehouse delete: stock rows remain: %w", domain.ErrConflict)
		}
	}
	for _, t := range r.s.data.transactions {
		if derefString(t.SourceWarehouseID) == id || derefString(t.TargetWarehouseID) == id {
			return fmt.Errorf("warehouse delete: transactions reference it: %w", domain.ErrConflict)
		}
	}
	delete(r.s.data.warehouses, id)
	return nil
}
