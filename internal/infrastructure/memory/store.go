// Package memory implementa los repositorios y el TxRunner en memoria (desarrollo y tests).
// Cada Run serializa sobre un mutex, toma una copia del estado y la restaura si fn falla,
// por lo que una unidad se aplica completa o no se aplica.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

var _ inventory.TxRunner = (*Store)(nil)

// Op identifica una escritura del almacenamiento (para inyectar fallos).
type Op string

// Escrituras observables por un Fault.
const (
	OpStockIncrement    Op = "stock.increment"
	OpStockDecrement    Op = "stock.decrement"
	OpStockDelete       Op = "stock.delete"
	OpTransactionAppend Op = "transaction.append"
	OpProductCreate     Op = "product.create"
)

// Fault permite simular fallos de infraestructura: si devuelve error, la escritura falla.
type Fault func(op Op, productID, warehouseID string) error

type stockKey struct {
	productID   string
	warehouseID string
}

type state struct {
	products     map[string]entity.Product
	warehouses   map[string]entity.Warehouse
	stock        map[stockKey]entity.StockBalance
	transactions []entity.TransactionRecord
	lastStamp    time.Time
}

func newState() state {
	return state{
		products:   make(map[string]entity.Product),
		warehouses: make(map[string]entity.Warehouse),
		stock:      make(map[stockKey]entity.StockBalance),
	}
}

func (s state) clone() state {
	c := state{
		products:     make(map[string]entity.Product, len(s.products)),
		warehouses:   make(map[string]entity.Warehouse, len(s.warehouses)),
		stock:        make(map[stockKey]entity.StockBalance, len(s.stock)),
		transactions: make([]entity.TransactionRecord, len(s.transactions)),
		lastStamp:    s.lastStamp,
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.warehouses {
		c.warehouses[k] = v
	}
	for k, v := range s.stock {
		c.stock[k] = v
	}
	copy(c.transactions, s.transactions)
	return c
}

// Store almacenamiento en memoria.
type Store struct {
	mu    sync.RWMutex
	data  state
	now   func() time.Time
	fault Fault
}

// StoreOption configura el Store.
type StoreOption func(*Store)

// WithClock reemplaza time.Now (tests).
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// NewStore construye un almacenamiento vacío.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{data: newState(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetFault instala (o quita con nil) un inyector de fallos.
func (s *Store) SetFault(f Fault) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fault = f
}

// Run ejecuta fn como unidad atómica y serializable.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, r inventory.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	if err := fn(ctx, s.repos(true)); err != nil {
		s.data = snapshot
		return err
	}
	return nil
}

// Repos devuelve repositorios fuera de transacción (cada llamada toma su propio lock).
func (s *Store) Repos() inventory.Repos {
	return s.repos(false)
}

func (s *Store) repos(inTx bool) inventory.Repos {
	v := &view{s: s, inTx: inTx}
	return inventory.Repos{
		Stock:        &StockRepo{v},
		Transactions: &TransactionRepo{v},
		Products:     &ProductRepo{v},
		Warehouses:   &WarehouseRepo{v},
	}
}

// view comparte el estado; dentro de Run el mutex ya está tomado.
type view struct {
	s    *Store
	inTx bool
}

func (v *view) rlock() func() {
	if v.inTx {
		return func() {}
	}
	v.s.mu.RLock()
	return v.s.mu.RUnlock
}

func (v *view) lock() func() {
	if v.inTx {
		return func() {}
	}
	v.s.mu.Lock()
	return v.s.mu.Unlock
}

func (v *view) check(op Op, productID, warehouseID string) error {
	if v.s.fault == nil {
		return nil
	}
	return v.s.fault(op, productID, warehouseID)
}

// stamp devuelve un timestamp estrictamente creciente.
func (v *view) stamp() time.Time {
	t := v.s.now().UTC()
	if !t.After(v.s.data.lastStamp) {
		t = v.s.data.lastStamp.Add(time.Nanosecond)
	}
	v.s.data.lastStamp = t
	return t
}
