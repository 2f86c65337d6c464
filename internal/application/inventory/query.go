package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// DefaultLowStockThreshold stock total por debajo del cual un producto se considera bajo.
const DefaultLowStockThreshold int64 = 10

// QueryService consultas de solo lectura sobre saldos y libro. Sin caché: se recalcula en cada llamada.
type QueryService struct {
	stockRepo       repository.StockRepository
	transactionRepo repository.TransactionRepository
	productRepo     repository.ProductRepository
	warehouseRepo   repository.WarehouseRepository
	lowStock        int64
}

// NewQueryService construye el servicio. lowStockThreshold <= 0 usa DefaultLowStockThreshold.
func NewQueryService(
	stockRepo repository.StockRepository,
	transactionRepo repository.TransactionRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	lowStockThreshold int64,
) *QueryService {
	if lowStockThreshold <= 0 {
		lowStockThreshold = DefaultLowStockThreshold
	}
	return &QueryService{
		stockRepo:       stockRepo,
		transactionRepo: transactionRepo,
		productRepo:     productRepo,
		warehouseRepo:   warehouseRepo,
		lowStock:        lowStockThreshold,
	}
}

// TotalStock suma los saldos del producto en todas las bodegas.
func (s *QueryService) TotalStock(ctx context.Context, productID string) (int64, error) {
	if err := s.requireProduct(ctx, productID); err != nil {
		return 0, err
	}
	return s.stockRepo.SumByProduct(ctx, productID)
}

// IsLowStock indica si el stock total está por debajo del umbral.
func (s *QueryService) IsLowStock(ctx context.Context, productID string) (bool, error) {
	total, err := s.TotalStock(ctx, productID)
	if err != nil {
		return false, err
	}
	return total < s.lowStock, nil
}

// LowStockThreshold devuelve el umbral configurado.
func (s *QueryService) LowStockThreshold() int64 {
	return s.lowStock
}

// RecentTransactions últimos movimientos, más recientes primero; sin límite si limit <= 0.
func (s *QueryService) RecentTransactions(ctx context.Context, limit int) ([]*entity.TransactionRecord, error) {
	return s.transactionRepo.ListRecent(ctx, limit)
}

// ProductHistory movimientos de un producto, más recientes primero.
func (s *QueryService) ProductHistory(ctx context.Context, productID string, limit int) ([]*entity.TransactionRecord, error) {
	if err := s.requireProduct(ctx, productID); err != nil {
		return nil, err
	}
	return s.transactionRepo.ListByProduct(ctx, productID, limit)
}

// WarehouseStock saldos de una bodega ordenados por cantidad descendente.
func (s *QueryService) WarehouseStock(ctx context.Context, warehouseID string) ([]*entity.StockBalance, error) {
	if err := s.requireWarehouse(ctx, warehouseID); err != nil {
		return nil, err
	}
	return s.stockRepo.ListByWarehouse(ctx, warehouseID)
}

// WarehouseValuation valor del inventario de una bodega (cantidad * precio).
func (s *QueryService) WarehouseValuation(ctx context.Context, warehouseID string) (decimal.Decimal, error) {
	if err := s.requireWarehouse(ctx, warehouseID); err != nil {
		return decimal.Zero, err
	}
	return s.stockRepo.ValuationByWarehouse(ctx, warehouseID)
}

func (s *QueryService) requireProduct(ctx context.Context, id string) error {
	p, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (s *QueryService) requireWarehouse(ctx context.Context, id string) error {
	w, err := s.warehouseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if w == nil {
		return fmt.Errorf("bodega %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
