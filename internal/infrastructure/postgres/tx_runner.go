package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// DefaultMaxAttempts intentos por unidad ante conflictos de serialización o deadlock.
const DefaultMaxAttempts = 3

// Ensure TxRunner implements inventory.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool        *pgxpool.Pool
	maxAttempts int
	log         *logger.Logger
}

// TxOption configura el runner.
type TxOption func(*TxRunner)

// WithMaxAttempts fija los intentos por unidad (mínimo 1).
func WithMaxAttempts(n int) TxOption {
	return func(r *TxRunner) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

// WithTxLogger registra los reintentos.
func WithTxLogger(l *logger.Logger) TxOption {
	return func(r *TxRunner) { r.log = l }
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool, opts ...TxOption) *TxRunner {
	r := &TxRunner{pool: pool, maxAttempts: DefaultMaxAttempts, log: logger.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Ante 40001/40P01 (o una falla previa al envío) repite fn completa; agotados los intentos devuelve
// ErrStoreUnavailable. Una conexión perdida dentro de fn también se reporta como ErrStoreUnavailable.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, repos inventory.Repos) error) error {
	var err error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		err = r.runOnce(ctx, fn)
		if err == nil || !isRetryable(err) {
			return err
		}
		if ctx.Err() != nil {
			break
		}
		r.log.Warn().Err(err).Int("attempt", attempt).Msg("conflicto de concurrencia, reintentando transacción")
	}
	return fmt.Errorf("transaction: %w: %w", domain.ErrStoreUnavailable, err)
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(ctx context.Context, repos inventory.Repos) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w: %w", domain.ErrStoreUnavailable, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, NewRepos(tx)); err != nil {
		if lostStore(err, tx) {
			return fmt.Errorf("transaction: %w: %w", domain.ErrStoreUnavailable, err)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		if isRetryable(err) || errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("commit transaction: %w: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// lostStore indica si err viene de la infraestructura (conexión cerrada, timeout, servidor caído)
// y no de una regla de dominio o de la cancelación del llamador.
func lostStore(err error, tx pgx.Tx) bool {
	if isDomainError(err) || isRetryable(err) || errors.Is(err, context.Canceled) {
		return false
	}
	return isUnavailable(err) || tx.Conn().IsClosed()
}

// Repos repositorios sobre el pool, fuera de transacción (consultas).
func (r *TxRunner) Repos() inventory.Repos {
	return NewRepos(r.pool)
}

// NewRepos construye los cuatro repositorios sobre el mismo Querier.
func NewRepos(q Querier) inventory.Repos {
	return inventory.Repos{
		Stock:        NewStockRepository(q),
		Transactions: NewTransactionRepository(q),
		Products:     NewProductRepository(q),
		Warehouses:   NewWarehouseRepository(q),
	}
}
