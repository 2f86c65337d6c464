// Package bootstrap arma el almacenamiento y los servicios de inventario a partir de la configuración.
// Lo comparten la API y las herramientas de línea de comandos.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/hub"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// Store almacenamiento listo para usar: ejecutor transaccional y repositorios fuera de tx.
type Store struct {
	TxRunner inventory.TxRunner
	Repos    inventory.Repos
	close    func()
}

// Close libera las conexiones (no-op en memoria).
func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStore abre el backend indicado en cfg.Store.Driver. Con postgres aplica migraciones si DB.Migrate.
func OpenStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Store, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		m := memory.NewStore()
		return &Store{TxRunner: m, Repos: m.Repos()}, nil
	case config.StoreDriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if cfg.DB.Migrate {
			if err := postgres.Migrate(pool); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migraciones: %w", err)
			}
			log.Info().Msg("migraciones aplicadas")
		}
		runner := postgres.NewTxRunner(pool,
			postgres.WithMaxAttempts(cfg.DB.TxMaxAttempts),
			postgres.WithTxLogger(log.Component("postgres")),
		)
		return &Store{TxRunner: runner, Repos: runner.Repos(), close: pool.Close}, nil
	default:
		return nil, fmt.Errorf("driver de almacenamiento desconocido %q", cfg.Store.Driver)
	}
}

// Resolver construye el resolver de bodega central con la política configurada.
// Los campos vacíos conservan el valor por defecto.
func Resolver(cfg config.HubConfig) *hub.Resolver {
	policy := hub.DefaultPolicy()
	if cfg.PrimaryCode != "" {
		policy.PrimaryCode = cfg.PrimaryCode
	}
	if cfg.SecondaryCode != "" {
		policy.SecondaryCode = cfg.SecondaryCode
	}
	if len(cfg.NameHints) > 0 {
		policy.NameHints = cfg.NameHints
	}
	return hub.NewResolver(policy)
}
