// Comando consolidate traslada a la bodega central todo el stock positivo de las sucursales.
// Pensado para ejecutarse desde un cron; sale con código 1 si alguna fila falla.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/bootstrap"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "consolidate"})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := bootstrap.OpenStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}

	engine := inventory.NewMovementEngine(store.TxRunner, bootstrap.Resolver(cfg.Hub), inventory.WithLogger(log.Component("inventory")))
	moved, err := engine.ConsolidateToHub(ctx)
	store.Close()
	if err != nil {
		log.Error().Err(err).Int("moved", len(moved)).Msg("consolidación interrumpida")
		os.Exit(1)
	}
	log.Info().Int("moved", len(moved)).Msg("consolidación completada")
}
