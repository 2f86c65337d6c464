package inventory

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// movementMetrics contadores OpenTelemetry del motor.
type movementMetrics struct {
	movements  metric.Int64Counter
	units      metric.Int64Counter
	rejections metric.Int64Counter
}

func newMovementMetrics(mp metric.MeterProvider) *movementMetrics {
	meter := mp.Meter(instrumentationName)
	m := &movementMetrics{}
	var err error
	if m.movements, err = meter.Int64Counter("inventory.movements",
		metric.WithDescription("Movimientos registrados en el libro de stock"),
		metric.WithUnit("{movement}")); err != nil {
		m.movements = noop.Int64Counter{}
	}
	if m.units, err = meter.Int64Counter("inventory.units",
		metric.WithDescription("Unidades movidas por tipo de movimiento"),
		metric.WithUnit("{unit}")); err != nil {
		m.units = noop.Int64Counter{}
	}
	if m.rejections, err = meter.Int64Counter("inventory.rejections",
		metric.WithDescription("Operaciones rechazadas por motivo"),
		metric.WithUnit("{operation}")); err != nil {
		m.rejections = noop.Int64Counter{}
	}
	return m
}

func (m *movementMetrics) recorded(ctx context.Context, rec *entity.TransactionRecord) {
	attrs := metric.WithAttributes(attribute.String("type", string(rec.Type)))
	m.movements.Add(ctx, 1, attrs)
	m.units.Add(ctx, rec.Quantity, attrs)
}

func (m *movementMetrics) rejectedWith(ctx context.Context, op, reason string) {
	m.rejections.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("reason", reason),
	))
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrDuplicate):
		return "duplicate"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return "store_unavailable"
	default:
		return "internal"
	}
}
