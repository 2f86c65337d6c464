package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/hub"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

const instrumentationName = "github.com/jhoicas/stock-ledger/internal/application/inventory"

// InitialStockNote nota fija del ajuste inicial al crear un producto.
const InitialStockNote = "Initial stock at creation"

// MovementEngine registra entradas, salidas y traslados de forma transaccional.
// Cada operación lee los saldos con bloqueo de fila (GetForUpdate), escribe y anexa
// exactamente un registro al libro dentro del mismo TxRunner.Run.
type MovementEngine struct {
	txRunner TxRunner
	resolver *hub.Resolver
	log      *logger.Logger
	meter    metric.MeterProvider
	tracer   trace.Tracer
	metrics  *movementMetrics
}

// Option configura el motor.
type Option func(*MovementEngine)

// WithLogger usa el logger indicado (por defecto no registra nada).
func WithLogger(l *logger.Logger) Option {
	return func(e *MovementEngine) { e.log = l }
}

// WithMeterProvider usa el MeterProvider indicado en lugar del global.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(e *MovementEngine) { e.meter = mp }
}

// WithTracerProvider usa el TracerProvider indicado en lugar del global.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(e *MovementEngine) { e.tracer = tp.Tracer(instrumentationName) }
}

// NewMovementEngine construye el motor.
func NewMovementEngine(txRunner TxRunner, resolver *hub.Resolver, opts ...Option) *MovementEngine {
	e := &MovementEngine{
		txRunner: txRunner,
		resolver: resolver,
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.meter == nil {
		e.meter = otel.GetMeterProvider()
	}
	if e.tracer == nil {
		e.tracer = otel.Tracer(instrumentationName)
	}
	e.metrics = newMovementMetrics(e.meter)
	return e
}

// MovementInput entrada para Inbound/Outbound.
type MovementInput struct {
	WarehouseID string
	ProductID   string
	Quantity    int64
	Note        string // vacío = sin nota
	CallerID    string // identidad opaca del usuario que ejecuta
}

func (in MovementInput) validate() error {
	if in.WarehouseID == "" || in.ProductID == "" {
		return domain.ErrInvalidInput
	}
	if in.Quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	return nil
}

// TransferInput entrada para Transfer.
type TransferInput struct {
	FromWarehouseID string
	ToWarehouseID   string
	ProductID       string
	Quantity        int64
	Note            string
}

func (in TransferInput) validate() error {
	if in.FromWarehouseID == "" || in.ToWarehouseID == "" || in.ProductID == "" {
		return domain.ErrInvalidInput
	}
	if in.FromWarehouseID == in.ToWarehouseID {
		return domain.ErrInvalidInput
	}
	if in.Quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	return nil
}

// ProductInput datos maestros de un producto nuevo.
type ProductInput struct {
	SKU      string
	Name     string
	Category string
	Price    decimal.Decimal
}

func (in ProductInput) validate() error {
	if strings.TrimSpace(in.SKU) == "" || strings.TrimSpace(in.Name) == "" {
		return domain.ErrInvalidInput
	}
	if in.Price.IsNegative() {
		return domain.ErrInvalidInput
	}
	return nil
}

// Inbound recibe stock en una bodega.
// Si la bodega es la central (o no hay central) es una recepción de proveedor: suma y registra INBOUND.
// Si es una sucursal, el stock se toma de la central: resta en la central, suma en la sucursal y
// registra TRANSFER. Si la central no alcanza, falla con InsufficientStockError y no escribe nada.
func (e *MovementEngine) Inbound(ctx context.Context, in MovementInput) (*entity.TransactionRecord, error) {
	const op = "inbound"
	if err := in.validate(); err != nil {
		return nil, e.rejected(ctx, op, err)
	}
	return e.run(ctx, op, func(ctx context.Context, r Repos) (*entity.TransactionRecord, error) {
		if _, err := requireProduct(ctx, r, in.ProductID); err != nil {
			return nil, err
		}
		target, err := requireWarehouse(ctx, r, in.WarehouseID)
		if err != nil {
			return nil, err
		}
		central, err := e.resolveHub(ctx, r)
		if err != nil {
			return nil, err
		}

		if central == nil || central.ID == target.ID {
			if _, err := r.Stock.Increment(ctx, in.ProductID, target.ID, in.Quantity); err != nil {
				return nil, err
			}
			rec := &entity.TransactionRecord{
				Type:              entity.MovementInbound,
				ProductID:         in.ProductID,
				TargetWarehouseID: strPtr(target.ID),
				Quantity:          in.Quantity,
				Note:              noteOrDefault(in.Note, in.CallerID, "Inbound by staff %s (Supplier)"),
			}
			return rec, r.Transactions.Append(ctx, rec)
		}

		// Sucursal: la mercancía sale de la bodega central.
		source, err := r.Stock.GetForUpdate(ctx, in.ProductID, central.ID)
		if err != nil {
			return nil, err
		}
		if source.Quantity < in.Quantity {
			return nil, &domain.InsufficientStockError{
				WarehouseID:   central.ID,
				WarehouseName: central.Name,
				Available:     source.Quantity,
				Requested:     in.Quantity,
			}
		}
		if _, err := r.Stock.Decrement(ctx, in.ProductID, central.ID, in.Quantity); err != nil {
			return nil, err
		}
		if _, err := r.Stock.Increment(ctx, in.ProductID, target.ID, in.Quantity); err != nil {
			return nil, err
		}
		rec := &entity.TransactionRecord{
			Type:              entity.MovementTransfer,
			ProductID:         in.ProductID,
			SourceWarehouseID: strPtr(central.ID),
			TargetWarehouseID: strPtr(target.ID),
			Quantity:          in.Quantity,
			Note:              noteOrDefault(in.Note, in.CallerID, "Inbound by staff %s from %s", central.Name),
		}
		return rec, r.Transactions.Append(ctx, rec)
	})
}

// Outbound despacha stock de una bodega y registra OUTBOUND.
// Si el saldo queda en cero, la bodega no es la central y la central tampoco tiene stock del
// producto, la fila vacía se elimina.
func (e *MovementEngine) Outbound(ctx context.Context, in MovementInput) (*entity.TransactionRecord, error) {
	const op = "outbound"
	if err := in.validate(); err != nil {
		return nil, e.rejected(ctx, op, err)
	}
	return e.run(ctx, op, func(ctx context.Context, r Repos) (*entity.TransactionRecord, error) {
		if _, err := requireProduct(ctx, r, in.ProductID); err != nil {
			return nil, err
		}
		source, err := requireWarehouse(ctx, r, in.WarehouseID)
		if err != nil {
			return nil, err
		}
		remaining, err := e.take(ctx, r, in.ProductID, source, in.Quantity)
		if err != nil {
			return nil, err
		}
		if err := e.releaseIfExhausted(ctx, r, in.ProductID, source.ID, remaining); err != nil {
			return nil, err
		}
		rec := &entity.TransactionRecord{
			Type:              entity.MovementOutbound,
			ProductID:         in.ProductID,
			SourceWarehouseID: strPtr(source.ID),
			Quantity:          in.Quantity,
			Note:              noteOrDefault(in.Note, in.CallerID, "Outbound by staff %s"),
		}
		return rec, r.Transactions.Append(ctx, rec)
	})
}

// Transfer mueve stock entre dos bodegas y registra TRANSFER con la nota del usuario (sin nota por defecto).
// Es simétrico: no importa si alguno de los extremos es la central.
func (e *MovementEngine) Transfer(ctx context.Context, in TransferInput) (*entity.TransactionRecord, error) {
	const op = "transfer"
	if err := in.validate(); err != nil {
		return nil, e.rejected(ctx, op, err)
	}
	return e.run(ctx, op, func(ctx context.Context, r Repos) (*entity.TransactionRecord, error) {
		if _, err := requireProduct(ctx, r, in.ProductID); err != nil {
			return nil, err
		}
		from, err := requireWarehouse(ctx, r, in.FromWarehouseID)
		if err != nil {
			return nil, err
		}
		to, err := requireWarehouse(ctx, r, in.ToWarehouseID)
		if err != nil {
			return nil, err
		}
		remaining, err := e.take(ctx, r, in.ProductID, from, in.Quantity)
		if err != nil {
			return nil, err
		}
		if err := e.releaseIfExhausted(ctx, r, in.ProductID, from.ID, remaining); err != nil {
			return nil, err
		}
		if _, err := r.Stock.Increment(ctx, in.ProductID, to.ID, in.Quantity); err != nil {
			return nil, err
		}
		rec := &entity.TransactionRecord{
			Type:              entity.MovementTransfer,
			ProductID:         in.ProductID,
			SourceWarehouseID: strPtr(from.ID),
			TargetWarehouseID: strPtr(to.ID),
			Quantity:          in.Quantity,
			Note:              optionalNote(in.Note),
		}
		return rec, r.Transactions.Append(ctx, rec)
	})
}

// CreateProductWithInitialStock crea el producto y, si initialStock > 0 y se indica bodega,
// siembra el saldo y registra INITIAL_ADJUSTMENT en la misma transacción.
func (e *MovementEngine) CreateProductWithInitialStock(ctx context.Context, in ProductInput, initialStock int64, warehouseID string) (*entity.Product, error) {
	const op = "create_product"
	if initialStock < 0 {
		return nil, e.rejected(ctx, op, domain.ErrInvalidQuantity)
	}
	if err := in.validate(); err != nil {
		return nil, e.rejected(ctx, op, err)
	}
	var product *entity.Product
	_, err := e.run(ctx, op, func(ctx context.Context, r Repos) (*entity.TransactionRecord, error) {
		seed := initialStock > 0 && warehouseID != ""
		if seed {
			if _, err := requireWarehouse(ctx, r, warehouseID); err != nil {
				return nil, err
			}
		}
		existing, err := r.Products.GetBySKU(ctx, strings.TrimSpace(in.SKU))
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
		p := &entity.Product{
			ID:         newID(),
			SKU:        strings.TrimSpace(in.SKU),
			Name:       strings.TrimSpace(in.Name),
			Category:   in.Category,
			PriceCents: entity.PriceToCents(in.Price),
		}
		if err := r.Products.Create(ctx, p); err != nil {
			return nil, err
		}
		product = p
		if !seed {
			return nil, nil
		}
		if _, err := r.Stock.Increment(ctx, p.ID, warehouseID, initialStock); err != nil {
			return nil, err
		}
		rec := &entity.TransactionRecord{
			Type:              entity.MovementInitialAdjustment,
			ProductID:         p.ID,
			TargetWarehouseID: strPtr(warehouseID),
			Quantity:          initialStock,
			Note:              strPtr(InitialStockNote),
		}
		return rec, r.Transactions.Append(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// take bloquea el saldo de origen, verifica que alcance y resta. Devuelve la cantidad restante.
func (e *MovementEngine) take(ctx context.Context, r Repos, productID string, source *entity.Warehouse, quantity int64) (int64, error) {
	stock, err := r.Stock.GetForUpdate(ctx, productID, source.ID)
	if err != nil {
		return 0, err
	}
	if stock.Quantity < quantity {
		return 0, &domain.InsufficientStockError{
			WarehouseID:   source.ID,
			WarehouseName: source.Name,
			Available:     stock.Quantity,
			Requested:     quantity,
		}
	}
	return r.Stock.Decrement(ctx, productID, source.ID, quantity)
}

// releaseIfExhausted elimina la fila de una sucursal que quedó en cero cuando la central
// tampoco tiene stock del producto. Nunca toca la fila de la central.
func (e *MovementEngine) releaseIfExhausted(ctx context.Context, r Repos, productID, warehouseID string, remaining int64) error {
	if remaining != 0 {
		return nil
	}
	central, err := e.resolveHub(ctx, r)
	if err != nil {
		return err
	}
	if central == nil || central.ID == warehouseID {
		return nil
	}
	centralStock, err := r.Stock.Get(ctx, productID, central.ID)
	if err != nil {
		return err
	}
	if centralStock.Quantity != 0 {
		return nil
	}
	return r.Stock.Delete(ctx, productID, warehouseID)
}

// resolveHub lista las bodegas dentro de la transacción y resuelve la central (sin caché).
func (e *MovementEngine) resolveHub(ctx context.Context, r Repos) (*entity.Warehouse, error) {
	warehouses, err := r.Warehouses.List(ctx)
	if err != nil {
		return nil, err
	}
	return e.resolver.Resolve(warehouses), nil
}

// run ejecuta fn en una transacción y registra trazas, métricas y logs del resultado.
func (e *MovementEngine) run(ctx context.Context, op string, fn func(ctx context.Context, r Repos) (*entity.TransactionRecord, error)) (*entity.TransactionRecord, error) {
	ctx, span := e.tracer.Start(ctx, "inventory."+op)
	defer span.End()

	var rec *entity.TransactionRecord
	err := e.txRunner.Run(ctx, func(ctx context.Context, r Repos) error {
		var err error
		rec, err = fn(ctx, r)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, e.rejected(ctx, op, err)
	}
	if rec != nil {
		span.SetAttributes(
			attribute.String("inventory.movement_type", string(rec.Type)),
			attribute.String("inventory.product_id", rec.ProductID),
			attribute.Int64("inventory.quantity", rec.Quantity),
		)
		e.metrics.recorded(ctx, rec)
		e.log.Debug().
			Str("op", op).
			Str("transaction_id", rec.ID).
			Str("type", string(rec.Type)).
			Str("product_id", rec.ProductID).
			Int64("quantity", rec.Quantity).
			Msg("movimiento registrado")
	}
	return rec, nil
}

func (e *MovementEngine) rejected(ctx context.Context, op string, err error) error {
	reason := rejectionReason(err)
	e.metrics.rejectedWith(ctx, op, reason)
	e.log.Warn().Err(err).Str("op", op).Str("reason", reason).Msg("movimiento rechazado")
	return err
}

func requireProduct(ctx context.Context, r Repos, id string) (*entity.Product, error) {
	p, err := r.Products.GetForShare(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil || p.Deleted() {
		return nil, fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

func requireWarehouse(ctx context.Context, r Repos, id string) (*entity.Warehouse, error) {
	w, err := r.Warehouses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, fmt.Errorf("bodega %s: %w", id, domain.ErrNotFound)
	}
	return w, nil
}

// noteOrDefault usa la nota del usuario; si no hay y se conoce al usuario, genera la nota por defecto.
// El primer verbo de format recibe callerID; args completa el resto.
func noteOrDefault(note, callerID, format string, args ...any) *string {
	if n := optionalNote(note); n != nil {
		return n
	}
	if callerID == "" {
		return nil
	}
	return strPtr(fmt.Sprintf(format, append([]any{callerID}, args...)...))
}

func optionalNote(note string) *string {
	if strings.TrimSpace(note) == "" {
		return nil
	}
	return &note
}

func strPtr(s string) *string { return &s }

// newID genera un UUIDv7 (ordenable por tiempo de creación).
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
