package observability

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/go-order-service/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-service/internal/domains/ordering/ports"
)

const tracerName = "github.com/Apurer/go-order-service/internal/domains/ordering/adapters/observability/service"

// Service decorates the ordering service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core ordering service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderingService.CreateOrder",
		trace.WithAttributes(
			attribute.String("order.customer_id", input.CustomerID),
			attribute.Int("order.line_count", len(input.Lines)),
		))
	defer span.End()

	s.logInfo(ctx, "creating order",
		slog.String("customer.id", input.CustomerID), slog.Int("line.count", len(input.Lines)))
	result, err := s.inner.CreateOrder(ctx, input)
	if err != nil {
		s.metrics.recordOrderRejected(ctx, failureReason(err))
		return nil, s.handleError(ctx, span, err, "failed to create order",
			slog.String("customer.id", input.CustomerID))
	}
	s.metrics.recordOrderCreated(ctx)
	span.SetAttributes(attribute.String("order.id", result.ID))
	s.logInfo(ctx, "order created",
		slog.String("order.id", result.ID),
		slog.String("customer.id", result.CustomerID),
		slog.String("order.total", result.Total().String()))
	return result, nil
}

func (s *Service) CreateCustomer(ctx context.Context, input ports.CreateCustomerInput) (*domain.Customer, error) {
	ctx, span := s.tracer.Start(ctx, "OrderingService.CreateCustomer",
		trace.WithAttributes(attribute.String("customer.email", input.Email)))
	defer span.End()

	result, err := s.inner.CreateCustomer(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create customer",
			slog.String("customer.email", input.Email))
	}
	s.logInfo(ctx, "customer created", slog.String("customer.id", result.ID))
	return result, nil
}

func (s *Service) CreateProduct(ctx context.Context, input ports.CreateProductInput) (*domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "OrderingService.CreateProduct",
		trace.WithAttributes(attribute.String("product.name", input.Name)))
	defer span.End()

	result, err := s.inner.CreateProduct(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create product",
			slog.String("product.name", input.Name))
	}
	s.logInfo(ctx, "product created",
		slog.String("product.id", result.ID), slog.Int("product.quantity", int(result.Quantity)))
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderingService.GetOrder",
		trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", id))
	}
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

// failureReason buckets order failures for the rejection counter.
func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrCustomerNotFound):
		return "customer_not_found"
	case errors.Is(err, domain.ErrProductNotFound):
		return "product_not_found"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrStockConflict):
		return "stock_conflict"
	default:
		return "other"
	}
}

type serviceMetrics struct {
	ordersCreated  metric.Int64Counter
	ordersRejected metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersCreated, _ := m.Int64Counter("ordering.service.orders_created",
		metric.WithDescription("Number of orders created"))
	ordersRejected, _ := m.Int64Counter("ordering.service.orders_rejected",
		metric.WithDescription("Number of order requests rejected"))
	return serviceMetrics{ordersCreated: ordersCreated, ordersRejected: ordersRejected}
}

func (m serviceMetrics) recordOrderCreated(ctx context.Context) {
	if m.ordersCreated != nil {
		m.ordersCreated.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordOrderRejected(ctx context.Context, reason string) {
	if m.ordersRejected != nil {
		m.ordersRejected.Add(ctx, 1, metric.WithAttributes(attribute.String("order.reject_reason", reason)))
	}
}

var _ ports.Service = (*Service)(nil)
