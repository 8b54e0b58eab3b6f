package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-order-service/internal/app"
	"github.com/Apurer/go-order-service/internal/domains/ordering/domain"
	"github.com/Apurer/go-order-service/internal/domains/ordering/ports"
	platformobservability "github.com/Apurer/go-order-service/internal/platform/observability"
)

// seed provisions a demo customer and catalog, then places one order through
// the full workflow so a fresh environment has data to poke at.
func main() {
	ctx := context.Background()

	instruments, shutdown, err := platformobservability.Init(ctx, "ordering-seed")
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := app.LoadConfig()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	stores, cleanup := app.BuildStores(ctx, cfg, logger)
	defer cleanup()
	service := app.BuildService(cfg, stores, instruments)

	if err := seed(ctx, service, logger); err != nil {
		logger.Error("seeding failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func seed(ctx context.Context, service ports.Service, logger *slog.Logger) error {
	customer, err := service.CreateCustomer(ctx, ports.CreateCustomerInput{
		Name:  "Ada Lovelace",
		Email: "ada@example.com",
	})
	if err != nil {
		return err
	}

	products := []ports.CreateProductInput{
		{Name: "Mechanical Keyboard", Price: decimal.RequireFromString("89.90"), Quantity: 25},
		{Name: "USB-C Dock", Price: decimal.RequireFromString("149.00"), Quantity: 10},
		{Name: "Laptop Stand", Price: decimal.RequireFromString("39.50"), Quantity: 40},
	}
	lines := make([]domain.LineRequest, 0, len(products))
	for _, input := range products {
		product, err := service.CreateProduct(ctx, input)
		if err != nil {
			return err
		}
		lines = append(lines, domain.LineRequest{ProductID: product.ID, Quantity: 2})
	}

	order, err := service.CreateOrder(ctx, ports.CreateOrderInput{
		CustomerID: customer.ID,
		Lines:      lines,
	})
	if err != nil {
		return err
	}

	logger.Info("seed complete",
		slog.String("customer.id", customer.ID),
		slog.String("order.id", order.ID),
		slog.Int("order.lines", len(order.Lines)),
		slog.String("order.total", order.Total().String()))
	return nil
}
