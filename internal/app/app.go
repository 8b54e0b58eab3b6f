package app

import (
	"context"
	"log/slog"

	orderingmemory "github.com/Apurer/go-order-service/internal/domains/ordering/adapters/memory"
	orderingobs "github.com/Apurer/go-order-service/internal/domains/ordering/adapters/observability"
	orderingpostgres "github.com/Apurer/go-order-service/internal/domains/ordering/adapters/persistence/postgres"
	orderingapp "github.com/Apurer/go-order-service/internal/domains/ordering/application"
	orderingports "github.com/Apurer/go-order-service/internal/domains/ordering/ports"
	platformmigrations "github.com/Apurer/go-order-service/internal/platform/migrations"
	platformobservability "github.com/Apurer/go-order-service/internal/platform/observability"
	platformpostgres "github.com/Apurer/go-order-service/internal/platform/postgres"
)

// Stores bundles the three collaborators the workflow consumes.
type Stores struct {
	Customers orderingports.CustomerStore
	Products  orderingports.ProductStore
	Orders    orderingports.OrderStore
}

// BuildStores wires Postgres-backed stores when a DSN is configured and
// reachable, and in-memory stores otherwise. The returned cleanup releases
// the database connection.
func BuildStores(ctx context.Context, cfg Config, logger *slog.Logger) (Stores, func()) {
	if cfg.PostgresDSN == "" {
		if logger != nil {
			logger.Warn("POSTGRES_DSN not set, using in-memory stores")
		}
		return memoryStores(), func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		if logger != nil {
			logger.Warn("failed to connect to postgres, using in-memory stores", slog.String("error", err.Error()))
		}
		return memoryStores(), func() {}
	}
	if err := platformmigrations.Run(db); err != nil {
		if logger != nil {
			logger.Warn("failed to migrate schema, using in-memory stores", slog.String("error", err.Error()))
		}
		return memoryStores(), func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		if logger != nil {
			logger.Warn("failed to unwrap postgres connection, using in-memory stores", slog.String("error", err.Error()))
		}
		return memoryStores(), func() {}
	}
	if logger != nil {
		logger.Info("ordering stores configured with postgres")
	}
	return Stores{
		Customers: orderingpostgres.NewCustomerStore(db),
		Products:  orderingpostgres.NewProductStore(db),
		Orders:    orderingpostgres.NewOrderStore(db),
	}, func() { _ = sqlDB.Close() }
}

// BuildService composes the ordering service from its stores and wraps it
// with the observability decorator.
func BuildService(cfg Config, stores Stores, instruments *platformobservability.Instruments) orderingports.Service {
	core := orderingapp.NewService(
		stores.Customers,
		stores.Products,
		stores.Orders,
		orderingapp.WithStoreTimeout(cfg.StoreCallTimeout),
	)
	if instruments == nil {
		return orderingobs.New(core)
	}
	return orderingobs.New(
		core,
		orderingobs.WithLogger(instruments.Logger),
		orderingobs.WithTracer(instruments.Tracer("internal.ordering.application")),
		orderingobs.WithMeter(instruments.Meter("internal.ordering.application")),
	)
}

func memoryStores() Stores {
	return Stores{
		Customers: orderingmemory.NewCustomerStore(),
		Products:  orderingmemory.NewProductStore(),
		Orders:    orderingmemory.NewOrderStore(),
	}
}
