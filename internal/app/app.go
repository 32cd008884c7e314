package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sharuys/SecretSanta/internal/config"
	http_init "github.com/sharuys/SecretSanta/internal/delivery/http/init"
	http_metrics "github.com/sharuys/SecretSanta/internal/delivery/http/metrics"
	http_cors_middleware "github.com/sharuys/SecretSanta/internal/delivery/http/middleware/cors"
	http_metrics_middleware "github.com/sharuys/SecretSanta/internal/delivery/http/middleware/metrics"
	http_room "github.com/sharuys/SecretSanta/internal/delivery/http/room"
	http_user "github.com/sharuys/SecretSanta/internal/delivery/http/user"
	ws_room "github.com/sharuys/SecretSanta/internal/delivery/ws/room"
	infra_memory_entity "github.com/sharuys/SecretSanta/internal/infra/memory/entity"
	infra_postgres_entity "github.com/sharuys/SecretSanta/internal/infra/postgres/entity"
	infra_pg_init "github.com/sharuys/SecretSanta/internal/infra/postgres/init"
	infra_redis_giftee_cache "github.com/sharuys/SecretSanta/internal/infra/redis/giftee_cache"
	infra_redis_init "github.com/sharuys/SecretSanta/internal/infra/redis/init"
	service_code "github.com/sharuys/SecretSanta/internal/service/code"
	storage_entity "github.com/sharuys/SecretSanta/internal/storage/entity"
	usecase_giftee "github.com/sharuys/SecretSanta/internal/usecase/giftee"
	usecase_membership "github.com/sharuys/SecretSanta/internal/usecase/membership"
	usecase_pairing "github.com/sharuys/SecretSanta/internal/usecase/pairing"
	usecase_room "github.com/sharuys/SecretSanta/internal/usecase/room"
)

const gifteeCacheKey = "giftee_cache"

func Go(cfg *config.Config) {
	pool, err := Build(context.Background(), cfg)
	if err != nil {
		panic(err)
	}

	pool.RunAll(cfg.HTTP.Host, cfg.HTTP.Port)
}

// Build wires every component and registers the routes, without serving.
func Build(ctx context.Context, cfg *config.Config) (*http_init.ControllerPool, error) {
	logger := slog.Default()

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Storage.SeedDemo {
		err := storage_entity.Seed(ctx, store, infra_memory_entity.DemoRooms(), infra_memory_entity.DemoUsers())
		switch {
		case errors.Is(err, storage_entity.ErrConflict):
			logger.Info("demo data already present")
		case err != nil:
			return nil, fmt.Errorf("seed demo data: %w", err)
		default:
			logger.Info("demo data seeded")
		}
	}

	gifteeOpts := []usecase_giftee.Option{usecase_giftee.WithLogger(logger)}
	if cfg.Redis.Enabled {
		redisConn := infra_redis_init.MustEstablishConn(cfg.Redis)
		gifteeOpts = append(gifteeOpts, usecase_giftee.WithCache(
			infra_redis_giftee_cache.New(redisConn, gifteeCacheKey, cfg.Redis.TTL),
		))
	}

	roomUC := usecase_room.New(store, service_code.New())
	pairingUC := usecase_pairing.New(store)
	membershipUC := usecase_membership.New(store)
	gifteeUC := usecase_giftee.New(store, gifteeOpts...)

	hub := ws_room.New(logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := http_metrics_middleware.New(registry)

	controllerPool := http_init.NewControllerPool(
		http_cors_middleware.AllowAll(),
		metrics.Middleware(),
	)
	controllerPool.Add(http_room.New(roomUC, pairingUC,
		http_room.WithLogger(logger),
		http_room.WithNotifier(hub),
		http_room.WithMetrics(metrics),
	))
	controllerPool.Add(http_user.New(membershipUC, gifteeUC,
		http_user.WithLogger(logger),
		http_user.WithNotifier(hub),
		http_user.WithMetrics(metrics),
	))
	controllerPool.Add(ws_room.NewController(hub, roomUC))
	controllerPool.Add(http_metrics.New(registry))

	controllerPool.Register()
	return controllerPool, nil
}

func buildStore(ctx context.Context, cfg *config.Config) (storage_entity.Store, error) {
	switch cfg.Storage.Driver {
	case config.StorageMemory:
		return infra_memory_entity.New(), nil
	case config.StoragePostgres:
		pgConn := infra_pg_init.MustEstablishConn(cfg.Postgres)
		if err := infra_pg_init.Migrate(ctx, pgConn); err != nil {
			return nil, err
		}
		return infra_postgres_entity.New(pgConn), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
