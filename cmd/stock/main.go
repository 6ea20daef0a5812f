package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"StockReserve/internal/catalog"
	"StockReserve/internal/reservation"
	"StockReserve/internal/stock"
	"StockReserve/pkg/kit"
)

const startupTimeout = 10 * time.Second

func main() {
	service := "stock"

	var configPath string
	flag.StringVar(&configPath, "config", os.Getenv("CONFIG_FILE"), "path to config file")
	flag.Parse()

	cfg, err := stock.LoadConfig(configPath)
	if err != nil {
		zap.NewExample().Fatal("load config failed", zap.Error(err))
	}

	log := kit.NewLogger(service, cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	var hooks []kit.ShutdownHook

	cat, err := loadCatalog(ctx, cfg)
	if err != nil {
		log.Fatal("load catalog failed", zap.Error(err))
	}
	log.Info("catalog loaded", zap.Int("products", cat.Len()), zap.Bool("from_db", cfg.CatalogDSN != ""))

	s := &stock.Server{Catalog: cat, Log: log}

	var store reservation.Store
	switch cfg.StoreDriver {
	case stock.DriverRedis:
		client := kit.NewRedisClient(ctx, kit.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, log)
		hooks = append(hooks, func(context.Context) error { return client.Close() })

		store = reservation.NewRedisStore(client)
		s.ReserveLimiter = reserveLimiter(cfg, client, log)
	default:
		log.Warn("using in-memory reservation store; reservations are lost on restart")
		store = reservation.NewMemStore()
		s.ReserveLimiter = reserveLimiter(cfg, nil, log)
	}

	s.Reservations, err = reservation.NewCache(store, cfg.ReserveMode)
	if err != nil {
		log.Fatal("init reservation cache failed", zap.Error(err))
	}
	log.Info("reservation cache ready",
		zap.String("driver", cfg.StoreDriver),
		zap.String("mode", string(cfg.ReserveMode)),
	)

	h := stock.NewHandler(s, stock.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
	})

	if err := kit.RunHTTPServer(":"+cfg.Port, h, log, hooks...); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

// loadCatalog reads the catalog once; the database is not needed afterwards.
func loadCatalog(ctx context.Context, cfg stock.Config) (*catalog.Catalog, error) {
	if cfg.CatalogDSN == "" {
		return catalog.Default(), nil
	}

	db, err := catalog.OpenPostgres(ctx, cfg.CatalogDSN)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()

	return catalog.LoadPostgres(ctx, db)
}

func reserveLimiter(cfg stock.Config, client *redis.Client, log *zap.Logger) kit.Limiter {
	if cfg.ReserveRateLimit == 0 {
		return nil
	}
	if client != nil {
		return kit.NewRedisRateLimiter(client, "reserve", cfg.ReserveRateLimit, cfg.ReserveRateWindow, log)
	}
	return kit.NewIPRateLimiter(cfg.ReserveRateLimit, cfg.ReserveRateWindow)
}
