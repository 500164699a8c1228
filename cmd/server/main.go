// Package main - entry point for the costwatch evaluation server
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"costwatch/api"
	"costwatch/core/catalog"
	"costwatch/core/metric"
	"costwatch/db"
	"costwatch/db/clickhouse"
	"costwatch/db/postgres"
	"costwatch/internal/config"
	"costwatch/internal/logging"
	"costwatch/internal/telemetry"
	"costwatch/providers"
)

const version = "1.0.0"

func main() {
	configPath := flag.String("config", "", "config file path")
	addr := flag.String("addr", "", "listen address (overrides config)")
	flag.Parse()

	cfg := config.Get()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(loaded)
		cfg = loaded
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "error initializing logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	registry := providers.Default()
	cat, err := catalog.Build(registry)
	if err != nil {
		logging.Fatal("failed to build metric catalog", zap.Error(err))
	}

	warehouse, err := clickhouse.NewSource(&clickhouse.Config{
		Host:     cfg.Warehouse.Host,
		Port:     cfg.Warehouse.Port,
		Database: cfg.Warehouse.Database,
		Username: cfg.Warehouse.Username,
		Password: cfg.Warehouse.Password,
		Debug:    cfg.Warehouse.Debug,
	})
	if err != nil {
		logging.Fatal("failed to connect to warehouse", zap.Error(err))
	}
	defer warehouse.Close()

	tenants, err := postgres.Open(cfg.Tenants.PostgresDSN)
	if err != nil {
		logging.Fatal("failed to open tenant directory", zap.Error(err))
	}
	defer tenants.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := warehouse.Ping(ctx); err != nil {
		logging.Warn("warehouse not reachable at startup", zap.Error(err))
	}
	if err := tenants.Ping(ctx); err != nil {
		logging.Warn("tenant directory not reachable at startup", zap.Error(err))
	}

	// retries live at the boundary; the evaluator itself never retries
	rows := db.WithRetry(warehouse, cfg.Evaluation.RowFetchAttempts)

	evaluator := metric.NewEvaluator(cat, registry, tenants, tenants, rows)
	server := api.NewServer(version, evaluator, cat, telemetry.New())

	logging.Info("costwatch server starting",
		zap.String("addr", cfg.Server.Addr),
		zap.String("version", version),
		zap.Int("catalog_size", cat.Len()))

	if err := http.ListenAndServe(cfg.Server.Addr, server); err != nil {
		logging.Fatal("server failed", zap.Error(err))
	}
}
