// Copyright Connector Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpAdapter "github.com/docmesh/connector-gw/pkg/adapters/http"
	"github.com/docmesh/connector-gw/pkg/core/config"
	"github.com/docmesh/connector-gw/pkg/core/services"
	"github.com/docmesh/connector-gw/pkg/core/state"
	"github.com/docmesh/connector-gw/pkg/observability/logging"
	"github.com/docmesh/connector-gw/pkg/storage/memory"
	"github.com/docmesh/connector-gw/pkg/storage/postgres"
	"github.com/docmesh/connector-gw/pkg/storage/sqlite"
)

var (
	// Version is set via ldflags during build
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	port := flag.Int("port", 0, "HTTP port to listen on (overrides config)")
	version := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *version {
		fmt.Printf("Connector Gateway Server\nVersion: %s\nBuild Time: %s\n", Version, BuildTime)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		cfg = config.Default()
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	logger := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	logger.Info("Starting Connector Gateway Server",
		"version", Version,
		"build_time", BuildTime)

	store, closeStore, err := newConnectorStore(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	connectorService := services.NewConnectorService(store, logger)
	handler := httpAdapter.New(connectorService, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	go func() {
		logger.Info("Listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Shutdown failed", "error", err)
	}
}

func newConnectorStore(cfg *config.Config, logger *logging.Logger) (state.ConnectorStore, func(), error) {
	switch cfg.Storage.Type {
	case "postgres":
		store, err := postgres.New(cfg.Storage.DSN)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Initialized PostgreSQL connector store")
		return store, func() { store.Close() }, nil
	case "sqlite":
		store, err := sqlite.New(cfg.Storage.Path)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Initialized SQLite connector store")
		return store, func() { store.Close() }, nil
	default:
		logger.Info("Initialized in-memory connector store")
		return memory.NewConnectorsStore(), func() {}, nil
	}
}
