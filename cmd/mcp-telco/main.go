package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"telco-callcenter-mcp/internal/api"
	"telco-callcenter-mcp/internal/config"
	"telco-callcenter-mcp/internal/jsonrpc"
	"telco-callcenter-mcp/internal/telco"
	"telco-callcenter-mcp/internal/tools"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	port := flag.Int("port", 0, "override listen port")
	flag.Parse()

	// Setup structured JSON logging
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if *port != 0 {
		cfg.Port = *port
	}

	tickets, cleanup, err := openTicketRepo(cfg)
	if err != nil {
		log.Fatalf("Failed to open ticket store: %v", err)
	}
	defer cleanup()

	svc := telco.NewService(telco.NewCustomerStore(), tickets)

	registry, err := tools.NewRegistry(svc)
	if err != nil {
		log.Fatalf("Failed to build tool registry: %v", err)
	}

	router := jsonrpc.NewRouter(cfg.Server, registry, tools.NewDispatcher(registry))
	server := api.New(cfg, router)

	// Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		slog.Info("shutting down")
		server.Shutdown()
	}()

	slog.Info("starting mcp-telco",
		"address", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		"endpoint", cfg.MCPEndpoint,
		"storage", cfg.Storage.Driver,
		"tools", len(registry.List()),
	)
	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func openTicketRepo(cfg *config.Config) (telco.TicketRepo, func(), error) {
	switch cfg.Storage.Driver {
	case "", "memory":
		return telco.NewMemoryTicketRepo(), func() {}, nil
	case "sqlite":
		repo, err := telco.OpenSQLiteTicketRepo(cfg.Storage.Path)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { repo.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
