package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mbpa/rcv-votes/internal/aggregator"
	"github.com/mbpa/rcv-votes/internal/api"
	"github.com/mbpa/rcv-votes/internal/collector"
	"github.com/mbpa/rcv-votes/internal/config"
	"github.com/mbpa/rcv-votes/internal/enricher"
	"github.com/mbpa/rcv-votes/internal/logging"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = logger.Sync() }()

	// Wire the pipeline
	source := collector.NewCongressSource(collector.Options{
		BaseURL: cfg.CongressAPIBase,
		APIKey:  cfg.CongressAPIKey,
	}, logger)
	enr := enricher.New(cfg.ClerkBaseURL, 30*time.Second, logger)
	agg := aggregator.New(source, enr, logger)

	// Initialize handler
	handler := api.NewHandler(agg)

	// Setup routes
	router := api.SetupRoutes(handler)

	// Start server
	addr := fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort)
	fmt.Printf("Starting API server on %s\n", addr)

	if err := router.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}
