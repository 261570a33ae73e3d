// main.go
package main

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"storefront/internal/config"
	"storefront/internal/data"
	"storefront/internal/logger"
	"storefront/internal/server"
)

func main() {
	// Step 1: Setup configuration first
	config.LoadEnv()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Step 2: Setup logging
	if err := logger.SetupLogger(cfg.Logger); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	logger.LogInfo("Environment loaded. Logger ready.")
	config.LogCurrentEnvironment()

	// Step 3: Open the database
	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0755); err != nil {
		logger.LogFatal("Failed to create database directory: %v", err)
	}
	if err := data.InitDB(cfg.DatabasePath); err != nil {
		logger.LogFatal("Failed to open database: %v", err)
	}
	defer data.CloseDB()

	if err := data.CreateTables(); err != nil {
		logger.LogFatal("Failed to create tables: %v", err)
	}

	conn, err := data.GetDB()
	if err != nil {
		logger.LogFatal("Database unavailable: %v", err)
	}

	// Step 4: Seed the catalog on first start
	if cfg.CatalogSeed != "" {
		if _, err := data.NewCatalogRepository(conn).Seed(context.Background(), cfg.CatalogSeed); err != nil {
			logger.LogFatal("Failed to seed catalog: %v", err)
		}
	}

	// Step 5: Setup app
	app, err := server.New(cfg, conn)
	if err != nil {
		logger.LogFatal("Failed to build server: %v", err)
	}

	// Step 6: Run server
	if err := app.Run(); err != nil {
		logger.LogFatal("Server failed: %v", err)
	}
	logger.LogInfo("Server shut down gracefully")
}
