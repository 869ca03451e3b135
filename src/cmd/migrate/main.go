package main

import (
	"context"
	"log"
	"time"

	"github.com/api-sage/grey-bank-ledger/src/internal/adapter/repository/implementations"
	"github.com/api-sage/grey-bank-ledger/src/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if cfg.StorageBackend != config.BackendPostgres {
		log.Fatalf("migrations require the %s backend, configured backend is %s",
			config.BackendPostgres, cfg.StorageBackend)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := implementations.RunMigrations(ctx, cfg.DatabaseDSN, cfg.MigrationsDir); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	log.Println("migrations completed successfully")
}
