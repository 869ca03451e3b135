package main

import (
	"context"
	"log"
	"os"

	"github.com/shopspring/decimal"

	"github.com/api-sage/grey-bank-ledger/src/internal/adapter/cli"
	"github.com/api-sage/grey-bank-ledger/src/internal/adapter/repository/binfile"
	"github.com/api-sage/grey-bank-ledger/src/internal/adapter/repository/implementations"
	"github.com/api-sage/grey-bank-ledger/src/internal/adapter/repository/postgres"
	"github.com/api-sage/grey-bank-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/grey-bank-ledger/src/internal/config"
	"github.com/api-sage/grey-bank-ledger/src/internal/domain"
	"github.com/api-sage/grey-bank-ledger/src/internal/logger"
	"github.com/api-sage/grey-bank-ledger/src/internal/usecase/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()

	var store repo_interfaces.RegistryStore
	switch cfg.StorageBackend {
	case config.BackendPostgres:
		db, err := implementations.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			log.Fatalf("open database: %v", err)
		}
		defer db.Close()
		store = postgres.NewRegistryStore(db)
	default:
		store = binfile.New(cfg.DataFile)
	}

	registry := domain.NewRegistry(cfg.MaxAccounts, decimal.NewFromFloat(cfg.StartingBalance))

	records, err := store.Load(ctx)
	if err != nil {
		// Start with an empty registry rather than refusing to run;
		// the first save will overwrite whatever is on disk.
		logger.Warn("could not load saved accounts, starting fresh", logger.Fields{
			"backend": cfg.StorageBackend,
			"error":   err.Error(),
		})
	} else if err := registry.Restore(records); err != nil {
		log.Fatalf("restore accounts: %v", err)
	} else {
		logger.Info("accounts loaded", logger.Fields{
			"backend":  cfg.StorageBackend,
			"accounts": registry.Len(),
		})
	}

	market := services.NewMarketService(domain.DefaultMarketPrices(), domain.DefaultExchangeRates(), nil)
	sessions := services.NewSessionService(registry, store)
	ledger := services.NewLedgerService(
		registry,
		store,
		sessions,
		market,
		decimal.NewFromFloat(cfg.AssetPurchaseAmount),
		decimal.NewFromFloat(cfg.LoanAmount),
		decimal.NewFromFloat(cfg.InterestRate),
	)

	menu := cli.NewMenu(os.Stdin, os.Stdout, sessions, ledger, market)
	if err := menu.Run(ctx); err != nil {
		log.Fatalf("run menu: %v", err)
	}
}
