package service_interfaces

import (
	"context"

	"github.com/api-sage/grey-bank-ledger/src/internal/adapter/cli/models"
	"github.com/api-sage/grey-bank-ledger/src/internal/commons"
	"github.com/api-sage/grey-bank-ledger/src/internal/domain"
)

type MarketService interface {
	GetPrices(ctx context.Context) (commons.Response[models.MarketPricesResponse], error)
	GetRates(ctx context.Context) (commons.Response[models.ExchangeRatesResponse], error)
	RefreshPrices(ctx context.Context) (commons.Response[models.MarketRefreshResponse], error)

	// Raw snapshots for the ledger operations that price holdings.
	CurrentPrices() domain.MarketPrices
	CurrentRates() domain.ExchangeRates
}
