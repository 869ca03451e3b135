package services

import (
	"context"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/grey-bank-ledger/src/internal/adapter/cli/models"
	"github.com/api-sage/grey-bank-ledger/src/internal/commons"
	"github.com/api-sage/grey-bank-ledger/src/internal/domain"
	"github.com/api-sage/grey-bank-ledger/src/internal/logger"
	"github.com/api-sage/grey-bank-ledger/src/internal/usecase/service_interfaces"
)

// Verify that MarketService implements the service_interfaces.MarketService interface
var _ service_interfaces.MarketService = (*MarketService)(nil)

// priceScale bounds refreshed prices to digits that survive the
// snapshot encoding exactly.
const priceScale = 8

// MarketService holds the mutable market state. Asset prices drift on
// each refresh; exchange rates stay fixed for the life of the process.
type MarketService struct {
	prices domain.MarketPrices
	rates  domain.ExchangeRates
	rng    *rand.Rand
}

// NewMarketService seeds the market. A nil source falls back to a
// time-seeded generator; tests pass a fixed source for repeatability.
func NewMarketService(prices domain.MarketPrices, rates domain.ExchangeRates, src rand.Source) *MarketService {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &MarketService{
		prices: prices,
		rates:  rates,
		rng:    rand.New(src),
	}
}

func (s *MarketService) GetPrices(ctx context.Context) (commons.Response[models.MarketPricesResponse], error) {
	_ = ctx
	return commons.SuccessResponse("current market prices", s.pricesResponse()), nil
}

func (s *MarketService) GetRates(ctx context.Context) (commons.Response[models.ExchangeRatesResponse], error) {
	_ = ctx
	response := models.ExchangeRatesResponse{
		EUR: s.rates.EUR.String(),
		GBP: s.rates.GBP.String(),
		INR: s.rates.INR.String(),
	}
	return commons.SuccessResponse("current exchange rates", response), nil
}

// RefreshPrices applies one random multiplicative step to each asset
// price, each within that asset's own drift bounds.
func (s *MarketService) RefreshPrices(ctx context.Context) (commons.Response[models.MarketRefreshResponse], error) {
	_ = ctx

	cryptoPct := s.drift(domain.RefreshBoundFor(domain.AssetCrypto))
	goldPct := s.drift(domain.RefreshBoundFor(domain.AssetGold))
	silverPct := s.drift(domain.RefreshBoundFor(domain.AssetSilver))

	s.prices.Crypto = applyDrift(s.prices.Crypto, cryptoPct)
	s.prices.Gold = applyDrift(s.prices.Gold, goldPct)
	s.prices.Silver = applyDrift(s.prices.Silver, silverPct)

	response := models.MarketRefreshResponse{
		Prices: s.pricesResponse(),
		Changes: models.PriceChanges{
			Crypto: formatPct(cryptoPct),
			Gold:   formatPct(goldPct),
			Silver: formatPct(silverPct),
		},
	}

	logger.Info("market service prices refreshed", logger.Fields{
		"crypto": response.Prices.Crypto,
		"gold":   response.Prices.Gold,
		"silver": response.Prices.Silver,
	})

	return commons.SuccessResponse("market prices refreshed", response), nil
}

func (s *MarketService) CurrentPrices() domain.MarketPrices {
	return s.prices
}

func (s *MarketService) CurrentRates() domain.ExchangeRates {
	return s.rates
}

func (s *MarketService) pricesResponse() models.MarketPricesResponse {
	return models.MarketPricesResponse{
		Crypto: s.prices.Crypto.StringFixed(2),
		Gold:   s.prices.Gold.StringFixed(2),
		Silver: s.prices.Silver.StringFixed(2),
	}
}

// drift picks a uniform fractional change within the bound.
func (s *MarketService) drift(bound domain.RefreshBound) float64 {
	return bound.Min + s.rng.Float64()*(bound.Max-bound.Min)
}

func applyDrift(price decimal.Decimal, pct float64) decimal.Decimal {
	factor := decimal.NewFromFloat(1 + pct)
	return price.Mul(factor).Round(priceScale)
}

func formatPct(pct float64) string {
	return decimal.NewFromFloat(pct * 100).Round(2).StringFixed(2)
}
