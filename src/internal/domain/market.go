package domain

import "github.com/shopspring/decimal"

// MarketPrices is the USD unit price of each purchasable asset.
type MarketPrices struct {
	Crypto decimal.Decimal
	Gold   decimal.Decimal
	Silver decimal.Decimal
}

func DefaultMarketPrices() MarketPrices {
	return MarketPrices{
		Crypto: decimal.NewFromInt(150),
		Gold:   decimal.NewFromInt(60),
		Silver: decimal.NewFromInt(25),
	}
}

func (p MarketPrices) Price(kind AssetKind) decimal.Decimal {
	switch kind {
	case AssetGold:
		return p.Gold
	case AssetSilver:
		return p.Silver
	default:
		return p.Crypto
	}
}

// ExchangeRates is the USD value of one unit of each foreign currency.
type ExchangeRates struct {
	EUR decimal.Decimal
	GBP decimal.Decimal
	INR decimal.Decimal
}

func DefaultExchangeRates() ExchangeRates {
	return ExchangeRates{
		EUR: decimal.NewFromFloat(1.10),
		GBP: decimal.NewFromFloat(1.27),
		INR: decimal.NewFromFloat(0.012),
	}
}

func (r ExchangeRates) Rate(code CurrencyCode) decimal.Decimal {
	switch code {
	case CurrencyGBP:
		return r.GBP
	case CurrencyINR:
		return r.INR
	default:
		return r.EUR
	}
}

// RefreshBound is the per-step fractional change range a market refresh
// may apply to an asset price. Exchange rates have no bounds because
// they are never refreshed.
type RefreshBound struct {
	Min float64
	Max float64
}

func RefreshBoundFor(kind AssetKind) RefreshBound {
	switch kind {
	case AssetGold:
		return RefreshBound{Min: -0.05, Max: 0.10}
	case AssetSilver:
		return RefreshBound{Min: -0.10, Max: 0.15}
	default:
		return RefreshBound{Min: -0.15, Max: 0.20}
	}
}
