package models

type MarketPricesResponse struct {
	Crypto string `json:"crypto"`
	Gold   string `json:"gold"`
	Silver string `json:"silver"`
}

type ExchangeRatesResponse struct {
	EUR string `json:"eur"`
	GBP string `json:"gbp"`
	INR string `json:"inr"`
}

// PriceChanges holds the percentage delta a refresh applied to each
// asset price, formatted for display (e.g. "-3.42").
type PriceChanges struct {
	Crypto string `json:"crypto"`
	Gold   string `json:"gold"`
	Silver string `json:"silver"`
}

type MarketRefreshResponse struct {
	Prices  MarketPricesResponse `json:"prices"`
	Changes PriceChanges         `json:"changes"`
}
