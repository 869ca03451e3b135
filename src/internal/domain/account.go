package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	MaxNameLength = 49
	MinPIN        = 1000
	MaxPIN        = 9999
)

type AssetKind string

const (
	AssetCrypto AssetKind = "CRYPTO"
	AssetGold   AssetKind = "GOLD"
	AssetSilver AssetKind = "SILVER"
)

func AssetKinds() []AssetKind {
	return []AssetKind{AssetCrypto, AssetGold, AssetSilver}
}

func ParseAssetKind(raw string) (AssetKind, error) {
	switch AssetKind(raw) {
	case AssetCrypto, AssetGold, AssetSilver:
		return AssetKind(raw), nil
	}
	return "", fmt.Errorf("%w: unknown asset %q", ErrInvalidInput, raw)
}

type CurrencyCode string

const (
	CurrencyEUR CurrencyCode = "EUR"
	CurrencyGBP CurrencyCode = "GBP"
	CurrencyINR CurrencyCode = "INR"
)

func CurrencyCodes() []CurrencyCode {
	return []CurrencyCode{CurrencyEUR, CurrencyGBP, CurrencyINR}
}

func ParseCurrencyCode(raw string) (CurrencyCode, error) {
	switch CurrencyCode(raw) {
	case CurrencyEUR, CurrencyGBP, CurrencyINR:
		return CurrencyCode(raw), nil
	}
	return "", fmt.Errorf("%w: unknown currency %q", ErrInvalidInput, raw)
}

type AssetHoldings struct {
	Crypto decimal.Decimal
	Gold   decimal.Decimal
	Silver decimal.Decimal
}

func (h AssetHoldings) Units(kind AssetKind) decimal.Decimal {
	switch kind {
	case AssetGold:
		return h.Gold
	case AssetSilver:
		return h.Silver
	default:
		return h.Crypto
	}
}

func (h *AssetHoldings) Add(kind AssetKind, units decimal.Decimal) {
	switch kind {
	case AssetGold:
		h.Gold = h.Gold.Add(units)
	case AssetSilver:
		h.Silver = h.Silver.Add(units)
	default:
		h.Crypto = h.Crypto.Add(units)
	}
}

type CurrencyHoldings struct {
	EUR decimal.Decimal
	GBP decimal.Decimal
	INR decimal.Decimal
}

func (h CurrencyHoldings) Units(code CurrencyCode) decimal.Decimal {
	switch code {
	case CurrencyGBP:
		return h.GBP
	case CurrencyINR:
		return h.INR
	default:
		return h.EUR
	}
}

func (h *CurrencyHoldings) Add(code CurrencyCode, units decimal.Decimal) {
	switch code {
	case CurrencyGBP:
		h.GBP = h.GBP.Add(units)
	case CurrencyINR:
		h.INR = h.INR.Add(units)
	default:
		h.EUR = h.EUR.Add(units)
	}
}

// Account is one customer record. Name and PIN are immutable after
// creation; everything else is mutated only by the ledger operations.
type Account struct {
	Name       string
	PIN        int
	Balance    decimal.Decimal
	Loan       decimal.Decimal
	Assets     AssetHoldings
	Currencies CurrencyHoldings
}

func NewAccount(name string, pin int, startingBalance decimal.Decimal) *Account {
	return &Account{
		Name:    name,
		PIN:     pin,
		Balance: startingBalance,
	}
}

func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: name must be at most %d characters", ErrInvalidInput, MaxNameLength)
	}
	for _, ch := range name {
		if (ch < 'a' || ch > 'z') && (ch < 'A' || ch > 'Z') {
			return fmt.Errorf("%w: name must contain only alphabetic characters", ErrInvalidInput)
		}
	}
	return nil
}

func ValidatePIN(pin int) error {
	if pin < MinPIN || pin > MaxPIN {
		return fmt.Errorf("%w: PIN must be between %d and %d", ErrInvalidInput, MinPIN, MaxPIN)
	}
	return nil
}
