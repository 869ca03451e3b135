package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/api-sage/grey-bank-ledger/src/internal/domain"
)

type DepositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (r DepositRequest) Validate() error {
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: amount must be greater than zero", domain.ErrInvalidInput)
	}
	return nil
}

type WithdrawRequest struct {
	Amount decimal.Decimal `json:"amount"`
	PIN    int             `json:"pin"`
}

func (r WithdrawRequest) Validate() error {
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: amount must be greater than zero", domain.ErrInvalidInput)
	}
	return nil
}

// TransactionResponse reports a completed cash movement.
type TransactionResponse struct {
	Reference string `json:"reference"`
	Operation string `json:"operation"`
	Amount    string `json:"amount"`
	Balance   string `json:"balance"`
}

type PurchaseAssetRequest struct {
	Asset string `json:"asset"`
	PIN   int    `json:"pin"`
}

func (r PurchaseAssetRequest) Validate() error {
	if _, err := domain.ParseAssetKind(strings.ToUpper(strings.TrimSpace(r.Asset))); err != nil {
		return fmt.Errorf("%w: asset must be one of CRYPTO, GOLD, SILVER", domain.ErrInvalidInput)
	}
	return nil
}

type PurchaseAssetResponse struct {
	Reference string `json:"reference"`
	Asset     string `json:"asset"`
	UnitPrice string `json:"unitPrice"`
	Units     string `json:"units"`
	Spent     string `json:"spent"`
	Balance   string `json:"balance"`
}

type LoanRequest struct {
	PIN int `json:"pin"`
}

type LoanResponse struct {
	Reference   string `json:"reference"`
	Outstanding string `json:"outstanding"`
	Balance     string `json:"balance"`
}

type InterestResponse struct {
	Reference string `json:"reference"`
	Rate      string `json:"rate"`
	Interest  string `json:"interest"`
	Balance   string `json:"balance"`
}

type ConvertRequest struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

func (r ConvertRequest) Validate() error {
	var errs []string

	if _, err := domain.ParseCurrencyCode(strings.ToUpper(strings.TrimSpace(r.Currency))); err != nil {
		errs = append(errs, "currency must be one of EUR, GBP, INR")
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, "amount must be greater than zero")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(errs, "; "))
	}
	return nil
}

type ConvertResponse struct {
	Reference string `json:"reference"`
	From      string `json:"from"`
	To        string `json:"to"`
	Amount    string `json:"amount"`
	Rate      string `json:"rate"`
	Converted string `json:"converted"`
	Holding   string `json:"holding"`
	Balance   string `json:"balance"`
}

type AssetValuation struct {
	Asset     string `json:"asset"`
	Units     string `json:"units"`
	UnitPrice string `json:"unitPrice"`
	Value     string `json:"value"`
}

type CurrencyValuation struct {
	Currency string `json:"currency"`
	Units    string `json:"units"`
	Rate     string `json:"rate"`
	Value    string `json:"value"`
}

type ValuationResponse struct {
	AccountHolder   string              `json:"accountHolder"`
	Balance         string              `json:"balance"`
	Loan            string              `json:"loan"`
	Assets          []AssetValuation    `json:"assets"`
	TotalAssetValue string              `json:"totalAssetValue"`
	Currencies      []CurrencyValuation `json:"currencies"`
	TotalForexValue string              `json:"totalForexValue"`
	NetWorth        string              `json:"netWorth"`
}
