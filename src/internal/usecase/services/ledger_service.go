package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/api-sage/grey-bank-ledger/src/internal/adapter/cli/models"
	"github.com/api-sage/grey-bank-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/grey-bank-ledger/src/internal/commons"
	"github.com/api-sage/grey-bank-ledger/src/internal/domain"
	"github.com/api-sage/grey-bank-ledger/src/internal/logger"
	"github.com/api-sage/grey-bank-ledger/src/internal/usecase/service_interfaces"
)

// Verify that LedgerService implements the service_interfaces.LedgerService interface
var _ service_interfaces.LedgerService = (*LedgerService)(nil)

// unitScale bounds the significant digits of quantities produced by
// division so they survive the snapshot encoding exactly.
const unitScale = 8

type LedgerService struct {
	registry       *domain.Registry
	store          repo_interfaces.RegistryStore
	sessions       service_interfaces.SessionService
	market         service_interfaces.MarketService
	purchaseAmount decimal.Decimal
	loanAmount     decimal.Decimal
	interestRate   decimal.Decimal
}

func NewLedgerService(
	registry *domain.Registry,
	store repo_interfaces.RegistryStore,
	sessions service_interfaces.SessionService,
	market service_interfaces.MarketService,
	purchaseAmount decimal.Decimal,
	loanAmount decimal.Decimal,
	interestRate decimal.Decimal,
) *LedgerService {
	return &LedgerService{
		registry:       registry,
		store:          store,
		sessions:       sessions,
		market:         market,
		purchaseAmount: purchaseAmount,
		loanAmount:     loanAmount,
		interestRate:   interestRate,
	}
}

// persist writes the whole registry snapshot. A failure is reported to
// the caller but the in-memory mutation that preceded it stands; there
// is no rollback in this design.
func (s *LedgerService) persist(ctx context.Context) error {
	return s.store.Save(ctx, s.registry.Snapshot())
}

func (s *LedgerService) Deposit(ctx context.Context, req models.DepositRequest) (commons.Response[models.TransactionResponse], error) {
	logger.Info("ledger service deposit request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	account, err := s.sessions.Active()
	if err != nil {
		return commons.ErrorResponse[models.TransactionResponse]("no active session", err.Error()), err
	}

	if err := req.Validate(); err != nil {
		logger.Error("ledger service deposit validation failed", err, nil)
		return commons.ErrorResponse[models.TransactionResponse]("validation failed", err.Error()), err
	}

	account.Balance = account.Balance.Add(req.Amount)

	if err := s.persist(ctx); err != nil {
		logger.Error("ledger service deposit persist failed", err, logger.Fields{
			"name": account.Name,
		})
		return commons.ErrorResponse[models.TransactionResponse]("failed to save accounts", err.Error()), err
	}

	response := models.TransactionResponse{
		Reference: uuid.NewString(),
		Operation: "deposit",
		Amount:    req.Amount.StringFixed(2),
		Balance:   account.Balance.StringFixed(2),
	}

	logger.Info("ledger service deposit success", logger.Fields{
		"reference": response.Reference,
		"name":      account.Name,
		"amount":    response.Amount,
		"balance":   response.Balance,
	})

	return commons.SuccessResponse("deposit successful", response), nil
}

func (s *LedgerService) Withdraw(ctx context.Context, req models.WithdrawRequest) (commons.Response[models.TransactionResponse], error) {
	logger.Info("ledger service withdraw request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	account, err := s.sessions.Active()
	if err != nil {
		return commons.ErrorResponse[models.TransactionResponse]("no active session", err.Error()), err
	}

	if err := req.Validate(); err != nil {
		logger.Error("ledger service withdraw validation failed", err, nil)
		return commons.ErrorResponse[models.TransactionResponse]("validation failed", err.Error()), err
	}

	if req.Amount.GreaterThan(account.Balance) {
		err := domain.ErrInsufficientFunds
		logger.Error("ledger service withdraw rejected", err, logger.Fields{
			"name": account.Name,
		})
		return commons.ErrorResponse[models.TransactionResponse]("insufficient funds", err.Error()), err
	}

	if err := s.verifyPIN(account, req.PIN); err != nil {
		return commons.ErrorResponse[models.TransactionResponse]("PIN verification failed", err.Error()), err
	}

	account.Balance = account.Balance.Sub(req.Amount)

	if err := s.persist(ctx); err != nil {
		logger.Error("ledger service withdraw persist failed", err, logger.Fields{
			"name": account.Name,
		})
		return commons.ErrorResponse[models.TransactionResponse]("failed to save accounts", err.Error()), err
	}

	response := models.TransactionResponse{
		Reference: uuid.NewString(),
		Operation: "withdraw",
		Amount:    req.Amount.StringFixed(2),
		Balance:   account.Balance.StringFixed(2),
	}

	logger.Info("ledger service withdraw success", logger.Fields{
		"reference": response.Reference,
		"name":      account.Name,
		"amount":    response.Amount,
		"balance":   response.Balance,
	})

	return commons.SuccessResponse("withdrawal successful", response), nil
}

// PurchaseAsset spends the fixed investment amount on one asset. The
// choice is validated before the balance is touched, so an invalid
// selection never needs a compensating refund.
func (s *LedgerService) PurchaseAsset(ctx context.Context, req models.PurchaseAssetRequest) (commons.Response[models.PurchaseAssetResponse], error) {
	logger.Info("ledger service purchase asset request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	account, err := s.sessions.Active()
	if err != nil {
		return commons.ErrorResponse[models.PurchaseAssetResponse]("no active session", err.Error()), err
	}

	if err := req.Validate(); err != nil {
		logger.Error("ledger service purchase asset validation failed", err, nil)
		return commons.ErrorResponse[models.PurchaseAssetResponse]("validation failed", err.Error()), err
	}
	kind, _ := domain.ParseAssetKind(strings.ToUpper(strings.TrimSpace(req.Asset)))

	if account.Balance.LessThan(s.purchaseAmount) {
		err := domain.ErrInsufficientFunds
		logger.Error("ledger service purchase asset rejected", err, logger.Fields{
			"name":  account.Name,
			"asset": string(kind),
		})
		return commons.ErrorResponse[models.PurchaseAssetResponse]("insufficient funds", err.Error()), err
	}

	if err := s.verifyPIN(account, req.PIN); err != nil {
		return commons.ErrorResponse[models.PurchaseAssetResponse]("PIN verification failed", err.Error()), err
	}

	price := s.market.CurrentPrices().Price(kind)
	if !price.IsPositive() {
		err := fmt.Errorf("%w: no market price for %s", domain.ErrInvalidInput, kind)
		return commons.ErrorResponse[models.PurchaseAssetResponse]("failed to purchase asset", err.Error()), err
	}

	units := s.purchaseAmount.Div(price).Round(unitScale)
	account.Balance = account.Balance.Sub(s.purchaseAmount)
	account.Assets.Add(kind, units)

	if err := s.persist(ctx); err != nil {
		logger.Error("ledger service purchase asset persist failed", err, logger.Fields{
			"name": account.Name,
		})
		return commons.ErrorResponse[models.PurchaseAssetResponse]("failed to save accounts", err.Error()), err
	}

	response := models.PurchaseAssetResponse{
		Reference: uuid.NewString(),
		Asset:     string(kind),
		UnitPrice: price.StringFixed(2),
		Units:     units.String(),
		Spent:     s.purchaseAmount.StringFixed(2),
		Balance:   account.Balance.StringFixed(2),
	}

	logger.Info("ledger service purchase asset success", logger.Fields{
		"reference": response.Reference,
		"name":      account.Name,
		"asset":     response.Asset,
		"units":     response.Units,
		"balance":   response.Balance,
	})

	return commons.SuccessResponse("asset purchased successfully", response), nil
}

func (s *LedgerService) TakeLoan(ctx context.Context, req models.LoanRequest) (commons.Response[models.LoanResponse], error) {
	logger.Info("ledger service take loan request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	account, err := s.sessions.Active()
	if err != nil {
		return commons.ErrorResponse[models.LoanResponse]("no active session", err.Error()), err
	}

	if err := s.verifyPIN(account, req.PIN); err != nil {
		return commons.ErrorResponse[models.LoanResponse]("PIN verification failed", err.Error()), err
	}

	if !account.Loan.IsZero() {
		err := fmt.Errorf("%w: a loan is already outstanding", domain.ErrInvalidInput)
		logger.Error("ledger service take loan rejected", err, logger.Fields{
			"name": account.Name,
		})
		return commons.ErrorResponse[models.LoanResponse]("failed to take loan", err.Error()), err
	}

	account.Loan = s.loanAmount
	account.Balance = account.Balance.Add(s.loanAmount)

	if err := s.persist(ctx); err != nil {
		logger.Error("ledger service take loan persist failed", err, logger.Fields{
			"name": account.Name,
		})
		return commons.ErrorResponse[models.LoanResponse]("failed to save accounts", err.Error()), err
	}

	response := models.LoanResponse{
		Reference:   uuid.NewString(),
		Outstanding: account.Loan.StringFixed(2),
		Balance:     account.Balance.StringFixed(2),
	}

	logger.Info("ledger service take loan success", logger.Fields{
		"reference": response.Reference,
		"name":      account.Name,
		"loan":      response.Outstanding,
	})

	return commons.SuccessResponse("loan approved", response), nil
}

// RepayLoan settles the outstanding loan in full; partial repayment
// does not exist in this design.
func (s *LedgerService) RepayLoan(ctx context.Context, req models.LoanRequest) (commons.Response[models.LoanResponse], error) {
	logger.Info("ledger service repay loan request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	account, err := s.sessions.Active()
	if err != nil {
		return commons.ErrorResponse[models.LoanResponse]("no active session", err.Error()), err
	}

	if err := s.verifyPIN(account, req.PIN); err != nil {
		return commons.ErrorResponse[models.LoanResponse]("PIN verification failed", err.Error()), err
	}

	if account.Loan.IsZero() {
		err := fmt.Errorf("%w: no outstanding loan", domain.ErrInvalidInput)
		logger.Error("ledger service repay loan rejected", err, logger.Fields{
			"name": account.Name,
		})
		return commons.ErrorResponse[models.LoanResponse]("failed to repay loan", err.Error()), err
	}

	if account.Balance.LessThan(account.Loan) {
		err := domain.ErrInsufficientFunds
		logger.Error("ledger service repay loan rejected", err, logger.Fields{
			"name": account.Name,
		})
		return commons.ErrorResponse[models.LoanResponse]("insufficient funds to repay loan", err.Error()), err
	}

	account.Balance = account.Balance.Sub(account.Loan)
	account.Loan = decimal.Zero

	if err := s.persist(ctx); err != nil {
		logger.Error("ledger service repay loan persist failed", err, logger.Fields{
			"name": account.Name,
		})
		return commons.ErrorResponse[models.LoanResponse]("failed to save accounts", err.Error()), err
	}

	response := models.LoanResponse{
		Reference:   uuid.NewString(),
		Outstanding: account.Loan.StringFixed(2),
		Balance:     account.Balance.StringFixed(2),
	}

	logger.Info("ledger service repay loan success", logger.Fields{
		"reference": response.Reference,
		"name":      account.Name,
		"balance":   response.Balance,
	})

	return commons.SuccessResponse("loan fully repaid", response), nil
}

// AddInterest credits balance * rate. No PIN check, no frequency
// limit; it is callable repeatedly, exactly like the original system.
func (s *LedgerService) AddInterest(ctx context.Context) (commons.Response[models.InterestResponse], error) {
	account, err := s.sessions.Active()
	if err != nil {
		return commons.ErrorResponse[models.InterestResponse]("no active session", err.Error()), err
	}

	interest := account.Balance.Mul(s.interestRate)
	account.Balance = account.Balance.Add(interest)

	if err := s.persist(ctx); err != nil {
		logger.Error("ledger service add interest persist failed", err, logger.Fields{
			"name": account.Name,
		})
		return commons.ErrorResponse[models.InterestResponse]("failed to save accounts", err.Error()), err
	}

	response := models.InterestResponse{
		Reference: uuid.NewString(),
		Rate:      s.interestRate.Mul(decimal.NewFromInt(100)).String() + "%",
		Interest:  interest.StringFixed(2),
		Balance:   account.Balance.StringFixed(2),
	}

	logger.Info("ledger service add interest success", logger.Fields{
		"reference": response.Reference,
		"name":      account.Name,
		"interest":  response.Interest,
		"balance":   response.Balance,
	})

	return commons.SuccessResponse("interest added", response), nil
}

// ConvertToForeign exchanges USD balance into a foreign currency
// holding. Conversion carries no PIN re-verification, mirroring the
// original system's asymmetry with withdrawals.
func (s *LedgerService) ConvertToForeign(ctx context.Context, req models.ConvertRequest) (commons.Response[models.ConvertResponse], error) {
	logger.Info("ledger service convert to foreign request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	account, err := s.sessions.Active()
	if err != nil {
		return commons.ErrorResponse[models.ConvertResponse]("no active session", err.Error()), err
	}

	if err := req.Validate(); err != nil {
		logger.Error("ledger service convert to foreign validation failed", err, nil)
		return commons.ErrorResponse[models.ConvertResponse]("validation failed", err.Error()), err
	}
	code, _ := domain.ParseCurrencyCode(strings.ToUpper(strings.TrimSpace(req.Currency)))

	if req.Amount.GreaterThan(account.Balance) {
		err := domain.ErrInsufficientFunds
		logger.Error("ledger service convert to foreign rejected", err, logger.Fields{
			"name":     account.Name,
			"currency": string(code),
		})
		return commons.ErrorResponse[models.ConvertResponse]("insufficient funds", err.Error()), err
	}

	rate := s.market.CurrentRates().Rate(code)
	if !rate.IsPositive() {
		err := fmt.Errorf("%w: no exchange rate for %s", domain.ErrInvalidInput, code)
		return commons.ErrorResponse[models.ConvertResponse]("failed to convert currency", err.Error()), err
	}

	units := req.Amount.Div(rate).Round(unitScale)
	account.Balance = account.Balance.Sub(req.Amount)
	account.Currencies.Add(code, units)

	if err := s.persist(ctx); err != nil {
		logger.Error("ledger service convert to foreign persist failed", err, logger.Fields{
			"name": account.Name,
		})
		return commons.ErrorResponse[models.ConvertResponse]("failed to save accounts", err.Error()), err
	}

	response := models.ConvertResponse{
		Reference: uuid.NewString(),
		From:      "USD",
		To:        string(code),
		Amount:    req.Amount.StringFixed(2),
		Rate:      rate.String(),
		Converted: units.String(),
		Holding:   account.Currencies.Units(code).String(),
		Balance:   account.Balance.StringFixed(2),
	}

	logger.Info("ledger service convert to foreign success", logger.Fields{
		"reference": response.Reference,
		"name":      account.Name,
		"currency":  response.To,
		"converted": response.Converted,
	})

	return commons.SuccessResponse("currency converted successfully", response), nil
}

// ConvertToUSD exchanges a foreign currency holding back into USD.
func (s *LedgerService) ConvertToUSD(ctx context.Context, req models.ConvertRequest) (commons.Response[models.ConvertResponse], error) {
	logger.Info("ledger service convert to usd request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	account, err := s.sessions.Active()
	if err != nil {
		return commons.ErrorResponse[models.ConvertResponse]("no active session", err.Error()), err
	}

	if err := req.Validate(); err != nil {
		logger.Error("ledger service convert to usd validation failed", err, nil)
		return commons.ErrorResponse[models.ConvertResponse]("validation failed", err.Error()), err
	}
	code, _ := domain.ParseCurrencyCode(strings.ToUpper(strings.TrimSpace(req.Currency)))

	if req.Amount.GreaterThan(account.Currencies.Units(code)) {
		err := domain.ErrInsufficientFunds
		logger.Error("ledger service convert to usd rejected", err, logger.Fields{
			"name":     account.Name,
			"currency": string(code),
		})
		return commons.ErrorResponse[models.ConvertResponse]("insufficient holdings", err.Error()), err
	}

	rate := s.market.CurrentRates().Rate(code)
	usd := req.Amount.Mul(rate)
	account.Currencies.Add(code, req.Amount.Neg())
	account.Balance = account.Balance.Add(usd)

	if err := s.persist(ctx); err != nil {
		logger.Error("ledger service convert to usd persist failed", err, logger.Fields{
			"name": account.Name,
		})
		return commons.ErrorResponse[models.ConvertResponse]("failed to save accounts", err.Error()), err
	}

	response := models.ConvertResponse{
		Reference: uuid.NewString(),
		From:      string(code),
		To:        "USD",
		Amount:    req.Amount.String(),
		Rate:      rate.String(),
		Converted: usd.StringFixed(2),
		Holding:   account.Currencies.Units(code).String(),
		Balance:   account.Balance.StringFixed(2),
	}

	logger.Info("ledger service convert to usd success", logger.Fields{
		"reference": response.Reference,
		"name":      account.Name,
		"currency":  response.From,
		"converted": response.Converted,
	})

	return commons.SuccessResponse("currency converted successfully", response), nil
}

// Valuation prices every holding at current market state. Pure read;
// nothing is mutated and nothing is persisted.
func (s *LedgerService) Valuation(ctx context.Context) (commons.Response[models.ValuationResponse], error) {
	_ = ctx
	account, err := s.sessions.Active()
	if err != nil {
		return commons.ErrorResponse[models.ValuationResponse]("no active session", err.Error()), err
	}

	prices := s.market.CurrentPrices()
	rates := s.market.CurrentRates()

	totalAssets := decimal.Zero
	assets := make([]models.AssetValuation, 0, len(domain.AssetKinds()))
	for _, kind := range domain.AssetKinds() {
		units := account.Assets.Units(kind)
		price := prices.Price(kind)
		value := units.Mul(price)
		totalAssets = totalAssets.Add(value)
		assets = append(assets, models.AssetValuation{
			Asset:     string(kind),
			Units:     units.String(),
			UnitPrice: price.StringFixed(2),
			Value:     value.StringFixed(2),
		})
	}

	totalForex := decimal.Zero
	currencies := make([]models.CurrencyValuation, 0, len(domain.CurrencyCodes()))
	for _, code := range domain.CurrencyCodes() {
		units := account.Currencies.Units(code)
		rate := rates.Rate(code)
		value := units.Mul(rate)
		totalForex = totalForex.Add(value)
		currencies = append(currencies, models.CurrencyValuation{
			Currency: string(code),
			Units:    units.String(),
			Rate:     rate.String(),
			Value:    value.StringFixed(2),
		})
	}

	netWorth := account.Balance.Add(totalAssets).Add(totalForex).Sub(account.Loan)

	response := models.ValuationResponse{
		AccountHolder:   account.Name,
		Balance:         account.Balance.StringFixed(2),
		Loan:            account.Loan.StringFixed(2),
		Assets:          assets,
		TotalAssetValue: totalAssets.StringFixed(2),
		Currencies:      currencies,
		TotalForexValue: totalForex.StringFixed(2),
		NetWorth:        netWorth.StringFixed(2),
	}

	return commons.SuccessResponse("account status", response), nil
}

func (s *LedgerService) verifyPIN(account *domain.Account, pin int) error {
	if pin != account.PIN {
		logger.Error("ledger service pin verification failed", domain.ErrInvalidCredential, logger.Fields{
			"name": account.Name,
		})
		return domain.ErrInvalidCredential
	}
	return nil
}
