package services_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/api-sage/grey-bank-ledger/src/internal/adapter/cli/models"
	"github.com/api-sage/grey-bank-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/grey-bank-ledger/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/grey-bank-ledger/src/internal/domain"
	"github.com/api-sage/grey-bank-ledger/src/internal/usecase/services"
)

// failingStore wraps a RegistryStore and fails every save.
type failingStore struct {
	inner repo_interfaces.RegistryStore
}

func (s failingStore) Load(ctx context.Context) ([]domain.Account, error) {
	return s.inner.Load(ctx)
}

func (s failingStore) Save(context.Context, []domain.Account) error {
	return domain.ErrStorageFailure
}

func TestLedgerServiceRequiresActiveSession(t *testing.T) {
	_, ledger, _, _ := newStack(t)
	ctx := context.Background()

	if _, err := ledger.Deposit(ctx, models.DepositRequest{Amount: decimal.NewFromInt(10)}); !errors.Is(err, domain.ErrNoActiveSession) {
		t.Fatalf("deposit: expected ErrNoActiveSession, got %v", err)
	}
	if _, err := ledger.Withdraw(ctx, models.WithdrawRequest{Amount: decimal.NewFromInt(10), PIN: 4321}); !errors.Is(err, domain.ErrNoActiveSession) {
		t.Fatalf("withdraw: expected ErrNoActiveSession, got %v", err)
	}
	if _, err := ledger.Valuation(ctx); !errors.Is(err, domain.ErrNoActiveSession) {
		t.Fatalf("valuation: expected ErrNoActiveSession, got %v", err)
	}
}

func TestLedgerServiceDeposit(t *testing.T) {
	sessions, ledger, _, store := newStack(t)
	ctx := context.Background()

	register(t, sessions, "Alice", 4321)
	login(t, sessions, "Alice", 4321)
	savesBefore := store.Saves()

	resp, err := ledger.Deposit(ctx, models.DepositRequest{Amount: decimal.NewFromFloat(250.50)})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !resp.Success || resp.Data == nil {
		t.Fatal("expected successful response with data")
	}
	if resp.Data.Balance != "1250.50" {
		t.Fatalf("expected balance 1250.50, got %s", resp.Data.Balance)
	}
	if resp.Data.Reference == "" {
		t.Fatal("expected a transaction reference")
	}
	if store.Saves() != savesBefore+1 {
		t.Fatalf("expected one save after deposit, got %d", store.Saves()-savesBefore)
	}
}

func TestLedgerServiceDepositRejectsNonPositiveAmount(t *testing.T) {
	sessions, ledger, _, store := newStack(t)
	ctx := context.Background()

	register(t, sessions, "Alice", 4321)
	login(t, sessions, "Alice", 4321)
	savesBefore := store.Saves()

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		if _, err := ledger.Deposit(ctx, models.DepositRequest{Amount: amount}); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("deposit %s: expected ErrInvalidInput, got %v", amount, err)
		}
	}
	if store.Saves() != savesBefore {
		t.Fatal("expected no saves after rejected deposits")
	}
}

func TestLedgerServiceWithdraw(t *testing.T) {
	sessions, ledger, _, _ := newStack(t)
	ctx := context.Background()

	register(t, sessions, "Alice", 4321)
	login(t, sessions, "Alice", 4321)

	resp, err := ledger.Withdraw(ctx, models.WithdrawRequest{Amount: decimal.NewFromInt(300), PIN: 4321})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if resp.Data.Balance != "700.00" {
		t.Fatalf("expected balance 700.00, got %s", resp.Data.Balance)
	}
}

func TestLedgerServiceWithdrawChecksFundsBeforePIN(t *testing.T) {
	sessions, ledger, _, _ := newStack(t)
	ctx := context.Background()

	register(t, sessions, "Alice", 4321)
	login(t, sessions, "Alice", 4321)

	// Over-balance with a wrong PIN reports insufficient funds first.
	if _, err := ledger.Withdraw(ctx, models.WithdrawRequest{Amount: decimal.NewFromInt(5000), PIN: 1111}); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if _, err := ledger.Withdraw(ctx, models.WithdrawRequest{Amount: decimal.NewFromInt(100), PIN: 1111}); !errors.Is(err, domain.ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}

	// Both rejections leave the balance untouched.
	account, _ := sessions.Active()
	if !account.Balance.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("expected balance 1000, got %s", account.Balance)
	}
}

func TestLedgerServicePurchaseAsset(t *testing.T) {
	sessions, ledger, _, _ := newStack(t)
	ctx := context.Background()

	register(t, sessions, "Alice", 4321)
	login(t, sessions, "Alice", 4321)

	resp, err := ledger.PurchaseAsset(ctx, models.PurchaseAssetRequest{Asset: "crypto", PIN: 4321})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if resp.Data.Asset != "CRYPTO" {
		t.Fatalf("expected asset CRYPTO, got %s", resp.Data.Asset)
	}
	// 100 / 150, rounded to eight decimal places.
	if resp.Data.Units != "0.66666667" {
		t.Fatalf("expected units 0.66666667, got %s", resp.Data.Units)
	}
	if resp.Data.Balance != "900.00" {
		t.Fatalf("expected balance 900.00, got %s", resp.Data.Balance)
	}

	account, _ := sessions.Active()
	if !account.Assets.Units(domain.AssetCrypto).Equal(decimal.RequireFromString("0.66666667")) {
		t.Fatalf("expected crypto holding 0.66666667, got %s", account.Assets.Units(domain.AssetCrypto))
	}
}

func TestLedgerServicePurchaseAssetInvalidChoiceIsBalanceNeutral(t *testing.T) {
	sessions, ledger, _, store := newStack(t)
	ctx := context.Background()

	register(t, sessions, "Alice", 4321)
	login(t, sessions, "Alice", 4321)
	savesBefore := store.Saves()

	if _, err := ledger.PurchaseAsset(ctx, models.PurchaseAssetRequest{Asset: "PLATINUM", PIN: 4321}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	account, _ := sessions.Active()
	if !account.Balance.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("expected balance unchanged at 1000, got %s", account.Balance)
	}
	if store.Saves() != savesBefore {
		t.Fatal("expected no save after rejected purchase")
	}
}

func TestLedgerServicePurchaseAssetInsufficientFunds(t *testing.T) {
	sessions, ledger, _, _ := newStack(t)
	ctx := context.Background()

	register(t, sessions, "Alice", 4321)
	login(t, sessions, "Alice", 4321)

	if _, err := ledger.Withdraw(ctx, models.WithdrawRequest{Amount: decimal.NewFromInt(950), PIN: 4321}); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if _, err := ledger.PurchaseAsset(ctx, models.PurchaseAssetRequest{Asset: "GOLD", PIN: 4321}); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestLedgerServiceLoanLifecycle(t *testing.T) {
	sessions, ledger, _, _ := newStack(t)
	ctx := context.Background()

	register(t, sessions, "Alice", 4321)
	login(t, sessions, "Alice", 4321)

	if _, err := ledger.RepayLoan(ctx, models.LoanRequest{PIN: 4321}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("repay without loan: expected ErrInvalidInput, got %v", err)
	}

	loan, err := ledger.TakeLoan(ctx, models.LoanRequest{PIN: 4321})
	if err != nil {
		t.Fatalf("take loan: %v", err)
	}
	if loan.Data.Outstanding != "500.00" || loan.Data.Balance != "1500.00" {
		t.Fatalf("expected 500.00 outstanding and 1500.00 balance, got %s / %s", loan.Data.Outstanding, loan.Data.Balance)
	}

	if _, err := ledger.TakeLoan(ctx, models.LoanRequest{PIN: 4321}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("second loan: expected ErrInvalidInput, got %v", err)
	}
	if _, err := ledger.TakeLoan(ctx, models.LoanRequest{PIN: 1111}); !errors.Is(err, domain.ErrInvalidCredential) {
		t.Fatalf("wrong pin: expected ErrInvalidCredential, got %v", err)
	}

	repay, err := ledger.RepayLoan(ctx, models.LoanRequest{PIN: 4321})
	if err != nil {
		t.Fatalf("repay loan: %v", err)
	}
	if repay.Data.Outstanding != "0.00" || repay.Data.Balance != "1000.00" {
		t.Fatalf("expected loan cleared at 1000.00 balance, got %s / %s", repay.Data.Outstanding, repay.Data.Balance)
	}
}

func TestLedgerServiceRepayLoanInsufficientFunds(t *testing.T) {
	sessions, ledger, _, _ := newStack(t)
	ctx := context.Background()

	register(t, sessions, "Alice", 4321)
	login(t, sessions, "Alice", 4321)

	if _, err := ledger.TakeLoan(ctx, models.LoanRequest{PIN: 4321}); err != nil {
		t.Fatalf("take loan: %v", err)
	}
	if _, err := ledger.Withdraw(ctx, models.WithdrawRequest{Amount: decimal.NewFromInt(1200), PIN: 4321}); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	if _, err := ledger.RepayLoan(ctx, models.LoanRequest{PIN: 4321}); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestLedgerServiceAddInterest(t *testing.T) {
	sessions, ledger, _, _ := newStack(t)
	ctx := context.Background()

	register(t, sessions, "Alice", 4321)
	login(t, sessions, "Alice", 4321)

	resp, err := ledger.AddInterest(ctx)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if resp.Data.Interest != "50.00" {
		t.Fatalf("expected interest 50.00, got %s", resp.Data.Interest)
	}
	if resp.Data.Balance != "1050.00" {
		t.Fatalf("expected balance 1050.00, got %s", resp.Data.Balance)
	}

	// Interest compounds when applied again.
	resp, err = ledger.AddInterest(ctx)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if resp.Data.Balance != "1102.50" {
		t.Fatalf("expected balance 1102.50, got %s", resp.Data.Balance)
	}
}

func TestLedgerServiceConvertRoundTrip(t *testing.T) {
	sessions, ledger, _, _ := newStack(t)
	ctx := context.Background()

	register(t, sessions, "Alice", 4321)
	login(t, sessions, "Alice", 4321)

	out, err := ledger.ConvertToForeign(ctx, models.ConvertRequest{Currency: "EUR", Amount: decimal.NewFromInt(110)})
	if err != nil {
		t.Fatalf("convert to foreign: %v", err)
	}
	if out.Data.Converted != "100" {
		t.Fatalf("expected 100 EUR, got %s", out.Data.Converted)
	}
	if out.Data.Balance != "890.00" {
		t.Fatalf("expected balance 890.00, got %s", out.Data.Balance)
	}

	back, err := ledger.ConvertToUSD(ctx, models.ConvertRequest{Currency: "EUR", Amount: decimal.RequireFromString("100")})
	if err != nil {
		t.Fatalf("convert to usd: %v", err)
	}
	if back.Data.Converted != "110.00" {
		t.Fatalf("expected 110.00 USD back, got %s", back.Data.Converted)
	}
	if back.Data.Balance != "1000.00" {
		t.Fatalf("expected balance restored to 1000.00, got %s", back.Data.Balance)
	}

	account, _ := sessions.Active()
	if !account.Currencies.Units(domain.CurrencyEUR).IsZero() {
		t.Fatalf("expected zero EUR holding, got %s", account.Currencies.Units(domain.CurrencyEUR))
	}
}

func TestLedgerServiceConvertRejections(t *testing.T) {
	sessions, ledger, _, _ := newStack(t)
	ctx := context.Background()

	register(t, sessions, "Alice", 4321)
	login(t, sessions, "Alice", 4321)

	if _, err := ledger.ConvertToForeign(ctx, models.ConvertRequest{Currency: "JPY", Amount: decimal.NewFromInt(10)}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("unknown currency: expected ErrInvalidInput, got %v", err)
	}
	if _, err := ledger.ConvertToForeign(ctx, models.ConvertRequest{Currency: "EUR", Amount: decimal.NewFromInt(5000)}); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("over balance: expected ErrInsufficientFunds, got %v", err)
	}
	if _, err := ledger.ConvertToUSD(ctx, models.ConvertRequest{Currency: "GBP", Amount: decimal.NewFromInt(1)}); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("empty holding: expected ErrInsufficientFunds, got %v", err)
	}
}

func TestLedgerServiceValuation(t *testing.T) {
	sessions, ledger, _, _ := newStack(t)
	ctx := context.Background()

	register(t, sessions, "Alice", 4321)
	login(t, sessions, "Alice", 4321)

	if _, err := ledger.PurchaseAsset(ctx, models.PurchaseAssetRequest{Asset: "GOLD", PIN: 4321}); err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if _, err := ledger.ConvertToForeign(ctx, models.ConvertRequest{Currency: "EUR", Amount: decimal.NewFromInt(110)}); err != nil {
		t.Fatalf("convert: %v", err)
	}
	if _, err := ledger.TakeLoan(ctx, models.LoanRequest{PIN: 4321}); err != nil {
		t.Fatalf("loan: %v", err)
	}

	resp, err := ledger.Valuation(ctx)
	if err != nil {
		t.Fatalf("valuation: %v", err)
	}
	data := resp.Data
	if data.AccountHolder != "Alice" {
		t.Fatalf("expected holder Alice, got %s", data.AccountHolder)
	}
	// 1000 - 100 (gold) - 110 (EUR) + 500 (loan credit) = 1290.
	if data.Balance != "1290.00" {
		t.Fatalf("expected balance 1290.00, got %s", data.Balance)
	}
	// Holdings still price at purchase rates, so their value equals
	// what was spent on them.
	if data.TotalAssetValue != "100.00" {
		t.Fatalf("expected asset value 100.00, got %s", data.TotalAssetValue)
	}
	if data.TotalForexValue != "110.00" {
		t.Fatalf("expected forex value 110.00, got %s", data.TotalForexValue)
	}
	if data.Loan != "500.00" {
		t.Fatalf("expected loan 500.00, got %s", data.Loan)
	}
	// 1290 + 100 + 110 - 500 = 1000: net worth is conserved.
	if data.NetWorth != "1000.00" {
		t.Fatalf("expected net worth 1000.00, got %s", data.NetWorth)
	}
	if len(data.Assets) != 3 || len(data.Currencies) != 3 {
		t.Fatalf("expected 3 assets and 3 currencies, got %d / %d", len(data.Assets), len(data.Currencies))
	}
}

func TestLedgerServiceSaveFailureKeepsMutation(t *testing.T) {
	ctx := context.Background()

	registry := domain.NewRegistry(100, decimal.NewFromInt(1000))
	store := memory.NewRegistryStore()
	market := services.NewMarketService(domain.DefaultMarketPrices(), domain.DefaultExchangeRates(), rand.NewSource(1))
	sessions := services.NewSessionService(registry, store)

	register(t, sessions, "Alice", 4321)
	login(t, sessions, "Alice", 4321)
	account, _ := sessions.Active()

	// A ledger over a store that refuses every save.
	broken := services.NewLedgerService(
		registry,
		failingStore{inner: store},
		sessions,
		market,
		decimal.NewFromInt(100),
		decimal.NewFromInt(500),
		decimal.NewFromFloat(0.05),
	)

	if _, err := broken.Deposit(ctx, models.DepositRequest{Amount: decimal.NewFromInt(200)}); !errors.Is(err, domain.ErrStorageFailure) {
		t.Fatalf("expected ErrStorageFailure, got %v", err)
	}
	// The in-memory balance keeps the deposit even though the save
	// failed; there is no rollback.
	if !account.Balance.Equal(decimal.NewFromInt(1200)) {
		t.Fatalf("expected balance 1200 after failed save, got %s", account.Balance)
	}
}
