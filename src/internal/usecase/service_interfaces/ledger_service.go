package service_interfaces

import (
	"context"

	"github.com/api-sage/grey-bank-ledger/src/internal/adapter/cli/models"
	"github.com/api-sage/grey-bank-ledger/src/internal/commons"
)

// LedgerService is the set of banking operations over the active
// account. Every mutating operation persists the registry snapshot
// before reporting success.
type LedgerService interface {
	Deposit(ctx context.Context, req models.DepositRequest) (commons.Response[models.TransactionResponse], error)
	Withdraw(ctx context.Context, req models.WithdrawRequest) (commons.Response[models.TransactionResponse], error)
	PurchaseAsset(ctx context.Context, req models.PurchaseAssetRequest) (commons.Response[models.PurchaseAssetResponse], error)
	TakeLoan(ctx context.Context, req models.LoanRequest) (commons.Response[models.LoanResponse], error)
	RepayLoan(ctx context.Context, req models.LoanRequest) (commons.Response[models.LoanResponse], error)
	AddInterest(ctx context.Context) (commons.Response[models.InterestResponse], error)
	ConvertToForeign(ctx context.Context, req models.ConvertRequest) (commons.Response[models.ConvertResponse], error)
	ConvertToUSD(ctx context.Context, req models.ConvertRequest) (commons.Response[models.ConvertResponse], error)
	Valuation(ctx context.Context) (commons.Response[models.ValuationResponse], error)
}
