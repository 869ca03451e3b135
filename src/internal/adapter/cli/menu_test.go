package cli

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/api-sage/grey-bank-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/grey-bank-ledger/src/internal/domain"
	"github.com/api-sage/grey-bank-ledger/src/internal/usecase/services"
)

func newTestMenu(input string) (*Menu, *strings.Builder) {
	registry := domain.NewRegistry(100, decimal.NewFromInt(1000))
	store := memory.NewRegistryStore()
	market := services.NewMarketService(domain.DefaultMarketPrices(), domain.DefaultExchangeRates(), rand.NewSource(1))
	sessions := services.NewSessionService(registry, store)
	ledger := services.NewLedgerService(
		registry,
		store,
		sessions,
		market,
		decimal.NewFromInt(100),
		decimal.NewFromInt(500),
		decimal.NewFromFloat(0.05),
	)

	out := &strings.Builder{}
	return NewMenu(strings.NewReader(input), out, sessions, ledger, market), out
}

func TestMenuDepositPrintsTransactionReference(t *testing.T) {
	input := strings.Join([]string{
		"1", "Alice", "4321", // create account
		"2", "Alice", "4321", // login
		"1", "200", // deposit
		"9", // logout
		"3", // exit
	}, "\n") + "\n"

	menu, out := newTestMenu(input)
	if err := menu.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	output := out.String()
	const confirmation = "Deposited $200.00. New balance: $1200.00. Ref: "
	idx := strings.Index(output, confirmation)
	if idx < 0 {
		t.Fatalf("deposit confirmation missing from output:\n%s", output)
	}

	// The rendered reference must be a real transaction reference,
	// not an empty trailer.
	rest := output[idx+len(confirmation):]
	ref := strings.TrimSpace(strings.SplitN(rest, "\n", 2)[0])
	if _, err := uuid.Parse(ref); err != nil {
		t.Fatalf("rendered reference %q is not a UUID: %v", ref, err)
	}
}

func TestMenuRejectedOperationPrintsError(t *testing.T) {
	input := strings.Join([]string{
		"1", "Alice", "4321",
		"2", "Alice", "4321",
		"2", "5000", "4321", // withdraw more than the balance
		"9",
		"3",
	}, "\n") + "\n"

	menu, out := newTestMenu(input)
	if err := menu.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	output := out.String()
	if !strings.Contains(output, "Error: insufficient funds") {
		t.Fatalf("expected insufficient funds error in output:\n%s", output)
	}
	if strings.Contains(output, "Withdrew") {
		t.Fatalf("rejected withdrawal rendered a confirmation:\n%s", output)
	}
}
