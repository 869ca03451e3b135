package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func newTestRegistry(capacity int) *Registry {
	return NewRegistry(capacity, decimal.NewFromInt(1000))
}

func TestRegistryCreateStartingState(t *testing.T) {
	registry := newTestRegistry(10)

	account, err := registry.Create("Alice", 4321)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if account.Name != "Alice" || account.PIN != 4321 {
		t.Fatalf("unexpected identity: %+v", account)
	}
	if !account.Balance.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("starting balance = %s, want 1000", account.Balance)
	}
	if !account.Loan.IsZero() {
		t.Fatalf("new account loan = %s, want 0", account.Loan)
	}
	for _, kind := range AssetKinds() {
		if !account.Assets.Units(kind).IsZero() {
			t.Fatalf("new account %s holding = %s, want 0", kind, account.Assets.Units(kind))
		}
	}
	for _, code := range CurrencyCodes() {
		if !account.Currencies.Units(code).IsZero() {
			t.Fatalf("new account %s holding = %s, want 0", code, account.Currencies.Units(code))
		}
	}
	if registry.Len() != 1 {
		t.Fatalf("Len = %d, want 1", registry.Len())
	}
}

func TestRegistryCreateRejectsInvalidName(t *testing.T) {
	registry := newTestRegistry(10)

	for _, name := range []string{"", "Alice7", "Al ice", "no-dashes", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"} {
		if _, err := registry.Create(name, 4321); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("Create(%q) err = %v, want ErrInvalidInput", name, err)
		}
	}
}

func TestRegistryCreateRejectsInvalidPIN(t *testing.T) {
	registry := newTestRegistry(10)

	for _, pin := range []int{0, 999, 10000, -4321} {
		if _, err := registry.Create("Alice", pin); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("Create(pin=%d) err = %v, want ErrInvalidInput", pin, err)
		}
	}
}

func TestRegistryDuplicateNameOrPIN(t *testing.T) {
	registry := newTestRegistry(10)
	if _, err := registry.Create("Alice", 4321); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Same name, different PIN.
	if _, err := registry.Create("Alice", 5555); !errors.Is(err, ErrDuplicateAccount) {
		t.Fatalf("duplicate name err = %v, want ErrDuplicateAccount", err)
	}
	// Same PIN, different name.
	if _, err := registry.Create("Bob", 4321); !errors.Is(err, ErrDuplicateAccount) {
		t.Fatalf("duplicate PIN err = %v, want ErrDuplicateAccount", err)
	}
	// Both fields fresh.
	if _, err := registry.Create("Bob", 5555); err != nil {
		t.Fatalf("distinct account err = %v", err)
	}
}

func TestRegistryCapacity(t *testing.T) {
	registry := newTestRegistry(2)

	if _, err := registry.Create("Alice", 4321); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := registry.Create("Bob", 5555); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := registry.Create("Carol", 6666); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("over-capacity err = %v, want ErrCapacityExceeded", err)
	}
}

func TestRegistryFindByCredentials(t *testing.T) {
	registry := newTestRegistry(10)
	if _, err := registry.Create("Alice", 4321); err != nil {
		t.Fatalf("Create: %v", err)
	}

	account, err := registry.FindByCredentials("Alice", 4321)
	if err != nil {
		t.Fatalf("FindByCredentials: %v", err)
	}
	if account.Name != "Alice" {
		t.Fatalf("found %q, want Alice", account.Name)
	}

	if _, err := registry.FindByCredentials("Alice", 9999); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("wrong PIN err = %v, want ErrInvalidCredential", err)
	}
	if _, err := registry.FindByCredentials("Mallory", 4321); !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("wrong name err = %v, want ErrInvalidCredential", err)
	}
}

func TestRegistrySnapshotRestore(t *testing.T) {
	registry := newTestRegistry(10)
	account, err := registry.Create("Alice", 4321)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	account.Balance = account.Balance.Add(decimal.NewFromInt(200))
	account.Assets.Add(AssetGold, decimal.RequireFromString("1.5"))

	snapshot := registry.Snapshot()

	// Snapshot records are copies: mutating the registry afterwards
	// must not reach into them.
	account.Balance = decimal.Zero
	if !snapshot[0].Balance.Equal(decimal.NewFromInt(1200)) {
		t.Fatalf("snapshot balance = %s, want 1200", snapshot[0].Balance)
	}

	restored := newTestRegistry(10)
	if err := restored.Restore(snapshot); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	found, err := restored.FindByCredentials("Alice", 4321)
	if err != nil {
		t.Fatalf("FindByCredentials after restore: %v", err)
	}
	if !found.Balance.Equal(decimal.NewFromInt(1200)) {
		t.Fatalf("restored balance = %s, want 1200", found.Balance)
	}
	if !found.Assets.Gold.Equal(decimal.RequireFromString("1.5")) {
		t.Fatalf("restored gold = %s, want 1.5", found.Assets.Gold)
	}
}

func TestRegistryRestoreOverCapacity(t *testing.T) {
	registry := newTestRegistry(1)
	records := []Account{
		{Name: "Alice", PIN: 4321},
		{Name: "Bob", PIN: 5555},
	}
	if err := registry.Restore(records); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("Restore err = %v, want ErrCapacityExceeded", err)
	}
}
