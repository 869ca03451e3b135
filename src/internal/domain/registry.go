package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Registry owns every account for the lifetime of the process. It is
// not safe for concurrent use; the system is single-user by design and
// nothing calls it from more than one goroutine.
type Registry struct {
	capacity        int
	startingBalance decimal.Decimal
	accounts        []*Account
}

func NewRegistry(capacity int, startingBalance decimal.Decimal) *Registry {
	return &Registry{
		capacity:        capacity,
		startingBalance: startingBalance,
	}
}

func (r *Registry) Len() int {
	return len(r.accounts)
}

func (r *Registry) Capacity() int {
	return r.capacity
}

// Exists reports whether any account matches the name OR the PIN. A
// match on either field alone is a collision.
func (r *Registry) Exists(name string, pin int) bool {
	for _, account := range r.accounts {
		if account.Name == name || account.PIN == pin {
			return true
		}
	}
	return false
}

func (r *Registry) Create(name string, pin int) (*Account, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if err := ValidatePIN(pin); err != nil {
		return nil, err
	}
	if len(r.accounts) >= r.capacity {
		return nil, ErrCapacityExceeded
	}
	if r.Exists(name, pin) {
		return nil, ErrDuplicateAccount
	}

	account := NewAccount(name, pin, r.startingBalance)
	r.accounts = append(r.accounts, account)
	return account, nil
}

// FindByCredentials returns the first account matching both name and
// PIN. Uniqueness of each field means at most one account can match.
func (r *Registry) FindByCredentials(name string, pin int) (*Account, error) {
	for _, account := range r.accounts {
		if account.Name == name && account.PIN == pin {
			return account, nil
		}
	}
	return nil, ErrInvalidCredential
}

// Snapshot copies every record by value, in insertion order, for the
// persistence layer.
func (r *Registry) Snapshot() []Account {
	records := make([]Account, 0, len(r.accounts))
	for _, account := range r.accounts {
		records = append(records, *account)
	}
	return records
}

// Restore replaces the registry contents with a loaded snapshot. A
// snapshot larger than the configured capacity is refused rather than
// silently truncated.
func (r *Registry) Restore(records []Account) error {
	if len(records) > r.capacity {
		return fmt.Errorf("%w: snapshot holds %d accounts, capacity is %d", ErrCapacityExceeded, len(records), r.capacity)
	}

	accounts := make([]*Account, 0, len(records))
	for i := range records {
		record := records[i]
		accounts = append(accounts, &record)
	}
	r.accounts = accounts
	return nil
}
