package memory

import (
	"context"

	"github.com/api-sage/grey-bank-ledger/src/internal/domain"
)

// RegistryStore keeps the snapshot in memory. It backs the service
// tests and is handy for running the simulator without touching disk.
type RegistryStore struct {
	records []domain.Account
	saves   int
}

func NewRegistryStore() *RegistryStore {
	return &RegistryStore{}
}

func (s *RegistryStore) Load(_ context.Context) ([]domain.Account, error) {
	out := make([]domain.Account, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *RegistryStore) Save(_ context.Context, records []domain.Account) error {
	s.records = make([]domain.Account, len(records))
	copy(s.records, records)
	s.saves++
	return nil
}

// Saves reports how many snapshots have been written, letting tests
// assert the save-after-mutate contract.
func (s *RegistryStore) Saves() int {
	return s.saves
}
