package repo_interfaces

import (
	"context"

	"github.com/api-sage/grey-bank-ledger/src/internal/domain"
)

// RegistryStore persists the account registry as one whole snapshot.
// Save fully replaces whatever was stored before; Load returns an
// empty slice when no snapshot has ever been written.
type RegistryStore interface {
	Load(ctx context.Context) ([]domain.Account, error)
	Save(ctx context.Context, records []domain.Account) error
}
