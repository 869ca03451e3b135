package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/api-sage/grey-bank-ledger/src/internal/domain"
)

// RegistryStore keeps the same whole-snapshot contract as the file
// store, on PostgreSQL: Save replaces the entire accounts table inside
// one transaction, Load reads it back in insertion order. It is an
// alternative backend, not a concurrent-access upgrade.
type RegistryStore struct {
	db *sql.DB
}

func NewRegistryStore(db *sql.DB) *RegistryStore {
	return &RegistryStore{db: db}
}

func (s *RegistryStore) Load(ctx context.Context) ([]domain.Account, error) {
	const query = `
SELECT name, pin, balance, loan,
       crypto_units, gold_units, silver_units,
       eur_units, gbp_units, inr_units
FROM accounts
ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: load accounts: %v", domain.ErrStorageFailure, err)
	}
	defer rows.Close()

	var records []domain.Account
	for rows.Next() {
		var (
			account domain.Account
			fields  [8]string
		)
		if err := rows.Scan(
			&account.Name, &account.PIN,
			&fields[0], &fields[1], &fields[2], &fields[3],
			&fields[4], &fields[5], &fields[6], &fields[7],
		); err != nil {
			return nil, fmt.Errorf("%w: scan account row: %v", domain.ErrStorageFailure, err)
		}

		parsed := make([]decimal.Decimal, len(fields))
		for i, raw := range fields {
			value, err := decimal.NewFromString(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: account %q holds non-numeric value %q: %v", domain.ErrStorageFailure, account.Name, raw, err)
			}
			parsed[i] = value
		}

		account.Balance = parsed[0]
		account.Loan = parsed[1]
		account.Assets = domain.AssetHoldings{Crypto: parsed[2], Gold: parsed[3], Silver: parsed[4]}
		account.Currencies = domain.CurrencyHoldings{EUR: parsed[5], GBP: parsed[6], INR: parsed[7]}
		records = append(records, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate account rows: %v", domain.ErrStorageFailure, err)
	}

	return records, nil
}

func (s *RegistryStore) Save(ctx context.Context, records []domain.Account) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin snapshot tx: %v", domain.ErrStorageFailure, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM accounts`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%w: clear accounts: %v", domain.ErrStorageFailure, err)
	}

	const insert = `
INSERT INTO accounts (
	name, pin, balance, loan,
	crypto_units, gold_units, silver_units,
	eur_units, gbp_units, inr_units
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	for _, account := range records {
		if _, err := tx.ExecContext(ctx, insert,
			account.Name, account.PIN,
			account.Balance.String(), account.Loan.String(),
			account.Assets.Crypto.String(), account.Assets.Gold.String(), account.Assets.Silver.String(),
			account.Currencies.EUR.String(), account.Currencies.GBP.String(), account.Currencies.INR.String(),
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("%w: insert account %q: %v", domain.ErrStorageFailure, account.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit snapshot: %v", domain.ErrStorageFailure, err)
	}

	return nil
}
