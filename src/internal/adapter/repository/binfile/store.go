package binfile

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"

	"github.com/shopspring/decimal"

	"github.com/api-sage/grey-bank-ledger/src/internal/domain"
)

// Snapshot file layout, little-endian throughout:
//
//	magic   [4]byte "GBNK"
//	version uint16
//	count   uint32
//	count fixed-size records (name, pin, balance, loan, 3 asset
//	holdings, 3 currency holdings)
//
// The byte order and field widths are pinned here so a snapshot
// written on one architecture loads on any other.
var magic = [4]byte{'G', 'B', 'N', 'K'}

const formatVersion uint16 = 1

const nameFieldSize = domain.MaxNameLength + 1

type header struct {
	Magic   [4]byte
	Version uint16
	Count   uint32
}

type record struct {
	Name    [nameFieldSize]byte
	PIN     int32
	Balance float64
	Loan    float64
	Crypto  float64
	Gold    float64
	Silver  float64
	EUR     float64
	GBP     float64
	INR     float64
}

// Store reads and writes registry snapshots at a fixed path. Save is a
// plain truncate-and-write: a failure mid-write can leave the file in
// an unspecified state. That matches the specified best-effort
// durability; there is deliberately no tmp-and-rename step.
type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Load(_ context.Context) ([]domain.Account, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: an absent snapshot is an empty registry.
			return nil, nil
		}
		return nil, fmt.Errorf("%w: open %q: %v", domain.ErrStorageFailure, s.path, err)
	}
	defer f.Close()

	r := bufio.NewReader(f)

	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("%w: read snapshot header: %v", domain.ErrStorageFailure, err)
	}
	if h.Magic != magic {
		return nil, fmt.Errorf("%w: %q is not a registry snapshot", domain.ErrStorageFailure, s.path)
	}
	if h.Version != formatVersion {
		return nil, fmt.Errorf("%w: unsupported snapshot version %d", domain.ErrStorageFailure, h.Version)
	}

	records := make([]domain.Account, 0, h.Count)
	for i := uint32(0); i < h.Count; i++ {
		var rec record
		if err := binary.Read(r, binary.LittleEndian, &rec); err != nil {
			return nil, fmt.Errorf("%w: read record %d of %d: %v", domain.ErrStorageFailure, i+1, h.Count, err)
		}
		account, err := decodeRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d of %d: %w", i+1, h.Count, err)
		}
		records = append(records, account)
	}

	if _, err := r.ReadByte(); err != io.EOF {
		return nil, fmt.Errorf("%w: snapshot has trailing data after %d records", domain.ErrStorageFailure, h.Count)
	}

	return records, nil
}

func (s *Store) Save(_ context.Context, records []domain.Account) error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("%w: create %q: %v", domain.ErrStorageFailure, s.path, err)
	}

	w := bufio.NewWriter(f)

	h := header{Magic: magic, Version: formatVersion, Count: uint32(len(records))}
	if err := binary.Write(w, binary.LittleEndian, h); err != nil {
		f.Close()
		return fmt.Errorf("%w: write snapshot header: %v", domain.ErrStorageFailure, err)
	}

	for i := range records {
		rec, err := encodeRecord(records[i])
		if err != nil {
			f.Close()
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, rec); err != nil {
			f.Close()
			return fmt.Errorf("%w: write record %d: %v", domain.ErrStorageFailure, i+1, err)
		}
	}

	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("%w: flush snapshot: %v", domain.ErrStorageFailure, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close snapshot: %v", domain.ErrStorageFailure, err)
	}

	return nil
}

func encodeRecord(account domain.Account) (record, error) {
	if len(account.Name) > domain.MaxNameLength {
		return record{}, fmt.Errorf("%w: account name %q exceeds %d characters", domain.ErrStorageFailure, account.Name, domain.MaxNameLength)
	}

	var rec record
	copy(rec.Name[:], account.Name)
	rec.PIN = int32(account.PIN)
	rec.Balance = account.Balance.InexactFloat64()
	rec.Loan = account.Loan.InexactFloat64()
	rec.Crypto = account.Assets.Crypto.InexactFloat64()
	rec.Gold = account.Assets.Gold.InexactFloat64()
	rec.Silver = account.Assets.Silver.InexactFloat64()
	rec.EUR = account.Currencies.EUR.InexactFloat64()
	rec.GBP = account.Currencies.GBP.InexactFloat64()
	rec.INR = account.Currencies.INR.InexactFloat64()
	return rec, nil
}

func decodeRecord(rec record) (domain.Account, error) {
	account := domain.Account{
		Name: string(bytes.TrimRight(rec.Name[:], "\x00")),
		PIN:  int(rec.PIN),
	}

	// decimal.NewFromFloat panics on NaN and infinities, so every
	// amount is checked before conversion; such bytes mean the file
	// is corrupt, not that the process should crash.
	for _, field := range []struct {
		name   string
		raw    float64
		target *decimal.Decimal
	}{
		{"balance", rec.Balance, &account.Balance},
		{"loan", rec.Loan, &account.Loan},
		{"crypto", rec.Crypto, &account.Assets.Crypto},
		{"gold", rec.Gold, &account.Assets.Gold},
		{"silver", rec.Silver, &account.Assets.Silver},
		{"eur", rec.EUR, &account.Currencies.EUR},
		{"gbp", rec.GBP, &account.Currencies.GBP},
		{"inr", rec.INR, &account.Currencies.INR},
	} {
		if math.IsNaN(field.raw) || math.IsInf(field.raw, 0) {
			return domain.Account{}, fmt.Errorf("%w: %s field holds %v", domain.ErrStorageFailure, field.name, field.raw)
		}
		*field.target = decimal.NewFromFloat(field.raw)
	}

	return account, nil
}
