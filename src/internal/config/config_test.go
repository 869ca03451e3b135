package config

import (
	"os"
	"path/filepath"
	"testing"
)

// chdir switches to dir for the duration of the test; t.Chdir needs Go 1.24+.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore wd: %v", err)
		}
	})
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BANK_CONFIG", "")
	chdir(t, t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.StorageBackend != BackendFile {
		t.Fatalf("StorageBackend = %q, want %q", cfg.StorageBackend, BackendFile)
	}
	if cfg.DataFile != "accounts.dat" {
		t.Fatalf("DataFile = %q, want accounts.dat", cfg.DataFile)
	}
	if cfg.MaxAccounts != 100 {
		t.Fatalf("MaxAccounts = %d, want 100", cfg.MaxAccounts)
	}
	if cfg.StartingBalance != 1000 || cfg.LoanAmount != 500 || cfg.AssetPurchaseAmount != 100 {
		t.Fatalf("unexpected amounts: %+v", cfg)
	}
	if cfg.InterestRate != 0.05 {
		t.Fatalf("InterestRate = %v, want 0.05", cfg.InterestRate)
	}
}

func TestLoadYAMLFileThenEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bank.yaml")
	body := "data_file: /tmp/ledger.dat\nmax_accounts: 25\nloan_amount: 750\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("BANK_CONFIG", path)
	t.Setenv("BANK_MAX_ACCOUNTS", "50")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DataFile != "/tmp/ledger.dat" {
		t.Fatalf("DataFile = %q, want yaml value", cfg.DataFile)
	}
	if cfg.LoanAmount != 750 {
		t.Fatalf("LoanAmount = %v, want yaml value 750", cfg.LoanAmount)
	}
	// Environment wins over the file.
	if cfg.MaxAccounts != 50 {
		t.Fatalf("MaxAccounts = %d, want env value 50", cfg.MaxAccounts)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("BANK_STORAGE_BACKEND", "sqlite")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown storage backend")
	}
}

func TestLoadPostgresRequiresDSN(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("BANK_STORAGE_BACKEND", "postgres")
	t.Setenv("DATABASE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for postgres backend without DSN")
	}
}

func TestNormalizeConnectionString(t *testing.T) {
	raw := "Host=localhost;Port=5432;Database=bank;Username=postgres;Password=secret"
	got := normalizeConnectionString(raw)
	want := "host=localhost port=5432 dbname=bank user=postgres password=secret sslmode=disable"
	if got != want {
		t.Fatalf("normalize = %q, want %q", got, want)
	}

	native := "host=localhost dbname=bank sslmode=disable"
	if got := normalizeConnectionString(native); got != native {
		t.Fatalf("native DSN mangled: %q", got)
	}
}
