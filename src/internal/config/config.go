package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

const (
	defaultDataFile        = "accounts.dat"
	defaultMigrationsDir   = "src/migrations"
	defaultMaxAccounts     = 100
	defaultStartingBalance = 1000.0
	defaultLoanAmount      = 500.0
	defaultPurchaseAmount  = 100.0
	defaultInterestRate    = 0.05
)

type Config struct {
	StorageBackend      string  `yaml:"storage_backend"`
	DataFile            string  `yaml:"data_file"`
	DatabaseDSN         string  `yaml:"database_dsn"`
	MigrationsDir       string  `yaml:"migrations_dir"`
	MaxAccounts         int     `yaml:"max_accounts"`
	StartingBalance     float64 `yaml:"starting_balance"`
	LoanAmount          float64 `yaml:"loan_amount"`
	AssetPurchaseAmount float64 `yaml:"asset_purchase_amount"`
	InterestRate        float64 `yaml:"interest_rate"`
}

// Load resolves configuration in three layers: built-in defaults, an
// optional YAML file (BANK_CONFIG, falling back to bank.yaml when it
// exists), then environment variable overrides.
func Load() (Config, error) {
	cfg := Config{
		StorageBackend:      BackendFile,
		DataFile:            defaultDataFile,
		MigrationsDir:       defaultMigrationsDir,
		MaxAccounts:         defaultMaxAccounts,
		StartingBalance:     defaultStartingBalance,
		LoanAmount:          defaultLoanAmount,
		AssetPurchaseAmount: defaultPurchaseAmount,
		InterestRate:        defaultInterestRate,
	}

	if err := applyFile(&cfg); err != nil {
		return Config{}, err
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	cfg.StorageBackend = strings.ToLower(strings.TrimSpace(cfg.StorageBackend))
	switch cfg.StorageBackend {
	case BackendFile, BackendPostgres:
	default:
		return Config{}, fmt.Errorf("storage_backend must be %q or %q, got %q", BackendFile, BackendPostgres, cfg.StorageBackend)
	}

	if cfg.StorageBackend == BackendPostgres {
		if strings.TrimSpace(cfg.DatabaseDSN) == "" {
			return Config{}, fmt.Errorf("database_dsn is required for the %s backend", BackendPostgres)
		}
		cfg.DatabaseDSN = normalizeConnectionString(cfg.DatabaseDSN)
	}

	if cfg.MaxAccounts <= 0 {
		return Config{}, fmt.Errorf("max_accounts must be positive, got %d", cfg.MaxAccounts)
	}
	if cfg.StartingBalance < 0 {
		return Config{}, fmt.Errorf("starting_balance cannot be negative")
	}
	if cfg.LoanAmount <= 0 || cfg.AssetPurchaseAmount <= 0 {
		return Config{}, fmt.Errorf("loan_amount and asset_purchase_amount must be positive")
	}
	if cfg.InterestRate < 0 {
		return Config{}, fmt.Errorf("interest_rate cannot be negative")
	}

	return cfg, nil
}

func applyFile(cfg *Config) error {
	path := strings.TrimSpace(os.Getenv("BANK_CONFIG"))
	explicit := path != ""
	if !explicit {
		path = filepath.Join(".", "bank.yaml")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if explicit {
			return fmt.Errorf("read config file %q: %w", path, err)
		}
		return nil
	}

	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config file %q: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv("BANK_STORAGE_BACKEND")); v != "" {
		cfg.StorageBackend = v
	}
	if v := strings.TrimSpace(os.Getenv("BANK_DATA_FILE")); v != "" {
		cfg.DataFile = v
	}
	if v := strings.TrimSpace(os.Getenv("DATABASE_DSN")); v != "" {
		cfg.DatabaseDSN = v
	}
	if v := strings.TrimSpace(os.Getenv("BANK_MIGRATIONS_DIR")); v != "" {
		cfg.MigrationsDir = v
	}

	if v := strings.TrimSpace(os.Getenv("BANK_MAX_ACCOUNTS")); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BANK_MAX_ACCOUNTS must be an integer: %w", err)
		}
		cfg.MaxAccounts = parsed
	}

	for _, entry := range []struct {
		name   string
		target *float64
	}{
		{"BANK_STARTING_BALANCE", &cfg.StartingBalance},
		{"BANK_LOAN_AMOUNT", &cfg.LoanAmount},
		{"BANK_ASSET_PURCHASE_AMOUNT", &cfg.AssetPurchaseAmount},
		{"BANK_INTEREST_RATE", &cfg.InterestRate},
	} {
		v := strings.TrimSpace(os.Getenv(entry.name))
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s must be numeric: %w", entry.name, err)
		}
		*entry.target = parsed
	}

	return nil
}

// normalizeConnectionString accepts both the semicolon Key=Value DSN
// style and the native libpq space-separated form, emitting the latter.
func normalizeConnectionString(raw string) string {
	if !strings.Contains(raw, ";") {
		return raw
	}

	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	hasSSLMode := false

	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}

		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "host":
			out = append(out, "host="+val)
		case "port":
			out = append(out, "port="+val)
		case "database":
			out = append(out, "dbname="+val)
		case "username":
			out = append(out, "user="+val)
		case "password":
			out = append(out, "password="+val)
		case "timeout", "connect timeout":
			out = append(out, "connect_timeout="+val)
		case "sslmode":
			hasSSLMode = true
			out = append(out, "sslmode="+val)
		default:
			out = append(out, key+"="+val)
		}
	}

	if len(out) == 0 {
		return raw
	}

	if !hasSSLMode {
		out = append(out, "sslmode=disable")
	}

	return strings.Join(out, " ")
}
