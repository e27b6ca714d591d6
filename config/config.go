// Package config loads and validates the service configuration from YAML.
// The issuer mnemonic never lives in the file; the file only names the
// environment variable that holds it.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// Config is the top-level configuration for trustchaind and the CLI.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Algorand AlgorandConfig `yaml:"algorand"`
	Issuer   IssuerConfig   `yaml:"issuer"`
	Limits   LimitsConfig   `yaml:"limits"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig defines the HTTP server settings.
type ServerConfig struct {
	HTTPPort     int    `yaml:"http_port"`
	ReadTimeout  string `yaml:"read_timeout"`
	WriteTimeout string `yaml:"write_timeout"`
	IdleTimeout  string `yaml:"idle_timeout"`
	// APIKey, when set, is required (header X-API-Key) on issuance requests.
	// Empty disables the check.
	APIKey string `yaml:"api_key"`
}

// AlgorandConfig defines the algod/indexer endpoints and the issuing identity.
type AlgorandConfig struct {
	AlgodURL     string `yaml:"algod_url"`
	AlgodToken   string `yaml:"algod_token"`
	IndexerURL   string `yaml:"indexer_url"`
	IndexerToken string `yaml:"indexer_token"`
	// MnemonicEnv names the environment variable holding the issuer's
	// 25-word mnemonic. The variable may be unset; the service then runs
	// read-only.
	MnemonicEnv string `yaml:"mnemonic_env"`
	WaitRounds  uint64 `yaml:"wait_rounds"`
}

// IssuerConfig tunes issuance economics.
type IssuerConfig struct {
	// SpendableThresholdMicroalgos is the safety margin above the ledger's
	// locked minimum required before a write is attempted.
	SpendableThresholdMicroalgos uint64 `yaml:"spendable_threshold_microalgos"`
	UnitName                     string `yaml:"unit_name"`
	AssetURL                     string `yaml:"asset_url"`
}

// LimitsConfig bounds uploads and history windows.
type LimitsConfig struct {
	MaxUploadBytes      int64  `yaml:"max_upload_bytes"`
	DefaultHistoryLimit uint64 `yaml:"default_history_limit"`
	MaxHistoryLimit     uint64 `yaml:"max_history_limit"`
}

// LoggingConfig defines logging behaviour.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Load reads, defaults and validates the configuration at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config file: %w", err)
	}

	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// Mnemonic resolves the issuer mnemonic from the configured environment
// variable. Empty when unset.
func (c *Config) Mnemonic() string {
	if c.Algorand.MnemonicEnv == "" {
		return ""
	}
	return os.Getenv(c.Algorand.MnemonicEnv)
}

// SetDefaults fills in reasonable defaults for anything the file omitted.
func (c *Config) SetDefaults() {
	if c.Server.HTTPPort <= 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = "30s"
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = "60s"
	}
	if c.Server.IdleTimeout == "" {
		c.Server.IdleTimeout = "120s"
	}

	if c.Algorand.AlgodURL == "" {
		c.Algorand.AlgodURL = "https://testnet-api.algonode.cloud"
	}
	if c.Algorand.IndexerURL == "" {
		c.Algorand.IndexerURL = "https://testnet-idx.algonode.cloud"
	}
	if c.Algorand.MnemonicEnv == "" {
		c.Algorand.MnemonicEnv = "TRUSTCHAIN_MNEMONIC"
	}
	if c.Algorand.WaitRounds == 0 {
		c.Algorand.WaitRounds = 4
	}

	if c.Issuer.SpendableThresholdMicroalgos == 0 {
		c.Issuer.SpendableThresholdMicroalgos = 350000
	}
	if c.Issuer.UnitName == "" {
		c.Issuer.UnitName = "PROOF"
	}

	if c.Limits.MaxUploadBytes == 0 {
		c.Limits.MaxUploadBytes = 10 << 20
	}
	if c.Limits.DefaultHistoryLimit == 0 {
		c.Limits.DefaultHistoryLimit = 100
	}
	if c.Limits.MaxHistoryLimit == 0 {
		c.Limits.MaxHistoryLimit = 1000
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks the configuration for values that would only fail later.
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d (must be between 1-65535)", c.Server.HTTPPort)
	}
	if _, err := time.ParseDuration(c.Server.ReadTimeout); err != nil {
		return fmt.Errorf("invalid read_timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.Server.WriteTimeout); err != nil {
		return fmt.Errorf("invalid write_timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.Server.IdleTimeout); err != nil {
		return fmt.Errorf("invalid idle_timeout: %w", err)
	}

	if c.Algorand.AlgodURL == "" {
		return fmt.Errorf("algod_url is required")
	}
	if c.Algorand.IndexerURL == "" {
		return fmt.Errorf("indexer_url is required")
	}

	if c.Limits.MaxUploadBytes < 0 {
		return fmt.Errorf("invalid max_upload_bytes: %d", c.Limits.MaxUploadBytes)
	}
	if c.Limits.DefaultHistoryLimit > c.Limits.MaxHistoryLimit {
		return fmt.Errorf("default_history_limit %d exceeds max_history_limit %d",
			c.Limits.DefaultHistoryLimit, c.Limits.MaxHistoryLimit)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level: %q", c.Logging.Level)
	}

	return nil
}
