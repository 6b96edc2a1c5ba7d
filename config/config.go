package config

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	ListenAddress      string `toml:"ListenAddress"`
	DataDir            string `toml:"DataDir"`
	NetworkName        string `toml:"NetworkName"`
	RPCAuthToken       string `toml:"RPCAuthToken"`
	FeeNumerator       uint64 `toml:"FeeNumerator"`
	FeeDenominator     uint64 `toml:"FeeDenominator"`
	ExistentialDeposit string `toml:"ExistentialDeposit"`
}

// Load loads the configuration from the given path, writing a default file
// when none exists yet.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.NetworkName) == "" {
		cfg.NetworkName = "pooldex-local"
	}
	if cfg.FeeDenominator == 0 && cfg.FeeNumerator == 0 {
		cfg.FeeNumerator = 3
		cfg.FeeDenominator = 1000
	}
	if strings.TrimSpace(cfg.ExistentialDeposit) == "" {
		cfg.ExistentialDeposit = "0"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the exchange cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ListenAddress) == "" {
		return fmt.Errorf("config: ListenAddress must not be empty")
	}
	if c.FeeDenominator == 0 {
		return fmt.Errorf("config: FeeDenominator must be nonzero")
	}
	if c.FeeNumerator >= c.FeeDenominator {
		return fmt.Errorf("config: fee %d/%d is not below one", c.FeeNumerator, c.FeeDenominator)
	}
	if _, err := c.ExistentialDepositAmount(); err != nil {
		return err
	}
	return nil
}

// ExistentialDepositAmount parses the configured minimum account balance.
func (c *Config) ExistentialDepositAmount() (*big.Int, error) {
	raw := strings.TrimSpace(c.ExistentialDeposit)
	if raw == "" {
		return big.NewInt(0), nil
	}
	amount, ok := new(big.Int).SetString(raw, 10)
	if !ok || amount.Sign() < 0 {
		return nil, fmt.Errorf("config: invalid ExistentialDeposit %q", c.ExistentialDeposit)
	}
	return amount, nil
}

// createDefault creates and saves a default configuration file.
func createDefault(path string) (*Config, error) {
	cfg := &Config{
		ListenAddress:      ":8080",
		DataDir:            "./pooldex-data",
		NetworkName:        "pooldex-local",
		FeeNumerator:       3,
		FeeDenominator:     1000,
		ExistentialDeposit: "0",
	}
	if err := persist(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func persist(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
