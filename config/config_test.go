package config

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pooldex.toml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default file not written: %v", err)
	}
	if cfg.FeeNumerator != 3 || cfg.FeeDenominator != 1000 {
		t.Fatalf("default fee = %d/%d, want 3/1000", cfg.FeeNumerator, cfg.FeeDenominator)
	}
	if cfg.NetworkName != "pooldex-local" {
		t.Fatalf("network = %q", cfg.NetworkName)
	}
}

func TestLoadExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pooldex.toml")
	raw := `ListenAddress = ":9090"
DataDir = "/var/lib/pooldex"
NetworkName = "testnet"
RPCAuthToken = "secret"
FeeNumerator = 5
FeeDenominator = 100
ExistentialDeposit = "25"
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddress != ":9090" || cfg.RPCAuthToken != "secret" {
		t.Fatalf("cfg = %+v", cfg)
	}
	ed, err := cfg.ExistentialDepositAmount()
	if err != nil {
		t.Fatalf("existential deposit: %v", err)
	}
	if ed.Cmp(big.NewInt(25)) != 0 {
		t.Fatalf("existential deposit = %s, want 25", ed)
	}
}

func TestLoadRejectsBadFee(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pooldex.toml")
	raw := `ListenAddress = ":8080"
FeeNumerator = 1000
FeeDenominator = 1000
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected fee validation failure")
	}
}

func TestValidateRejectsBadExistentialDeposit(t *testing.T) {
	cfg := &Config{
		ListenAddress:      ":8080",
		FeeNumerator:       3,
		FeeDenominator:     1000,
		ExistentialDeposit: "not-a-number",
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected parse failure")
	}
}
