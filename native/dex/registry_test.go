package dex

import (
	"math/big"
	"testing"

	"pooldex/storage"
)

func TestRegistryRoundTrip(t *testing.T) {
	reg := NewRegistry(storage.NewMemDB())

	if _, ok, err := reg.Get(7); err != nil || ok {
		t.Fatalf("missing pool: ok=%v err=%v", ok, err)
	}
	pool := &Pool{
		AssetID:          7,
		CurrencyReserve:  big.NewInt(50),
		AssetReserve:     big.NewInt(40),
		LiquidityAssetID: 8,
	}
	if err := reg.Insert(pool); err != nil {
		t.Fatalf("insert: %v", err)
	}
	got, ok, err := reg.Get(7)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.CurrencyReserve.Cmp(pool.CurrencyReserve) != 0 || got.AssetReserve.Cmp(pool.AssetReserve) != 0 {
		t.Fatalf("reserves = %s/%s, want 50/40", got.CurrencyReserve, got.AssetReserve)
	}
	if got.LiquidityAssetID != 8 {
		t.Fatalf("liquidity asset = %d, want 8", got.LiquidityAssetID)
	}

	pool.CurrencyReserve = big.NewInt(70)
	if err := reg.Insert(pool); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, _, err = reg.Get(7)
	if err != nil {
		t.Fatalf("get after upsert: %v", err)
	}
	if got.CurrencyReserve.Cmp(big.NewInt(70)) != 0 {
		t.Fatalf("currency reserve = %s, want 70", got.CurrencyReserve)
	}
}
