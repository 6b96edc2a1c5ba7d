package dex

import (
	"errors"
	"math/big"
	"testing"

	"pooldex/events"
	"pooldex/ledger"
)

func TestCurrencyToAssetPricing(t *testing.T) {
	e, rec, trader := seedPool(t)

	if err := e.CurrencyToAsset(trader, testAssetID, big.NewInt(20)); err != nil {
		t.Fatalf("swap: %v", err)
	}
	// floor(997*20*50 / (1000*50 + 997*20)) = 14
	requireAmount(t, mustCurrency(t, e, trader), 30, "trader currency")
	requireAmount(t, mustAsset(t, e, testAssetID, trader), 64, "trader asset")

	pool := mustPool(t, e, testAssetID)
	requireAmount(t, pool.CurrencyReserve, 70, "currency reserve")
	requireAmount(t, pool.AssetReserve, 36, "asset reserve")

	swapped, ok := rec.Last().(events.CurrencyToAsset)
	if !ok {
		t.Fatalf("last event = %T, want CurrencyToAsset", rec.Last())
	}
	requireAmount(t, swapped.CurrencyAmount, 20, "event currency amount")
	requireAmount(t, swapped.AssetAmount, 14, "event asset amount")
}

func TestCurrencyToAssetFailureModes(t *testing.T) {
	e, _, trader := seedPool(t)
	if err := e.CreateAsset(testAddr(9), 7); err != nil {
		t.Fatalf("create poolless asset: %v", err)
	}

	if err := e.CurrencyToAsset(trader, testAssetID, big.NewInt(0)); !errors.Is(err, ErrCurrencyAmountZero) {
		t.Fatalf("zero amount: err = %v", err)
	}
	if err := e.CurrencyToAsset(trader, 42, big.NewInt(10)); !errors.Is(err, ErrAssetNotFound) {
		t.Fatalf("unknown asset: err = %v", err)
	}
	if err := e.CurrencyToAsset(trader, 7, big.NewInt(10)); !errors.Is(err, ErrPoolNotFound) {
		t.Fatalf("missing pool: err = %v", err)
	}
	if err := e.CurrencyToAsset(trader, testAssetID, big.NewInt(1000)); !errors.Is(err, ErrInsufficientCurrencyBalance) {
		t.Fatalf("over balance: err = %v", err)
	}
}

func TestAssetToCurrencyPricing(t *testing.T) {
	e, rec, trader := seedPool(t)

	if err := e.AssetToCurrency(trader, testAssetID, big.NewInt(20)); err != nil {
		t.Fatalf("swap: %v", err)
	}
	requireAmount(t, mustCurrency(t, e, trader), 64, "trader currency")
	requireAmount(t, mustAsset(t, e, testAssetID, trader), 30, "trader asset")

	pool := mustPool(t, e, testAssetID)
	requireAmount(t, pool.CurrencyReserve, 36, "currency reserve")
	requireAmount(t, pool.AssetReserve, 70, "asset reserve")

	swapped, ok := rec.Last().(events.AssetToCurrency)
	if !ok {
		t.Fatalf("last event = %T, want AssetToCurrency", rec.Last())
	}
	requireAmount(t, swapped.AssetAmount, 20, "event asset amount")
	requireAmount(t, swapped.CurrencyAmount, 14, "event currency amount")
}

func TestAssetToCurrencyFailureModes(t *testing.T) {
	e, _, trader := seedPool(t)
	if err := e.CreateAsset(testAddr(9), 7); err != nil {
		t.Fatalf("create poolless asset: %v", err)
	}

	if err := e.AssetToCurrency(trader, testAssetID, big.NewInt(0)); !errors.Is(err, ErrAssetAmountZero) {
		t.Fatalf("zero amount: err = %v", err)
	}
	if err := e.AssetToCurrency(trader, 42, big.NewInt(10)); !errors.Is(err, ErrAssetNotFound) {
		t.Fatalf("unknown asset: err = %v", err)
	}
	if err := e.AssetToCurrency(trader, 7, big.NewInt(10)); !errors.Is(err, ErrPoolNotFound) {
		t.Fatalf("missing pool: err = %v", err)
	}
	if err := e.AssetToCurrency(trader, testAssetID, big.NewInt(1000)); !errors.Is(err, ErrInsufficientAssetBalance) {
		t.Fatalf("over holding: err = %v", err)
	}
}

func TestAssetToAssetTwoHop(t *testing.T) {
	e, rec, trader := seedPool(t)

	const secondAsset ledger.AssetID = 5
	const secondLiq ledger.AssetID = 6
	if err := e.CreateAsset(testAddr(9), secondAsset); err != nil {
		t.Fatalf("create asset: %v", err)
	}
	if err := e.MintAsset(secondAsset, trader, big.NewInt(100)); err != nil {
		t.Fatalf("mint asset: %v", err)
	}
	if err := e.DepositCurrency(trader, big.NewInt(50)); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if err := e.CreatePool(trader, secondAsset, secondLiq, big.NewInt(50), big.NewInt(50)); err != nil {
		t.Fatalf("create second pool: %v", err)
	}

	if err := e.AssetToAsset(trader, testAssetID, secondAsset, big.NewInt(20)); err != nil {
		t.Fatalf("swap: %v", err)
	}
	// hop 1: 20 asset -> 14 currency, hop 2: 14 currency -> 10 asset
	poolFrom := mustPool(t, e, testAssetID)
	requireAmount(t, poolFrom.CurrencyReserve, 36, "source currency reserve")
	requireAmount(t, poolFrom.AssetReserve, 70, "source asset reserve")
	poolTo := mustPool(t, e, secondAsset)
	requireAmount(t, poolTo.CurrencyReserve, 64, "destination currency reserve")
	requireAmount(t, poolTo.AssetReserve, 40, "destination asset reserve")

	requireAmount(t, mustAsset(t, e, testAssetID, trader), 30, "trader source asset")
	requireAmount(t, mustAsset(t, e, secondAsset, trader), 60, "trader destination asset")

	swapped, ok := rec.Last().(events.AssetToAsset)
	if !ok {
		t.Fatalf("last event = %T, want AssetToAsset", rec.Last())
	}
	requireAmount(t, swapped.AssetAmount, 20, "event input amount")
	requireAmount(t, swapped.AssetAmountReceived, 10, "event output amount")
}

func TestAssetToAssetSamePoolUsesUpdatedReserves(t *testing.T) {
	e, _, trader := seedPool(t)

	if err := e.AssetToAsset(trader, testAssetID, testAssetID, big.NewInt(20)); err != nil {
		t.Fatalf("swap: %v", err)
	}
	// hop 1 settles to {36,70}; hop 2 prices 14 currency against those
	// reserves and pays out floor(997*14*70 / (1000*36 + 997*14)) = 19
	pool := mustPool(t, e, testAssetID)
	requireAmount(t, pool.CurrencyReserve, 50, "currency reserve")
	requireAmount(t, pool.AssetReserve, 51, "asset reserve")
	requireAmount(t, mustAsset(t, e, testAssetID, trader), 49, "trader asset")
}

func TestAssetToAssetFailureModes(t *testing.T) {
	e, _, trader := seedPool(t)
	if err := e.CreateAsset(testAddr(9), 7); err != nil {
		t.Fatalf("create poolless asset: %v", err)
	}

	if err := e.AssetToAsset(trader, testAssetID, 7, big.NewInt(0)); !errors.Is(err, ErrAssetAmountZero) {
		t.Fatalf("zero amount: err = %v", err)
	}
	if err := e.AssetToAsset(trader, 42, testAssetID, big.NewInt(10)); !errors.Is(err, ErrAssetNotFound) {
		t.Fatalf("unknown source asset: err = %v", err)
	}
	if err := e.AssetToAsset(trader, testAssetID, 42, big.NewInt(10)); !errors.Is(err, ErrAssetNotFound) {
		t.Fatalf("unknown destination asset: err = %v", err)
	}
	if err := e.AssetToAsset(trader, 7, testAssetID, big.NewInt(10)); !errors.Is(err, ErrPoolNotFound) {
		t.Fatalf("source pool missing: err = %v", err)
	}
	if err := e.AssetToAsset(trader, testAssetID, 7, big.NewInt(10)); !errors.Is(err, ErrPoolNotFound) {
		t.Fatalf("destination pool missing: err = %v", err)
	}
	// The failed second hop must discard the first hop's settlement.
	pool := mustPool(t, e, testAssetID)
	requireAmount(t, pool.CurrencyReserve, 50, "currency reserve")
	requireAmount(t, pool.AssetReserve, 50, "asset reserve")
	if err := e.AssetToAsset(trader, testAssetID, testAssetID, big.NewInt(1000)); !errors.Is(err, ErrInsufficientAssetBalance) {
		t.Fatalf("over holding: err = %v", err)
	}
}

func TestSwapRoundTripNeverProfits(t *testing.T) {
	e, _, trader := seedPool(t)

	before := mustCurrency(t, e, trader)
	if err := e.CurrencyToAsset(trader, testAssetID, big.NewInt(20)); err != nil {
		t.Fatalf("buy: %v", err)
	}
	bought := new(big.Int).Sub(mustAsset(t, e, testAssetID, trader), big.NewInt(50))
	if err := e.AssetToCurrency(trader, testAssetID, bought); err != nil {
		t.Fatalf("sell: %v", err)
	}
	after := mustCurrency(t, e, trader)
	if after.Cmp(before) >= 0 {
		t.Fatalf("round trip profited: before %s, after %s", before, after)
	}
}

func TestSwapGrowsConstantProduct(t *testing.T) {
	e, _, trader := seedPool(t)

	pool := mustPool(t, e, testAssetID)
	before := new(big.Int).Mul(pool.CurrencyReserve, pool.AssetReserve)
	if err := e.CurrencyToAsset(trader, testAssetID, big.NewInt(20)); err != nil {
		t.Fatalf("swap: %v", err)
	}
	pool = mustPool(t, e, testAssetID)
	after := new(big.Int).Mul(pool.CurrencyReserve, pool.AssetReserve)
	if after.Cmp(before) < 0 {
		t.Fatalf("product shrank: before %s, after %s", before, after)
	}
}
