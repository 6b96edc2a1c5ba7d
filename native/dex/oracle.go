package dex

import "pooldex/ledger"

// PriceOracle reports the pool's spot exchange rate as a reduced pair of
// amounts: both reserves divided by the smaller one, floored. An empty or
// half-empty pool has no rate and fails with ErrOperationOverflow.
func (e *Exchange) PriceOracle(assetID ledger.AssetID) (*OraclePrice, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	pool, ok, err := NewRegistry(e.db).Get(assetID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPoolNotFound
	}
	unit := pool.CurrencyReserve
	if pool.AssetReserve.Cmp(unit) < 0 {
		unit = pool.AssetReserve
	}
	assetAmount, err := checkedDiv(pool.AssetReserve, unit)
	if err != nil {
		return nil, err
	}
	currencyAmount, err := checkedDiv(pool.CurrencyReserve, unit)
	if err != nil {
		return nil, err
	}
	return &OraclePrice{
		AssetID:        assetID,
		AssetAmount:    assetAmount,
		CurrencyAmount: currencyAmount,
	}, nil
}
