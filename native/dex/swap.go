package dex

import (
	"math/big"

	"pooldex/crypto"
	"pooldex/events"
	"pooldex/ledger"
)

// CurrencyToAsset sells native currency into the pool and pays the caller
// the fee-adjusted constant-product output of the pool's asset.
func (e *Exchange) CurrencyToAsset(caller crypto.Address, assetID ledger.AssetID, currencyAmount *big.Int) error {
	return e.run(func(c *callState) error {
		if err := requirePositive(currencyAmount, ErrCurrencyAmountZero); err != nil {
			return err
		}
		exists, err := c.assets.Exists(assetID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrAssetNotFound
		}
		pool, ok, err := c.pools.Get(assetID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrPoolNotFound
		}
		balance, err := c.currency.TotalBalance(caller)
		if err != nil {
			return err
		}
		if balance.Cmp(currencyAmount) < 0 {
			return ErrInsufficientCurrencyBalance
		}
		assetOut, err := ComputeOutput(currencyAmount, pool.CurrencyReserve, pool.AssetReserve, c.fee)
		if err != nil {
			return err
		}

		if err := c.currency.Transfer(caller, c.system, currencyAmount, true); err != nil {
			return mapCurrencyErr(err)
		}
		if err := c.assets.Transfer(pool.AssetID, c.system, caller, assetOut, false); err != nil {
			return mapAssetErr(err)
		}

		if pool.CurrencyReserve, err = checkedAdd(pool.CurrencyReserve, currencyAmount); err != nil {
			return err
		}
		if pool.AssetReserve, err = checkedSub(pool.AssetReserve, assetOut); err != nil {
			return err
		}
		if err := c.pools.Insert(pool); err != nil {
			return err
		}
		c.emit(events.CurrencyToAsset{
			Sender:         caller,
			AssetID:        uint32(pool.AssetID),
			CurrencyAmount: new(big.Int).Set(currencyAmount),
			AssetAmount:    assetOut,
		})
		return nil
	})
}

// AssetToCurrency sells the pool's asset and pays the caller native currency.
func (e *Exchange) AssetToCurrency(caller crypto.Address, assetID ledger.AssetID, assetAmount *big.Int) error {
	return e.run(func(c *callState) error {
		if err := requirePositive(assetAmount, ErrAssetAmountZero); err != nil {
			return err
		}
		exists, err := c.assets.Exists(assetID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrAssetNotFound
		}
		pool, ok, err := c.pools.Get(assetID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrPoolNotFound
		}
		balance, err := c.assets.BalanceOf(pool.AssetID, caller)
		if err != nil {
			return mapAssetErr(err)
		}
		if balance.Cmp(assetAmount) < 0 {
			return ErrInsufficientAssetBalance
		}
		currencyOut, err := ComputeOutput(assetAmount, pool.AssetReserve, pool.CurrencyReserve, c.fee)
		if err != nil {
			return err
		}

		if err := c.assets.Transfer(pool.AssetID, caller, c.system, assetAmount, true); err != nil {
			return mapAssetErr(err)
		}
		if err := c.currency.Transfer(c.system, caller, currencyOut, false); err != nil {
			return mapCurrencyErr(err)
		}

		if pool.AssetReserve, err = checkedAdd(pool.AssetReserve, assetAmount); err != nil {
			return err
		}
		if pool.CurrencyReserve, err = checkedSub(pool.CurrencyReserve, currencyOut); err != nil {
			return err
		}
		if err := c.pools.Insert(pool); err != nil {
			return err
		}
		c.emit(events.AssetToCurrency{
			Sender:         caller,
			AssetID:        uint32(pool.AssetID),
			CurrencyAmount: currencyOut,
			AssetAmount:    new(big.Int).Set(assetAmount),
		})
		return nil
	})
}

// AssetToAsset routes a trade between two assets through their currency
// pools. The intermediate currency never leaves custody; the first pool's
// currency reserve shrinks by exactly what the second pool's grows. The
// source pool is settled before the destination pool is read, so trading an
// asset against its own pool prices the second hop on the updated reserves.
func (e *Exchange) AssetToAsset(caller crypto.Address, fromID, toID ledger.AssetID, assetAmount *big.Int) error {
	return e.run(func(c *callState) error {
		if err := requirePositive(assetAmount, ErrAssetAmountZero); err != nil {
			return err
		}
		for _, id := range []ledger.AssetID{fromID, toID} {
			exists, err := c.assets.Exists(id)
			if err != nil {
				return err
			}
			if !exists {
				return ErrAssetNotFound
			}
		}
		poolFrom, ok, err := c.pools.Get(fromID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrPoolNotFound
		}
		balance, err := c.assets.BalanceOf(poolFrom.AssetID, caller)
		if err != nil {
			return mapAssetErr(err)
		}
		if balance.Cmp(assetAmount) < 0 {
			return ErrInsufficientAssetBalance
		}
		currencyMid, err := ComputeOutput(assetAmount, poolFrom.AssetReserve, poolFrom.CurrencyReserve, c.fee)
		if err != nil {
			return err
		}

		if err := c.assets.Transfer(poolFrom.AssetID, caller, c.system, assetAmount, true); err != nil {
			return mapAssetErr(err)
		}
		if poolFrom.AssetReserve, err = checkedAdd(poolFrom.AssetReserve, assetAmount); err != nil {
			return err
		}
		if poolFrom.CurrencyReserve, err = checkedSub(poolFrom.CurrencyReserve, currencyMid); err != nil {
			return err
		}
		if err := c.pools.Insert(poolFrom); err != nil {
			return err
		}

		poolTo, ok, err := c.pools.Get(toID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrPoolNotFound
		}
		assetOut, err := ComputeOutput(currencyMid, poolTo.CurrencyReserve, poolTo.AssetReserve, c.fee)
		if err != nil {
			return err
		}
		if err := c.assets.Transfer(poolTo.AssetID, c.system, caller, assetOut, false); err != nil {
			return mapAssetErr(err)
		}
		if poolTo.CurrencyReserve, err = checkedAdd(poolTo.CurrencyReserve, currencyMid); err != nil {
			return err
		}
		if poolTo.AssetReserve, err = checkedSub(poolTo.AssetReserve, assetOut); err != nil {
			return err
		}
		if err := c.pools.Insert(poolTo); err != nil {
			return err
		}
		c.emit(events.AssetToAsset{
			Sender:              caller,
			AssetIDFrom:         uint32(fromID),
			AssetIDTo:           uint32(toID),
			AssetAmount:         new(big.Int).Set(assetAmount),
			AssetAmountReceived: assetOut,
		})
		return nil
	})
}
