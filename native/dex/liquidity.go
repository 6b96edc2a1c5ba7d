package dex

import (
	"errors"
	"math/big"

	"pooldex/crypto"
	"pooldex/events"
	"pooldex/ledger"
)

func mapCurrencyErr(err error) error {
	if errors.Is(err, ledger.ErrInsufficientBalance) {
		return ErrInsufficientCurrencyBalance
	}
	return err
}

func mapAssetErr(err error) error {
	switch {
	case errors.Is(err, ledger.ErrInsufficientBalance):
		return ErrInsufficientAssetBalance
	case errors.Is(err, ledger.ErrAssetNotFound):
		return ErrAssetNotFound
	}
	return err
}

// CreatePool opens a market between the native currency and an existing
// asset, seeds it with the caller's initial deposit and creates the pool's
// liquidity token under the given fresh identifier. The initial deposit sets
// the starting exchange rate; the caller receives liquidity tokens equal to
// the currency amount supplied.
func (e *Exchange) CreatePool(caller crypto.Address, assetID, liquidityAssetID ledger.AssetID, currencyAmount, assetAmount *big.Int) error {
	return e.run(func(c *callState) error {
		if err := requirePositive(currencyAmount, ErrCurrencyAmountZero); err != nil {
			return err
		}
		liqExists, err := c.assets.Exists(liquidityAssetID)
		if err != nil {
			return err
		}
		if liqExists {
			return ErrAssetAlreadyExists
		}
		assetExists, err := c.assets.Exists(assetID)
		if err != nil {
			return err
		}
		if !assetExists {
			return ErrAssetNotFound
		}
		if _, ok, err := c.pools.Get(assetID); err != nil {
			return err
		} else if ok {
			return ErrPoolAlreadyExists
		}
		if err := requirePositive(assetAmount, ErrAssetAmountZero); err != nil {
			return err
		}
		if err := c.assets.Create(liquidityAssetID, c.system, false, big.NewInt(1)); err != nil {
			return err
		}
		pool := &Pool{
			AssetID:          assetID,
			CurrencyReserve:  big.NewInt(0),
			AssetReserve:     big.NewInt(0),
			LiquidityAssetID: liquidityAssetID,
		}
		if err := addLiquidity(c, caller, pool, currencyAmount, assetAmount); err != nil {
			return err
		}
		c.emit(events.PoolCreated{
			AssetID:          uint32(assetID),
			LiquidityAssetID: uint32(liquidityAssetID),
		})
		return nil
	})
}

// AddLiquidity deposits currency plus the matching amount of the pool's
// asset at the current reserve ratio and mints liquidity tokens in return.
func (e *Exchange) AddLiquidity(caller crypto.Address, assetID ledger.AssetID, currencyAmount *big.Int) error {
	return e.run(func(c *callState) error {
		if err := requirePositive(currencyAmount, ErrCurrencyAmountZero); err != nil {
			return err
		}
		pool, ok, err := c.pools.Get(assetID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrPoolNotFound
		}
		return addLiquidity(c, caller, pool, currencyAmount, nil)
	})
}

// addLiquidity applies a deposit to the pool and persists the updated
// reserves. On the first deposit the caller fixes the exchange rate and
// initialAssetAmount is taken verbatim; afterwards the asset amount follows
// the reserve ratio, rounded up by one in the pool's favour, and the minted
// liquidity is proportional to the currency share contributed.
func addLiquidity(c *callState, caller crypto.Address, pool *Pool, currencyAmount, initialAssetAmount *big.Int) error {
	balance, err := c.currency.TotalBalance(caller)
	if err != nil {
		return err
	}
	if balance.Cmp(currencyAmount) < 0 {
		return ErrInsufficientCurrencyBalance
	}
	issuance, err := c.assets.TotalIssuance(pool.LiquidityAssetID)
	if err != nil {
		return mapAssetErr(err)
	}

	var assetAmount, minted *big.Int
	if issuance.Sign() == 0 {
		if initialAssetAmount == nil {
			return ErrOperationOverflow
		}
		assetAmount = new(big.Int).Set(initialAssetAmount)
		minted = new(big.Int).Set(currencyAmount)
	} else {
		scaled, err := checkedMul(currencyAmount, pool.AssetReserve)
		if err != nil {
			return err
		}
		ratio, err := checkedDiv(scaled, pool.CurrencyReserve)
		if err != nil {
			return err
		}
		if assetAmount, err = checkedAdd(ratio, big.NewInt(1)); err != nil {
			return err
		}
		share, err := checkedMul(currencyAmount, issuance)
		if err != nil {
			return err
		}
		if minted, err = checkedDiv(share, pool.CurrencyReserve); err != nil {
			return err
		}
	}

	if err := c.currency.Transfer(caller, c.system, currencyAmount, true); err != nil {
		return mapCurrencyErr(err)
	}
	if err := c.assets.Transfer(pool.AssetID, caller, c.system, assetAmount, true); err != nil {
		return mapAssetErr(err)
	}
	if err := c.assets.MintInto(pool.LiquidityAssetID, caller, minted); err != nil {
		return mapAssetErr(err)
	}

	if pool.CurrencyReserve, err = checkedAdd(pool.CurrencyReserve, currencyAmount); err != nil {
		return err
	}
	if pool.AssetReserve, err = checkedAdd(pool.AssetReserve, assetAmount); err != nil {
		return err
	}
	if err := c.pools.Insert(pool); err != nil {
		return err
	}
	c.emit(events.LiquidityAdded{
		Provider:        caller,
		AssetID:         uint32(pool.AssetID),
		CurrencyAmount:  new(big.Int).Set(currencyAmount),
		AssetAmount:     assetAmount,
		LiquidityMinted: minted,
	})
	return nil
}

// RemoveLiquidity burns the caller's liquidity tokens and pays out the
// proportional share of both reserves, rounded down.
func (e *Exchange) RemoveLiquidity(caller crypto.Address, assetID ledger.AssetID, liquidityAmount *big.Int) error {
	return e.run(func(c *callState) error {
		if err := requirePositive(liquidityAmount, ErrLiqAmountZero); err != nil {
			return err
		}
		pool, ok, err := c.pools.Get(assetID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrPoolNotFound
		}
		held, err := c.assets.BalanceOf(pool.LiquidityAssetID, caller)
		if err != nil {
			return mapAssetErr(err)
		}
		if held.Cmp(liquidityAmount) < 0 {
			return ErrInsufficientAssetBalance
		}
		issuance, err := c.assets.TotalIssuance(pool.LiquidityAssetID)
		if err != nil {
			return mapAssetErr(err)
		}

		scaledCurrency, err := checkedMul(liquidityAmount, pool.CurrencyReserve)
		if err != nil {
			return err
		}
		currencyOut, err := checkedDiv(scaledCurrency, issuance)
		if err != nil {
			return err
		}
		scaledAsset, err := checkedMul(liquidityAmount, pool.AssetReserve)
		if err != nil {
			return err
		}
		assetOut, err := checkedDiv(scaledAsset, issuance)
		if err != nil {
			return err
		}

		if err := c.assets.BurnFrom(pool.LiquidityAssetID, caller, liquidityAmount); err != nil {
			return mapAssetErr(err)
		}
		if err := c.currency.Transfer(c.system, caller, currencyOut, false); err != nil {
			return mapCurrencyErr(err)
		}
		if err := c.assets.Transfer(pool.AssetID, c.system, caller, assetOut, false); err != nil {
			return mapAssetErr(err)
		}

		if pool.CurrencyReserve, err = checkedSub(pool.CurrencyReserve, currencyOut); err != nil {
			return err
		}
		if pool.AssetReserve, err = checkedSub(pool.AssetReserve, assetOut); err != nil {
			return err
		}
		if err := c.pools.Insert(pool); err != nil {
			return err
		}
		c.emit(events.LiquidityRemoved{
			Provider:        caller,
			AssetID:         uint32(pool.AssetID),
			CurrencyAmount:  currencyOut,
			AssetAmount:     assetOut,
			LiquidityAmount: new(big.Int).Set(liquidityAmount),
		})
		return nil
	})
}
