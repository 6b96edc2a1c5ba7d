package dex

import (
	"math/big"

	"pooldex/ledger"
)

// Pool is the paired-reserve record for one tracked asset's market against
// the native currency. Reserves mirror what the system account custodies on
// the pool's behalf and are never negative.
type Pool struct {
	AssetID          ledger.AssetID
	CurrencyReserve  *big.Int
	AssetReserve     *big.Int
	LiquidityAssetID ledger.AssetID
}

// OraclePrice is the normalized reserve ratio of a pool: both reserves
// divided by their common minimum.
type OraclePrice struct {
	AssetID        ledger.AssetID
	AssetAmount    *big.Int
	CurrencyAmount *big.Int
}

// FeeConfig is the retained swap fee expressed as Numerator/Denominator of
// the input amount, e.g. 3/1000 for a 0.3% fee.
type FeeConfig struct {
	Numerator   uint64
	Denominator uint64
}

// DefaultFeeConfig returns the 0.3% production fee.
func DefaultFeeConfig() FeeConfig {
	return FeeConfig{Numerator: 3, Denominator: 1000}
}

// Validate rejects configurations that would break the pricing formula.
func (f FeeConfig) Validate() error {
	if f.Denominator == 0 || f.Numerator >= f.Denominator {
		return ErrOperationOverflow
	}
	return nil
}
