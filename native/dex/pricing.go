package dex

import "math/big"

// ComputeOutput prices a swap with the fee-adjusted constant-product rule.
// The fee share of the input stays in the reserves, so for any nonzero fee
// the post-swap reserve product is never smaller than the pre-swap product.
//
//	output = (rate·input·outputReserve) / (denom·inputReserve + rate·input)
//	rate   = denom − numerator
//
// A 3/1000 fee therefore yields the familiar 997/1000 pricing. Division
// floors, biasing rounding in the pool's favour. An empty pool (zero
// denominator) and any intermediate value beyond the amount bound fail with
// ErrOperationOverflow.
func ComputeOutput(inputAmount, inputReserve, outputReserve *big.Int, fee FeeConfig) (*big.Int, error) {
	if err := fee.Validate(); err != nil {
		return nil, err
	}
	effectiveRate := new(big.Int).SetUint64(fee.Denominator - fee.Numerator)

	scaledInput, err := checkedMul(effectiveRate, inputAmount)
	if err != nil {
		return nil, err
	}
	numerator, err := checkedMul(scaledInput, outputReserve)
	if err != nil {
		return nil, err
	}
	scaledReserve, err := checkedMul(new(big.Int).SetUint64(fee.Denominator), inputReserve)
	if err != nil {
		return nil, err
	}
	denominator, err := checkedAdd(scaledReserve, scaledInput)
	if err != nil {
		return nil, err
	}
	return checkedDiv(numerator, denominator)
}
