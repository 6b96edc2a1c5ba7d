package dex

import "errors"

// Every failure an exchange operation can surface. A failing call aborts in
// full: no reserve update, transfer, mint, or burn performed inside it
// survives.
var (
	ErrAssetNotFound      = errors.New("dex: asset not found")
	ErrAssetAlreadyExists = errors.New("dex: asset already exists")
	ErrPoolNotFound       = errors.New("dex: pool not found")
	ErrPoolAlreadyExists  = errors.New("dex: pool already exists")

	ErrAssetAmountZero    = errors.New("dex: asset amount must be positive")
	ErrCurrencyAmountZero = errors.New("dex: currency amount must be positive")
	ErrLiqAmountZero      = errors.New("dex: liquidity amount must be positive")

	ErrInsufficientAssetBalance    = errors.New("dex: insufficient asset balance")
	ErrInsufficientCurrencyBalance = errors.New("dex: insufficient currency balance")

	// ErrOperationOverflow covers every checked arithmetic failure:
	// exceeding the 128-bit amount bound, driving a reserve negative, and
	// dividing by a zero reserve or zero issuance.
	ErrOperationOverflow = errors.New("dex: arithmetic operation overflow")
)
