package dex

import "math/big"

// Amounts are unsigned 128-bit quantities, matching the balance width of the
// host ledgers. All reserve arithmetic goes through these helpers so that an
// out-of-range result aborts the call instead of silently truncating.
var maxAmount = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

func inRange(v *big.Int) bool {
	return v != nil && v.Sign() >= 0 && v.Cmp(maxAmount) <= 0
}

func checkedAdd(a, b *big.Int) (*big.Int, error) {
	if !inRange(a) || !inRange(b) {
		return nil, ErrOperationOverflow
	}
	sum := new(big.Int).Add(a, b)
	if sum.Cmp(maxAmount) > 0 {
		return nil, ErrOperationOverflow
	}
	return sum, nil
}

func checkedSub(a, b *big.Int) (*big.Int, error) {
	if !inRange(a) || !inRange(b) {
		return nil, ErrOperationOverflow
	}
	if a.Cmp(b) < 0 {
		return nil, ErrOperationOverflow
	}
	return new(big.Int).Sub(a, b), nil
}

func checkedMul(a, b *big.Int) (*big.Int, error) {
	if !inRange(a) || !inRange(b) {
		return nil, ErrOperationOverflow
	}
	product := new(big.Int).Mul(a, b)
	if product.Cmp(maxAmount) > 0 {
		return nil, ErrOperationOverflow
	}
	return product, nil
}

func checkedDiv(a, b *big.Int) (*big.Int, error) {
	if !inRange(a) || !inRange(b) {
		return nil, ErrOperationOverflow
	}
	if b.Sign() == 0 {
		return nil, ErrOperationOverflow
	}
	return new(big.Int).Quo(a, b), nil
}

// requirePositive enforces the zero-amount guard shared by every operation;
// zeroErr names which input was at fault. Amounts beyond the 128-bit bound
// fail as overflow before they can reach reserve arithmetic.
func requirePositive(amount *big.Int, zeroErr error) error {
	if amount == nil || amount.Sign() <= 0 {
		return zeroErr
	}
	if amount.Cmp(maxAmount) > 0 {
		return ErrOperationOverflow
	}
	return nil
}
