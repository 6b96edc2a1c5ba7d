package ledger

import (
	"math/big"

	"pooldex/crypto"
	"pooldex/storage"
)

// CurrencyLedger tracks native currency balances. The existential deposit is
// the minimum a source account must retain when a transfer asks for the
// keep-alive policy; zero disables the check.
type CurrencyLedger struct {
	db                 storage.Database
	existentialDeposit *big.Int
}

func NewCurrencyLedger(db storage.Database, existentialDeposit *big.Int) *CurrencyLedger {
	ed := big.NewInt(0)
	if existentialDeposit != nil && existentialDeposit.Sign() > 0 {
		ed = new(big.Int).Set(existentialDeposit)
	}
	return &CurrencyLedger{db: db, existentialDeposit: ed}
}

// TotalBalance returns the currency balance of an account, zero when the
// account has never been funded.
func (l *CurrencyLedger) TotalBalance(addr crypto.Address) (*big.Int, error) {
	return loadBalance(l.db, currencyKey(addr))
}

// Deposit credits freshly issued currency to an account. It is the
// bootstrap/faucet path; ordinary movement goes through Transfer.
func (l *CurrencyLedger) Deposit(addr crypto.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	if amount.Sign() == 0 {
		return nil
	}
	balance, err := l.TotalBalance(addr)
	if err != nil {
		return err
	}
	return storeBalance(l.db, currencyKey(addr), balance.Add(balance, amount))
}

// Transfer moves currency between two accounts. With keepAlive set the
// source must retain at least the existential deposit. A transfer to self
// passes the same checks but moves nothing.
func (l *CurrencyLedger) Transfer(from, to crypto.Address, amount *big.Int, keepAlive bool) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	if amount.Sign() == 0 {
		return nil
	}
	fromBalance, err := l.TotalBalance(from)
	if err != nil {
		return err
	}
	if fromBalance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	remaining := new(big.Int).Sub(fromBalance, amount)
	if keepAlive && remaining.Cmp(l.existentialDeposit) < 0 {
		return ErrWouldKillAccount
	}
	if from.Equal(to) {
		return nil
	}
	toBalance, err := l.TotalBalance(to)
	if err != nil {
		return err
	}
	if err := storeBalance(l.db, currencyKey(from), remaining); err != nil {
		return err
	}
	return storeBalance(l.db, currencyKey(to), toBalance.Add(toBalance, amount))
}
