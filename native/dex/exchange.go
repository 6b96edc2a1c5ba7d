package dex

import (
	"errors"
	"math/big"
	"sync"

	"pooldex/crypto"
	"pooldex/events"
	"pooldex/ledger"
	"pooldex/storage"
)

// CurrencyBook is the view of the native currency ledger the exchange needs.
type CurrencyBook interface {
	TotalBalance(addr crypto.Address) (*big.Int, error)
	Deposit(addr crypto.Address, amount *big.Int) error
	Transfer(from, to crypto.Address, amount *big.Int, keepAlive bool) error
}

// AssetBook is the view of the asset ledger the exchange needs. Liquidity
// tokens are ordinary asset classes created and owned by the exchange.
type AssetBook interface {
	Create(id ledger.AssetID, owner crypto.Address, sufficient bool, minBalance *big.Int) error
	Exists(id ledger.AssetID) (bool, error)
	TotalIssuance(id ledger.AssetID) (*big.Int, error)
	BalanceOf(id ledger.AssetID, addr crypto.Address) (*big.Int, error)
	MintInto(id ledger.AssetID, to crypto.Address, amount *big.Int) error
	BurnFrom(id ledger.AssetID, from crypto.Address, amount *big.Int) error
	Transfer(id ledger.AssetID, from, to crypto.Address, amount *big.Int, keepAlive bool) error
}

// BookFactory builds the ledgers an operation works against. The factory is
// invoked per call with the call's staging database so that ledger writes
// commit or discard together with pool records.
type BookFactory func(db storage.Database) (CurrencyBook, AssetBook)

// Exchange is the constant-product market maker. Reserves live under a
// module custody account; every public operation applies all of its ledger
// and pool writes atomically and emits events only after they are durable.
type Exchange struct {
	mu                 sync.Mutex
	db                 storage.Database
	fee                FeeConfig
	system             crypto.Address
	emitter            events.Emitter
	books              BookFactory
	existentialDeposit *big.Int
}

func NewExchange(db storage.Database) *Exchange {
	e := &Exchange{
		db:                 db,
		fee:                DefaultFeeConfig(),
		system:             crypto.ModuleAddress("dex"),
		emitter:            events.NoopEmitter{},
		existentialDeposit: big.NewInt(0),
	}
	e.books = func(db storage.Database) (CurrencyBook, AssetBook) {
		return ledger.NewCurrencyLedger(db, e.existentialDeposit), ledger.NewAssetLedger(db)
	}
	return e
}

// SystemAddress returns the custody account holding all pool reserves.
func (e *Exchange) SystemAddress() crypto.Address {
	return e.system
}

// SetFee replaces the swap fee applied to future trades.
func (e *Exchange) SetFee(fee FeeConfig) error {
	if err := fee.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fee = fee
	return nil
}

// SetEmitter wires the sink that receives exchange events. Passing nil
// restores the no-op emitter.
func (e *Exchange) SetEmitter(emitter events.Emitter) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}
	e.emitter = emitter
}

// SetExistentialDeposit configures the minimum balance the default currency
// ledger keeps alive on fee-paying accounts.
func (e *Exchange) SetExistentialDeposit(amount *big.Int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if amount == nil || amount.Sign() < 0 {
		amount = big.NewInt(0)
	}
	e.existentialDeposit = new(big.Int).Set(amount)
}

// SetBookFactory overrides how per-call ledgers are constructed. Passing nil
// restores the default ledgers.
func (e *Exchange) SetBookFactory(factory BookFactory) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if factory == nil {
		factory = func(db storage.Database) (CurrencyBook, AssetBook) {
			return ledger.NewCurrencyLedger(db, e.existentialDeposit), ledger.NewAssetLedger(db)
		}
	}
	e.books = factory
}

// callState carries the staged view a single operation mutates. Nothing it
// touches reaches the base database until run commits the overlay.
type callState struct {
	currency CurrencyBook
	assets   AssetBook
	pools    *Registry
	fee      FeeConfig
	system   crypto.Address
	pending  []events.Event
}

func (c *callState) emit(ev events.Event) {
	c.pending = append(c.pending, ev)
}

// run executes fn against a fresh overlay and commits the staged writes as a
// single batch when fn succeeds. Buffered events are delivered only after the
// commit, so observers never see an event for a state that was rolled back.
func (e *Exchange) run(fn func(*callState) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	overlay := storage.NewOverlay(e.db)
	currency, assets := e.books(overlay)
	state := &callState{
		currency: currency,
		assets:   assets,
		pools:    NewRegistry(overlay),
		fee:      e.fee,
		system:   e.system,
	}
	if err := fn(state); err != nil {
		return err
	}
	if err := overlay.Commit(); err != nil {
		return err
	}
	for _, ev := range state.pending {
		e.emitter.Emit(ev)
	}
	return nil
}

// CreateAsset registers a tradeable asset class. It is the bootstrap path for
// assets that would otherwise be issued by a separate module.
func (e *Exchange) CreateAsset(owner crypto.Address, id ledger.AssetID) error {
	return e.run(func(c *callState) error {
		if err := c.assets.Create(id, owner, false, big.NewInt(1)); err != nil {
			if errors.Is(err, ledger.ErrAssetExists) {
				return ErrAssetAlreadyExists
			}
			return err
		}
		return nil
	})
}

// MintAsset issues units of an existing asset class to an account.
func (e *Exchange) MintAsset(id ledger.AssetID, to crypto.Address, amount *big.Int) error {
	return e.run(func(c *callState) error {
		if err := requirePositive(amount, ErrAssetAmountZero); err != nil {
			return err
		}
		if err := c.assets.MintInto(id, to, amount); err != nil {
			if errors.Is(err, ledger.ErrAssetNotFound) {
				return ErrAssetNotFound
			}
			return err
		}
		return nil
	})
}

// DepositCurrency credits native currency to an account.
func (e *Exchange) DepositCurrency(to crypto.Address, amount *big.Int) error {
	return e.run(func(c *callState) error {
		if err := requirePositive(amount, ErrCurrencyAmountZero); err != nil {
			return err
		}
		return c.currency.Deposit(to, amount)
	})
}

// Pool returns a copy of the pool trading the given asset.
func (e *Exchange) Pool(id ledger.AssetID) (*Pool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	pool, ok, err := NewRegistry(e.db).Get(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPoolNotFound
	}
	return pool, nil
}

// CurrencyBalance reports an account's native currency balance.
func (e *Exchange) CurrencyBalance(addr crypto.Address) (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	currency, _ := e.books(e.db)
	return currency.TotalBalance(addr)
}

// AssetBalance reports an account's balance of the given asset class.
func (e *Exchange) AssetBalance(id ledger.AssetID, addr crypto.Address) (*big.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, assets := e.books(e.db)
	balance, err := assets.BalanceOf(id, addr)
	if err != nil {
		if errors.Is(err, ledger.ErrAssetNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, err
	}
	return balance, nil
}
