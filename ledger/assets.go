package ledger

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"pooldex/crypto"
	"pooldex/storage"
)

// assetMeta is the durable record kept per asset class.
type assetMeta struct {
	Owner         []byte
	Sufficient    bool
	MinBalance    *big.Int
	TotalIssuance *big.Int
}

// AssetLedger tracks balances and issuance for an open set of asset classes.
// Every class must be created before it can be minted or moved.
type AssetLedger struct {
	db storage.Database
}

func NewAssetLedger(db storage.Database) *AssetLedger {
	return &AssetLedger{db: db}
}

func (l *AssetLedger) loadMeta(id AssetID) (*assetMeta, error) {
	raw, err := l.db.Get(assetMetaKey(id))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrAssetNotFound
	}
	if err != nil {
		return nil, err
	}
	meta := new(assetMeta)
	if err := rlp.DecodeBytes(raw, meta); err != nil {
		return nil, fmt.Errorf("ledger: decode asset %d meta: %w", id, err)
	}
	return meta, nil
}

func (l *AssetLedger) storeMeta(id AssetID, meta *assetMeta) error {
	raw, err := rlp.EncodeToBytes(meta)
	if err != nil {
		return fmt.Errorf("ledger: encode asset %d meta: %w", id, err)
	}
	return l.db.Put(assetMetaKey(id), raw)
}

// Create registers a new asset class owned by the given account.
func (l *AssetLedger) Create(id AssetID, owner crypto.Address, sufficient bool, minBalance *big.Int) error {
	exists, err := l.Exists(id)
	if err != nil {
		return err
	}
	if exists {
		return ErrAssetExists
	}
	if minBalance == nil || minBalance.Sign() < 0 {
		return ErrInvalidAmount
	}
	return l.storeMeta(id, &assetMeta{
		Owner:         owner.Bytes(),
		Sufficient:    sufficient,
		MinBalance:    new(big.Int).Set(minBalance),
		TotalIssuance: big.NewInt(0),
	})
}

// Exists reports whether the asset class has been created.
func (l *AssetLedger) Exists(id AssetID) (bool, error) {
	return l.db.Has(assetMetaKey(id))
}

// TotalIssuance returns the outstanding supply of an asset class.
func (l *AssetLedger) TotalIssuance(id AssetID) (*big.Int, error) {
	meta, err := l.loadMeta(id)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Set(meta.TotalIssuance), nil
}

// BalanceOf returns an account's balance of the asset, zero when the account
// holds none. The asset class itself must exist.
func (l *AssetLedger) BalanceOf(id AssetID, addr crypto.Address) (*big.Int, error) {
	if _, err := l.loadMeta(id); err != nil {
		return nil, err
	}
	return loadBalance(l.db, assetBalanceKey(id, addr))
}

// MintInto issues new units of the asset to an account.
func (l *AssetLedger) MintInto(id AssetID, to crypto.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	meta, err := l.loadMeta(id)
	if err != nil {
		return err
	}
	if amount.Sign() == 0 {
		return nil
	}
	balance, err := loadBalance(l.db, assetBalanceKey(id, to))
	if err != nil {
		return err
	}
	if err := storeBalance(l.db, assetBalanceKey(id, to), balance.Add(balance, amount)); err != nil {
		return err
	}
	meta.TotalIssuance = meta.TotalIssuance.Add(meta.TotalIssuance, amount)
	return l.storeMeta(id, meta)
}

// BurnFrom destroys units of the asset held by an account.
func (l *AssetLedger) BurnFrom(id AssetID, from crypto.Address, amount *big.Int) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	meta, err := l.loadMeta(id)
	if err != nil {
		return err
	}
	if amount.Sign() == 0 {
		return nil
	}
	balance, err := loadBalance(l.db, assetBalanceKey(id, from))
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	if err := storeBalance(l.db, assetBalanceKey(id, from), balance.Sub(balance, amount)); err != nil {
		return err
	}
	meta.TotalIssuance = meta.TotalIssuance.Sub(meta.TotalIssuance, amount)
	return l.storeMeta(id, meta)
}

// Transfer moves units of the asset between two accounts. With keepAlive set
// the source must end up empty or above the asset's minimum balance; dust
// remainders are rejected. A transfer to self passes the same checks but
// moves nothing.
func (l *AssetLedger) Transfer(id AssetID, from, to crypto.Address, amount *big.Int, keepAlive bool) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	meta, err := l.loadMeta(id)
	if err != nil {
		return err
	}
	if amount.Sign() == 0 {
		return nil
	}
	fromBalance, err := loadBalance(l.db, assetBalanceKey(id, from))
	if err != nil {
		return err
	}
	if fromBalance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	remaining := new(big.Int).Sub(fromBalance, amount)
	if keepAlive && remaining.Sign() > 0 && remaining.Cmp(meta.MinBalance) < 0 {
		return ErrWouldKillAccount
	}
	if from.Equal(to) {
		return nil
	}
	toBalance, err := loadBalance(l.db, assetBalanceKey(id, to))
	if err != nil {
		return err
	}
	if err := storeBalance(l.db, assetBalanceKey(id, from), remaining); err != nil {
		return err
	}
	return storeBalance(l.db, assetBalanceKey(id, to), toBalance.Add(toBalance, amount))
}
