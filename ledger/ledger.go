// Package ledger implements the two balance collaborators the exchange core
// depends on: a native currency ledger and a multi-asset ledger. Both persist
// through a storage.Database, so running them over a storage.Overlay gives
// callers call-scoped transactionality for free.
package ledger

import (
	"encoding/binary"
	"errors"
	"math/big"

	"pooldex/crypto"
	"pooldex/storage"
)

// AssetID identifies one tracked asset class within the multi-asset ledger.
type AssetID uint32

var (
	ErrInvalidAmount       = errors.New("ledger: amount must be non-negative")
	ErrInsufficientBalance = errors.New("ledger: insufficient balance")
	ErrWouldKillAccount    = errors.New("ledger: transfer would drop source below the existential deposit")
	ErrAssetNotFound       = errors.New("ledger: asset not found")
	ErrAssetExists         = errors.New("ledger: asset already exists")
)

var (
	currencyBalancePrefix = []byte("ledger/currency/")
	assetMetaPrefix       = []byte("ledger/assets/meta/")
	assetBalancePrefix    = []byte("ledger/assets/balance/")
)

func currencyKey(addr crypto.Address) []byte {
	return append(append([]byte(nil), currencyBalancePrefix...), addr.Bytes()...)
}

func assetMetaKey(id AssetID) []byte {
	key := append([]byte(nil), assetMetaPrefix...)
	var idBytes [4]byte
	binary.BigEndian.PutUint32(idBytes[:], uint32(id))
	return append(key, idBytes[:]...)
}

func assetBalanceKey(id AssetID, addr crypto.Address) []byte {
	key := append([]byte(nil), assetBalancePrefix...)
	var idBytes [4]byte
	binary.BigEndian.PutUint32(idBytes[:], uint32(id))
	key = append(key, idBytes[:]...)
	key = append(key, '/')
	return append(key, addr.Bytes()...)
}

func checkAmount(amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func loadBalance(db storage.Database, key []byte) (*big.Int, error) {
	raw, err := db.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return big.NewInt(0), nil
	}
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(raw), nil
}

func storeBalance(db storage.Database, key []byte, balance *big.Int) error {
	return db.Put(key, balance.Bytes())
}
