package dex

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"

	"pooldex/ledger"
	"pooldex/storage"
)

const poolKeyPrefix = "dex/pool/"

// Registry persists pool records keyed by the traded asset identifier.
// Callers are responsible for existence checks and reserve validation;
// Insert is a plain upsert.
type Registry struct {
	db storage.Database
}

func NewRegistry(db storage.Database) *Registry {
	return &Registry{db: db}
}

type storedPool struct {
	AssetID          uint32
	CurrencyReserve  *big.Int
	AssetReserve     *big.Int
	LiquidityAssetID uint32
}

func poolKey(id ledger.AssetID) []byte {
	key := make([]byte, len(poolKeyPrefix)+4)
	copy(key, poolKeyPrefix)
	binary.BigEndian.PutUint32(key[len(poolKeyPrefix):], uint32(id))
	return key
}

// Get loads the pool for the given asset. The boolean reports whether a
// record exists; a false return with a nil error is not a failure.
func (r *Registry) Get(id ledger.AssetID) (*Pool, bool, error) {
	raw, err := r.db.Get(poolKey(id))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("dex: load pool %d: %w", id, err)
	}
	var rec storedPool
	if err := rlp.DecodeBytes(raw, &rec); err != nil {
		return nil, false, fmt.Errorf("dex: decode pool %d: %w", id, err)
	}
	pool := &Pool{
		AssetID:          ledger.AssetID(rec.AssetID),
		CurrencyReserve:  rec.CurrencyReserve,
		AssetReserve:     rec.AssetReserve,
		LiquidityAssetID: ledger.AssetID(rec.LiquidityAssetID),
	}
	if pool.CurrencyReserve == nil {
		pool.CurrencyReserve = big.NewInt(0)
	}
	if pool.AssetReserve == nil {
		pool.AssetReserve = big.NewInt(0)
	}
	return pool, true, nil
}

// Insert writes the pool record, replacing any previous version.
func (r *Registry) Insert(pool *Pool) error {
	if pool == nil {
		return fmt.Errorf("dex: insert nil pool")
	}
	rec := storedPool{
		AssetID:          uint32(pool.AssetID),
		CurrencyReserve:  pool.CurrencyReserve,
		AssetReserve:     pool.AssetReserve,
		LiquidityAssetID: uint32(pool.LiquidityAssetID),
	}
	if rec.CurrencyReserve == nil {
		rec.CurrencyReserve = big.NewInt(0)
	}
	if rec.AssetReserve == nil {
		rec.AssetReserve = big.NewInt(0)
	}
	raw, err := rlp.EncodeToBytes(&rec)
	if err != nil {
		return fmt.Errorf("dex: encode pool %d: %w", pool.AssetID, err)
	}
	return r.db.Put(poolKey(pool.AssetID), raw)
}
