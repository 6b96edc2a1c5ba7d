package crypto

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcutil/bech32"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// AddressPrefix is the human-readable part of a bech32 account address.
type AddressPrefix string

// PDXPrefix is the prefix carried by every pooldex account.
const PDXPrefix AddressPrefix = "pdx"

const addressLength = 20

// Address identifies an account: a 20-byte payload with a bech32 prefix. The
// exchange treats it as an opaque authenticated principal; it never learns
// how the caller proved ownership.
type Address struct {
	prefix AddressPrefix
	bytes  []byte
}

func NewAddress(prefix AddressPrefix, b []byte) Address {
	if len(b) != addressLength {
		panic("crypto: address must be 20 bytes long")
	}
	return Address{prefix: prefix, bytes: append([]byte(nil), b...)}
}

func (a Address) String() string {
	conv, err := bech32.ConvertBits(a.bytes, 8, 5, true)
	if err != nil {
		panic(err)
	}
	encoded, err := bech32.Encode(string(a.prefix), conv)
	if err != nil {
		panic(err)
	}
	return encoded
}

func (a Address) Bytes() []byte {
	return a.bytes
}

// Prefix returns the human-readable prefix associated with the address.
func (a Address) Prefix() AddressPrefix {
	return a.prefix
}

// Equal reports whether two addresses carry the same prefix and payload.
func (a Address) Equal(b Address) bool {
	return a.prefix == b.prefix && bytes.Equal(a.bytes, b.bytes)
}

// IsZero reports whether the address is uninitialised.
func (a Address) IsZero() bool {
	return len(a.bytes) == 0
}

func DecodeAddress(addrStr string) (Address, error) {
	prefix, decoded, err := bech32.Decode(addrStr)
	if err != nil {
		return Address{}, fmt.Errorf("invalid bech32 string: %w", err)
	}
	conv, err := bech32.ConvertBits(decoded, 5, 8, false)
	if err != nil {
		return Address{}, fmt.Errorf("error converting bits: %w", err)
	}
	if len(conv) != addressLength {
		return Address{}, fmt.Errorf("address payload must be %d bytes (got %d)", addressLength, len(conv))
	}
	return NewAddress(AddressPrefix(prefix), conv), nil
}

const moduleSeedPrefix = "pooldex/module/"

// ModuleAddress derives the fixed custody account for a named module. The
// seed is hashed with keccak-256 and the last 20 bytes become the address
// payload, so the account has no known private key.
func ModuleAddress(name string) Address {
	hash := ethcrypto.Keccak256([]byte(moduleSeedPrefix + name))
	return NewAddress(PDXPrefix, hash[len(hash)-addressLength:])
}
