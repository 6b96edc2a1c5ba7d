package events

import (
	"math/big"
	"strconv"

	"pooldex/crypto"
)

// Event types emitted by the exchange core.
const (
	TypePoolCreated      = "dex.poolCreated"
	TypeLiquidityAdded   = "dex.liquidityAdded"
	TypeLiquidityRemoved = "dex.liquidityRemoved"
	TypeCurrencyToAsset  = "dex.currencyToAsset"
	TypeAssetToCurrency  = "dex.assetToCurrency"
	TypeAssetToAsset     = "dex.assetToAsset"
)

func amountString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func assetString(id uint32) string {
	return strconv.FormatUint(uint64(id), 10)
}

// PoolCreated marks the registration of a new market for a tracked asset.
type PoolCreated struct {
	AssetID          uint32
	LiquidityAssetID uint32
}

func (PoolCreated) EventType() string { return TypePoolCreated }

func (e PoolCreated) Attributes() map[string]string {
	return map[string]string{
		"assetId":          assetString(e.AssetID),
		"liquidityAssetId": assetString(e.LiquidityAssetID),
	}
}

// LiquidityAdded records a paired deposit into a pool.
type LiquidityAdded struct {
	Provider        crypto.Address
	AssetID         uint32
	CurrencyAmount  *big.Int
	AssetAmount     *big.Int
	LiquidityMinted *big.Int
}

func (LiquidityAdded) EventType() string { return TypeLiquidityAdded }

func (e LiquidityAdded) Attributes() map[string]string {
	return map[string]string{
		"provider":        e.Provider.String(),
		"assetId":         assetString(e.AssetID),
		"currencyAmount":  amountString(e.CurrencyAmount),
		"assetAmount":     amountString(e.AssetAmount),
		"liquidityMinted": amountString(e.LiquidityMinted),
	}
}

// LiquidityRemoved records a withdrawal of paired reserves from a pool.
type LiquidityRemoved struct {
	Provider        crypto.Address
	AssetID         uint32
	CurrencyAmount  *big.Int
	AssetAmount     *big.Int
	LiquidityAmount *big.Int
}

func (LiquidityRemoved) EventType() string { return TypeLiquidityRemoved }

func (e LiquidityRemoved) Attributes() map[string]string {
	return map[string]string{
		"provider":        e.Provider.String(),
		"assetId":         assetString(e.AssetID),
		"currencyAmount":  amountString(e.CurrencyAmount),
		"assetAmount":     amountString(e.AssetAmount),
		"liquidityAmount": amountString(e.LiquidityAmount),
	}
}

// CurrencyToAsset records a swap of currency into a tracked asset.
type CurrencyToAsset struct {
	Sender         crypto.Address
	AssetID        uint32
	CurrencyAmount *big.Int
	AssetAmount    *big.Int
}

func (CurrencyToAsset) EventType() string { return TypeCurrencyToAsset }

func (e CurrencyToAsset) Attributes() map[string]string {
	return map[string]string{
		"sender":         e.Sender.String(),
		"assetId":        assetString(e.AssetID),
		"currencyAmount": amountString(e.CurrencyAmount),
		"assetAmount":    amountString(e.AssetAmount),
	}
}

// AssetToCurrency records a swap of a tracked asset back into currency.
type AssetToCurrency struct {
	Sender         crypto.Address
	AssetID        uint32
	AssetAmount    *big.Int
	CurrencyAmount *big.Int
}

func (AssetToCurrency) EventType() string { return TypeAssetToCurrency }

func (e AssetToCurrency) Attributes() map[string]string {
	return map[string]string{
		"sender":         e.Sender.String(),
		"assetId":        assetString(e.AssetID),
		"assetAmount":    amountString(e.AssetAmount),
		"currencyAmount": amountString(e.CurrencyAmount),
	}
}

// AssetToAsset records a two-hop swap routed through the currency side of
// both pools.
type AssetToAsset struct {
	Sender              crypto.Address
	AssetIDFrom         uint32
	AssetIDTo           uint32
	AssetAmount         *big.Int
	AssetAmountReceived *big.Int
}

func (AssetToAsset) EventType() string { return TypeAssetToAsset }

func (e AssetToAsset) Attributes() map[string]string {
	return map[string]string{
		"sender":              e.Sender.String(),
		"assetIdFrom":         assetString(e.AssetIDFrom),
		"assetIdTo":           assetString(e.AssetIDTo),
		"assetAmount":         amountString(e.AssetAmount),
		"assetAmountReceived": amountString(e.AssetAmountReceived),
	}
}
