package rpc

import (
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strings"

	"pooldex/crypto"
	"pooldex/ledger"
)

type createAssetParams struct {
	Owner   string `json:"owner"`
	AssetID uint32 `json:"assetId"`
}

type mintAssetParams struct {
	AssetID uint32 `json:"assetId"`
	To      string `json:"to"`
	Amount  string `json:"amount"`
}

type depositCurrencyParams struct {
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type createPoolParams struct {
	Caller           string `json:"caller"`
	AssetID          uint32 `json:"assetId"`
	LiquidityAssetID uint32 `json:"liquidityAssetId"`
	CurrencyAmount   string `json:"currencyAmount"`
	AssetAmount      string `json:"assetAmount"`
}

type liquidityParams struct {
	Caller          string `json:"caller"`
	AssetID         uint32 `json:"assetId"`
	CurrencyAmount  string `json:"currencyAmount,omitempty"`
	LiquidityAmount string `json:"liquidityAmount,omitempty"`
}

type swapParams struct {
	Caller         string `json:"caller"`
	AssetID        uint32 `json:"assetId"`
	CurrencyAmount string `json:"currencyAmount,omitempty"`
	AssetAmount    string `json:"assetAmount,omitempty"`
}

type assetToAssetParams struct {
	Caller      string `json:"caller"`
	AssetIDFrom uint32 `json:"assetIdFrom"`
	AssetIDTo   uint32 `json:"assetIdTo"`
	AssetAmount string `json:"assetAmount"`
}

type poolQueryParams struct {
	AssetID uint32 `json:"assetId"`
}

type balancesParams struct {
	Address  string   `json:"address"`
	AssetIDs []uint32 `json:"assetIds,omitempty"`
}

type ackResult struct {
	Status string `json:"status"`
}

type poolResult struct {
	AssetID          uint32 `json:"assetId"`
	CurrencyReserve  string `json:"currencyReserve"`
	AssetReserve     string `json:"assetReserve"`
	LiquidityAssetID uint32 `json:"liquidityAssetId"`
}

type priceResult struct {
	AssetID        uint32 `json:"assetId"`
	AssetAmount    string `json:"assetAmount"`
	CurrencyAmount string `json:"currencyAmount"`
}

type assetBalanceResult struct {
	AssetID uint32 `json:"assetId"`
	Amount  string `json:"amount"`
}

type balancesResult struct {
	Address  string               `json:"address"`
	Currency string               `json:"currency"`
	Assets   []assetBalanceResult `json:"assets,omitempty"`
}

func decodeSingleParam(req *RPCRequest, out interface{}) error {
	if len(req.Params) != 1 {
		return fmt.Errorf("expected exactly one parameter object")
	}
	return json.Unmarshal(req.Params[0], out)
}

func parseAddress(field, value string) (crypto.Address, error) {
	addr, err := crypto.DecodeAddress(strings.TrimSpace(value))
	if err != nil {
		return crypto.Address{}, fmt.Errorf("invalid %s: %w", field, err)
	}
	return addr, nil
}

func parseAmount(field, value string) (*big.Int, error) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return nil, fmt.Errorf("missing %s", field)
	}
	amount, ok := new(big.Int).SetString(raw, 10)
	if !ok || amount.Sign() < 0 {
		return nil, fmt.Errorf("invalid %s: %q", field, value)
	}
	return amount, nil
}

func (s *Server) paramError(w http.ResponseWriter, req *RPCRequest, err error) {
	errorsTotal.WithLabelValues(req.Method).Inc()
	writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
}

func (s *Server) exchangeError(w http.ResponseWriter, req *RPCRequest, err error) {
	errorsTotal.WithLabelValues(req.Method).Inc()
	writeExchangeError(w, req.ID, err)
}

func (s *Server) handleCreateAsset(w http.ResponseWriter, req *RPCRequest) {
	var params createAssetParams
	if err := decodeSingleParam(req, &params); err != nil {
		s.paramError(w, req, err)
		return
	}
	owner, err := parseAddress("owner", params.Owner)
	if err != nil {
		s.paramError(w, req, err)
		return
	}
	if err := s.exchange.CreateAsset(owner, ledger.AssetID(params.AssetID)); err != nil {
		s.exchangeError(w, req, err)
		return
	}
	writeResult(w, req.ID, ackResult{Status: "ok"})
}

func (s *Server) handleMintAsset(w http.ResponseWriter, req *RPCRequest) {
	var params mintAssetParams
	if err := decodeSingleParam(req, &params); err != nil {
		s.paramError(w, req, err)
		return
	}
	to, err := parseAddress("to", params.To)
	if err != nil {
		s.paramError(w, req, err)
		return
	}
	amount, err := parseAmount("amount", params.Amount)
	if err != nil {
		s.paramError(w, req, err)
		return
	}
	if err := s.exchange.MintAsset(ledger.AssetID(params.AssetID), to, amount); err != nil {
		s.exchangeError(w, req, err)
		return
	}
	writeResult(w, req.ID, ackResult{Status: "ok"})
}

func (s *Server) handleDepositCurrency(w http.ResponseWriter, req *RPCRequest) {
	var params depositCurrencyParams
	if err := decodeSingleParam(req, &params); err != nil {
		s.paramError(w, req, err)
		return
	}
	to, err := parseAddress("to", params.To)
	if err != nil {
		s.paramError(w, req, err)
		return
	}
	amount, err := parseAmount("amount", params.Amount)
	if err != nil {
		s.paramError(w, req, err)
		return
	}
	if err := s.exchange.DepositCurrency(to, amount); err != nil {
		s.exchangeError(w, req, err)
		return
	}
	writeResult(w, req.ID, ackResult{Status: "ok"})
}

func (s *Server) handleCreatePool(w http.ResponseWriter, req *RPCRequest) {
	var params createPoolParams
	if err := decodeSingleParam(req, &params); err != nil {
		s.paramError(w, req, err)
		return
	}
	caller, err := parseAddress("caller", params.Caller)
	if err != nil {
		s.paramError(w, req, err)
		return
	}
	currencyAmount, err := parseAmount("currencyAmount", params.CurrencyAmount)
	if err != nil {
		s.paramError(w, req, err)
		return
	}
	assetAmount, err := parseAmount("assetAmount", params.AssetAmount)
	if err != nil {
		s.paramError(w, req, err)
		return
	}
	if err := s.exchange.CreatePool(caller, ledger.AssetID(params.AssetID), ledger.AssetID(params.LiquidityAssetID), currencyAmount, assetAmount); err != nil {
		s.exchangeError(w, req, err)
		return
	}
	writeResult(w, req.ID, ackResult{Status: "ok"})
}

func (s *Server) handleAddLiquidity(w http.ResponseWriter, req *RPCRequest) {
	var params liquidityParams
	if err := decodeSingleParam(req, &params); err != nil {
		s.paramError(w, req, err)
		return
	}
	caller, err := parseAddress("caller", params.Caller)
	if err != nil {
		s.paramError(w, req, err)
		return
	}
	amount, err := parseAmount("currencyAmount", params.CurrencyAmount)
	if err != nil {
		s.paramError(w, req, err)
		return
	}
	if err := s.exchange.AddLiquidity(caller, ledger.AssetID(params.AssetID), amount); err != nil {
		s.exchangeError(w, req, err)
		return
	}
	writeResult(w, req.ID, ackResult{Status: "ok"})
}

func (s *Server) handleRemoveLiquidity(w http.ResponseWriter, req *RPCRequest) {
	var params liquidityParams
	if err := decodeSingleParam(req, &params); err != nil {
		s.paramError(w, req, err)
		return
	}
	caller, err := parseAddress("caller", params.Caller)
	if err != nil {
		s.paramError(w, req, err)
		return
	}
	amount, err := parseAmount("liquidityAmount", params.LiquidityAmount)
	if err != nil {
		s.paramError(w, req, err)
		return
	}
	if err := s.exchange.RemoveLiquidity(caller, ledger.AssetID(params.AssetID), amount); err != nil {
		s.exchangeError(w, req, err)
		return
	}
	writeResult(w, req.ID, ackResult{Status: "ok"})
}

func (s *Server) handleCurrencyToAsset(w http.ResponseWriter, req *RPCRequest) {
	var params swapParams
	if err := decodeSingleParam(req, &params); err != nil {
		s.paramError(w, req, err)
		return
	}
	caller, err := parseAddress("caller", params.Caller)
	if err != nil {
		s.paramError(w, req, err)
		return
	}
	amount, err := parseAmount("currencyAmount", params.CurrencyAmount)
	if err != nil {
		s.paramError(w, req, err)
		return
	}
	if err := s.exchange.CurrencyToAsset(caller, ledger.AssetID(params.AssetID), amount); err != nil {
		s.exchangeError(w, req, err)
		return
	}
	writeResult(w, req.ID, ackResult{Status: "ok"})
}

func (s *Server) handleAssetToCurrency(w http.ResponseWriter, req *RPCRequest) {
	var params swapParams
	if err := decodeSingleParam(req, &params); err != nil {
		s.paramError(w, req, err)
		return
	}
	caller, err := parseAddress("caller", params.Caller)
	if err != nil {
		s.paramError(w, req, err)
		return
	}
	amount, err := parseAmount("assetAmount", params.AssetAmount)
	if err != nil {
		s.paramError(w, req, err)
		return
	}
	if err := s.exchange.AssetToCurrency(caller, ledger.AssetID(params.AssetID), amount); err != nil {
		s.exchangeError(w, req, err)
		return
	}
	writeResult(w, req.ID, ackResult{Status: "ok"})
}

func (s *Server) handleAssetToAsset(w http.ResponseWriter, req *RPCRequest) {
	var params assetToAssetParams
	if err := decodeSingleParam(req, &params); err != nil {
		s.paramError(w, req, err)
		return
	}
	caller, err := parseAddress("caller", params.Caller)
	if err != nil {
		s.paramError(w, req, err)
		return
	}
	amount, err := parseAmount("assetAmount", params.AssetAmount)
	if err != nil {
		s.paramError(w, req, err)
		return
	}
	if err := s.exchange.AssetToAsset(caller, ledger.AssetID(params.AssetIDFrom), ledger.AssetID(params.AssetIDTo), amount); err != nil {
		s.exchangeError(w, req, err)
		return
	}
	writeResult(w, req.ID, ackResult{Status: "ok"})
}

func (s *Server) handleGetPool(w http.ResponseWriter, req *RPCRequest) {
	var params poolQueryParams
	if err := decodeSingleParam(req, &params); err != nil {
		s.paramError(w, req, err)
		return
	}
	pool, err := s.exchange.Pool(ledger.AssetID(params.AssetID))
	if err != nil {
		s.exchangeError(w, req, err)
		return
	}
	writeResult(w, req.ID, poolResult{
		AssetID:          uint32(pool.AssetID),
		CurrencyReserve:  pool.CurrencyReserve.String(),
		AssetReserve:     pool.AssetReserve.String(),
		LiquidityAssetID: uint32(pool.LiquidityAssetID),
	})
}

func (s *Server) handlePriceOracle(w http.ResponseWriter, req *RPCRequest) {
	var params poolQueryParams
	if err := decodeSingleParam(req, &params); err != nil {
		s.paramError(w, req, err)
		return
	}
	price, err := s.exchange.PriceOracle(ledger.AssetID(params.AssetID))
	if err != nil {
		s.exchangeError(w, req, err)
		return
	}
	writeResult(w, req.ID, priceResult{
		AssetID:        uint32(price.AssetID),
		AssetAmount:    price.AssetAmount.String(),
		CurrencyAmount: price.CurrencyAmount.String(),
	})
}

func (s *Server) handleBalances(w http.ResponseWriter, req *RPCRequest) {
	var params balancesParams
	if err := decodeSingleParam(req, &params); err != nil {
		s.paramError(w, req, err)
		return
	}
	addr, err := parseAddress("address", params.Address)
	if err != nil {
		s.paramError(w, req, err)
		return
	}
	currency, err := s.exchange.CurrencyBalance(addr)
	if err != nil {
		s.exchangeError(w, req, err)
		return
	}
	result := balancesResult{Address: addr.String(), Currency: currency.String()}
	for _, id := range params.AssetIDs {
		balance, err := s.exchange.AssetBalance(ledger.AssetID(id), addr)
		if err != nil {
			s.exchangeError(w, req, err)
			return
		}
		result.Assets = append(result.Assets, assetBalanceResult{AssetID: id, Amount: balance.String()})
	}
	writeResult(w, req.ID, result)
}
