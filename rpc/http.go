package rpc

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"pooldex/native/dex"
)

const (
	jsonRPCVersion  = "2.0"
	maxRequestBytes = 1 << 20 // 1 MiB
)

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeUnauthorized   = -32001
	codeServerError    = -32000
	codeNotFound       = -32004
	codeConflict       = -32009
	codeInsufficient   = -32010
	codeOverflow       = -32011
)

type Server struct {
	exchange  *dex.Exchange
	log       *slog.Logger
	authToken string
}

func NewServer(exchange *dex.Exchange, authToken string, log *slog.Logger) *Server {
	token := strings.TrimSpace(authToken)
	if token == "" {
		token = strings.TrimSpace(os.Getenv("POOLDEX_RPC_TOKEN"))
	}
	if log == nil {
		log = slog.Default()
	}
	return &Server{exchange: exchange, log: log, authToken: token}
}

// Router assembles the HTTP surface: the JSON-RPC endpoint at the root plus
// health and metrics endpoints.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/", s.handle)
	return r
}

func (s *Server) Start(addr string) error {
	s.log.Info("starting JSON-RPC server", "addr", addr)
	return http.ListenAndServe(addr, s.Router())
}

type RPCRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      int               `json:"id"`
}

type RPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func writeError(w http.ResponseWriter, status int, id interface{}, code int, message string, data interface{}) {
	if status <= 0 {
		status = http.StatusBadRequest
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	errObj := &RPCError{Code: code, Message: message}
	if data != nil {
		errObj.Data = data
	}
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Error: errObj}
	_ = json.NewEncoder(w).Encode(resp)
}

func writeResult(w http.ResponseWriter, id interface{}, result interface{}) {
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Result: result}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeExchangeError translates typed exchange failures into RPC error codes.
func writeExchangeError(w http.ResponseWriter, id interface{}, err error) {
	code := codeServerError
	status := http.StatusOK
	switch {
	case errors.Is(err, dex.ErrPoolNotFound), errors.Is(err, dex.ErrAssetNotFound):
		code = codeNotFound
	case errors.Is(err, dex.ErrPoolAlreadyExists), errors.Is(err, dex.ErrAssetAlreadyExists):
		code = codeConflict
	case errors.Is(err, dex.ErrCurrencyAmountZero), errors.Is(err, dex.ErrAssetAmountZero), errors.Is(err, dex.ErrLiqAmountZero):
		code = codeInvalidParams
	case errors.Is(err, dex.ErrInsufficientCurrencyBalance), errors.Is(err, dex.ErrInsufficientAssetBalance):
		code = codeInsufficient
	case errors.Is(err, dex.ErrOperationOverflow):
		code = codeOverflow
	}
	writeError(w, status, id, code, err.Error(), nil)
}

// handle is the main request handler that routes to specific handlers.
func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	reader := http.MaxBytesReader(w, r.Body, maxRequestBytes)
	defer func() {
		_ = reader.Close()
	}()

	w.Header().Set("Content-Type", "application/json")

	body, err := io.ReadAll(reader)
	if err != nil {
		status := http.StatusBadRequest
		message := "failed to read request body"
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			status = http.StatusRequestEntityTooLarge
			message = fmt.Sprintf("request body exceeds %d bytes", maxRequestBytes)
		}
		writeError(w, status, nil, codeInvalidRequest, message, err.Error())
		return
	}
	if len(bytes.TrimSpace(body)) == 0 {
		writeError(w, http.StatusBadRequest, nil, codeInvalidRequest, "request body required", nil)
		return
	}

	req := &RPCRequest{}
	if err := json.Unmarshal(body, req); err != nil {
		writeError(w, http.StatusBadRequest, nil, codeParseError, "invalid JSON payload", err.Error())
		return
	}
	if req.JSONRPC != "" && req.JSONRPC != jsonRPCVersion {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "unsupported jsonrpc version", req.JSONRPC)
		return
	}
	if req.Method == "" {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "method required", nil)
		return
	}

	started := time.Now()
	requestsTotal.WithLabelValues(req.Method).Inc()
	defer func() {
		requestDuration.WithLabelValues(req.Method).Observe(time.Since(started).Seconds())
	}()

	switch req.Method {
	case "dex_createAsset":
		if authErr := s.requireAuth(r); authErr != nil {
			writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
			return
		}
		s.handleCreateAsset(w, req)
	case "dex_mintAsset":
		if authErr := s.requireAuth(r); authErr != nil {
			writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
			return
		}
		s.handleMintAsset(w, req)
	case "dex_depositCurrency":
		if authErr := s.requireAuth(r); authErr != nil {
			writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
			return
		}
		s.handleDepositCurrency(w, req)
	case "dex_createPool":
		if authErr := s.requireAuth(r); authErr != nil {
			writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
			return
		}
		s.handleCreatePool(w, req)
	case "dex_addLiquidity":
		if authErr := s.requireAuth(r); authErr != nil {
			writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
			return
		}
		s.handleAddLiquidity(w, req)
	case "dex_removeLiquidity":
		if authErr := s.requireAuth(r); authErr != nil {
			writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
			return
		}
		s.handleRemoveLiquidity(w, req)
	case "dex_currencyToAsset":
		if authErr := s.requireAuth(r); authErr != nil {
			writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
			return
		}
		s.handleCurrencyToAsset(w, req)
	case "dex_assetToCurrency":
		if authErr := s.requireAuth(r); authErr != nil {
			writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
			return
		}
		s.handleAssetToCurrency(w, req)
	case "dex_assetToAsset":
		if authErr := s.requireAuth(r); authErr != nil {
			writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
			return
		}
		s.handleAssetToAsset(w, req)
	case "dex_getPool":
		s.handleGetPool(w, req)
	case "dex_priceOracle":
		s.handlePriceOracle(w, req)
	case "dex_balances":
		s.handleBalances(w, req)
	default:
		errorsTotal.WithLabelValues(req.Method).Inc()
		writeError(w, http.StatusNotFound, req.ID, codeMethodNotFound, fmt.Sprintf("method %s not found", req.Method), nil)
	}
}

func (s *Server) requireAuth(r *http.Request) *RPCError {
	if s.authToken == "" {
		return &RPCError{Code: codeUnauthorized, Message: "RPC authentication token not configured"}
	}
	header := r.Header.Get("Authorization")
	if header == "" {
		return &RPCError{Code: codeUnauthorized, Message: "missing Authorization header"}
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return &RPCError{Code: codeUnauthorized, Message: "Authorization header must use Bearer scheme"}
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return &RPCError{Code: codeUnauthorized, Message: "missing bearer token"}
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.authToken)) != 1 {
		return &RPCError{Code: codeUnauthorized, Message: "invalid RPC credentials"}
	}
	return nil
}
