package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pooldex/config"
	"pooldex/events"
	"pooldex/native/dex"
	"pooldex/observability/logging"
	"pooldex/rpc"
	"pooldex/storage"
)

const shutdownGrace = 5 * time.Second

// logEmitter forwards exchange events to the structured log.
type logEmitter struct {
	log *slog.Logger
}

func (l logEmitter) Emit(ev events.Event) {
	attrs := make([]any, 0, 2*len(ev.Attributes()))
	for k, v := range ev.Attributes() {
		attrs = append(attrs, slog.String(k, v))
	}
	l.log.Info(ev.EventType(), attrs...)
}

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	logger := logging.Setup("pooldexd", cfg.NetworkName)

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		panic(fmt.Sprintf("Failed to open database: %v", err))
	}
	defer db.Close()

	exchange := dex.NewExchange(db)
	if err := exchange.SetFee(dex.FeeConfig{Numerator: cfg.FeeNumerator, Denominator: cfg.FeeDenominator}); err != nil {
		logger.Error("Invalid fee configuration", slog.Any("error", err))
		os.Exit(1)
	}
	existentialDeposit, err := cfg.ExistentialDepositAmount()
	if err != nil {
		logger.Error("Invalid existential deposit", slog.Any("error", err))
		os.Exit(1)
	}
	exchange.SetExistentialDeposit(existentialDeposit)
	exchange.SetEmitter(logEmitter{log: logger})

	server := rpc.NewServer(exchange, cfg.RPCAuthToken, logger)
	httpServer := &http.Server{
		Addr:    cfg.ListenAddress,
		Handler: server.Router(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting JSON-RPC server",
			slog.String("addr", cfg.ListenAddress),
			slog.String("fee", fmt.Sprintf("%d/%d", cfg.FeeNumerator, cfg.FeeDenominator)))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Shutdown failed", slog.Any("error", err))
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}
}
