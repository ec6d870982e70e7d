package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/roomies/internal/config"
	"github.com/mmynk/roomies/internal/metrics"
	"github.com/mmynk/roomies/internal/middleware"
	"github.com/mmynk/roomies/internal/receipt"
	"github.com/mmynk/roomies/internal/service"
	"github.com/mmynk/roomies/internal/storage/memory"
	"github.com/mmynk/roomies/internal/web"
	"github.com/mmynk/roomies/pkg/api/apiconnect"
	"github.com/mmynk/roomies/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Session storage; everything is gone when the process exits
	var storeOpts []memory.Option
	if cfg.SeedDemoData {
		storeOpts = append(storeOpts, memory.WithSeed(memory.SeedLedger()))
	}
	store := memory.New(storeOpts...)
	defer store.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	svcOpts := []service.Option{
		service.WithMetrics(m),
		service.WithScanLimits(cfg.Receipt.Timeout, cfg.Receipt.MaxImageBytes, cfg.Receipt.Concurrency),
	}
	if cfg.Receipt.Enabled() {
		svcOpts = append(svcOpts, service.WithScanner(receipt.NewOpenAIScanner(receipt.OpenAIConfig{
			APIKey:  cfg.Receipt.APIKey,
			BaseURL: cfg.Receipt.BaseURL,
			Model:   cfg.Receipt.Model,
		})))
		slog.Info("Receipt scanning enabled", "model", cfg.Receipt.Model)
	} else {
		slog.Warn("API_KEY not set, receipt scanning disabled")
	}
	ledger := service.NewLedgerService(store, svcOpts...)

	ui, err := web.New(ledger, web.WithMaxUploadBytes(cfg.Receipt.MaxImageBytes))
	if err != nil {
		return err
	}

	mux := http.NewServeMux()

	// Register Connect services
	ledgerPath, ledgerHandler := apiconnect.NewLedgerServiceHandler(ledger,
		connect.WithInterceptors(middleware.LoggingInterceptor(), middleware.MetricsInterceptor(m)),
	)
	mux.Handle(ledgerPath, ledgerHandler)
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/", ui)

	handler := middleware.RequestLogger(middleware.CORS(cfg.AllowedOrigin)(mux))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: h2c.NewHandler(handler, &http2.Server{}),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Server starting", "address", srv.Addr, "seeded", cfg.SeedDemoData)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down", "timeout", cfg.ShutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
