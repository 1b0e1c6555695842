/*
Package main is the entry point for the roomkey token service.

It is responsible for loading configuration, initializing the global logging system,
wiring the issuer, admission policy, directory and optional audit log, serving HTTP,
and gracefully handling operating system interrupt signals (SIGINT, SIGTERM).
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"roomkey/internal/app/admission"
	"roomkey/internal/app/audit"
	"roomkey/internal/app/directory"
	"roomkey/internal/app/issuer"
	"roomkey/internal/configs"
	"roomkey/internal/handler"
	"roomkey/internal/pkg/logx"
	"roomkey/internal/pkg/metrics"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.IsDevelopment(), cfg.LogLevel)
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("observer_admission", cfg.ObserverAdmission).
		Bool("redis", cfg.RedisAddr != "").
		Bool("audit", cfg.DatabaseDSN != "").
		Msg("Configuration loaded successfully")

	if !cfg.LiveKit.Complete() {
		logx.Warn("LiveKit configuration incomplete; issuance and directory requests will fail until LIVEKIT_API_KEY, LIVEKIT_API_SECRET and LIVEKIT_URL are set")
	}

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	dir := directory.NewLiveKit(cfg.LiveKit, m)

	ledger, closeLedger := newSlotLedger(ctx, cfg)
	defer closeLedger()

	var recorder audit.Recorder = audit.Disabled{}
	if cfg.DatabaseDSN != "" {
		pool, err := audit.NewPool(ctx, cfg.DatabaseDSN)
		if err != nil {
			logx.Fatal(err, "Failed to initialize issuance audit database")
		}
		defer pool.Close()
		recorder = audit.NewStore(pool)
	}

	deps := &handler.AppDeps{
		Config:    cfg,
		Issuer:    issuer.New(cfg.LiveKit),
		Policy:    admission.NewPolicy(dir, ledger),
		Directory: dir,
		Audit:     recorder,
		Metrics:   m,
	}

	// Setup HTTP server and routes
	router := handler.Router(ctx, deps)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("roomkey starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Error(err, "Server forced to shutdown")
		return
	}

	logx.Info("Server gracefully stopped.")
}

// newSlotLedger picks the observer ledger for the configured admission mode.
func newSlotLedger(ctx context.Context, cfg *configs.AppConfig) (admission.SlotLedger, func()) {
	if cfg.ObserverAdmission == configs.ObserverBestEffort {
		logx.Warn("Observer admission is best-effort; concurrent observers may receive duplicate identities")
		return admission.BestEffortLedger{}, func() {}
	}

	if cfg.RedisAddr == "" {
		return admission.NewMemoryLedger(cfg.ObserverHold), func() {}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logx.Fatal(err, "Failed to connect to Redis", "addr", cfg.RedisAddr)
	}

	return admission.NewRedisLedger(rdb, cfg.ObserverHold), func() { rdb.Close() }
}
