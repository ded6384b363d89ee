package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"dompetku/internal/cli"
	apphttp "dompetku/internal/http"
	"dompetku/internal/log"
	"dompetku/internal/services"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"), log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	calc, err := cfg.Calculator()
	if err != nil {
		logger.Error("Invalid period configuration", log.FieldError, err)
		os.Exit(1)
	}

	res := cli.InitBackend(context.Background(), logger, cfg)
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", log.FieldError, err)
		}
	}()

	ledger := services.NewTransactionService(res.Store, calc, time.Now, res.Publisher)

	srv, err := apphttp.NewServer(ledger, apphttp.Options{
		Addr:               ":" + cfg.Port,
		CurrencySymbol:     cfg.CurrencySymbol,
		PeriodOptions:      cfg.PeriodOptions,
		FlashSecret:        []byte(cfg.FlashSecret),
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		TrustedProxies:     cfg.TrustedProxies,
		Logger:             logger.WithComponent(log.ComponentHTTP),
	})
	if err != nil {
		logger.Error("Failed to build HTTP server", log.FieldError, err)
		os.Exit(1)
	}
	if cfg.FlashSecret == "" {
		logger.Warn("FLASH_SECRET not set, notices will not survive a restart")
	}

	_, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
	})

	logger.Info("Starting dompetku server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"period_start_day", calc.StartDay,
		"utc_offset", cfg.PeriodUTCOffset,
		"events_enabled", res.Publisher != nil)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-done
	logger.Info("Server stopped gracefully")
}
