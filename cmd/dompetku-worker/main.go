package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"dompetku/internal/amqp"
	"dompetku/internal/cli"
	"dompetku/internal/log"
	"dompetku/internal/services"
	"dompetku/internal/sheets/google"
	"dompetku/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"), log.ComponentWorker)
	logger.Info("Starting dompetku-worker")

	// run returns only after its deferred cleanup has finished.
	if err := run(logger); err != nil {
		logger.Error("Worker stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}

func run(logger *log.Logger) error {
	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" || !cfg.SheetsEnabled() {
		return errors.New("the worker needs AMQP_URL and GOOGLE_SPREADSHEET_ID")
	}

	calc, err := cfg.Calculator()
	if err != nil {
		return fmt.Errorf("invalid period configuration: %w", err)
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	// The worker only reads the store; it consumes events instead of
	// publishing them.
	storeCfg := *cfg
	storeCfg.AMQPURL = ""
	res := cli.InitBackend(ctx, logger, &storeCfg)
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", log.FieldError, err)
		}
	}()

	mirror, err := google.New(ctx, google.Config{
		SpreadsheetID:      cfg.GoogleSpreadsheetID,
		SheetName:          cfg.GoogleSheetName,
		ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
		ServiceAccountFile: cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		return fmt.Errorf("initialize Google Sheets client: %w", err)
	}
	logger.Info("Google Sheets mirror initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return fmt.Errorf("initialize AMQP client: %w", err)
	}
	defer client.Close()

	syncWorker := worker.NewSyncWorker(res.Store, mirror, calc)
	processor := services.NewSyncProcessor(res.Store, mirror, calc, time.Now, services.SyncProcessorConfig{
		ReconcileInterval: cfg.SyncInterval,
		Cycles:            1,
	})

	err = serve(ctx, func(ctx context.Context) error {
		return client.ConsumeTransactionEvents(ctx, syncWorker.HandleEvent)
	}, processor)
	if ctx.Err() != nil {
		<-done
	}
	return err
}

type lifecycle interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// serve runs the event consumer and the reconcile processor until ctx is
// cancelled or either of them fails. Cancellation is a clean stop.
func serve(ctx context.Context, consume func(context.Context) error, processor lifecycle) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := consume(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		if err := processor.Start(gctx); err != nil {
			return err
		}
		<-gctx.Done()
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return processor.Stop(stopCtx)
	})
	return g.Wait()
}
