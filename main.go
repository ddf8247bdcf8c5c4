package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"covidapi/internal/config"
	"covidapi/internal/ingest"
	"covidapi/internal/query"
	"covidapi/internal/runlog"
	"covidapi/internal/server"
	"covidapi/internal/store"
)

func main() {
	cfg := config.FromFlags()

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	if err := run(cfg, sugar); err != nil {
		sugar.Fatalw("fatal", "error", err)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(cfg *config.Config, logger *zap.SugaredLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	recs, err := store.Connect(ctx, cfg.MongoURI, cfg.DBName, cfg.Collection, logger)
	if err != nil {
		return err
	}
	defer recs.Close(context.Background())

	var runs *runlog.Store
	if cfg.RunLogPath != "" {
		runs, err = runlog.Open(cfg.RunLogPath)
		if err != nil {
			return err
		}
		defer runs.Close()
	}

	// Load the dataset snapshot exactly once: the pipeline only runs
	// against an empty collection, and it runs to completion before the
	// listener starts so queries never observe a half-loaded store.
	count, err := recs.Count(ctx)
	if err != nil {
		return err
	}
	if count == 0 {
		logger.Infow("record store is empty, ingesting dataset", "csv", cfg.CSVPath)
		pipeline := ingest.New(ingest.NewCSVSource(cfg.CSVPath), recs, runs, logger)
		if _, err := pipeline.Run(ctx); err != nil {
			return err
		}
	} else {
		logger.Infow("record store already populated", "records", count)
	}

	svc := query.NewService(recs, logger)

	var history server.RunHistory
	if runs != nil {
		history = runs
	}
	srv := server.New(svc, history, logger)

	if err := srv.ListenAndServe(ctx, cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
