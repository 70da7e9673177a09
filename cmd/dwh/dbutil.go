package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/freight-dwh/modules/dwh/infrastructure/persistence"
	"github.com/iota-uz/freight-dwh/modules/dwh/infrastructure/xmlparse"
	"github.com/iota-uz/freight-dwh/modules/dwh/services"
	"github.com/iota-uz/freight-dwh/pkg/configuration"
	"github.com/iota-uz/freight-dwh/pkg/eventbus"
)

func connectDB(ctx context.Context) (*pgxpool.Pool, error) {
	cfg := configuration.Use()
	if err := cfg.Database.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, cfg.Database.Opts)
	if err != nil {
		return nil, fmt.Errorf("db connect failed: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping failed: %w", err)
	}
	return pool, nil
}

// newController wires one load run: parser, resolver, repositories, ingest
// service, and a bus with logging subscribers for per-file progress.
func newController(pool *pgxpool.Pool, cfg *configuration.Configuration, log *logrus.Logger) *services.LoadController {
	bus := eventbus.NewEventPublisher(log)
	bus.Subscribe(func(e services.FileProcessed) {
		log.WithFields(logrus.Fields{"file": e.FileName, "source": string(e.Source)}).Info("processed")
	})
	bus.Subscribe(func(e services.FileFailed) {
		log.WithField("file", e.FileName).WithError(e.Err).Warn("rolled back")
	})

	dims := persistence.NewDimensionResolver(log)
	facts := persistence.NewFactRepository(log)
	children := persistence.NewChildRepository(log)
	ingest := services.NewIngestService(dims, facts, children, log)
	parser := xmlparse.NewXMLParser(log)
	ledger := persistence.NewLedgerRepository()

	return services.NewLoadController(pool, parser, ingest, ledger, bus, log, cfg.XMLRoot, cfg.CommitEvery)
}

func applyVerbosity(log *logrus.Logger, verbose, quiet bool) {
	switch {
	case quiet:
		log.SetLevel(logrus.ErrorLevel)
	case verbose:
		log.SetLevel(logrus.DebugLevel)
	}
}
