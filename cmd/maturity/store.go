package main

import (
	"context"
	"errors"
	"fmt"

	pg "maturity/internal/adapters/postgres"
	"maturity/internal/config"
	"maturity/internal/logger"
	ports "maturity/internal/ports"
)

type store interface {
	ports.StakeholderRepository
	ports.EvidenceRepository
	ports.SurveyRepository
	ports.JobRepository
}

// openStore connects to the configured database. Tests replace it.
var openStore = func(ctx context.Context, log *logger.Logger) (store, func(), error) {
	db, err := connectDB(ctx, log)
	if err != nil {
		return nil, nil, err
	}
	return db, db.Close, nil
}

func connectDB(ctx context.Context, log *logger.Logger) (*pg.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		if errors.Is(err, config.ErrNoDatabase) {
			return nil, fmt.Errorf("%w: export DATABASE_URL to use this command", err)
		}
		return nil, err
	}
	return pg.Connect(ctx, cfg.DatabaseURL, cfg.DBConnectAttempts, log)
}
