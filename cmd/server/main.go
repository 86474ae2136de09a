package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	httpadapter "maturity/internal/adapters/http"
	"maturity/internal/adapters/memory"
	pg "maturity/internal/adapters/postgres"
	"maturity/internal/config"
	"maturity/internal/engine"
	"maturity/internal/logger"
	ports "maturity/internal/ports"
	"maturity/internal/scoring"
	assesssvc "maturity/internal/services/assessments"
	profsvc "maturity/internal/services/profiles"
	stakesvc "maturity/internal/services/stakeholders"
	surveysvc "maturity/internal/services/surveys"
	"maturity/internal/workers/assessrunner"
)

// store is everything the services persist through.
type store interface {
	ports.StakeholderRepository
	ports.EvidenceRepository
	ports.SurveyRepository
	ports.AssessmentRepository
	ports.JobRepository
}

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, cfgErr := config.Load()

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if cfgErr != nil && !errors.Is(cfgErr, config.ErrNoDatabase) {
		log.Fatal("config error", "err", cfgErr)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var repo store
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set, using in-memory store")
		repo = memory.New()
	} else {
		db, err := pg.Connect(ctx, cfg.DatabaseURL, cfg.DBConnectAttempts, log)
		if err != nil {
			log.Fatal("db connect error", "err", err)
		}
		defer db.Close()
		if err := db.Migrate(ctx, false); err != nil {
			log.Fatal("migrate error", "err", err)
		}
		repo = db
	}

	scorer, err := scoring.New(cfg.Profile)
	if err != nil {
		log.Fatal("scoring profile error", "err", err)
	}
	eng := engine.New(engine.WithScoring(scorer))

	assessments := assesssvc.New(assesssvc.Deps{
		Jobs:         repo,
		Stakeholders: repo,
		Evidence:     repo,
		Surveys:      repo,
		Assessments:  repo,
		Engine:       eng,
		Log:          log,
	})
	srv := httpadapter.New(httpadapter.Deps{
		Stakeholders: stakesvc.New(repo),
		Assessments:  assessments,
		Profiles:     profsvc.New(repo),
		Surveys:      surveysvc.New(repo, repo, assessments, log),
		Engine:       eng,
		Log:          log,
	})
	r := chi.NewRouter()
	r.Mount("/", srv.Routes())

	if cfg.AssessWorkers > 0 {
		assessrunner.Run(ctx, repo, assessments, cfg.AssessWorkers, cfg.PollInterval, log)
		log.Info("assessment workers started", "workers", cfg.AssessWorkers)
	}

	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()
	log.Info("listening", "addr", cfg.ListenAddr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		log.Info("shutting down", "signal", sig.String())
		cancel()
		shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		defer done()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown error", "err", err)
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", "err", err)
		}
	}
}
