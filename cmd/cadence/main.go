package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/alexanderramin/cadence/internal/checklist"
	"github.com/alexanderramin/cadence/internal/cli"
	"github.com/alexanderramin/cadence/internal/config"
	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/httpapi"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	planRepo := repository.NewSQLitePlanRepo(database)
	placementRepo := repository.NewSQLitePlacementRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	var observers []service.UseCaseObserver
	if cfg.LogUseCases {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}

	// Checklist queues live in SQLite unless a shared Redis is configured.
	var store checklist.Store
	switch cfg.ChecklistBackend {
	case config.BackendRedis:
		rdb, err := checklist.DialRedis(context.Background(), cfg.RedisAddr)
		if err != nil {
			return fmt.Errorf("connecting checklist store: %w", err)
		}
		defer rdb.Close()
		store = checklist.NewRedisStore(rdb, cfg.RedisKeyPrefix)
	default:
		store = checklist.NewSQLStore(uow)
	}
	var source checklist.Source
	if cfg.ChecklistSeedPath != "" {
		source = checklist.FileSource(cfg.ChecklistSeedPath)
	}
	resolver := checklist.NewResolver(store, source)

	planSvc := service.NewPlanService(planRepo, placementRepo, uow, observers...)
	generateSvc := service.NewGenerateService(planRepo, placementRepo, resolver, uow, service.GenerateOptions{
		ChecklistConcurrency: cfg.ChecklistConcurrency,
		ChecklistRetries:     cfg.ChecklistRetries,
	}, observers...)
	checklistSvc := service.NewChecklistService(resolver, observers...)

	app := &cli.App{
		Plans:       planSvc,
		Generator:   generateSvc,
		Checklists:  checklistSvc,
		Importer:    service.NewImportService(uow, observers...),
		DefaultAddr: cfg.HTTPAddr,
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	app.Serve = func(ctx context.Context, addr string) error {
		router := httpapi.NewRouter(httpapi.RouterConfig{
			Plans:       planSvc,
			Generator:   generateSvc,
			Checklists:  checklistSvc,
			CORSOrigins: cfg.CORSOrigins,
		})
		srv := &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() { errCh <- srv.ListenAndServe() }()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	return cli.NewRootCmd(app).Execute()
}
