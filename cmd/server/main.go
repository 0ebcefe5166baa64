// @title        CityCut API
// @version      1.0
// @description  Barbershop service records, expenses, customers and reports.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"citycut/internal/cache"
	"citycut/internal/config"
	"citycut/internal/infra"
	"citycut/internal/repository"
	"citycut/internal/router"
	"citycut/internal/service"
	"citycut/internal/session"
	"citycut/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := infra.NewDatabase(ctx, cfg.DatabaseURL, infra.DBOptions{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	loc := cfg.Location()
	clock := service.Clock{Now: time.Now, Loc: loc}
	dispatcher := worker.NewDispatcher(rdb)

	// ── Workers ──────────────────────────────────────────────────────────────
	// Wired here (composition root) so the pool reaches every external client.
	var sms worker.TextSender
	if s := infra.NewSMSSender(cfg); s != nil {
		sms = s
	} else {
		log.Warn().Msg("twilio not configured: thank-you texts are skipped")
	}

	reportSvc := service.NewReportService(
		repository.NewServiceRecordRepository(db),
		repository.NewExpenseRepository(db),
		repository.NewReportRepository(db),
		cache.Nop{},
		clock,
	)
	pool := worker.NewPool(rdb, map[string]worker.Processor{
		worker.JobNotify: worker.NewNotifyWorker(sms),
		worker.JobReport: worker.NewReportWorker(worker.ReportWorkerConfig{
			Summaries:   reportSvc,
			Mailer:      infra.NewMailer(cfg),
			Recipients:  cfg.Recipients(),
			StoragePath: cfg.PDFStoragePath,
			Location:    loc,
		}),
	}, cfg.WorkerPoolSize)

	if _, err := worker.StartScheduler(ctx, cfg.ReportCron, loc, dispatcher); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}

	// ── HTTP ─────────────────────────────────────────────────────────────────
	engine := router.New(router.Deps{
		Config:   cfg,
		DB:       db,
		Redis:    rdb,
		Sessions: session.NewManager(cfg.JWTSecret, time.Duration(cfg.JWTExpirationHours)*time.Hour),
		Notifier: dispatcher,
		Clock:    clock,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      engine,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return pool.Run(gctx) })
	g.Go(func() error {
		log.Info().Msgf("CityCut listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server…")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
	log.Info().Msg("server exited")
}

// setupLogger: dev gets the console writer, production gets JSON.
func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
