package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dbu-council/council-system/internal/api"
	"github.com/dbu-council/council-system/internal/api/metrics"
	mongostore "github.com/dbu-council/council-system/internal/infrastructure/db/mongo"
	redisstore "github.com/dbu-council/council-system/internal/infrastructure/db/redis"
	"github.com/dbu-council/council-system/internal/infrastructure/mail"
	"github.com/dbu-council/council-system/internal/infrastructure/queue"
	"github.com/dbu-council/council-system/internal/infrastructure/sweep"
	"github.com/dbu-council/council-system/internal/pkg/config"
	"github.com/dbu-council/council-system/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}()

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}()

	ensureIndexes(ctx, db, log)

	dispatcher := queue.NewMailDispatcher(cfg.MailWorkers, mail.NewConsoleMailer(log), log)
	dispatcher.Start(ctx)

	e, services := api.NewRouter(cfg, db, rdb, dispatcher, log)

	sweeper := sweep.NewSweeper(services.Elections, cfg.SweepInterval, log)
	sweeper.OnSweep(func(updated int64) {
		if updated > 0 {
			metrics.ElectionStatusSweepsTotal.Inc()
			metrics.ElectionStatusUpdatesTotal.Add(float64(updated))
		}
	})
	go sweeper.Run(ctx)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting http server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
}

// ensureIndexes creates the collections' indexes. Failures are logged, not
// fatal: the server can run against an index-less store, just slower.
func ensureIndexes(ctx context.Context, db *mongo.Database, log zerolog.Logger) {
	type indexer interface {
		EnsureIndexes(ctx context.Context) error
	}
	repos := map[string]indexer{
		"accounts":   mongostore.NewAccountRepository(db),
		"elections":  mongostore.NewElectionRepository(db),
		"complaints": mongostore.NewComplaintRepository(db),
		"clubs":      mongostore.NewClubRepository(db),
	}
	for name, repo := range repos {
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Error().Err(err).Str("collection", name).Msg("index creation failed")
		}
	}
}
