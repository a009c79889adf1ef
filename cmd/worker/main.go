// The worker binary drains the notification queue and delivers emails. It
// shares the database with the server only to resolve requester addresses.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"smarttalent/internal/notify"
	"smarttalent/internal/platform/config"
	"smarttalent/internal/platform/logger"
	"smarttalent/internal/platform/postgres"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.FromEnv()
	log := logger.New()

	if cfg.Redis.URL == "" {
		log.Error("REDIS_URL is required for the worker")
		os.Exit(1)
	}
	redisOpt, err := asynq.ParseRedisURI(cfg.Redis.URL)
	if err != nil {
		log.Error("parse redis URL", "error", err)
		os.Exit(1)
	}

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	processor := notify.NewProcessor(
		notify.LogMailer{Logger: log},
		notify.NewPostgresRequesters(db),
		cfg.FrontendURL,
		log,
	)

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 10,
		Queues:      map[string]int{"default": 1},
	})

	go func() {
		<-ctx.Done()
		server.Shutdown()
	}()

	log.Info("worker started")
	if err := server.Run(processor.Handler()); err != nil {
		log.Error("worker stopped", "error", err)
		os.Exit(1)
	}
	log.Info("worker stopped")
}
