// The server binary hosts the HTTP API: account management, requester
// entities, verification intake, the document-type catalog and recruitment.
// Background email delivery runs in the separate worker binary.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"smarttalent/internal/audit"
	authhandler "smarttalent/internal/auth/handler"
	authservice "smarttalent/internal/auth/service"
	authstore "smarttalent/internal/auth/store"
	entityadapters "smarttalent/internal/entity/adapters"
	entityhandler "smarttalent/internal/entity/handler"
	entityservice "smarttalent/internal/entity/service"
	entitystore "smarttalent/internal/entity/store"
	httpapi "smarttalent/internal/http"
	intakeadapters "smarttalent/internal/intake/adapters"
	intakehandler "smarttalent/internal/intake/handler"
	"smarttalent/internal/intake/metrics"
	intakeservice "smarttalent/internal/intake/service"
	intakestore "smarttalent/internal/intake/store"
	jwttoken "smarttalent/internal/jwt_token"
	"smarttalent/internal/notify"
	"smarttalent/internal/platform/config"
	"smarttalent/internal/platform/httpserver"
	"smarttalent/internal/platform/logger"
	"smarttalent/internal/platform/objectstore"
	"smarttalent/internal/platform/postgres"
	platformredis "smarttalent/internal/platform/redis"
	recruitmenthandler "smarttalent/internal/recruitment/handler"
	recruitmentservice "smarttalent/internal/recruitment/service"
	recruitmentstore "smarttalent/internal/recruitment/store"
	taxonomyhandler "smarttalent/internal/taxonomy/handler"
	taxonomyservice "smarttalent/internal/taxonomy/service"
	taxonomystore "smarttalent/internal/taxonomy/store"
	uploadhandler "smarttalent/internal/upload/handler"
	"smarttalent/pkg/platform/tx"
)

const tokenIssuer = "smarttalent"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.FromEnv()
	log := logger.New()

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		log.Error("ensure schema", "error", err)
		os.Exit(1)
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	runner := tx.NewSQLRunner(db)
	jwtService := jwttoken.NewJWTService(cfg.JWT.SigningKey, tokenIssuer, cfg.JWT.Expiry)

	// Notification queue. Without Redis, workflow events are logged only.
	var enqueuer *notify.Enqueuer
	if cfg.Redis.URL != "" {
		redisOpt, err := asynq.ParseRedisURI(cfg.Redis.URL)
		if err != nil {
			log.Error("parse redis URL for queue", "error", err)
			os.Exit(1)
		}
		asynqClient := asynq.NewClient(redisOpt)
		defer asynqClient.Close()
		enqueuer = notify.NewEnqueuer(asynqClient, log)
	}

	auditPublisher := audit.NewPublisher(1024, log)
	auditWorker := audit.NewWorker(audit.NewPostgresStore(db), auditPublisher.Inbox(), log)

	authOpts := []authservice.Option{
		authservice.WithLogger(log),
		authservice.WithTxRunner(runner),
	}
	if enqueuer != nil {
		authOpts = append(authOpts, authservice.WithNotifier(enqueuer))
	}
	authSvc := authservice.New(authstore.NewPostgres(db), jwtService, authOpts...)

	taxonomyOpts := []taxonomyservice.Option{taxonomyservice.WithLogger(log)}
	if cache := platformredis.NewCache(redisClient); cache != nil {
		taxonomyOpts = append(taxonomyOpts, taxonomyservice.WithCache(cache, config.TaxonomyCacheTTL))
	}
	taxonomySvc := taxonomyservice.New(taxonomystore.NewPostgres(db), taxonomyOpts...)

	entitySvc := entityservice.New(
		entitystore.NewPostgres(db),
		entityadapters.AccountProvisioner{Auth: authSvc},
		entityservice.WithLogger(log),
		entityservice.WithTxRunner(runner),
	)

	intakeStores := intakestore.NewPostgres(db)
	intakeOpts := []intakeservice.Option{
		intakeservice.WithLogger(log),
		intakeservice.WithMetrics(metrics.New()),
		intakeservice.WithTxRunner(runner),
		intakeservice.WithAuditor(audit.Recorder{Publisher: auditPublisher}),
	}
	if enqueuer != nil {
		intakeOpts = append(intakeOpts, intakeservice.WithNotifier(enqueuer))
	}
	intakeSvc := intakeservice.New(
		intakeservice.Stores{
			Requests:    intakeStores.Requests,
			Persons:     intakeStores.Persons,
			Documents:   intakeStores.Documents,
			Resources:   intakeStores.Resources,
			Assignments: intakeStores.Assignments,
			Query:       intakeStores.Query,
		},
		intakeadapters.EntityDirectory{Entities: entitySvc},
		intakeadapters.RecruiterDirectory{Auth: authSvc},
		intakeadapters.TaxonomyDirectory{Taxonomy: taxonomySvc},
		intakeOpts...,
	)

	recruitmentSvc := recruitmentservice.New(
		recruitmentstore.NewPostgres(db),
		intakeadapters.EntityDirectory{Entities: entitySvc},
		recruitmentservice.WithLogger(log),
		recruitmentservice.WithTxRunner(runner),
	)

	var uploads *uploadhandler.Handler
	if cfg.Storage.Endpoint != "" {
		store, err := objectstore.New(cfg.Storage)
		if err != nil {
			log.Error("init object store", "error", err)
			os.Exit(1)
		}
		if err := store.EnsureBucket(ctx); err != nil {
			log.Error("ensure bucket", "error", err)
			os.Exit(1)
		}
		uploads = uploadhandler.New(store, log)
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:         log,
		TokenValidator: jwttoken.NewJWTServiceAdapter(jwtService),
		Redis:          redisClient,
		Auth:           authhandler.New(authSvc, log),
		Entities:       entityhandler.New(entitySvc, log),
		Intake:         intakehandler.New(intakeSvc, log),
		Taxonomy:       taxonomyhandler.New(taxonomySvc, log),
		Recruitment:    recruitmenthandler.New(recruitmentSvc, log),
		Upload:         uploads,
	})
	srv := httpserver.New(cfg.Addr, router)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		if err := auditWorker.Run(groupCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
