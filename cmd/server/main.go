package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/inventory-service/internal/auth"
	"github.com/iliyamo/inventory-service/internal/config"
	"github.com/iliyamo/inventory-service/internal/database"
	"github.com/iliyamo/inventory-service/internal/handler"
	"github.com/iliyamo/inventory-service/internal/logging"
	"github.com/iliyamo/inventory-service/internal/middleware"
	"github.com/iliyamo/inventory-service/internal/queue"
	"github.com/iliyamo/inventory-service/internal/repository"
	"github.com/iliyamo/inventory-service/internal/router"
	"github.com/iliyamo/inventory-service/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.Env, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func run(ctx context.Context, cfg config.Config, log *logrus.Logger) error {
	dbOpts := database.Options{
		User: cfg.DBUser, Pass: cfg.DBPass, Host: cfg.DBHost, Port: cfg.DBPort, Name: cfg.DBName,
	}
	if cfg.DBAutoMigrate {
		if err := database.Migrate(ctx, dbOpts); err != nil {
			return err
		}
		log.Info("migrations applied")
	}

	db, err := database.Open(ctx, dbOpts)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.WithError(err).Warn("close database")
		}
		log.Info("database closed")
	}()

	rdb := config.NewRedisClient(ctx)
	if rdb == nil {
		log.Warn("redis unavailable: using in-process rate limiting, response cache disabled")
	} else {
		defer rdb.Close()
	}

	opts := []auth.Option{
		auth.WithLogger(log),
		auth.WithPasswordParams(utils.PasswordParams{
			Time:    cfg.Argon2Time,
			Memory:  cfg.Argon2MemoryKiB,
			Threads: cfg.Argon2Threads,
			KeyLen:  utils.DefaultPasswordParams.KeyLen,
		}),
	}
	if cfg.RabbitMQURL != "" {
		pub := queue.NewPublisher(cfg.RabbitMQURL, log)
		defer pub.Close()
		opts = append(opts, auth.WithEvents(pub))

		if cfg.AuditConsumerEnabled {
			go func() {
				if err := queue.StartAuditConsumer(ctx, cfg.RabbitMQURL, cfg.AuditLogDir, log); err != nil && !errors.Is(err, context.Canceled) {
					log.WithError(err).Error("audit consumer stopped")
				}
			}()
		}
	}

	users := repository.NewUserRepo(db)
	svc, err := auth.NewService(users, repository.NewTokenRepo(db), opts...)
	if err != nil {
		return err
	}

	e := router.New(router.Deps{
		Auth:          handler.NewAuthHandler(svc, cfg.RequestTimeout),
		Inventory:     handler.NewInventoryHandler(repository.NewProductRepo(db), cfg.RequestTimeout),
		Suppliers:     handler.NewSupplierHandler(repository.NewSupplierRepo(db), cfg.RequestTimeout),
		Users:         handler.NewUserHandler(users, cfg.RequestTimeout),
		Dashboard:     handler.Dashboard(repository.NewDashboardRepo(db), cfg.RequestTimeout),
		Authenticator: svc,
		DB:            db,
		RateLimit:     middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log),
		Cache:         middleware.NewResponseCache(config.LoadCacheConfig(), rdb, log),
		CORSOrigins:   cfg.CORSOrigins,
		Timeout:       cfg.RequestTimeout,
		Log:           log,
	})

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
