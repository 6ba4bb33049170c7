package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/api-sage/account-ledger/src/internal/adapter/events"
	"github.com/api-sage/account-ledger/src/internal/adapter/http/controller"
	"github.com/api-sage/account-ledger/src/internal/adapter/http/router"
	"github.com/api-sage/account-ledger/src/internal/adapter/repository/cache"
	"github.com/api-sage/account-ledger/src/internal/adapter/repository/implementations"
	"github.com/api-sage/account-ledger/src/internal/config"
	"github.com/api-sage/account-ledger/src/internal/logger"
	"github.com/api-sage/account-ledger/src/internal/usecase/services"
)

func main() {
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := implementations.RunMigrations(migrateCtx, cfg.DatabaseDSN, cfg.MigrationsDir); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	db, err := implementations.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()

	// The cache degrades to NotFound when redis is down, so an unreachable
	// store at boot is a warning, not a fatal.
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error("redis unreachable at startup", err, logger.Fields{"addr": cfg.RedisAddr})
	}

	accountRepo := implementations.NewAccountRepository(db)
	movementRepo := implementations.NewMovementRepository(db)
	clientCache := cache.NewRedisClientCache(redisClient)

	consumer := events.NewClientConsumer(cfg.KafkaBrokers, cfg.ClientsTopic, cfg.KafkaGroupID, clientCache)
	defer consumer.Close()
	go consumer.Run(ctx)

	accountService := services.NewAccountService(accountRepo, movementRepo, clientCache)
	movementService := services.NewMovementService(movementRepo, accountRepo)
	reportService := services.NewReportService(movementRepo, clientCache)

	mux := router.New(
		controller.NewAccountController(accountService),
		controller.NewMovementController(movementService),
		controller.NewReportController(reportService),
		nil,
	)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown failed", err, nil)
		}
	}()

	logger.Info("http server listening", logger.Fields{"addr": cfg.HTTPAddr})
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("http server: %v", err)
	}
}
