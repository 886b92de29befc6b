package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/syntherra/PooDough/internal/cache"
	"github.com/syntherra/PooDough/internal/config"
	"github.com/syntherra/PooDough/internal/database"
	"github.com/syntherra/PooDough/internal/log"
	"github.com/syntherra/PooDough/internal/push"
	"github.com/syntherra/PooDough/internal/queue"
	"github.com/syntherra/PooDough/internal/repository"
	"github.com/syntherra/PooDough/internal/service"
	"github.com/syntherra/PooDough/internal/tasks"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connection failed")
	}
	defer redisClient.Close()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}
	defer dbPool.Close()

	notificationRepo := repository.NewNotificationRepository(dbPool)
	userRepo := repository.NewUserRepository(dbPool)
	fx := service.NewFXService(redisClient, nil, cfg.FX.RatesURL, logger)
	sender := push.NewFCMSender(nil, cfg.Push.Endpoint, cfg.Push.ServerKey)

	processor := tasks.NewProcessor(
		notificationRepo,
		userRepo,
		fx,
		sender,
		cfg.Push.Retention,
		logger,
	)
	consumer := queue.NewConsumer(
		redisClient,
		cfg.Redis.Stream,
		cfg.Redis.Group,
		cfg.Redis.Consumer,
		cfg.Queues.ClaimInterval,
		logger,
		processor,
	)

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Rates should be usable before the first scheduled refresh.
	if err := fx.Refresh(runCtx); err != nil {
		logger.Warn().Err(err).Msg("initial exchange rate fetch failed")
	}

	go func() {
		if err := consumer.Start(runCtx); err != nil && err != context.Canceled {
			logger.Fatal().Err(err).Msg("consumer stopped unexpectedly")
		}
	}()

	<-runCtx.Done()
	logger.Info().Msg("shutdown signal received")
	time.Sleep(500 * time.Millisecond)
}
