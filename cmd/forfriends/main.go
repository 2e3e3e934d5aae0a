package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"forfriends-bot/internal/bot"
	"forfriends-bot/internal/config"
	"forfriends-bot/internal/session"
	"forfriends-bot/pkg/api"
	"forfriends-bot/pkg/logger"
	"forfriends-bot/pkg/redis"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// ENTRY POINT

func main() {
	zapLogger, err := logger.New()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	cfg, err := config.Load()
	if err != nil {
		zapLogger.Fatal("Failed to load config", zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	redisClient := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer redisClient.Close()

	// Redis may come up after the bot in compose; retry the initial ping.
	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = 2 * time.Minute

	err = backoff.RetryNotify(
		func() error { return redisClient.Ping(ctx) },
		backoff.WithContext(retryPolicy, ctx),
		func(err error, next time.Duration) {
			zapLogger.Warn("Redis not ready, retrying",
				zap.Duration("next_attempt_in", next),
				zap.Error(err))
		},
	)
	if err != nil {
		zapLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	sessions := session.NewStore(redisClient)

	apiClient, err := api.NewClient(
		cfg.APIBaseURL,
		cfg.FlushCookiesURL,
		sessions,
		cfg.HTTPRequestTimeout,
		zapLogger,
	)
	if err != nil {
		zapLogger.Fatal("Failed to create API client", zap.Error(err))
	}

	stateStorage := bot.NewStateStorage(redisClient, cfg.FlowStateTTL)

	tgBot, err := bot.New(cfg, apiClient, sessions, stateStorage, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to create bot", zap.Error(err))
	}

	if err := tgBot.Start(ctx); err != nil {
		zapLogger.Fatal("Bot stopped with error", zap.Error(err))
	}

	zapLogger.Info("Bot shutdown gracefully")
}
