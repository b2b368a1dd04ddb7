package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hazel260802/lecole-fast-track-24/internal/api"
	"github.com/hazel260802/lecole-fast-track-24/internal/core/service"
	"github.com/hazel260802/lecole-fast-track-24/internal/infrastructure/config"
	redisinfra "github.com/hazel260802/lecole-fast-track-24/internal/infrastructure/db/redis"
	"github.com/hazel260802/lecole-fast-track-24/internal/infrastructure/db/sqlite"
	"github.com/hazel260802/lecole-fast-track-24/internal/realtime"
	"github.com/hazel260802/lecole-fast-track-24/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlite.Connect(cfg.SQLite.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.SQLite.Path).Msg("sqlite connect failed")
	}
	defer db.Close()

	if cfg.Env == "development" {
		if err := sqlite.Seed(db); err != nil {
			log.Fatal().Err(err).Msg("sqlite seed failed")
		}
	}

	rdb, err := redisinfra.Connect(ctx, redisinfra.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis connect failed")
	}
	defer rdb.Close()

	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)

	hub := realtime.NewHub(log)
	go hub.Run(ctx)

	e := api.NewRouter(db, rdb, tokens, hub, log)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
