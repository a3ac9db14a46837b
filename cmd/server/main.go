package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/roomboard/roomboard/internal/config"
	"github.com/roomboard/roomboard/internal/handler"
	bookingHandler "github.com/roomboard/roomboard/internal/handler/booking"
	doctorHandler "github.com/roomboard/roomboard/internal/handler/doctor"
	notificationHandler "github.com/roomboard/roomboard/internal/handler/notification"
	occupancyHandler "github.com/roomboard/roomboard/internal/handler/occupancy"
	roomHandler "github.com/roomboard/roomboard/internal/handler/room"
	"github.com/roomboard/roomboard/internal/hub"
	"github.com/roomboard/roomboard/internal/middleware"
	"github.com/roomboard/roomboard/internal/router"
	"github.com/roomboard/roomboard/internal/seed"
	occupancyService "github.com/roomboard/roomboard/internal/service/occupancy"
	"github.com/roomboard/roomboard/internal/store"
	"github.com/roomboard/roomboard/pkg/logger"
	"github.com/roomboard/roomboard/pkg/messaging"
	redisbroker "github.com/roomboard/roomboard/pkg/messaging/redis"
	"github.com/roomboard/roomboard/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(&logger.Config{
		Level:      logger.ParseLevel(cfg.Log.Level),
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
	})

	// Broker: Redis when configured, otherwise single-node.
	var broker messaging.Broker = messaging.NopBroker{}
	if cfg.Redis.Enabled {
		broker, err = redisbroker.NewBroker(redisbroker.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   3,
			RetryBackoff: 100 * time.Millisecond,
			PoolSize:     10,
			MinIdleConns: 2,
		}, appLogger)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
	}
	defer broker.Close()

	m := metrics.New("roomboard", "hub")
	pushHub := hub.New(broker, cfg.Redis.Channel, m, appLogger)

	// The server holds the authoritative store; the hub broadcasts its
	// mutations to every connected dashboard.
	st := store.New(seed.Rooms(), seed.Doctors(), seed.Bookings(), pushHub, appLogger)
	occupancySvc := occupancyService.NewService(st, cfg.Occupancy.TTL)

	runCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	go func() {
		if err := pushHub.Run(runCtx); err != nil {
			log.Error().Err(err).Msg("hub broker subscription failed")
		}
	}()

	h := handler.NewHandler()
	r := router.NewRouter(
		bookingHandler.NewHandler(st),
		roomHandler.NewHandler(st),
		doctorHandler.NewHandler(st),
		notificationHandler.NewHandler(st),
		occupancyHandler.NewHandler(occupancySvc),
		pushHub.HandleWS,
		h,
		router.RouterConfig{
			RateLimit:     100,
			RateBurst:     200,
			CORSConfig:    middleware.DefaultCORSConfig(),
			MetricsPrefix: "roomboard",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
