// A headless dashboard client: connects to the push channel, keeps a
// local booking store in sync and logs what it sees. Useful for
// smoke-testing a server and as a reference for embedding the client
// core.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/roomboard/roomboard/internal/bridge"
	"github.com/roomboard/roomboard/internal/config"
	"github.com/roomboard/roomboard/internal/pushchan"
	"github.com/roomboard/roomboard/internal/seed"
	"github.com/roomboard/roomboard/internal/store"
	"github.com/roomboard/roomboard/pkg/logger"
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

	channel := pushchan.NewClient(pushchan.Config{
		URL:                  cfg.Channel.URL,
		ReconnectInterval:    cfg.Channel.ReconnectInterval,
		MaxReconnectAttempts: cfg.Channel.MaxReconnectAttempts,
	}, pushchan.NewWebsocketDialer(cfg.Channel.HandshakeTimeout), appLogger)
	defer channel.Close()

	// Locally originated mutations go out through the channel; inbound
	// ones come back through the bridge as silent applies.
	st := store.New(seed.Rooms(), seed.Doctors(), seed.Bookings(), channel, appLogger)

	cancelStatus := channel.SubscribeStatus(func(status pushchan.Status) {
		appLogger.Info().Str("status", string(status)).Msg("connection status changed")
	})
	defer cancelStatus()

	syncBridge := bridge.New(channel, st, appLogger)
	if err := syncBridge.Start(context.Background()); err != nil {
		// The bridge does not retry a failed initial connect; surface
		// it and keep running so a served dashboard can show the error
		// status.
		appLogger.Error().Err(err).Msg("initial connect failed")
	}
	defer syncBridge.Stop()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			bookings := st.Bookings()
			appLogger.Info().
				Int("bookings", len(bookings)).
				Str("status", string(syncBridge.Status())).
				Msg("store snapshot")
		case <-quit:
			log.Info().Msg("dashboard client exiting")
			return
		}
	}
}
