package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lampions/internal/app"
	"lampions/internal/config"
	"lampions/internal/log"
	"lampions/internal/relay"
)

func main() {
	var (
		listenAddr = flag.String("listen", ":8080", "HTTP listen address")
		configPath = flag.String("config", "", "config file (default ~/.config/lampions/config.json)")
		passphrase = flag.String("passphrase", "", "passphrase for sealed credentials (env LAMPIONS_PASSPHRASE)")
		redisAddr  = flag.String("redis", "", "optional Redis address for the route cache")
		logLevel   = flag.String("log-level", "info", "log level (trace, debug, info, warn, error)")
		messageID  = flag.String("message-id", "", "process a single inbox message and exit")
	)
	flag.Parse()

	logger := log.New("lampions-relay", *logLevel, os.Stderr)

	if *configPath == "" {
		path, err := config.DefaultPath()
		if err != nil {
			logger.Fatal().Err(err).Msg("resolve config path")
		}
		*configPath = path
	}
	if *passphrase == "" {
		*passphrase = os.Getenv("LAMPIONS_PASSPHRASE")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := app.NewWire(ctx, app.Config{
		ConfigPath: *configPath,
		Passphrase: *passphrase,
		RedisAddr:  *redisAddr,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("wire dependencies")
	}

	forwarder := relay.NewForwarder(
		w.Messages, w.Routes, w.RecipientSvc, w.Mailer, w.Config.Domain,
		log.WithComponent(logger, "forwarder"),
	)

	if *messageID != "" {
		result, err := forwarder.HandleMessage(ctx, *messageID)
		if err != nil {
			logger.Fatal().Err(err).Str("message_id", *messageID).Msg("delivery failed")
		}
		logger.Info().
			Str("delivery_id", result.DeliveryID).
			Str("path", result.Path).
			Str("destination", result.Destination).
			Msg("delivered")
		return
	}

	server := relay.NewServer(forwarder, relay.NewMetrics(), log.WithComponent(logger, "http"))
	srv := &http.Server{
		Addr:              *listenAddr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown")
		}
	}()

	logger.Info().Str("addr", *listenAddr).Str("domain", w.Config.Domain).Msg("relay listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("serve")
	}
}
