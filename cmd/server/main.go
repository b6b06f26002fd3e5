package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/benbeisheim/uchesstactoe-backend/internal/config"
	"github.com/benbeisheim/uchesstactoe-backend/internal/controller"
	"github.com/benbeisheim/uchesstactoe-backend/internal/feed"
	"github.com/benbeisheim/uchesstactoe-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const (
	GracefulShutdownTimeout = 20 * time.Second
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	moveFeed, err := feed.New(cfg.Nats.URL, cfg.Nats.Subject)
	if err != nil {
		log.Fatal().Err(err).Msg("connecting move feed")
	}
	defer moveFeed.Close()

	roomManager := service.NewRoomManager(cfg.GameSettings(), moveFeed, cfg.Rooms.IdleTTL)
	gameService := service.NewGameService(roomManager)

	app := fiber.New(fiber.Config{
		AppName:               "uchesstactoe",
		DisableStartupMessage: true,
	})
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowedOrigins, ", "),
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: !lo.Contains(cfg.AllowedOrigins, "*"),
	}))
	controller.SetupRoutes(app, gameService, cfg.AllowedOrigins)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.Addr).Msg("listening")
		return app.Listen(cfg.Addr)
	})
	g.Go(func() error {
		err := roomManager.Run(ctx, cfg.Matchmaking.Interval)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("got quit signal...")
		return app.ShutdownWithTimeout(GracefulShutdownTimeout)
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped")
	}
	log.Info().Msg("bye")
}
