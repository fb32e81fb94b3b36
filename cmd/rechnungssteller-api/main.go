package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/JoshiWorld/rechnungssteller-api/internal/article"
	"github.com/JoshiWorld/rechnungssteller-api/internal/auth"
	"github.com/JoshiWorld/rechnungssteller-api/internal/config"
	"github.com/JoshiWorld/rechnungssteller-api/internal/db"
	handlerHttp "github.com/JoshiWorld/rechnungssteller-api/internal/handler/http"
	"github.com/JoshiWorld/rechnungssteller-api/internal/invoice"
	"github.com/JoshiWorld/rechnungssteller-api/internal/mailer"
	"github.com/JoshiWorld/rechnungssteller-api/internal/master"
	"github.com/JoshiWorld/rechnungssteller-api/internal/order"
	"github.com/JoshiWorld/rechnungssteller-api/internal/user"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && level != zerolog.NoLevel {
		zerolog.SetGlobalLevel(level)
	}

	log.Info().Msg("Starting rechnungssteller-api...")

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	ctx := context.Background()

	dbPool, err := db.New(ctx, cfg.Postgres)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	if err := dbPool.ApplyMigrations(cfg.Postgres); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}

	tokens := auth.NewManager(cfg.App.JWTSecret, cfg.App.TokenTTL)

	userRepo := user.NewRepository(dbPool.Pool)
	userSvc := user.NewService(userRepo)

	articleRepo := article.NewRepository(dbPool.Pool)
	articleSvc := article.NewService(articleRepo)

	orderRepo := order.NewRepository(dbPool.Pool)
	orderSvc := order.NewService(orderRepo)

	masterRepo := master.NewRepository(dbPool.Pool)
	masterSvc := master.NewService(masterRepo, tokens)

	renderer := invoice.NewRenderer(cfg.Invoice)
	dispatcher, err := mailer.NewDispatcher(cfg.SMTP, renderer)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create mail dispatcher")
	}

	router := handlerHttp.NewRouter(tokens,
		handlerHttp.NewOrderHandler(orderSvc, dispatcher),
		handlerHttp.NewUserHandler(userSvc),
		handlerHttp.NewArticleHandler(articleSvc),
		handlerHttp.NewMasterHandler(masterSvc),
	)

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	<-stopCh

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("Server stopped gracefully")
}
