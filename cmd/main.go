package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/kmadiyev/kumite/brackets"
	"github.com/kmadiyev/kumite/config"
	"github.com/kmadiyev/kumite/db"
	"github.com/kmadiyev/kumite/handlers"
	"github.com/kmadiyev/kumite/repositories"
	api "github.com/kmadiyev/kumite/routes"
	"github.com/kmadiyev/kumite/services"
	_ "github.com/lib/pq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	hub := brackets.NewHub(logger)
	go hub.Run()
	logger.Info("websocket hub started")

	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	participantRepo := repositories.NewPostgresParticipantRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	txRunner := repositories.NewTxRunner(dbConn)

	shuffle := brackets.RandomShuffle(cfg.ShuffleSeed)
	tournamentService := services.NewTournamentService(
		txRunner, tournamentRepo, participantRepo, matchRepo, shuffle, hub, logger)
	matchService := services.NewMatchService(
		txRunner, matchRepo, tournamentRepo, participantRepo, services.NoopCommentary{}, hub, logger)
	bracketService := services.NewBracketService(tournamentRepo, participantRepo, matchRepo)

	tournamentHandler := handlers.NewTournamentHandler(tournamentService, bracketService)
	matchHandler := handlers.NewMatchHandler(matchService)
	webSocketHandler := handlers.NewWebSocketHandler(hub, logger)

	router := chi.NewRouter()
	api.SetupRoutes(router, []byte(cfg.JWTSecretKey), tournamentHandler, matchHandler, webSocketHandler)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
}
