package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"smart_horses/internal/bootstrap"
	gameDelivery "smart_horses/internal/delivery/game"
	ownMiddleware "smart_horses/internal/middleware"
)

type mainDeliveryHandler struct {
	game *gameDelivery.GameHandler
}

func main() {
	logger := NewLogger()
	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		logger.Error("Failed to setup configuration", zap.Error(err))
		return
	}

	r := chi.NewRouter()
	handlers := &mainDeliveryHandler{
		game: gameDelivery.NewGameHandler(*cfg, logger),
	}
	handlers.Router(r, cfg.IsLocalCors)

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		logger.Infof("Server is running on port %s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	handleShutdown(server, logger)
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

func (h *mainDeliveryHandler) Router(r *chi.Mux, isLocalCors bool) {
	if isLocalCors {
		r.Use(ownMiddleware.CORS)
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.game.HandleHealth)
	r.Get("/api/game/info", h.game.HandleInfo)
	r.Post("/api/game/new", h.game.HandleNewGame)
	r.Post("/api/game/move", h.game.HandlePlayerMove)
	r.Post("/api/game/machine-move", h.game.HandleMachineMove)
	r.Post("/api/game/valid-moves", h.game.HandleValidMoves)
	r.Post("/api/game/statistics", h.game.HandleStatistics)
	r.Get("/api/game/watch", h.game.HandleWatchGame)
}

func handleShutdown(server *http.Server, log *zap.SugaredLogger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("Received shutdown signal")

	// дать время дописать ответы и закрыть соединения
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
}
