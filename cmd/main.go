package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/virtumeet/room-coordinator/internal/client"
	"github.com/virtumeet/room-coordinator/internal/config"
	"github.com/virtumeet/room-coordinator/internal/handler"
	"github.com/virtumeet/room-coordinator/internal/hub"
	"github.com/virtumeet/room-coordinator/internal/identity"
	"github.com/virtumeet/room-coordinator/internal/registry"
	"github.com/virtumeet/room-coordinator/internal/service"
	pkglog "github.com/virtumeet/room-coordinator/pkg/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("failed to load configuration")
	}

	pkglog.Init(pkglog.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty, ServiceName: "room-coordinator"})
	logger := pkglog.L()

	logger.Info().Str("host", cfg.Server.Host).Int("port", cfg.Server.Port).Msg("starting room-coordinator")

	// Event directory client; joins are trusted as pre-validated when no
	// directory is configured.
	var directory service.RoomDirectory
	if cfg.Directory.HTTPAddress != "" {
		directory = client.NewDirectoryClient(cfg.Directory.HTTPAddress, cfg.Directory.CacheTTL)
		logger.Info().Str("address", cfg.Directory.HTTPAddress).Msg("event directory client configured")
	}

	resolver := identity.NewResolver(cfg.Identity.TokenSecret)

	// Initialize hub
	wsHub := hub.NewHub(hub.Config{
		PingInterval:   cfg.WebSocket.PingInterval,
		PongWait:       cfg.WebSocket.PongWait,
		WriteWait:      cfg.WebSocket.WriteWait,
		MaxMessageSize: cfg.WebSocket.MaxMessageSize,
	})
	go wsHub.Run()

	// Initialize registry and service
	reg := registry.NewRegistry()
	roomSvc := service.NewRoomService(wsHub, reg, directory, resolver)

	// Initialize handlers
	wsHandler := handler.NewWSHandler(wsHub, roomSvc)
	httpHandler := handler.NewHTTPHandler(roomSvc)

	// Setup routes
	router := mux.NewRouter()
	router.HandleFunc("/ws", wsHandler.HandleWebSocket)
	router.HandleFunc("/api/v1/rooms/{room_id}/roster", httpHandler.GetRoster).Methods("GET")
	router.HandleFunc("/api/v1/rooms", httpHandler.GetRooms).Methods("GET")
	router.HandleFunc("/health", httpHandler.HealthCheck).Methods("GET")

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      pkglog.HTTPMiddleware(logger)(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().Str("host", cfg.Server.Host).Int("port", cfg.Server.Port).Msg("room-coordinator listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down room-coordinator")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("room-coordinator stopped")
}
