package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/teamplan-app/teamplan/internal/config"
	"github.com/teamplan-app/teamplan/internal/infrastructure/repository/memory"
	"github.com/teamplan-app/teamplan/internal/interfaces/httpapi"
	"github.com/teamplan-app/teamplan/internal/interfaces/wsapi"
	"github.com/teamplan-app/teamplan/internal/realtime"
	"github.com/teamplan-app/teamplan/internal/usecase"
)

// App bundles the pieces main has to run and stop: the HTTP server, the
// request router goroutine, and the session hub.
type App struct {
	Server *http.Server
	Router *realtime.Router
	Hub    *realtime.Hub
}

func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	seed := cfg.IDSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	teamRepo := memory.NewTeamRepository(seed)

	teamSvc := usecase.NewTeamService(teamRepo)
	matchSvc := usecase.NewMatchService(teamRepo)
	availabilitySvc := usecase.NewAvailabilityService(teamRepo)

	hub, err := realtime.NewHub(cfg.BroadcastWorkers, logger)
	if err != nil {
		return nil, fmt.Errorf("build hub: %w", err)
	}

	router := realtime.NewRouter(teamSvc, matchSvc, availabilitySvc, hub, cfg.RequestQueueSize, logger)

	wsHandler := wsapi.NewHandler(hub, router, wsapi.Config{
		SendBuffer:      cfg.WSSendBuffer,
		MaxMessageBytes: cfg.WSMaxMessageBytes,
		WriteTimeout:    cfg.WSWriteTimeout,
		PingInterval:    cfg.WSPingInterval,
		ReadTimeout:     cfg.WSReadTimeout,
	}, logger)

	handler := httpapi.NewHandler(teamSvc, logger)
	httpRouter := httpapi.NewRouter(handler, wsHandler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpRouter,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{Server: server, Router: router, Hub: hub}, nil
}
