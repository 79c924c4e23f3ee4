package api

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/slotmachine-go/internal/api/handler"
	"github.com/mcoot/slotmachine-go/internal/api/middleware"
	"github.com/mcoot/slotmachine-go/internal/api/response"
	"github.com/mcoot/slotmachine-go/internal/metrics"
	"github.com/mcoot/slotmachine-go/internal/services/cooldown"
	"github.com/mcoot/slotmachine-go/internal/services/recorder"
	"github.com/mcoot/slotmachine-go/internal/services/registry"
	"github.com/mcoot/slotmachine-go/internal/services/reporting"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger    *slog.Logger
	Metrics   *metrics.Recorder // optional; /metrics is served when set
	Registry  *registry.Service
	Cooldown  *cooldown.Service
	Recorder  *recorder.Service
	Reporting *reporting.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	r := mux.NewRouter()

	// Create handlers
	playerHandler := handler.NewPlayerHandler(cfg.Registry, cfg.Cooldown)
	gameHandler := handler.NewGameHandler(cfg.Recorder)
	reportHandler := handler.NewReportHandler(cfg.Reporting)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))
	api.Use(middleware.Metrics(cfg.Metrics))

	// Players
	api.HandleFunc("/register-user", playerHandler.RegisterUser).Methods(http.MethodPost)
	api.HandleFunc("/users", playerHandler.ListUsers).Methods(http.MethodGet)
	api.HandleFunc("/validate-player", playerHandler.ValidatePlayer).Methods(http.MethodGet)

	// Games
	api.HandleFunc("/save-game", gameHandler.SaveGame).Methods(http.MethodPost)

	// Reports
	api.HandleFunc("/games", reportHandler.Games).Methods(http.MethodGet)
	api.HandleFunc("/winners", reportHandler.Winners).Methods(http.MethodGet)
	api.HandleFunc("/recent-players", reportHandler.RecentPlayers).Methods(http.MethodGet)
	api.HandleFunc("/stats", reportHandler.Stats).Methods(http.MethodGet)
	api.HandleFunc("/audit", reportHandler.Audit).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)
	}

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.HealthResponse{Status: "ok"})
}
