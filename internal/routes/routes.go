package routes

import (
	"net/http"
	"time"

	"bemyeyes/internal/config"
	"bemyeyes/internal/handlers"
	"bemyeyes/internal/logger"
	"bemyeyes/internal/middleware"
	"bemyeyes/internal/services"
	"bemyeyes/internal/services/storage"
	"bemyeyes/internal/services/websocket"
)

// SetupRoutes registers the API endpoints and wraps the mux with the CORS
// middleware.
func SetupRoutes(pipeline *services.Pipeline, uploads *storage.UploadStore, hub *websocket.HubService, speechDir string, cfg *config.Config, log *logger.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", handlers.HealthHandler(time.Now()))
	mux.HandleFunc("/api/detect", handlers.DetectHandler(pipeline, uploads, hub, cfg, log))
	mux.HandleFunc("/api/speech/", handlers.SpeechHandler(speechDir, log))
	mux.HandleFunc("/api/events", handlers.EventsHandler(hub, log))

	return middleware.CORS(cfg)(mux)
}
