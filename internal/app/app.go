package app

import (
	"fmt"
	"net/http"

	"bemyeyes/internal/config"
	"bemyeyes/internal/logger"
	"bemyeyes/internal/routes"
	"bemyeyes/internal/services"
	"bemyeyes/internal/services/ai"
	"bemyeyes/internal/services/storage"
	"bemyeyes/internal/services/tts"
	"bemyeyes/internal/services/vlm"
	"bemyeyes/internal/services/websocket"
)

// App is the composition root: it owns the configuration, the shared model
// registry and every service the pipeline is assembled from.
type App struct {
	config    *config.Config
	logger    *logger.Logger
	registry  *ai.ModelRegistry
	pipeline  *services.Pipeline
	uploads   *storage.UploadStore
	hub       *websocket.HubService
	speechDir string
}

func NewApp() (*App, error) {
	cfg := config.Load()
	log := logger.New(cfg.LogDirectory)

	registry := ai.NewModelRegistry()
	detector := ai.NewYOLODetector(registry, cfg, log)
	captioner := vlm.New(cfg, log)

	synth, err := tts.New(cfg.TTSOutputDir, cfg.TTSLanguage, log)
	if err != nil {
		return nil, fmt.Errorf("init speech synthesizer: %w", err)
	}

	uploads, err := storage.NewUploadStore(cfg.UploadDir, cfg.AllowedExtensions, cfg.MaxFileSize, log)
	if err != nil {
		return nil, fmt.Errorf("init upload store: %w", err)
	}

	pipeline := services.NewPipeline(detector, captioner, services.NewSpeechCache(synth), log)

	return &App{
		config:    cfg,
		logger:    log,
		registry:  registry,
		pipeline:  pipeline,
		uploads:   uploads,
		hub:       websocket.NewHubService(log),
		speechDir: synth.OutputDir(),
	}, nil
}

// Pipeline exposes the assembled pipeline for one-shot runs outside the
// HTTP server.
func (a *App) Pipeline() *services.Pipeline {
	return a.pipeline
}

// Config returns the loaded configuration.
func (a *App) Config() *config.Config {
	return a.config
}

// Close releases the cached model handles.
func (a *App) Close() {
	a.registry.Close()
}

// Run starts the event hub and serves HTTP until the listener fails.
func (a *App) Run() error {
	go a.hub.Run()

	router := routes.SetupRoutes(a.pipeline, a.uploads, a.hub, a.speechDir, a.config, a.logger)

	a.logger.Info("Detection service listening on :%d", a.config.Port)
	a.logger.Info("Model: %s | Speech output: %s", a.config.ModelName, a.speechDir)

	return http.ListenAndServe(fmt.Sprintf(":%d", a.config.Port), router)
}
