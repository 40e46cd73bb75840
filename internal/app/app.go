package app

import (
	"fmt"
	"net/http"

	"fishwatch/internal/broadcast"
	"fishwatch/internal/config"
	"fishwatch/internal/detect"
	"fishwatch/internal/history"
	"fishwatch/internal/logger"
	"fishwatch/internal/qa"
	"fishwatch/internal/routes"
	"fishwatch/internal/stats"
	"fishwatch/internal/storage"
)

type App struct {
	config   *config.Config
	logger   *logger.Logger
	pool     *detect.Pool
	services *routes.Services
}

// New loads configuration and wires every component together.
func New() (*App, error) {
	cfg := config.Load()
	log := logger.New(cfg.LogDirectory)

	hub := broadcast.NewHub(cfg.SubscriberQueueSize, log)
	aggregator := stats.New()
	store := history.NewStore(cfg.LogFile, log)
	engine := history.NewEngine(store, cfg.PublicBaseURL)

	media, err := storage.NewMediaStore(cfg.ImagesDir, cfg.VideosDir, log)
	if err != nil {
		return nil, err
	}

	pool, err := detect.NewPool(cfg.DetectorWorkers, func() (detect.Detector, error) {
		return detect.NewDNNDetector(cfg.ModelPath, cfg.ConfigPath, cfg.ClassNamesPath, log)
	})
	if err != nil {
		return nil, fmt.Errorf("initialize detector pool: %w", err)
	}

	pipeline := detect.NewPipeline(pool, detect.NewTranslator(), detect.NewAnnotator(cfg.AlertThreshold), aggregator, hub, cfg.AlertThreshold, log)
	video := detect.NewVideoProcessor(pipeline, cfg.SampleInterval, log)

	return &App{
		config: cfg,
		logger: log,
		pool:   pool,
		services: &routes.Services{
			Pipeline: pipeline,
			Video:    video,
			Hub:      hub,
			Stats:    aggregator,
			Store:    store,
			History:  engine,
			Media:    media,
			QA:       qa.NewClient(cfg.OllamaURL, cfg.OllamaModel, log),
		},
	}, nil
}

func (a *App) Run() error {
	router := routes.SetupRoutes(a.services, a.config, a.logger)

	fmt.Printf("Fishwatch detection server\n")
	fmt.Printf("URL:     http://localhost:%d\n", a.config.Port)
	fmt.Printf("History: %s\n", a.config.HistoryDir)
	fmt.Printf("Model:   %s\n", a.config.ModelPath)

	a.logger.Info("Server listening on :%d", a.config.Port)
	return http.ListenAndServe(fmt.Sprintf(":%d", a.config.Port), router)
}

// Close releases detector instances and log files.
func (a *App) Close() {
	a.pool.Close()
	a.logger.Close()
}
