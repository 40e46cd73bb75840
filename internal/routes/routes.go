package routes

import (
	"net/http"

	"fishwatch/internal/broadcast"
	"fishwatch/internal/config"
	"fishwatch/internal/detect"
	"fishwatch/internal/handlers"
	"fishwatch/internal/history"
	"fishwatch/internal/logger"
	"fishwatch/internal/middleware"
	"fishwatch/internal/qa"
	"fishwatch/internal/stats"
	"fishwatch/internal/storage"
)

// Services bundles the components the HTTP surface depends on.
type Services struct {
	Pipeline *detect.Pipeline
	Video    *detect.VideoProcessor
	Hub      *broadcast.Hub
	Stats    *stats.Aggregator
	Store    *history.Store
	History  *history.Engine
	Media    *storage.MediaStore
	QA       *qa.Client
}

// SetupRoutes registers the API endpoints, the persisted media file server,
// and wraps the mux with the CORS middleware.
func SetupRoutes(svc *Services, cfg *config.Config, log *logger.Logger) http.Handler {
	mux := http.NewServeMux()

	// Persisted annotated media
	mux.Handle("/history_logs/", http.StripPrefix("/history_logs/", http.FileServer(http.Dir(cfg.HistoryDir))))

	// Live stream ingress + alert subscription
	mux.HandleFunc("/ws/detection", handlers.LiveDetectionHandler(svc.Pipeline, svc.Hub, log))

	// Upload endpoints
	mux.HandleFunc("/upload/image", handlers.UploadImageHandler(svc.Pipeline, svc.Media, svc.Store, log))
	mux.HandleFunc("/upload/video", handlers.UploadVideoHandler(svc.Video, svc.Media, svc.Store, log))

	// Query endpoints
	mux.HandleFunc("/history", handlers.HistoryHandler(svc.History, log))
	mux.HandleFunc("/dashboard", handlers.DashboardHandler(svc.Stats, log))

	// Question answering
	mux.HandleFunc("/ask-question", handlers.AskQuestionHandler(svc.QA, svc.Stats, log))

	return middleware.CORS(mux)
}
