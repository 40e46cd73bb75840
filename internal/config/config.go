package config

import (
	"os"
	"path/filepath"
	"strconv"
)

type Config struct {
	Port           int
	ModelPath      string
	ConfigPath     string
	ClassNamesPath string

	HistoryDir string // root of persisted detection history
	ImagesDir  string // annotated images from image uploads
	VideosDir  string // annotated videos from video uploads
	LogFile    string // single JSON document holding all log entries

	LogDirectory string

	AlertThreshold      float64 // detections below this confidence raise alerts
	SampleInterval      int     // process every Nth video frame
	DetectorWorkers     int     // number of detector instances in the pool
	SubscriberQueueSize int     // per-subscriber outgoing alert queue

	PublicBaseURL string // base for media URLs returned by /history

	OllamaURL   string
	OllamaModel string
}

func Load() *Config {
	historyDir := getEnv("HISTORY_DIR", "history_logs")

	return &Config{
		Port:           getEnvAsInt("PORT", 8000),
		ModelPath:      getEnv("MODEL_PATH", filepath.Join(".", "models", "fish_detector.pb")),
		ConfigPath:     getEnv("CONFIG_PATH", filepath.Join(".", "models", "fish_detector.pbtxt")),
		ClassNamesPath: getEnv("CLASS_NAMES_PATH", filepath.Join(".", "models", "fish_classes.txt")),

		HistoryDir: historyDir,
		ImagesDir:  getEnv("IMAGES_DIR", filepath.Join(historyDir, "images")),
		VideosDir:  getEnv("VIDEOS_DIR", filepath.Join(historyDir, "videos")),
		LogFile:    getEnv("LOG_FILE", filepath.Join(historyDir, "logs.json")),

		LogDirectory: getEnv("LOG_DIR", filepath.Join(".", "logs")),

		AlertThreshold:      getEnvAsFloat("ALERT_THRESHOLD", 0.5),
		SampleInterval:      getEnvAsInt("SAMPLE_INTERVAL", 5),
		DetectorWorkers:     getEnvAsInt("DETECTOR_WORKERS", 2),
		SubscriberQueueSize: getEnvAsInt("SUBSCRIBER_QUEUE_SIZE", 16),

		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://127.0.0.1:8000"),

		OllamaURL:   getEnv("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel: getEnv("OLLAMA_MODEL", "deepseek-r1:8b"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
