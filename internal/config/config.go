package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port int

	// Detection
	ModelName         string
	ModelDir          string
	DefaultConfidence float64
	MinConfidence     float64
	MaxConfidence     float64

	// Vision-language captioning
	OpenRouterAPIKey      string
	VLMAPIURL             string
	VLMModelName          string
	CaptionTimeoutSeconds int

	// Speech synthesis
	TTSOutputDir string
	TTSLanguage  string

	// Uploads
	UploadDir         string
	AllowedExtensions []string
	MaxFileSize       int64

	// CORS
	CORSOrigins     []string
	CORSMethods     []string
	CORSHeaders     []string
	CORSCredentials bool

	LogDirectory string
}

func Load() *Config {
	// Missing .env is fine, the environment may already be populated.
	_ = godotenv.Load()

	return &Config{
		Port: getEnvAsInt("PORT", 8080),

		ModelName:         getEnv("YOLO_MODEL_NAME", "yolov8n.onnx"),
		ModelDir:          getEnv("MODEL_DIR", filepath.Join(".", "models", "yolo")),
		DefaultConfidence: getEnvAsFloat("DEFAULT_CONFIDENCE", 0.5),
		MinConfidence:     getEnvAsFloat("MIN_CONFIDENCE", 0.0),
		MaxConfidence:     getEnvAsFloat("MAX_CONFIDENCE", 1.0),

		OpenRouterAPIKey:      getEnv("OPENROUTER_API_KEY", ""),
		VLMAPIURL:             getEnv("VLM_API_URL", "https://openrouter.ai/api/v1"),
		VLMModelName:          getEnv("VLM_MODEL_NAME", "meta-llama/llama-3.2-11b-vision-instruct"),
		CaptionTimeoutSeconds: getEnvAsInt("CAPTION_TIMEOUT", 30),

		TTSOutputDir: getEnv("TTS_OUTPUT_DIR", filepath.Join(".", "tts_output")),
		TTSLanguage:  getEnv("TTS_LANGUAGE", "en"),

		UploadDir:         getEnv("UPLOAD_FOLDER", filepath.Join(".", "uploads")),
		AllowedExtensions: getEnvAsList("ALLOWED_EXTENSIONS", []string{".png", ".jpg", ".jpeg"}),
		MaxFileSize:       getEnvAsInt64("MAX_FILE_SIZE", 10<<20),

		CORSOrigins:     getEnvAsList("CORS_ORIGINS", []string{"*"}),
		CORSMethods:     getEnvAsList("CORS_METHODS", []string{"GET", "POST", "OPTIONS"}),
		CORSHeaders:     getEnvAsList("CORS_HEADERS", []string{"Content-Type"}),
		CORSCredentials: getEnvAsBool("CORS_CREDENTIALS", false),

		LogDirectory: getEnv("LOG_DIR", filepath.Join(".", "logs")),
	}
}

// ClampConfidence forces a requested threshold into the configured bounds.
func (c *Config) ClampConfidence(v float64) float64 {
	if v < c.MinConfidence {
		return c.MinConfidence
	}
	if v > c.MaxConfidence {
		return c.MaxConfidence
	}
	return v
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

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
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

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
