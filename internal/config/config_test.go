package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "yolov8n.onnx", cfg.ModelName)
	require.Equal(t, 0.5, cfg.DefaultConfidence)
	require.Equal(t, []string{".png", ".jpg", ".jpeg"}, cfg.AllowedExtensions)
	require.Equal(t, int64(10<<20), cfg.MaxFileSize)
	require.Equal(t, "en", cfg.TTSLanguage)
	require.Equal(t, []string{"*"}, cfg.CORSOrigins)
	require.Equal(t, 30, cfg.CaptionTimeoutSeconds)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DEFAULT_CONFIDENCE", "0.7")
	t.Setenv("ALLOWED_EXTENSIONS", ".png, .webp")
	t.Setenv("MAX_FILE_SIZE", "2048")
	t.Setenv("CORS_CREDENTIALS", "true")

	cfg := Load()

	require.Equal(t, 9000, cfg.Port)
	require.Equal(t, 0.7, cfg.DefaultConfidence)
	require.Equal(t, []string{".png", ".webp"}, cfg.AllowedExtensions)
	require.Equal(t, int64(2048), cfg.MaxFileSize)
	require.True(t, cfg.CORSCredentials)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	t.Setenv("DEFAULT_CONFIDENCE", "high")
	t.Setenv("CORS_CREDENTIALS", "yep")

	cfg := Load()

	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 0.5, cfg.DefaultConfidence)
	require.False(t, cfg.CORSCredentials)
}

func TestClampConfidence(t *testing.T) {
	cfg := &Config{MinConfidence: 0.1, MaxConfidence: 0.9}

	require.Equal(t, 0.1, cfg.ClampConfidence(-1))
	require.Equal(t, 0.1, cfg.ClampConfidence(0.05))
	require.Equal(t, 0.5, cfg.ClampConfidence(0.5))
	require.Equal(t, 0.9, cfg.ClampConfidence(0.95))
	require.Equal(t, 0.9, cfg.ClampConfidence(2))
}
