package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"bemyeyes/internal/logger"
)

// SpeechHandler serves previously generated speech files by base name.
// Only plain file names are accepted; anything resembling a path is
// rejected before touching the filesystem.
func SpeechHandler(outputDir string, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		name := strings.TrimPrefix(r.URL.Path, "/api/speech/")
		if name == "" || strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
			writeError(w, http.StatusBadRequest, "invalid speech file name")
			return
		}

		path := filepath.Join(outputDir, name)
		if _, err := os.Stat(path); err != nil {
			writeError(w, http.StatusNotFound, "speech file not found")
			return
		}

		w.Header().Set("Content-Type", "audio/mpeg")
		http.ServeFile(w, r, path)
	}
}
