package handlers

import (
	"net/http"
	"strconv"

	"bemyeyes/internal/config"
	"bemyeyes/internal/logger"
	"bemyeyes/internal/services"
	"bemyeyes/internal/services/storage"
	"bemyeyes/internal/services/websocket"
)

// DetectHandler accepts a multipart image upload, runs the detection
// pipeline and returns the result as JSON. The uploaded file is removed
// unconditionally once the pipeline returns, on success and on failure.
func DetectHandler(pipeline *services.Pipeline, uploads *storage.UploadStore, hub *websocket.HubService, cfg *config.Config, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		if err := r.ParseMultipartForm(cfg.MaxFileSize); err != nil {
			writeError(w, http.StatusBadRequest, "failed to parse multipart form")
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "no image file provided, use 'file' as the form field name")
			return
		}
		defer file.Close()

		confidence := cfg.DefaultConfidence
		if raw := r.URL.Query().Get("confidence"); raw != "" {
			parsed, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "confidence must be a number")
				return
			}
			confidence = cfg.ClampConfidence(parsed)
		}

		path, err := uploads.Save(header.Filename, file, header.Size)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		defer uploads.Remove(path)

		result := pipeline.Run(r.Context(), path, confidence)

		if hub != nil {
			hub.BroadcastEvent(websocket.Event{
				Success:        result.Success,
				Caption:        result.Caption,
				TotalObjects:   result.TotalObjects,
				ProcessingTime: result.ProcessingTime,
			})
		}

		status := http.StatusOK
		if !result.Success {
			// Detection failure is the one internal error surfaced as a
			// server error; the body is still the structured result.
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, result)
	}
}
