package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"bemyeyes/internal/config"
	"bemyeyes/internal/dto"
	"bemyeyes/internal/logger"
	"bemyeyes/internal/services"
	"bemyeyes/internal/services/storage"
)

type stubDetector struct {
	objects   []dto.DetectedObject
	err       error
	threshold float64
}

func (d *stubDetector) Detect(ctx context.Context, imagePath string, threshold float64) ([]dto.DetectedObject, error) {
	d.threshold = threshold
	if d.err != nil {
		return nil, d.err
	}
	return d.objects, nil
}

type disabledCaptioner struct{}

func (disabledCaptioner) Enabled() bool { return false }
func (disabledCaptioner) Caption(ctx context.Context, imagePath, objectSummary string) (string, error) {
	return "", nil
}

type noopSpeech struct{}

func (noopSpeech) GetOrSynthesize(text string, useCache bool) (string, error) { return "", nil }

func testConfig() *config.Config {
	return &config.Config{
		DefaultConfidence: 0.5,
		MinConfidence:     0.0,
		MaxConfidence:     1.0,
		MaxFileSize:       1 << 20,
	}
}

func newDetectServer(t *testing.T, detector services.Detector) (http.HandlerFunc, string) {
	t.Helper()

	log := logger.New(t.TempDir())
	uploadDir := t.TempDir()
	uploads, err := storage.NewUploadStore(uploadDir, []string{".png", ".jpg"}, 1<<20, log)
	require.NoError(t, err)

	pipeline := services.NewPipeline(detector, disabledCaptioner{}, noopSpeech{}, log)
	return DetectHandler(pipeline, uploads, nil, testConfig(), log), uploadDir
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestDetectHandler_Success(t *testing.T) {
	detector := &stubDetector{objects: []dto.DetectedObject{
		{Object: "person", Position: dto.PositionLeft, Confidence: 0.9},
		{Object: "cat", Position: dto.PositionCenter, Confidence: 0.3},
	}}
	handler, uploadDir := newDetectServer(t, detector)

	body, contentType := multipartBody(t, "file", "photo.png", []byte("fake png"))
	req := httptest.NewRequest(http.MethodPost, "/api/detect", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result dto.DetectionResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	require.True(t, result.Success)
	require.Equal(t, 2, result.OriginalCount)
	require.Equal(t, 1, result.TotalObjects)
	require.Equal(t, "person", result.Objects[0].Object)

	entries, err := os.ReadDir(uploadDir)
	require.NoError(t, err)
	require.Empty(t, entries, "uploaded file must be removed after the request")
}

func TestDetectHandler_DetectionFailure(t *testing.T) {
	detector := &stubDetector{err: errors.New("model missing")}
	handler, uploadDir := newDetectServer(t, detector)

	body, contentType := multipartBody(t, "file", "photo.png", []byte("fake png"))
	req := httptest.NewRequest(http.MethodPost, "/api/detect", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var result dto.DetectionResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	require.False(t, result.Success)
	require.NotEmpty(t, result.Error)
	require.NotNil(t, result.Objects)

	entries, err := os.ReadDir(uploadDir)
	require.NoError(t, err)
	require.Empty(t, entries, "cleanup must run even when the pipeline fails")
}

func TestDetectHandler_ConfidenceQuery(t *testing.T) {
	detector := &stubDetector{}
	handler, _ := newDetectServer(t, detector)

	body, contentType := multipartBody(t, "file", "photo.png", []byte("fake png"))
	req := httptest.NewRequest(http.MethodPost, "/api/detect?confidence=0.8", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 0.8, detector.threshold)
}

func TestDetectHandler_ConfidenceClamped(t *testing.T) {
	detector := &stubDetector{}
	handler, _ := newDetectServer(t, detector)

	body, contentType := multipartBody(t, "file", "photo.png", []byte("fake png"))
	req := httptest.NewRequest(http.MethodPost, "/api/detect?confidence=7.5", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1.0, detector.threshold)
}

func TestDetectHandler_InvalidConfidence(t *testing.T) {
	handler, _ := newDetectServer(t, &stubDetector{})

	body, contentType := multipartBody(t, "file", "photo.png", []byte("fake png"))
	req := httptest.NewRequest(http.MethodPost, "/api/detect?confidence=very", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDetectHandler_MissingFile(t *testing.T) {
	handler, _ := newDetectServer(t, &stubDetector{})

	body, contentType := multipartBody(t, "wrong_field", "photo.png", []byte("fake png"))
	req := httptest.NewRequest(http.MethodPost, "/api/detect", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDetectHandler_BadExtension(t *testing.T) {
	handler, uploadDir := newDetectServer(t, &stubDetector{})

	body, contentType := multipartBody(t, "file", "script.exe", []byte("mz"))
	req := httptest.NewRequest(http.MethodPost, "/api/detect", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	entries, err := os.ReadDir(uploadDir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestDetectHandler_MethodNotAllowed(t *testing.T) {
	handler, _ := newDetectServer(t, &stubDetector{})

	req := httptest.NewRequest(http.MethodGet, "/api/detect", nil)
	rec := httptest.NewRecorder()

	handler(rec, req)

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
