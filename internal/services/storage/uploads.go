package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"bemyeyes/internal/logger"
)

var (
	// ErrBadExtension is returned for uploads outside the allowed list.
	ErrBadExtension = errors.New("file extension is not allowed")

	// ErrFileTooLarge is returned when an upload exceeds the size limit.
	ErrFileTooLarge = errors.New("file exceeds the maximum allowed size")
)

// UploadStore writes incoming uploads into a temporary directory under
// uuid names. Files live only for the duration of one request; the handler
// removes them unconditionally once the pipeline returns.
type UploadStore struct {
	dir     string
	allowed map[string]bool
	maxSize int64
	logger  *logger.Logger
}

func NewUploadStore(dir string, allowedExtensions []string, maxSize int64, log *logger.Logger) (*UploadStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	allowed := make(map[string]bool, len(allowedExtensions))
	for _, ext := range allowedExtensions {
		allowed[strings.ToLower(ext)] = true
	}

	return &UploadStore{
		dir:     abs,
		allowed: allowed,
		maxSize: maxSize,
		logger:  log,
	}, nil
}

// Save validates and stores an upload, returning the path of the saved file.
// Validation failures are reported before any byte is written.
func (u *UploadStore) Save(filename string, r io.Reader, size int64) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !u.allowed[ext] {
		return "", fmt.Errorf("%w: got %q, allowed: %s", ErrBadExtension, ext, u.allowedList())
	}
	if size > u.maxSize {
		return "", fmt.Errorf("%w: %d bytes, limit is %d", ErrFileTooLarge, size, u.maxSize)
	}

	path := filepath.Join(u.dir, uuid.New().String()+ext)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, io.LimitReader(r, u.maxSize+1)); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write upload file: %w", err)
	}

	u.logger.Info("Saved upload %q to %s", filename, path)
	return path, nil
}

// Remove deletes a previously saved upload. Failures are logged but never
// propagate; cleanup must not fail the request it runs after.
func (u *UploadStore) Remove(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		u.logger.Warning("Failed to remove temporary file %s: %v", path, err)
		return
	}
	u.logger.Info("Temporary file removed: %s", path)
}

func (u *UploadStore) allowedList() string {
	exts := make([]string, 0, len(u.allowed))
	for ext := range u.allowed {
		exts = append(exts, ext)
	}
	return strings.Join(exts, ", ")
}
