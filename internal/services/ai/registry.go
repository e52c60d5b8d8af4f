package ai

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"bemyeyes/internal/services"
)

// Handle is a loaded detection model retained for the process lifetime.
type Handle interface {
	Close() error
}

// ModelRegistry caches loaded model handles by model name. The mutex is held
// across the load itself so concurrent first requests for the same model
// perform exactly one load.
type ModelRegistry struct {
	mu      sync.Mutex
	handles map[string]Handle
}

func NewModelRegistry() *ModelRegistry {
	return &ModelRegistry{handles: make(map[string]Handle)}
}

// Load returns the cached handle for name, invoking load to create it on
// first use.
func (r *ModelRegistry) Load(name string, load func() (Handle, error)) (Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if h, ok := r.handles[name]; ok {
		return h, nil
	}

	h, err := load()
	if err != nil {
		return nil, err
	}
	r.handles[name] = h
	return h, nil
}

// Close releases every cached handle.
func (r *ModelRegistry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, h := range r.handles {
		_ = h.Close()
		delete(r.handles, name)
	}
}

// ResolveModelPath locates a model file by name, trying the name itself, the
// conventional models/yolo directory and the configured model directory, in
// that order.
func ResolveModelPath(name, modelDir string) (string, error) {
	candidates := []string{
		name,
		filepath.Join("models", "yolo", name),
		filepath.Join(modelDir, name),
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: model file %q not found in any of %v", services.ErrModelLoad, name, candidates)
}
