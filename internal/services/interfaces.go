package services

import (
	"context"

	"bemyeyes/internal/dto"
)

// Detector finds objects in an image file on disk.
//
// Implementations return the model's raw candidate set; the threshold
// parameter is passed through for engines that want it as a hint, but
// confidence filtering against the request threshold is performed by the
// Pipeline, not here. Callers must not assume the detector pre-filters.
type Detector interface {
	Detect(ctx context.Context, imagePath string, threshold float64) ([]dto.DetectedObject, error)
}

// Captioner produces an accessibility caption for an image. Enabled reports
// whether a credential is configured; when it is not, captioning is skipped
// entirely rather than treated as a failure.
type Captioner interface {
	Enabled() bool
	Caption(ctx context.Context, imagePath, objectSummary string) (string, error)
}

// Synthesizer converts text into an audio file and returns its path. Each
// call writes a fresh uniquely-named file.
type Synthesizer interface {
	Synthesize(text string) (string, error)
}

// SpeechSource is what the Pipeline consumes for the speech step. SpeechCache
// is the default implementation; the indirection keeps the no-eviction cache
// policy swappable without touching the orchestrator.
type SpeechSource interface {
	GetOrSynthesize(text string, useCache bool) (string, error)
}
