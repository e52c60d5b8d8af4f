package services

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"bemyeyes/internal/dto"
	"bemyeyes/internal/logger"
)

// Pipeline runs the per-request detection workflow: detect, filter, caption,
// speak. Detection is the critical path; captioning and speech are
// best-effort enhancements whose failures degrade to absent fields instead
// of failing the request.
type Pipeline struct {
	detector  Detector
	captioner Captioner
	speech    SpeechSource
	logger    *logger.Logger
}

func NewPipeline(detector Detector, captioner Captioner, speech SpeechSource, log *logger.Logger) *Pipeline {
	return &Pipeline{
		detector:  detector,
		captioner: captioner,
		speech:    speech,
		logger:    log,
	}
}

// Run executes the pipeline for one image and always returns a well-formed
// result. The steps run strictly sequentially; each depends on the previous
// step's output.
func (p *Pipeline) Run(ctx context.Context, imagePath string, threshold float64) *dto.DetectionResult {
	start := time.Now()

	raw, err := p.detector.Detect(ctx, imagePath, threshold)
	if err != nil {
		p.logger.Error("Detection failed for %s: %v", imagePath, err)
		return &dto.DetectionResult{
			Success:        false,
			Objects:        []dto.DetectedObject{},
			ProcessingTime: time.Since(start).Seconds(),
			Error:          err.Error(),
		}
	}

	objects := FilterByConfidence(raw, threshold)

	var caption string
	if p.captioner != nil && p.captioner.Enabled() {
		caption, err = p.captioner.Caption(ctx, imagePath, SummarizeObjects(objects))
		if err != nil {
			p.logger.Error("Caption generation failed: %v", err)
			caption = ""
		}
	}

	var speech *dto.SpeechInfo
	if caption != "" {
		path, err := p.speech.GetOrSynthesize(caption, true)
		if err != nil {
			p.logger.Error("Speech synthesis failed: %v", err)
		} else if info, statErr := os.Stat(path); statErr == nil {
			speech = &dto.SpeechInfo{FilePath: path, FileSize: info.Size()}
		}
	}

	return &dto.DetectionResult{
		Success:        true,
		Caption:        caption,
		Speech:         speech,
		Objects:        objects,
		TotalObjects:   len(objects),
		OriginalCount:  len(raw),
		ProcessingTime: time.Since(start).Seconds(),
	}
}

// FilterByConfidence keeps objects whose confidence is at least threshold,
// preserving the detector's output order. The result is never nil.
func FilterByConfidence(objects []dto.DetectedObject, threshold float64) []dto.DetectedObject {
	filtered := make([]dto.DetectedObject, 0, len(objects))
	for _, obj := range objects {
		if obj.Confidence >= threshold {
			filtered = append(filtered, obj)
		}
	}
	return filtered
}

// SummarizeObjects renders the object list for the caption prompt, most
// confident first: "person at left (0.92), dog at center (0.67)".
func SummarizeObjects(objects []dto.DetectedObject) string {
	if len(objects) == 0 {
		return "no objects detected"
	}

	sorted := make([]dto.DetectedObject, len(objects))
	copy(sorted, objects)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})

	parts := make([]string, 0, len(sorted))
	for _, obj := range sorted {
		parts = append(parts, fmt.Sprintf("%s at %s (%.2f)", obj.Object, obj.Position, obj.Confidence))
	}
	return strings.Join(parts, ", ")
}
