//go:build !gocv
// +build !gocv

package ai

import (
	"context"
	"fmt"

	"bemyeyes/internal/config"
	"bemyeyes/internal/dto"
	"bemyeyes/internal/logger"
	"bemyeyes/internal/services"
)

// YOLODetector stub used when the binary is built without the gocv tag.
// Detection always fails with a model-load error.
type YOLODetector struct {
	registry  *ModelRegistry
	modelName string
	modelDir  string
	logger    *logger.Logger
}

func NewYOLODetector(registry *ModelRegistry, cfg *config.Config, log *logger.Logger) *YOLODetector {
	return &YOLODetector{
		registry:  registry,
		modelName: cfg.ModelName,
		modelDir:  cfg.ModelDir,
		logger:    log,
	}
}

// Detect reports that the binary was built without OpenCV support.
func (d *YOLODetector) Detect(ctx context.Context, imagePath string, threshold float64) ([]dto.DetectedObject, error) {
	_ = ctx
	_ = imagePath
	_ = threshold
	return nil, fmt.Errorf("%w: binary built without the gocv build tag", services.ErrModelLoad)
}

var _ services.Detector = (*YOLODetector)(nil)
