//go:build gocv
// +build gocv

package ai

import (
	"context"
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"

	"bemyeyes/internal/config"
	"bemyeyes/internal/dto"
	"bemyeyes/internal/logger"
	"bemyeyes/internal/services"
)

const (
	// Network input size for the YOLOv8 ONNX export.
	inputSize = 640

	// candidateFloor is the raw candidate cutoff applied during decoding,
	// matching the model's own default. The request's threshold is applied
	// later by the pipeline, not here.
	candidateFloor = 0.25

	nmsThreshold = 0.45
)

// netHandle wraps a loaded gocv network. Forward is not safe for concurrent
// use, so inference is serialized per handle.
type netHandle struct {
	mu  sync.Mutex
	net gocv.Net
}

func (h *netHandle) Close() error {
	return h.net.Close()
}

// YOLODetector runs YOLOv8 ONNX object detection through the OpenCV DNN
// module. The model handle is resolved once through the registry and shared
// across requests.
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

func (d *YOLODetector) loadNet() (Handle, error) {
	path, err := ResolveModelPath(d.modelName, d.modelDir)
	if err != nil {
		return nil, err
	}

	net := gocv.ReadNetFromONNX(path)
	if net.Empty() {
		return nil, fmt.Errorf("%w: failed to read network from %s", services.ErrModelLoad, path)
	}

	if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
		net.Close()
		return nil, fmt.Errorf("%w: %v", services.ErrModelLoad, err)
	}
	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		net.Close()
		return nil, fmt.Errorf("%w: %v", services.ErrModelLoad, err)
	}

	d.logger.Info("Detection model %q loaded from %s", d.modelName, path)
	return &netHandle{net: net}, nil
}

// Detect returns the model's raw candidate set for the image. The threshold
// argument is accepted for interface compatibility; filtering against it is
// the caller's job.
func (d *YOLODetector) Detect(ctx context.Context, imagePath string, threshold float64) ([]dto.DetectedObject, error) {
	_ = threshold

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	handle, err := d.registry.Load(d.modelName, d.loadNet)
	if err != nil {
		return nil, err
	}
	nh := handle.(*netHandle)

	img := gocv.IMRead(imagePath, gocv.IMReadColor)
	if img.Empty() {
		return nil, fmt.Errorf("%w: could not decode image %s", services.ErrInference, imagePath)
	}
	defer img.Close()

	imgWidth := float64(img.Cols())
	imgHeight := float64(img.Rows())

	blob := gocv.BlobFromImage(img, 1.0/255.0, image.Pt(inputSize, inputSize),
		gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	nh.mu.Lock()
	nh.net.SetInput(blob, "")
	output := nh.net.Forward("")
	nh.mu.Unlock()
	defer output.Close()

	objects, err := d.decode(output, imgWidth, imgHeight)
	if err != nil {
		return nil, err
	}
	d.logger.Info("Detected %d candidate objects in %s", len(objects), imagePath)
	return objects, nil
}

// decode turns the YOLOv8 output tensor [1, 4+classes, anchors] into detected
// objects, applying non-maximum suppression and mapping box centers to image
// positions.
func (d *YOLODetector) decode(output gocv.Mat, imgWidth, imgHeight float64) ([]dto.DetectedObject, error) {
	sizes := output.Size()
	if len(sizes) != 3 || sizes[1] < 5 {
		return nil, fmt.Errorf("%w: unexpected output shape %v", services.ErrInference, sizes)
	}
	dims := sizes[1]
	anchors := sizes[2]

	sx := imgWidth / float64(inputSize)
	sy := imgHeight / float64(inputSize)

	var (
		boxes   []image.Rectangle
		scores  []float32
		classes []int
		centers []float64
	)

	for i := 0; i < anchors; i++ {
		bestScore := float32(0)
		bestClass := 0
		for j := 4; j < dims; j++ {
			if s := output.GetFloatAt3(0, j, i); s > bestScore {
				bestScore = s
				bestClass = j - 4
			}
		}
		if bestScore < candidateFloor {
			continue
		}

		cx := float64(output.GetFloatAt3(0, 0, i)) * sx
		cy := float64(output.GetFloatAt3(0, 1, i)) * sy
		w := float64(output.GetFloatAt3(0, 2, i)) * sx
		h := float64(output.GetFloatAt3(0, 3, i)) * sy

		boxes = append(boxes, image.Rect(
			int(cx-w/2), int(cy-h/2),
			int(cx+w/2), int(cy+h/2),
		))
		scores = append(scores, bestScore)
		classes = append(classes, bestClass)
		centers = append(centers, cx)
	}

	if len(boxes) == 0 {
		return []dto.DetectedObject{}, nil
	}

	indices := gocv.NMSBoxes(boxes, scores, candidateFloor, nmsThreshold)

	objects := make([]dto.DetectedObject, 0, len(indices))
	for _, idx := range indices {
		objects = append(objects, dto.DetectedObject{
			Object:     Label(classes[idx]),
			Position:   PositionFor(centers[idx], imgWidth),
			Confidence: float64(scores[idx]),
		})
	}

	return objects, nil
}

var _ services.Detector = (*YOLODetector)(nil)
