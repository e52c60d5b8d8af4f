package ai

import "bemyeyes/internal/dto"

// PositionFor classifies a bounding-box horizontal center into the left,
// center or right third of the image. Comparisons are strict, so centers
// sitting exactly on a third boundary classify as center.
func PositionFor(xCenter, imageWidth float64) dto.Position {
	if xCenter < imageWidth/3 {
		return dto.PositionLeft
	}
	if xCenter > 2*imageWidth/3 {
		return dto.PositionRight
	}
	return dto.PositionCenter
}
