package dto

// Position describes where an object sits horizontally in the frame,
// based on which third of the image its bounding-box center falls into.
type Position string

const (
	PositionLeft   Position = "left"
	PositionCenter Position = "center"
	PositionRight  Position = "right"
)

// DetectedObject is a single detected entity.
type DetectedObject struct {
	Object     string   `json:"object"`
	Position   Position `json:"position"`
	Confidence float64  `json:"confidence"`
}

// SpeechInfo describes a generated speech audio file.
type SpeechInfo struct {
	FilePath string `json:"file_path"`
	FileSize int64  `json:"file_size"`
}

// DetectionResult is the full response for one pipeline run. TotalObjects
// counts the objects that survived confidence filtering, OriginalCount the
// detector's raw candidates.
type DetectionResult struct {
	Success        bool             `json:"success"`
	Caption        string           `json:"caption,omitempty"`
	Speech         *SpeechInfo      `json:"speech,omitempty"`
	Objects        []DetectedObject `json:"objects"`
	TotalObjects   int              `json:"total_objects"`
	OriginalCount  int              `json:"original_count"`
	ProcessingTime float64          `json:"processing_time"`
	Error          string           `json:"error,omitempty"`
}
