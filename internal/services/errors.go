package services

import "errors"

// Fatal pipeline errors. A detection failure aborts the whole request;
// captioning and synthesis failures only blank their output field.
var (
	// ErrModelLoad means the detection model could not be located or loaded.
	ErrModelLoad = errors.New("detection model could not be loaded")

	// ErrInference means detection on the given image failed.
	ErrInference = errors.New("detection inference failed")

	// ErrEmptyText is returned when empty text is passed to the synthesizer.
	ErrEmptyText = errors.New("empty text cannot be converted to speech")

	// ErrSynthesis means the speech engine failed to produce audio.
	ErrSynthesis = errors.New("speech synthesis failed")
)
