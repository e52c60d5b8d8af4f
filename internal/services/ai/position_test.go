package ai

import (
	"testing"

	"github.com/stretchr/testify/require"

	"bemyeyes/internal/dto"
)

func TestPositionFor(t *testing.T) {
	const width = 900.0

	tests := []struct {
		name    string
		xCenter float64
		want    dto.Position
	}{
		{"far left", 0, dto.PositionLeft},
		{"just inside left third", 299.9, dto.PositionLeft},
		{"left boundary lands center", 300, dto.PositionCenter},
		{"middle", 450, dto.PositionCenter},
		{"right boundary lands center", 600, dto.PositionCenter},
		{"just inside right third", 600.1, dto.PositionRight},
		{"far right", 899, dto.PositionRight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, PositionFor(tt.xCenter, width))
		})
	}
}

func TestLabel(t *testing.T) {
	require.Equal(t, "person", Label(0))
	require.Equal(t, "dog", Label(16))
	require.Equal(t, "toothbrush", Label(79))
	require.Equal(t, "unknown", Label(80))
	require.Equal(t, "unknown", Label(-1))
}
