package compressor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"imagepress/types"
)

func TestChooseFormat(t *testing.T) {
	tests := []struct {
		name           string
		requested      types.Format
		hasAlpha       bool
		aggressiveness float64
		want           types.Format
	}{
		{
			name:           "explicit format wins over alpha",
			requested:      types.FormatJPEG,
			hasAlpha:       true,
			aggressiveness: 0.5,
			want:           types.FormatJPEG,
		},
		{
			name:           "explicit format wins over aggressive target",
			requested:      types.FormatPNG,
			hasAlpha:       false,
			aggressiveness: 0.1,
			want:           types.FormatPNG,
		},
		{
			name:           "auto with alpha picks webp",
			requested:      types.FormatAuto,
			hasAlpha:       true,
			aggressiveness: 0.9,
			want:           types.FormatWEBP,
		},
		{
			name:           "auto with aggressive target picks webp",
			requested:      types.FormatAuto,
			hasAlpha:       false,
			aggressiveness: 0.2,
			want:           types.FormatWEBP,
		},
		{
			name:           "auto opaque moderate target picks jpeg",
			requested:      types.FormatAuto,
			hasAlpha:       false,
			aggressiveness: 0.5,
			want:           types.FormatJPEG,
		},
		{
			name:           "threshold itself is not aggressive",
			requested:      types.FormatAuto,
			hasAlpha:       false,
			aggressiveness: 0.3,
			want:           types.FormatJPEG,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ChooseFormat(tt.requested, tt.hasAlpha, tt.aggressiveness, 0.3)
			assert.Equal(t, tt.want, got)
		})
	}
}
