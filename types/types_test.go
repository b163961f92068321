package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"", FormatAuto, false},
		{"auto", FormatAuto, false},
		{"jpeg", FormatJPEG, false},
		{"jpg", FormatJPEG, false},
		{"JPEG", FormatJPEG, false},
		{" png ", FormatPNG, false},
		{"webp", FormatWEBP, false},
		{"bmp", FormatUnknown, true},
		{"tiff", FormatUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatProperties(t *testing.T) {
	assert.Equal(t, "jpg", FormatJPEG.Ext())
	assert.Equal(t, "webp", FormatWEBP.Ext())
	assert.Equal(t, "image/png", FormatPNG.MIME())
	assert.Equal(t, "application/octet-stream", FormatUnknown.MIME())

	assert.True(t, FormatJPEG.Lossy())
	assert.True(t, FormatWEBP.Lossy())
	assert.False(t, FormatPNG.Lossy())
}

func TestRequestNormalize(t *testing.T) {
	var req CompressionRequest
	req.Normalize()

	assert.Equal(t, FormatAuto, req.OutputFormat)
	assert.Equal(t, QualityAuto, req.QualityMode)
	assert.Equal(t, PriorityTargetSize, req.Priority)

	// Explicit values survive
	req = CompressionRequest{
		OutputFormat: FormatPNG,
		QualityMode:  QualityManual,
		Priority:     PriorityOptimalResolution,
	}
	req.Normalize()
	assert.Equal(t, FormatPNG, req.OutputFormat)
	assert.Equal(t, QualityManual, req.QualityMode)
	assert.Equal(t, PriorityOptimalResolution, req.Priority)
}

func TestCandidateSatisfies(t *testing.T) {
	c := &Candidate{SizeBytes: 1000}

	assert.True(t, c.Satisfies(1000))
	assert.True(t, c.Satisfies(1001))
	assert.False(t, c.Satisfies(999))
}
