package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imagepress/types"
)

func TestInspectReportsDimensionsAndFormat(t *testing.T) {
	i := &Inspector{}
	raw := encodedPNG(t)

	info, err := i.Inspect(raw, "tiny.png")
	require.NoError(t, err)

	assert.Equal(t, "tiny.png", info.OriginalFilename)
	assert.Equal(t, "PNG", info.Format)
	assert.Equal(t, int64(len(raw)), info.SizeBytes)
	assert.Equal(t, 3, info.Width)
	assert.Equal(t, 2, info.Height)
	assert.False(t, info.HasExif)
}

func TestInspectRejectsNonImageBytes(t *testing.T) {
	i := &Inspector{}

	_, err := i.Inspect([]byte("this is not an image"), "note.txt")
	require.Error(t, err)

	var invalid *types.InvalidImageError
	assert.ErrorAs(t, err, &invalid)
}

func TestSniffFormat(t *testing.T) {
	i := &Inspector{}

	assert.Equal(t, types.FormatPNG, i.SniffFormat(encodedPNG(t)))
	assert.Equal(t, types.FormatJPEG, i.SniffFormat(jpegWithoutExif()))
	assert.Equal(t, types.FormatUnknown, i.SniffFormat([]byte("plain text")))
}

func TestFormatExt(t *testing.T) {
	assert.Equal(t, ".png", formatExt(encodedPNG(t)))
	assert.Equal(t, ".jpg", formatExt(jpegWithoutExif()))
	assert.Equal(t, ".img", formatExt([]byte("plain text")))
}

func TestHasExifFallsBackToHeaderScan(t *testing.T) {
	i := &Inspector{}

	assert.True(t, i.HasExif(jpegWithExif()))
	assert.False(t, i.HasExif(encodedPNG(t)))
}
