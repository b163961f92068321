package codec

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imagepress/types"
)

// gradientImage produces a buffer with enough detail that lossy encoders
// respond measurably to the quality parameter
func gradientImage(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / width),
				G: uint8(y * 255 / height),
				B: uint8((x + y) % 256),
				A: 255,
			})
		}
	}
	return img
}

func TestNativeJPEGRoundTrip(t *testing.T) {
	a := NewNativeAdapter()
	src := gradientImage(64, 48)

	encoded, err := a.Encode(src, types.FormatJPEG, 85)
	require.NoError(t, err)
	require.NotEmpty(t, encoded)

	decoded, err := a.Decode(encoded)
	require.NoError(t, err)

	assert.Equal(t, 64, decoded.Bounds().Dx())
	assert.Equal(t, 48, decoded.Bounds().Dy())
}

func TestNativePNGRoundTrip(t *testing.T) {
	a := NewNativeAdapter()
	src := gradientImage(32, 32)

	encoded, err := a.Encode(src, types.FormatPNG, 0)
	require.NoError(t, err)

	decoded, err := a.Decode(encoded)
	require.NoError(t, err)

	assert.Equal(t, 32, decoded.Bounds().Dx())
	assert.Equal(t, 32, decoded.Bounds().Dy())
	// PNG is lossless
	assert.Equal(t, src.Pix, decoded.Pix)
}

func TestNativeWEBPEncode(t *testing.T) {
	a := NewNativeAdapter()

	encoded, err := a.Encode(gradientImage(32, 32), types.FormatWEBP, 80)
	require.NoError(t, err)
	assert.NotEmpty(t, encoded)
}

func TestNativeJPEGQualityAffectsSize(t *testing.T) {
	a := NewNativeAdapter()
	src := gradientImage(128, 128)

	low, err := a.Encode(src, types.FormatJPEG, 40)
	require.NoError(t, err)
	high, err := a.Encode(src, types.FormatJPEG, 95)
	require.NoError(t, err)

	assert.Greater(t, len(high), len(low))
}

func TestNativeJPEGFlattensAlpha(t *testing.T) {
	a := NewNativeAdapter()

	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	// Fully transparent buffer must still encode
	encoded, err := a.Encode(img, types.FormatJPEG, 85)
	require.NoError(t, err)

	decoded, err := a.Decode(encoded)
	require.NoError(t, err)
	assert.False(t, HasAlpha(decoded))
}

func TestNativeEncodeUnknownFormat(t *testing.T) {
	a := NewNativeAdapter()

	_, err := a.Encode(gradientImage(8, 8), types.FormatUnknown, 85)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestNativeResize(t *testing.T) {
	a := NewNativeAdapter()

	out, err := a.Resize(gradientImage(100, 80), 50, 40)
	require.NoError(t, err)

	assert.Equal(t, 50, out.Bounds().Dx())
	assert.Equal(t, 40, out.Bounds().Dy())
}

func TestNativeResizeRejectsInvalidTarget(t *testing.T) {
	a := NewNativeAdapter()

	_, err := a.Resize(gradientImage(10, 10), 0, 5)
	assert.Error(t, err)
}

func TestNativeDecodeRejectsGarbage(t *testing.T) {
	a := NewNativeAdapter()

	_, err := a.Decode([]byte("not an image at all"))
	assert.Error(t, err)
}

func TestNativeDecodePNGMatchesStdlib(t *testing.T) {
	a := NewNativeAdapter()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, gradientImage(5, 7)))

	decoded, err := a.Decode(buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, 5, decoded.Bounds().Dx())
	assert.Equal(t, 7, decoded.Bounds().Dy())
}
