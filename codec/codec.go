// Package codec provides the pixel encode/decode/resize capability used by
// the compression engine. Two interchangeable adapters are available: an
// OpenCV-backed one (default) and a pure-Go one for deployments without the
// OpenCV runtime.
package codec

import (
	"errors"
	"image"
	"math"

	"imagepress/types"
)

// Adapter is the external codec capability. Given a pixel buffer, a target
// format and a quality parameter it deterministically produces encoded
// bytes. Implementations must be safe for concurrent use.
type Adapter interface {
	// Decode decodes raw image bytes into an NRGBA pixel buffer
	Decode(raw []byte) (*image.NRGBA, error)

	// Encode encodes the buffer in the given format. quality applies to
	// lossy formats only and is ignored for PNG.
	Encode(img *image.NRGBA, format types.Format, quality int) ([]byte, error)

	// Resize scales the buffer to exactly width x height using a
	// high-quality resampling filter
	Resize(img *image.NRGBA, width, height int) (*image.NRGBA, error)
}

// ErrUnsupportedFormat is returned by Encode when the adapter cannot produce
// the requested format
var ErrUnsupportedFormat = errors.New("codec: unsupported output format")

// ScaledDims returns round(w*scale), round(h*scale), each clamped to a
// minimum of 1 pixel. The same scale is applied to both axes.
func ScaledDims(width, height int, scale float64) (int, int) {
	w := int(math.Round(float64(width) * scale))
	h := int(math.Round(float64(height) * scale))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// CapDims computes the dimensions after capping the longest side to maxDim.
// The boolean reports whether a resize is needed at all.
func CapDims(width, height, maxDim int) (int, int, bool) {
	longest := width
	if height > longest {
		longest = height
	}
	if maxDim <= 0 || longest <= maxDim {
		return width, height, false
	}
	scale := float64(maxDim) / float64(longest)
	w, h := ScaledDims(width, height, scale)
	return w, h, true
}

// HasAlpha reports whether any pixel in the buffer is not fully opaque
func HasAlpha(img *image.NRGBA) bool {
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0xFF {
			return true
		}
	}
	return false
}

// FlattenOnWhite composites the buffer onto a white background, discarding
// the alpha channel. JPEG cannot represent transparency.
func FlattenOnWhite(img *image.NRGBA) *image.NRGBA {
	bounds := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	for y := 0; y < bounds.Dy(); y++ {
		srcOff := y * img.Stride
		dstOff := y * out.Stride
		for x := 0; x < bounds.Dx(); x++ {
			si := srcOff + x*4
			di := dstOff + x*4
			a := uint32(img.Pix[si+3])
			out.Pix[di+0] = uint8((uint32(img.Pix[si+0])*a + 255*(255-a)) / 255)
			out.Pix[di+1] = uint8((uint32(img.Pix[si+1])*a + 255*(255-a)) / 255)
			out.Pix[di+2] = uint8((uint32(img.Pix[si+2])*a + 255*(255-a)) / 255)
			out.Pix[di+3] = 0xFF
		}
	}
	return out
}
