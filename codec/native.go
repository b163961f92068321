package codec

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	_ "image/gif"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	"imagepress/types"
)

// NativeAdapter implements Adapter with Go image packages: stdlib JPEG/PNG,
// chai2010/webp for WebP output, x/image/webp for WebP input and
// disintegration/imaging for Lanczos resampling. Used when OpenCV is not
// available (--pure-go), and by the test suite.
type NativeAdapter struct{}

// NewNativeAdapter creates the pure-Go codec adapter
func NewNativeAdapter() *NativeAdapter {
	return &NativeAdapter{}
}

// Decode decodes raw bytes using the registered Go image decoders
func (a *NativeAdapter) Decode(raw []byte) (*image.NRGBA, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %v", err)
	}
	return imaging.Clone(img), nil
}

// Encode produces encoded bytes for the given format and quality
func (a *NativeAdapter) Encode(img *image.NRGBA, format types.Format, quality int) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case types.FormatJPEG:
		if HasAlpha(img) {
			img = FlattenOnWhite(img)
		}
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("jpeg encode failed: %v", err)
		}

	case types.FormatPNG:
		encoder := png.Encoder{CompressionLevel: png.BestCompression}
		if err := encoder.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("png encode failed: %v", err)
		}

	case types.FormatWEBP:
		opts := &webp.Options{Lossless: false, Quality: float32(quality)}
		if err := webp.Encode(&buf, img, opts); err != nil {
			return nil, fmt.Errorf("webp encode failed: %v", err)
		}

	default:
		return nil, ErrUnsupportedFormat
	}

	return buf.Bytes(), nil
}

// Resize scales the buffer to width x height with Lanczos resampling
func (a *NativeAdapter) Resize(img *image.NRGBA, width, height int) (*image.NRGBA, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("invalid resize target %dx%d", width, height)
	}
	return imaging.Resize(img, width, height, imaging.Lanczos), nil
}
