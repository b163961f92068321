package compressor

import (
	"errors"
	"image"

	"imagepress/codec"
	"imagepress/types"
)

// fakeCodec is a deterministic, monotonic codec model used by the engine
// tests: encoded size is a pure function of pixel count, format and
// quality, so search outcomes are exactly predictable.
type fakeCodec struct {
	decodeWidth  int
	decodeHeight int
	decodeAlpha  bool

	failEncodeWidth int                   // encode fails for buffers of this width
	unsupported     map[types.Format]bool // formats Encode refuses
	failAllEncodes  bool

	encodeCalls int
	resizeCalls int
}

func newFakeCodec() *fakeCodec {
	return &fakeCodec{decodeWidth: 100, decodeHeight: 80}
}

func (f *fakeCodec) Decode(raw []byte) (*image.NRGBA, error) {
	if len(raw) < 8 {
		return nil, errors.New("truncated image data")
	}
	img := image.NewNRGBA(image.Rect(0, 0, f.decodeWidth, f.decodeHeight))
	for i := 3; i < len(img.Pix); i += 4 {
		if f.decodeAlpha {
			img.Pix[i] = 0x80
		} else {
			img.Pix[i] = 0xFF
		}
	}
	return img, nil
}

// fakeEncodedSize models a monotonic encoder: more pixels or higher quality
// never shrinks the output
func fakeEncodedSize(width, height int, format types.Format, quality int) int64 {
	pixels := int64(width) * int64(height)
	switch format {
	case types.FormatPNG:
		return pixels / 2
	case types.FormatWEBP:
		return pixels * int64(quality) / 150
	default:
		return pixels * int64(quality) / 100
	}
}

func (f *fakeCodec) Encode(img *image.NRGBA, format types.Format, quality int) ([]byte, error) {
	f.encodeCalls++

	if f.failAllEncodes {
		return nil, errors.New("encoder rejected buffer")
	}
	if f.unsupported[format] {
		return nil, codec.ErrUnsupportedFormat
	}
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	if f.failEncodeWidth != 0 && w == f.failEncodeWidth {
		return nil, errors.New("encoder rejected buffer")
	}

	return make([]byte, fakeEncodedSize(w, h, format, quality)), nil
}

func (f *fakeCodec) Resize(img *image.NRGBA, width, height int) (*image.NRGBA, error) {
	f.resizeCalls++
	return image.NewNRGBA(image.Rect(0, 0, width, height)), nil
}
