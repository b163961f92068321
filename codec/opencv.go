package codec

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"imagepress/types"
)

// OpenCVAdapter implements Adapter on top of OpenCV via gocv. It is the
// default codec: fastest encoders and the only one with full WebP support
// on every platform OpenCV ships for.
type OpenCVAdapter struct{}

// NewOpenCVAdapter creates the OpenCV-backed codec adapter
func NewOpenCVAdapter() *OpenCVAdapter {
	return &OpenCVAdapter{}
}

// Decode decodes raw bytes with IMDecode and normalizes the result to an
// 8-bit RGBA-ordered buffer
func (a *OpenCVAdapter) Decode(raw []byte) (*image.NRGBA, error) {
	mat, err := gocv.IMDecode(raw, gocv.IMReadUnchanged)
	if err != nil {
		return nil, fmt.Errorf("imdecode failed: %v", err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, fmt.Errorf("imdecode produced an empty matrix")
	}

	// 16-bit PNG/TIFF inputs come back as CV16U; scale down to 8-bit
	working := mat
	var depthReduced gocv.Mat
	if mat.ElemSize()/mat.Channels() > 1 {
		depthReduced = gocv.NewMat()
		defer depthReduced.Close()
		mat.ConvertToWithParams(&depthReduced, gocv.MatTypeCV8U, 1.0/257.0, 0)
		working = depthReduced
	}

	rgba := gocv.NewMat()
	defer rgba.Close()

	switch working.Channels() {
	case 4:
		// BGRA to RGBA is the same channel swap in both directions
		gocv.CvtColor(working, &rgba, gocv.ColorBGRAToRGBA)
	case 3:
		gocv.CvtColor(working, &rgba, gocv.ColorBGRToRGBA)
	case 1:
		gocv.CvtColor(working, &rgba, gocv.ColorGrayToBGRA)
	default:
		return nil, fmt.Errorf("unsupported channel count: %d", working.Channels())
	}

	return nrgbaFromMat(rgba)
}

// Encode produces encoded bytes for the given format and quality
func (a *OpenCVAdapter) Encode(img *image.NRGBA, format types.Format, quality int) ([]byte, error) {
	switch format {
	case types.FormatJPEG:
		if HasAlpha(img) {
			img = FlattenOnWhite(img)
		}
		src, err := matFromNRGBA(img)
		if err != nil {
			return nil, err
		}
		defer src.Close()

		bgr := gocv.NewMat()
		defer bgr.Close()
		gocv.CvtColor(src, &bgr, gocv.ColorRGBAToBGR)

		return imencode(".jpg", bgr, []int{gocv.IMWriteJpegQuality, quality})

	case types.FormatWEBP:
		src, err := matFromNRGBA(img)
		if err != nil {
			return nil, err
		}
		defer src.Close()

		bgra := gocv.NewMat()
		defer bgra.Close()
		gocv.CvtColor(src, &bgra, gocv.ColorBGRAToRGBA)

		return imencode(".webp", bgra, []int{gocv.IMWriteWebpQuality, quality})

	case types.FormatPNG:
		src, err := matFromNRGBA(img)
		if err != nil {
			return nil, err
		}
		defer src.Close()

		bgra := gocv.NewMat()
		defer bgra.Close()
		gocv.CvtColor(src, &bgra, gocv.ColorBGRAToRGBA)

		return imencode(".png", bgra, []int{gocv.IMWritePngCompression, 9})

	default:
		return nil, ErrUnsupportedFormat
	}
}

// Resize scales the buffer to width x height. Area interpolation for
// downscaling, Lanczos for upscaling, matching OpenCV guidance.
func (a *OpenCVAdapter) Resize(img *image.NRGBA, width, height int) (*image.NRGBA, error) {
	src, err := matFromNRGBA(img)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	interp := gocv.InterpolationArea
	if width > img.Bounds().Dx() || height > img.Bounds().Dy() {
		interp = gocv.InterpolationLanczos4
	}

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.Resize(src, &dst, image.Point{X: width, Y: height}, 0, 0, interp)

	if dst.Empty() {
		return nil, fmt.Errorf("resize to %dx%d produced an empty matrix", width, height)
	}

	return nrgbaFromMat(dst)
}

// imencode runs IMEncodeWithParams and copies the result out of native memory
func imencode(ext string, mat gocv.Mat, params []int) ([]byte, error) {
	buf, err := gocv.IMEncodeWithParams(gocv.FileExt(ext), mat, params)
	if err != nil {
		return nil, fmt.Errorf("imencode %s failed: %v", ext, err)
	}
	defer buf.Close()

	native := buf.GetBytes()
	if len(native) == 0 {
		return nil, fmt.Errorf("imencode %s produced no bytes", ext)
	}

	out := make([]byte, len(native))
	copy(out, native)
	return out, nil
}

// matFromNRGBA builds a 4-channel RGBA-ordered Mat from a Go pixel buffer
func matFromNRGBA(img *image.NRGBA) (gocv.Mat, error) {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()

	pix := img.Pix
	if img.Stride != w*4 {
		// Repack rows so the data is contiguous
		pix = make([]byte, w*h*4)
		for y := 0; y < h; y++ {
			copy(pix[y*w*4:(y+1)*w*4], img.Pix[y*img.Stride:y*img.Stride+w*4])
		}
	}

	mat, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC4, pix)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("cannot build matrix from pixel buffer: %v", err)
	}
	return mat, nil
}

// nrgbaFromMat copies a 4-channel RGBA-ordered Mat into a Go pixel buffer
func nrgbaFromMat(mat gocv.Mat) (*image.NRGBA, error) {
	if mat.Channels() != 4 {
		return nil, fmt.Errorf("expected 4-channel matrix, got %d", mat.Channels())
	}

	w := mat.Cols()
	h := mat.Rows()
	data := mat.ToBytes()
	if len(data) != w*h*4 {
		return nil, fmt.Errorf("unexpected matrix data length %d for %dx%d", len(data), w, h)
	}

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	copy(out.Pix, data)
	return out, nil
}
