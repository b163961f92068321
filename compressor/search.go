package compressor

import (
	"image"

	"imagepress/types"
)

// searchQuality binary-searches the encoder quality for a fixed,
// already-resized buffer. When a quality satisfies the budget the search
// moves up looking for a better-looking encoding that still fits; otherwise
// it moves down. Returns the best satisfying candidate, or the smallest
// encoding tried when the target is unreachable at this scale.
func (e *Engine) searchQuality(img *image.NRGBA, format types.Format, scale float64, targetBytes int64) (*types.Candidate, error) {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()

	// Lossless PNG has no quality parameter; encode once
	if !format.Lossy() {
		encoded, err := e.codec.Encode(img, format, 0)
		if err != nil {
			return nil, err
		}
		return &types.Candidate{
			Scale:     scale,
			Format:    format,
			Width:     w,
			Height:    h,
			SizeBytes: int64(len(encoded)),
			Encoded:   encoded,
		}, nil
	}

	low := e.cfg.QualityMin
	high := e.cfg.QualityMax

	var bestFit *types.Candidate  // satisfies the budget, highest quality seen
	var smallest *types.Candidate // fallback when nothing fits

	for iter := 0; iter < e.cfg.QualityIterations && low <= high; iter++ {
		mid := (low + high) / 2

		encoded, err := e.codec.Encode(img, format, mid)
		if err != nil {
			return nil, err
		}

		cand := &types.Candidate{
			Scale:     scale,
			Quality:   mid,
			Format:    format,
			Width:     w,
			Height:    h,
			SizeBytes: int64(len(encoded)),
			Encoded:   encoded,
		}

		if smallest == nil || cand.SizeBytes < smallest.SizeBytes {
			smallest = cand
		}

		if cand.Satisfies(targetBytes) {
			// Budget met; a higher quality might still fit
			bestFit = cand
			low = mid + 1
		} else {
			high = mid - 1
		}
	}

	if bestFit != nil {
		return bestFit, nil
	}
	return smallest, nil
}

// encodeOnce performs a single encode at a fixed quality, used for manual
// quality mode
func (e *Engine) encodeOnce(img *image.NRGBA, format types.Format, scale float64, quality int) (*types.Candidate, error) {
	encoded, err := e.codec.Encode(img, format, quality)
	if err != nil {
		return nil, err
	}

	q := quality
	if !format.Lossy() {
		q = 0
	}

	return &types.Candidate{
		Scale:     scale,
		Quality:   q,
		Format:    format,
		Width:     img.Bounds().Dx(),
		Height:    img.Bounds().Dy(),
		SizeBytes: int64(len(encoded)),
		Encoded:   encoded,
	}, nil
}
