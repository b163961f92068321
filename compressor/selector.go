package compressor

import "imagepress/types"

// ChooseFormat decides the output format from the request intent, alpha
// presence and how aggressive the target is relative to the original size
// (aggressiveness = targetBytes / originalSizeBytes). Pure function; an
// explicit caller choice always wins.
func ChooseFormat(requested types.Format, hasAlpha bool, aggressiveness, webpThreshold float64) types.Format {
	if requested != types.FormatAuto {
		return requested
	}

	// WebP handles alpha with lossy compression; PNG rarely meets a byte
	// target
	if hasAlpha {
		return types.FormatWEBP
	}

	// A target far below the original needs the best ratio available
	if aggressiveness < webpThreshold {
		return types.FormatWEBP
	}

	return types.FormatJPEG
}
