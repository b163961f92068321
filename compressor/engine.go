// Package compressor implements the compression search engine: format
// selection, the scale and quality search, and the best-candidate policy.
package compressor

import (
	"context"
	"errors"
	"fmt"

	"imagepress/codec"
	"imagepress/logging"
	"imagepress/types"
)

// WarnTargetMissed is appended when no searched scale/quality combination
// meets the byte budget
const WarnTargetMissed = "Target size could not be met; returning best-effort result."

// Config holds the tunable search constants. The defaults are conservative
// values validated against a photo corpus, not normative limits.
type Config struct {
	// QualityMin and QualityMax bound the lossy quality search
	QualityMin int
	QualityMax int

	// QualityIterations caps the binary search per scale
	QualityIterations int

	// WebPAggressiveness is the target/original ratio below which auto
	// format selection prefers WebP
	WebPAggressiveness float64

	// Scales are tried in order, largest first
	Scales []float64
}

// DefaultConfig returns the standard search configuration
func DefaultConfig() Config {
	return Config{
		QualityMin:         40,
		QualityMax:         95,
		QualityIterations:  8,
		WebPAggressiveness: 0.3,
		Scales:             []float64{1.0, 0.9, 0.8, 0.7, 0.6, 0.5},
	}
}

// Engine drives the compression search. It holds no mutable state; a single
// Engine is safe for concurrent requests.
type Engine struct {
	codec codec.Adapter
	cfg   Config
}

// NewEngine creates an engine using the given codec adapter and config
func NewEngine(adapter codec.Adapter, cfg Config) *Engine {
	return &Engine{codec: adapter, cfg: cfg}
}

// Run executes the full search for one request and returns the winning
// candidate plus any warnings. The request must already be validated.
func (e *Engine) Run(ctx context.Context, src *types.SourceImage, req *types.CompressionRequest) (*types.Candidate, []string, error) {
	aggressiveness := float64(req.TargetBytes) / float64(src.SizeBytes)
	format := ChooseFormat(req.OutputFormat, src.HasAlpha, aggressiveness, e.cfg.WebPAggressiveness)

	logging.DebugLog("search start: format=%s target=%d aggressiveness=%.3f priority=%s",
		format, req.TargetBytes, aggressiveness, req.Priority)

	// Establish the scale-1.0 base buffer: the max-dim cap is applied once
	// and the scale list runs on top of it
	base := src.Pixels
	baseW, baseH := src.Width, src.Height
	if w, h, needed := codec.CapDims(baseW, baseH, req.MaxDim); needed {
		capped, err := e.codec.Resize(base, w, h)
		if err != nil {
			return nil, nil, &types.EncodeError{Cause: err}
		}
		base, baseW, baseH = capped, w, h
		logging.DebugLog("max_dim cap applied: base is now %dx%d", w, h)
	}

	scales := e.cfg.Scales
	if req.Priority == types.PriorityOptimalResolution {
		// Resolution is never reduced; only quality and format vary
		scales = []float64{1.0}
	}

	var best *types.Candidate
	var lastErr error

	for _, scale := range scales {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		buffer := base
		if scale < 1.0 {
			w, h := codec.ScaledDims(baseW, baseH, scale)
			resized, err := e.codec.Resize(base, w, h)
			if err != nil {
				logging.LogWarning("resize to scale %.2f failed, skipping: %v", scale, err)
				lastErr = err
				continue
			}
			buffer = resized
		}

		var cand *types.Candidate
		var err error
		if req.QualityMode == types.QualityManual && format.Lossy() {
			cand, err = e.encodeOnce(buffer, format, scale, req.Quality)
		} else {
			cand, err = e.searchQuality(buffer, format, scale, req.TargetBytes)
		}
		if err != nil {
			if errors.Is(err, codec.ErrUnsupportedFormat) {
				return nil, nil, &types.UnsupportedFormatError{Format: string(format)}
			}
			// Candidate-level failure: skip this scale and keep searching
			logging.LogWarning("encode at scale %.2f failed, skipping: %v", scale, err)
			lastErr = err
			continue
		}

		logging.DebugLog("candidate: scale=%.2f quality=%d size=%d satisfies=%v",
			cand.Scale, cand.Quality, cand.SizeBytes, cand.Satisfies(req.TargetBytes))

		if e.better(cand, best, req.TargetBytes) {
			best = cand
		}

		// A satisfying candidate at full scale is optimal under the
		// comparator; no smaller scale can beat it
		if scale == 1.0 && cand.Satisfies(req.TargetBytes) {
			break
		}
	}

	if best == nil {
		if lastErr == nil {
			lastErr = fmt.Errorf("no encode attempts were possible")
		}
		return nil, nil, &types.EncodeError{Cause: lastErr}
	}

	var warnings []string
	if !best.Satisfies(req.TargetBytes) {
		warnings = append(warnings, WarnTargetMissed)
		if req.Priority == types.PriorityOptimalResolution {
			warnings = append(warnings, fmt.Sprintf(
				"Resolution preserved at %dx%d; smallest achievable size is %d bytes (target was %d).",
				best.Width, best.Height, best.SizeBytes, req.TargetBytes))
		}
	}

	return best, warnings, nil
}

// better reports whether candidate should replace current as the running
// best. The policy is a strict priority order: satisfies the target, then
// larger scale, then higher quality, then smaller size.
func (e *Engine) better(candidate, current *types.Candidate, targetBytes int64) bool {
	if current == nil {
		return true
	}

	cFits := candidate.Satisfies(targetBytes)
	bFits := current.Satisfies(targetBytes)

	if cFits != bFits {
		return cFits
	}

	if cFits {
		if candidate.Scale != current.Scale {
			return candidate.Scale > current.Scale
		}
		if candidate.Quality != current.Quality {
			return candidate.Quality > current.Quality
		}
		return candidate.SizeBytes < current.SizeBytes
	}

	// Neither fits: closest best effort wins
	return candidate.SizeBytes < current.SizeBytes
}
