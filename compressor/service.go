package compressor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"imagepress/codec"
	"imagepress/logging"
	"imagepress/metadata"
	"imagepress/types"
	"imagepress/utils"
)

// Service exposes the three logical operations consumed by the transport
// layer: Inspect, Estimate and Compress. Each call is a pure computation
// over buffers it exclusively owns, so a single Service handles concurrent
// requests without locking.
type Service struct {
	codec  codec.Adapter
	meta   *metadata.Inspector
	engine *Engine

	// copyTags re-attaches source metadata to an encoded payload; swapped
	// out in tests
	copyTags func(original, encoded []byte, encodedExt string) ([]byte, error)
}

// NewService builds a Service around a codec adapter and metadata inspector
func NewService(adapter codec.Adapter, meta *metadata.Inspector) *Service {
	return NewServiceWithConfig(adapter, meta, DefaultConfig())
}

// NewServiceWithConfig builds a Service with a custom engine configuration
func NewServiceWithConfig(adapter codec.Adapter, meta *metadata.Inspector, cfg Config) *Service {
	return &Service{
		codec:    adapter,
		meta:     meta,
		engine:   NewEngine(adapter, cfg),
		copyTags: metadata.CopyTags,
	}
}

// Inspect returns metadata for raw image bytes without running the engine
func (s *Service) Inspect(raw []byte, filename string) (*types.ImageInfo, error) {
	if len(raw) == 0 {
		return nil, types.NewValidationError("empty file uploaded")
	}
	return s.meta.Inspect(raw, filename)
}

// Estimate runs the full engine but returns only the descriptive fields.
// It shares the Compress pipeline byte for byte, so both operations report
// identical dimensions, format and size for identical inputs.
func (s *Service) Estimate(ctx context.Context, raw []byte, req types.CompressionRequest) (*types.Estimate, error) {
	result, err := s.run(ctx, "estimate", raw, "", req)
	if err != nil {
		return nil, err
	}

	return &types.Estimate{
		PredictedWidth:     result.Width,
		PredictedHeight:    result.Height,
		EstimatedSizeBytes: result.SizeBytes,
		ChosenFormat:       result.Format,
		Warnings:           result.Warnings,
	}, nil
}

// Compress runs the engine and returns the encoded payload plus the
// descriptive fields and a suggested download filename
func (s *Service) Compress(ctx context.Context, raw []byte, filename string, req types.CompressionRequest) (*types.CompressionResult, error) {
	return s.run(ctx, "compress", raw, filename, req)
}

// run is the shared Estimate/Compress pipeline
func (s *Service) run(ctx context.Context, operation string, raw []byte, filename string, req types.CompressionRequest) (*types.CompressionResult, error) {
	start := time.Now()

	req.Normalize()
	if err := validateRequest(raw, &req); err != nil {
		logging.LogRequest(operation, int64(len(raw)), 0, time.Since(start), err)
		return nil, err
	}

	src, err := s.decodeSource(raw)
	if err != nil {
		logging.LogRequest(operation, int64(len(raw)), 0, time.Since(start), err)
		return nil, err
	}

	best, warnings, err := s.engine.Run(ctx, src, &req)
	if err != nil {
		logging.LogRequest(operation, int64(len(raw)), 0, time.Since(start), err)
		return nil, err
	}

	encoded := best.Encoded
	if !req.StripExif && src.HasExif {
		tagged, copyErr := s.copyTags(raw, encoded, "."+best.Format.Ext())
		switch {
		case copyErr == nil:
			encoded = tagged
			// Re-attached metadata can push a satisfying result past the
			// target; that must never happen silently
			if best.Satisfies(req.TargetBytes) && int64(len(encoded)) > req.TargetBytes {
				warnings = append(warnings, fmt.Sprintf(
					"Preserved metadata increased the result to %d bytes, above the %d byte target.",
					len(encoded), req.TargetBytes))
			}
		case errors.Is(copyErr, metadata.ErrExiftoolUnavailable):
			warnings = append(warnings,
				"Original metadata could not be preserved (exiftool not installed); result carries no EXIF.")
		default:
			err := &types.MetadataEncodingError{Cause: copyErr}
			logging.LogRequest(operation, int64(len(raw)), 0, time.Since(start), err)
			return nil, err
		}
	}

	if warnings == nil {
		warnings = []string{}
	}

	result := &types.CompressionResult{
		Encoded:           encoded,
		Width:             best.Width,
		Height:            best.Height,
		SizeBytes:         int64(len(encoded)),
		Format:            best.Format,
		Warnings:          warnings,
		SuggestedFilename: utils.SuggestFilename(filename, int64(len(encoded)), best.Format),
	}

	logging.LogRequest(operation, int64(len(raw)), result.SizeBytes, time.Since(start), nil)
	return result, nil
}

// decodeSource decodes raw bytes into the immutable per-call source image
func (s *Service) decodeSource(raw []byte) (*types.SourceImage, error) {
	pixels, err := s.codec.Decode(raw)
	if err != nil {
		return nil, &types.InvalidImageError{Cause: err}
	}

	return &types.SourceImage{
		Pixels:    pixels,
		Width:     pixels.Bounds().Dx(),
		Height:    pixels.Bounds().Dy(),
		HasAlpha:  codec.HasAlpha(pixels),
		HasExif:   s.meta.HasExif(raw),
		Format:    s.meta.SniffFormat(raw),
		SizeBytes: int64(len(raw)),
	}, nil
}

// validateRequest rejects requests that can never succeed, before any
// decoding or encoding is attempted
func validateRequest(raw []byte, req *types.CompressionRequest) error {
	if len(raw) == 0 {
		return types.NewValidationError("empty file uploaded")
	}
	if req.TargetBytes <= 0 {
		return types.NewValidationError("target_bytes must be positive")
	}
	if req.TargetBytes >= int64(len(raw)) {
		return types.NewValidationError(
			"Target size (%d bytes) must be smaller than original (%d bytes)",
			req.TargetBytes, len(raw))
	}

	switch req.OutputFormat {
	case types.FormatAuto, types.FormatJPEG, types.FormatPNG, types.FormatWEBP:
	default:
		return &types.UnsupportedFormatError{Format: string(req.OutputFormat)}
	}

	switch req.QualityMode {
	case types.QualityAuto:
	case types.QualityManual:
		if req.Quality < 1 || req.Quality > 100 {
			return types.NewValidationError("quality must be between 1 and 100 in manual mode")
		}
	default:
		return types.NewValidationError("unknown quality_mode: %q", req.QualityMode)
	}

	switch req.Priority {
	case types.PriorityTargetSize, types.PriorityOptimalResolution:
	default:
		return types.NewValidationError("unknown priority: %q", req.Priority)
	}

	if req.MaxDim < 0 {
		return types.NewValidationError("max_dim must be positive")
	}

	return nil
}
