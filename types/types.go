// Package types holds the shared data model for the compression service.
package types

import (
	"fmt"
	"image"
	"strings"
)

// Format represents an output image format
type Format string

// Known output format constants
const (
	FormatAuto    Format = "auto"
	FormatJPEG    Format = "jpeg"
	FormatPNG     Format = "png"
	FormatWEBP    Format = "webp"
	FormatUnknown Format = "unknown"
)

// ParseFormat normalizes a user-supplied format name. An empty string means
// auto. Unknown names are returned as an error so the caller can surface an
// UnsupportedFormatError.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	case "webp":
		return FormatWEBP, nil
	default:
		return FormatUnknown, fmt.Errorf("unknown image format: %q", s)
	}
}

// Ext returns the file extension (without dot) for the format
func (f Format) Ext() string {
	switch f {
	case FormatJPEG:
		return "jpg"
	case FormatPNG:
		return "png"
	case FormatWEBP:
		return "webp"
	default:
		return "bin"
	}
}

// MIME returns the content type for the format
func (f Format) MIME() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	case FormatPNG:
		return "image/png"
	case FormatWEBP:
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

// Lossy reports whether the format has a meaningful quality parameter
func (f Format) Lossy() bool {
	return f == FormatJPEG || f == FormatWEBP
}

// FormatFromMIME maps a sniffed content type back to a Format
func FormatFromMIME(mime string) Format {
	switch mime {
	case "image/jpeg":
		return FormatJPEG
	case "image/png":
		return FormatPNG
	case "image/webp":
		return FormatWEBP
	default:
		return FormatUnknown
	}
}

// QualityMode selects between the automatic quality search and a fixed
// caller-supplied quality
type QualityMode string

const (
	QualityAuto   QualityMode = "auto"
	QualityManual QualityMode = "manual"
)

// Priority selects the search policy: hit the byte target as closely as
// possible, or never reduce resolution
type Priority string

const (
	PriorityTargetSize        Priority = "target_size"
	PriorityOptimalResolution Priority = "optimal_resolution"
)

// CompressionRequest describes one compression job. JSON field names match
// the params form field accepted by the HTTP API.
type CompressionRequest struct {
	TargetBytes  int64       `json:"target_bytes"`
	OutputFormat Format      `json:"output_format"`
	MaxDim       int         `json:"max_dim,omitempty"`
	QualityMode  QualityMode `json:"quality_mode"`
	Quality      int         `json:"quality,omitempty"`
	Priority     Priority    `json:"priority"`
	StripExif    bool        `json:"strip_exif"`
}

// Normalize fills zero-valued enum fields with their defaults
func (r *CompressionRequest) Normalize() {
	if r.OutputFormat == "" {
		r.OutputFormat = FormatAuto
	}
	if r.QualityMode == "" {
		r.QualityMode = QualityAuto
	}
	if r.Priority == "" {
		r.Priority = PriorityTargetSize
	}
}

// SourceImage is the immutable decoded input owned by a single compression
// call. Pixels is never written to; every transform produces a new buffer.
type SourceImage struct {
	Pixels    *image.NRGBA
	Width     int
	Height    int
	HasAlpha  bool
	HasExif   bool
	Format    Format
	SizeBytes int64
}

// Candidate is one fully encoded trial produced during the search.
// Quality is 0 when the format has no quality parameter (lossless PNG).
// SizeBytes is always the length of Encoded, never an estimate.
type Candidate struct {
	Scale     float64
	Quality   int
	Format    Format
	Width     int
	Height    int
	SizeBytes int64
	Encoded   []byte
}

// Satisfies reports whether the candidate meets the byte budget
func (c *Candidate) Satisfies(targetBytes int64) bool {
	return c.SizeBytes <= targetBytes
}

// CompressionResult is the final outcome of a compress call
type CompressionResult struct {
	Encoded           []byte   `json:"-"`
	Width             int      `json:"width"`
	Height            int      `json:"height"`
	SizeBytes         int64    `json:"size_bytes"`
	Format            Format   `json:"format"`
	Warnings          []string `json:"warnings"`
	SuggestedFilename string   `json:"suggested_filename"`
}

// Estimate carries the descriptive fields of a compression run without the
// encoded payload
type Estimate struct {
	PredictedWidth     int      `json:"predicted_width"`
	PredictedHeight    int      `json:"predicted_height"`
	EstimatedSizeBytes int64    `json:"estimated_size_bytes"`
	ChosenFormat       Format   `json:"chosen_format"`
	Warnings           []string `json:"warnings"`
}

// ImageInfo is the metadata-only inspect response
type ImageInfo struct {
	OriginalFilename string `json:"original_filename"`
	Format           string `json:"format"`
	SizeBytes        int64  `json:"size_bytes"`
	Width            int    `json:"width"`
	Height           int    `json:"height"`
	HasExif          bool   `json:"has_exif"`
}
