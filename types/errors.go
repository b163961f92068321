package types

import "fmt"

// ValidationError reports a request that can never succeed as written:
// non-positive target, target not smaller than the original, manual mode
// without a quality. Never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NewValidationError builds a ValidationError with a formatted message
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// UnsupportedFormatError reports a requested output format the codec cannot
// produce for this source
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported output format: %s", e.Format)
}

// MetadataEncodingError reports an encode failure caused by embedded
// metadata that the target encoder cannot carry. The message deliberately
// mentions metadata and encoding issues so callers can recognize it and
// retry with strip_exif enabled.
type MetadataEncodingError struct {
	Cause error
}

func (e *MetadataEncodingError) Error() string {
	return fmt.Sprintf("image metadata could not be carried over: special characters in metadata or encoding issues (%v); retry with strip_exif enabled", e.Cause)
}

func (e *MetadataEncodingError) Unwrap() error {
	return e.Cause
}

// EncodeError reports a codec failure unrelated to metadata. Candidate-level
// encode errors are recovered inside the search; this surfaces only when
// every attempt in the scale list failed.
type EncodeError struct {
	Cause error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("image encoding failed: %v", e.Cause)
}

func (e *EncodeError) Unwrap() error {
	return e.Cause
}

// InvalidImageError reports input bytes that cannot be decoded at all
type InvalidImageError struct {
	Cause error
}

func (e *InvalidImageError) Error() string {
	return fmt.Sprintf("cannot decode image: %v", e.Cause)
}

func (e *InvalidImageError) Unwrap() error {
	return e.Cause
}
