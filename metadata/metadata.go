// Package metadata implements the metadata inspector: format sniffing,
// dimensions and EXIF handling for raw image bytes. It prefers a resident
// exiftool process and falls back to a minimal header scan when exiftool is
// not installed.
package metadata

import (
	"bytes"
	"image"
	"strings"
	"sync"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	exiftool "github.com/barasher/go-exiftool"
	"github.com/gabriel-vasile/mimetype"

	_ "golang.org/x/image/webp"

	"imagepress/logging"
	"imagepress/types"
)

// exifMarkers are metadata fields whose presence indicates an EXIF block.
// File-level fields (FileName, FileSize, MIMEType...) are reported by
// exiftool for every file and must not count.
var exifMarkers = []string{
	"ExifVersion",
	"Make",
	"Model",
	"Orientation",
	"DateTimeOriginal",
	"CreateDate",
	"ExposureTime",
	"FNumber",
	"ISO",
	"GPSLatitude",
}

// Inspector answers metadata-only questions about raw image bytes
type Inspector struct {
	mu sync.Mutex
	et *exiftool.Exiftool
}

// NewInspector creates an Inspector. When the exiftool binary cannot be
// started the Inspector still works using the built-in header scanner.
func NewInspector() *Inspector {
	et, err := exiftool.NewExiftool()
	if err != nil {
		logging.LogWarning("exiftool not available, using built-in EXIF scanner: %v", err)
		return &Inspector{}
	}
	return &Inspector{et: et}
}

// Close releases the resident exiftool process, if any
func (i *Inspector) Close() {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.et != nil {
		i.et.Close()
		i.et = nil
	}
}

// Inspect extracts filename, format, size, dimensions and EXIF presence
// from raw image bytes. No compression engine involvement.
func (i *Inspector) Inspect(raw []byte, filename string) (*types.ImageInfo, error) {
	format := types.FormatFromMIME(mimetype.Detect(raw).String())

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, &types.InvalidImageError{Cause: err}
	}

	formatName := "UNKNOWN"
	if format != types.FormatUnknown {
		formatName = strings.ToUpper(string(format))
	}

	return &types.ImageInfo{
		OriginalFilename: filename,
		Format:           formatName,
		SizeBytes:        int64(len(raw)),
		Width:            cfg.Width,
		Height:           cfg.Height,
		HasExif:          i.HasExif(raw),
	}, nil
}

// HasExif reports whether the raw bytes carry an EXIF block
func (i *Inspector) HasExif(raw []byte) bool {
	i.mu.Lock()
	et := i.et
	i.mu.Unlock()

	if et != nil {
		found, err := i.hasExifViaExiftool(raw)
		if err == nil {
			return found
		}
		logging.DebugLog("exiftool EXIF probe failed, falling back to header scan: %v", err)
	}

	return ScanForExif(raw)
}

// hasExifViaExiftool writes the bytes to a temp file and asks exiftool
func (i *Inspector) hasExifViaExiftool(raw []byte) (bool, error) {
	path, cleanup, err := writeTempImage(raw, formatExt(raw))
	if err != nil {
		return false, err
	}
	defer cleanup()

	i.mu.Lock()
	defer i.mu.Unlock()

	if i.et == nil {
		return false, nil
	}

	metas := i.et.ExtractMetadata(path)
	if len(metas) == 0 {
		return false, nil
	}
	meta := metas[0]
	if meta.Err != nil {
		return false, meta.Err
	}

	for _, marker := range exifMarkers {
		if _, ok := meta.Fields[marker]; ok {
			return true, nil
		}
	}
	return false, nil
}

// SniffFormat detects the container format of raw image bytes
func (i *Inspector) SniffFormat(raw []byte) types.Format {
	return types.FormatFromMIME(mimetype.Detect(raw).String())
}

// formatExt returns a file extension matching the sniffed content type, so
// exiftool applies the right parser
func formatExt(raw []byte) string {
	switch types.FormatFromMIME(mimetype.Detect(raw).String()) {
	case types.FormatJPEG:
		return ".jpg"
	case types.FormatPNG:
		return ".png"
	case types.FormatWEBP:
		return ".webp"
	default:
		return ".img"
	}
}
