package metadata

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"

	"imagepress/logging"
)

// ErrExiftoolUnavailable is returned by CopyTags when the exiftool binary
// is not installed. Callers should degrade to a warning rather than fail.
var ErrExiftoolUnavailable = errors.New("exiftool binary not available")

// hasExiftoolBinary checks if exiftool is available on the system
func hasExiftoolBinary() bool {
	_, err := exec.LookPath("exiftool")
	return err == nil
}

// CopyTags re-attaches the metadata of the original image to a freshly
// encoded payload. The codec adapters never carry metadata through a
// re-encode, so preserving EXIF means copying it over afterwards. A failure
// here is the metadata-encoding case the caller retries with strip_exif.
func CopyTags(original []byte, encoded []byte, encodedExt string) ([]byte, error) {
	if !hasExiftoolBinary() {
		return nil, ErrExiftoolUnavailable
	}

	srcPath, srcCleanup, err := writeTempImage(original, formatExt(original))
	if err != nil {
		return nil, err
	}
	defer srcCleanup()

	dstPath, dstCleanup, err := writeTempImage(encoded, encodedExt)
	if err != nil {
		return nil, err
	}
	defer dstCleanup()

	cmd := exec.Command("exiftool",
		"-overwrite_original",
		"-TagsFromFile", srcPath,
		"-all:all",
		dstPath)

	if output, err := cmd.CombinedOutput(); err != nil {
		logging.LogWarning("exiftool tag copy failed: %v, output: %s", err, output)
		return nil, fmt.Errorf("exiftool tag copy failed: %v", err)
	}

	out, err := os.ReadFile(dstPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read tagged output: %v", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("exiftool produced an empty file")
	}
	return out, nil
}

// writeTempImage writes bytes to a uniquely named temp file and returns the
// path plus a cleanup function
func writeTempImage(data []byte, ext string) (string, func(), error) {
	path := filepath.Join(os.TempDir(), fmt.Sprintf("imagepress_%s%s", uuid.NewString(), ext))
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", nil, fmt.Errorf("cannot write temp image: %v", err)
	}
	return path, func() { os.Remove(path) }, nil
}

// ScanForExif is the built-in EXIF presence check. It walks the container
// structure of JPEG, PNG and WebP without parsing the EXIF tree itself.
func ScanForExif(raw []byte) bool {
	switch {
	case len(raw) >= 2 && raw[0] == 0xFF && raw[1] == 0xD8:
		return jpegHasExif(raw)
	case len(raw) >= 8 && string(raw[1:4]) == "PNG":
		return pngHasExif(raw)
	case len(raw) >= 12 && string(raw[:4]) == "RIFF" && string(raw[8:12]) == "WEBP":
		return webpHasExif(raw)
	default:
		return false
	}
}

// jpegHasExif walks JPEG segments looking for an APP1 "Exif" block
func jpegHasExif(raw []byte) bool {
	pos := 2
	for pos+4 <= len(raw) {
		if raw[pos] != 0xFF {
			return false
		}
		marker := raw[pos+1]

		// Padding bytes between segments
		if marker == 0xFF {
			pos++
			continue
		}

		// SOS: entropy-coded data follows, no more metadata segments
		if marker == 0xDA {
			return false
		}

		// Standalone markers have no length field
		if marker == 0xD8 || (marker >= 0xD0 && marker <= 0xD7) {
			pos += 2
			continue
		}

		segLen := int(binary.BigEndian.Uint16(raw[pos+2 : pos+4]))
		if segLen < 2 || pos+2+segLen > len(raw) {
			return false
		}

		if marker == 0xE1 && segLen >= 8 {
			payload := raw[pos+4 : pos+2+segLen]
			if len(payload) >= 6 && string(payload[:4]) == "Exif" && payload[4] == 0 && payload[5] == 0 {
				return true
			}
		}

		pos += 2 + segLen
	}
	return false
}

// pngHasExif walks PNG chunks looking for eXIf
func pngHasExif(raw []byte) bool {
	pos := 8
	for pos+8 <= len(raw) {
		length := int(binary.BigEndian.Uint32(raw[pos : pos+4]))
		chunkType := string(raw[pos+4 : pos+8])

		if chunkType == "eXIf" {
			return true
		}
		if chunkType == "IEND" {
			return false
		}

		// length + type + data + crc
		next := pos + 8 + length + 4
		if length < 0 || next <= pos || next > len(raw) {
			return false
		}
		pos = next
	}
	return false
}

// webpHasExif walks RIFF chunks looking for EXIF
func webpHasExif(raw []byte) bool {
	pos := 12
	for pos+8 <= len(raw) {
		chunkType := string(raw[pos : pos+4])
		length := int(binary.LittleEndian.Uint32(raw[pos+4 : pos+8]))

		if chunkType == "EXIF" {
			return true
		}

		// Chunks are padded to even sizes
		next := pos + 8 + length
		if length%2 == 1 {
			next++
		}
		if length < 0 || next <= pos || next > len(raw) {
			return false
		}
		pos = next
	}
	return false
}
