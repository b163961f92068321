package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"imagepress/types"
)

// ParseArguments converts command-line arguments into a map of flags and values
func ParseArguments() map[string]string {
	args := make(map[string]string)

	// First, identify the command
	command := ""
	commandIndex := -1
	for i := 1; i < len(os.Args); i++ {
		if os.Args[i] == "serve" {
			command = os.Args[i]
			commandIndex = i
			break
		}
	}

	if command != "" {
		args["command"] = command
	}

	// Process all arguments, skipping the command
	for i := 1; i < len(os.Args); i++ {
		if i == commandIndex {
			continue
		}

		arg := os.Args[i]

		// Handle flags with equals sign (--key=value)
		if strings.HasPrefix(arg, "--") && strings.Contains(arg, "=") {
			parts := strings.SplitN(arg, "=", 2)
			flagName := strings.TrimPrefix(parts[0], "--")
			args[flagName] = parts[1]
			continue
		}

		// Handle flags without equals sign (--key value)
		if strings.HasPrefix(arg, "--") {
			flagName := strings.TrimPrefix(arg, "--")

			// Check if this is a boolean flag (no value)
			if i+1 >= len(os.Args) || strings.HasPrefix(os.Args[i+1], "--") {
				args[flagName] = "true"
			} else {
				args[flagName] = os.Args[i+1]
				i++ // Skip the value in the next iteration
			}
		}
	}

	return args
}

// PrintUsage outputs the command-line usage instructions
func PrintUsage() {
	fmt.Printf("Usage:\n")
	fmt.Printf("  %s serve [--listen=ADDR] [--max-upload=SIZE] [--cors-origin=URL] [--pure-go] [--debug] [--logfile=PATH]\n", os.Args[0])
	fmt.Printf("\nParameters:\n")
	fmt.Printf("  --listen      : Address to listen on (default: :8000)\n")
	fmt.Printf("  --max-upload  : Maximum upload size, e.g. 25MB (default: 25MB)\n")
	fmt.Printf("  --cors-origin : Allowed CORS origin, repeatable via comma list\n")
	fmt.Printf("  --pure-go     : Use the pure-Go codec instead of OpenCV\n")
	fmt.Printf("  --debug       : Enable debug mode (logs detailed information)\n")
	fmt.Printf("  --logfile     : Log file path (default: imagepress.log)\n")
	fmt.Printf("\nExamples:\n")
	fmt.Printf("  %s serve --listen=:8000 --debug\n", os.Args[0])
	fmt.Printf("  %s serve --max-upload=50MB --cors-origin=http://localhost:5173\n", os.Args[0])
}

// ParseSize parses a human-readable size such as "25MB", "512KB" or the
// short "25M" notation into bytes
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if s == "" {
		return 0, fmt.Errorf("empty size value")
	}

	multiplier := int64(1)
	switch {
	case strings.HasSuffix(s, "GB"):
		multiplier = 1024 * 1024 * 1024
		s = strings.TrimSuffix(s, "GB")
	case strings.HasSuffix(s, "MB"):
		multiplier = 1024 * 1024
		s = strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "KB"):
		multiplier = 1024
		s = strings.TrimSuffix(s, "KB")
	case strings.HasSuffix(s, "G"):
		multiplier = 1024 * 1024 * 1024
		s = strings.TrimSuffix(s, "G")
	case strings.HasSuffix(s, "M"):
		multiplier = 1024 * 1024
		s = strings.TrimSuffix(s, "M")
	case strings.HasSuffix(s, "K"):
		multiplier = 1024
		s = strings.TrimSuffix(s, "K")
	case strings.HasSuffix(s, "B"):
		s = strings.TrimSuffix(s, "B")
	}

	value, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("invalid size value %q", s)
	}

	return value * multiplier, nil
}

// SuggestFilename builds the download filename for a compressed result,
// embedding the achieved size: <stem>_compressed_<sizeInMB>MB.<ext>
func SuggestFilename(originalName string, sizeBytes int64, format types.Format) string {
	stem := originalName
	if stem == "" {
		stem = "image"
	}
	stem = filepath.Base(stem)
	if ext := filepath.Ext(stem); ext != "" {
		stem = strings.TrimSuffix(stem, ext)
	}

	sizeMB := float64(sizeBytes) / (1024 * 1024)
	return fmt.Sprintf("%s_compressed_%.2fMB.%s", stem, sizeMB, format.Ext())
}
