package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

var (
	serviceLogger *log.Logger
	logFile       *os.File
	mu            sync.Mutex
	isSetup       bool
	debugEnabled  bool
)

// SetupLogger initializes the service logger with the specified log file.
// When mirrorStdout is true, log lines are written to stdout as well.
func SetupLogger(logFilePath string, mirrorStdout bool) error {
	mu.Lock()
	defer mu.Unlock()

	if isSetup {
		return nil
	}

	var err error
	logFile, err = os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file: %v", err)
	}

	var out io.Writer = logFile
	if mirrorStdout {
		out = io.MultiWriter(os.Stdout, logFile)
	}
	serviceLogger = log.New(out, "", log.LstdFlags)

	serviceLogger.Printf("--- ImagePress Log Started at %s ---\n", time.Now().Format(time.RFC3339))

	isSetup = true
	return nil
}

// SetDebug toggles debug-level output
func SetDebug(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	debugEnabled = enabled
}

// CloseLogger closes the log file
func CloseLogger() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		serviceLogger.Printf("--- ImagePress Log Closed at %s ---\n", time.Now().Format(time.RFC3339))
		logFile.Close()
		logFile = nil
		isSetup = false
	}
}

// LogInfo logs an information message
func LogInfo(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	if serviceLogger != nil {
		serviceLogger.Printf("INFO: "+format, args...)
	} else {
		log.Printf("INFO: "+format, args...)
	}
}

// DebugLog logs a message only when debug mode is enabled
func DebugLog(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	if !debugEnabled {
		return
	}
	if serviceLogger != nil {
		serviceLogger.Printf("DEBUG: "+format, args...)
	} else {
		log.Printf("DEBUG: "+format, args...)
	}
}

// LogError logs an error message
func LogError(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	if serviceLogger != nil {
		serviceLogger.Printf("ERROR: "+format, args...)
	} else {
		log.Printf("ERROR: "+format, args...)
	}
}

// LogWarning logs a warning message
func LogWarning(format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	if serviceLogger != nil {
		serviceLogger.Printf("WARNING: "+format, args...)
	} else {
		log.Printf("WARNING: "+format, args...)
	}
}

// LogRequest logs the outcome of one compression request
func LogRequest(operation string, sizeIn int64, sizeOut int64, duration time.Duration, err error) {
	mu.Lock()
	defer mu.Unlock()

	logger := serviceLogger
	if logger == nil {
		LogRequestFallback(operation, sizeIn, sizeOut, duration, err)
		return
	}
	if err != nil {
		logger.Printf("REQUEST: %s failed after %v (in=%d bytes): %v", operation, duration, sizeIn, err)
	} else {
		logger.Printf("REQUEST: %s ok in %v (in=%d bytes, out=%d bytes)", operation, duration, sizeIn, sizeOut)
	}
}

// LogRequestFallback writes a request log line via the standard logger
func LogRequestFallback(operation string, sizeIn int64, sizeOut int64, duration time.Duration, err error) {
	if err != nil {
		log.Printf("REQUEST: %s failed after %v (in=%d bytes): %v", operation, duration, sizeIn, err)
	} else {
		log.Printf("REQUEST: %s ok in %v (in=%d bytes, out=%d bytes)", operation, duration, sizeIn, sizeOut)
	}
}
