package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"strings"
	"time"

	"imagepress/codec"
	"imagepress/compressor"
	"imagepress/logging"
	"imagepress/metadata"
	"imagepress/server"
	"imagepress/signalhandler"
	"imagepress/utils"
)

func main() {
	// Set the optimal number of CPUs to use
	runtime.GOMAXPROCS(signalhandler.GetOptimalProcs())

	// Parse command line arguments into a map
	args := utils.ParseArguments()

	command, hasCommand := args["command"]
	if !hasCommand {
		utils.PrintUsage()
		os.Exit(1)
	}

	switch command {
	case "serve":
		handleServeCommand(args)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		utils.PrintUsage()
		os.Exit(1)
	}
}

func handleServeCommand(args map[string]string) {
	// Setup debug logging if enabled
	debugMode := false
	if _, ok := args["debug"]; ok {
		debugMode = true
	}
	logging.SetDebug(debugMode)

	logPath := "imagepress.log"
	if customLogPath, ok := args["logfile"]; ok && customLogPath != "" {
		logPath = customLogPath
	}
	if err := logging.SetupLogger(logPath, debugMode); err != nil {
		fmt.Printf("Warning: Failed to setup logging: %v\n", err)
	}
	defer logging.CloseLogger()

	// Choose codec adapter
	var adapter codec.Adapter
	if _, ok := args["pure-go"]; ok {
		adapter = codec.NewNativeAdapter()
		fmt.Println("Using pure-Go codec adapter")
	} else {
		adapter = codec.NewOpenCVAdapter()
	}

	meta := metadata.NewInspector()
	defer meta.Close()

	svc := compressor.NewService(adapter, meta)

	// Transport configuration
	listen := ":8000"
	if addr, ok := args["listen"]; ok && addr != "" {
		listen = addr
	}

	maxUpload := "25M"
	if sizeStr, ok := args["max-upload"]; ok && sizeStr != "" {
		if _, err := utils.ParseSize(sizeStr); err != nil {
			fmt.Printf("Warning: %v, using default (25MB)\n", err)
		} else {
			maxUpload = strings.TrimSuffix(strings.ToUpper(sizeStr), "B")
		}
	}

	// CORS for local frontend development
	corsOrigins := []string{"http://localhost:5173", "http://localhost:3000"}
	if origins, ok := args["cors-origin"]; ok && origins != "" {
		corsOrigins = strings.Split(origins, ",")
	}

	srv := server.New(svc, server.Config{
		Listen:      listen,
		MaxUpload:   maxUpload,
		CORSOrigins: corsOrigins,
	})

	// Graceful shutdown on SIGINT/SIGTERM
	signalhandler.SetupHandler(func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.LogError("Shutdown error: %v", err)
		}
		meta.Close()
		logging.CloseLogger()
	}, 15*time.Second)

	fmt.Printf("Starting image compression service...\n")
	fmt.Printf("Listening on: %s\n", listen)
	fmt.Printf("Max upload size: %s\n", maxUpload)
	fmt.Printf("Debug mode: %s\n", map[bool]string{true: "enabled", false: "disabled"}[debugMode])

	logging.LogInfo("Server starting on %s", listen)

	if err := srv.Start(); err != nil && err != http.ErrServerClosed {
		logging.LogError("Server error: %v", err)
		fmt.Printf("Server error: %v\n", err)
		os.Exit(1)
	}
}
