package signalhandler

import (
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"
)

// SetupHandler registers SIGINT/SIGTERM handling. The shutdown callback is
// given gracePeriod to finish in-flight requests; after that the process
// exits regardless.
func SetupHandler(shutdown func(), gracePeriod time.Duration) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan

		done := make(chan struct{})
		go func() {
			if shutdown != nil {
				shutdown()
			}
			close(done)
		}()

		select {
		case <-done:
			os.Exit(0)
		case <-time.After(gracePeriod):
			os.Exit(1)
		}
	}()
}

// GetOptimalProcs returns the optimal number of worker goroutines for the system
func GetOptimalProcs() int {
	numCPU := runtime.NumCPU()

	// Encoding goes through CGo; leaving headroom avoids thread churn
	maxProcs := (numCPU * 3) / 4
	if maxProcs < 1 {
		maxProcs = 1
	}

	return maxProcs
}
