// Command server starts the ontology simulation engine HTTP API server.
//
// Usage:
//
//	server [flags]
//
// Flags:
//
//	-addr string
//	    Server address (default ":8080")
//	-allowed-origin string
//	    Development origin allowed by CORS (default "http://localhost:5173")
//	-max-payload-size int
//	    Maximum workspace document size in bytes (default 10MB)
//	-max-history-events int
//	    Maximum retained history events, 0 = unbounded (default 0)
//
// The server exposes the following endpoints:
//
//	POST /api/v1/workspace/load       - Load a workspace (file upload or ?sample=<name>)
//	POST /api/v1/workspace/simulate   - Execute an action on a target node
//	POST /api/v1/workspace/reset      - Restore the initial workspace state
//	GET  /api/v1/workspace/history    - Chronological execution history
//	GET  /api/v1/workspace/actions    - Actions applicable to a node
//	GET  /samples                     - Built-in sample workspaces
//	GET  /health                      - Health check
//	GET  /health/live                 - Liveness probe
//	GET  /health/ready                - Readiness probe
//	GET  /metrics                     - Prometheus metrics
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomhans2/poc-palantir/pkg/config"
	"github.com/tomhans2/poc-palantir/pkg/server"
)

func main() {
	addr := flag.String("addr", ":8080", "Server address")
	allowedOrigin := flag.String("allowed-origin", "http://localhost:5173", "Development origin allowed by CORS")
	maxPayloadSize := flag.Int("max-payload-size", 10*1024*1024, "Maximum workspace document size in bytes")
	maxHistoryEvents := flag.Int("max-history-events", 0, "Maximum retained history events (0 = unbounded)")

	flag.Parse()

	engineConfig := config.Default()
	engineConfig.AllowedOrigin = *allowedOrigin
	engineConfig.MaxPayloadSize = *maxPayloadSize
	engineConfig.MaxHistoryEvents = *maxHistoryEvents

	serverConfig := server.DefaultConfig()
	serverConfig.Address = *addr
	serverConfig.MaxRequestBodySize = int64(*maxPayloadSize)

	srv, err := server.New(serverConfig, engineConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create server: %v\n", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		fmt.Printf("Starting Ontology Simulation Engine Server on %s\n", *addr)
		fmt.Printf("Health check:  http://localhost%s/health\n", *addr)
		fmt.Printf("Metrics:       http://localhost%s/metrics\n", *addr)
		fmt.Printf("Samples:       http://localhost%s/samples\n", *addr)
		fmt.Printf("API endpoint:  http://localhost%s/api/v1/workspace/load\n", *addr)
		fmt.Println("\nPress Ctrl+C to shutdown")

		if err := srv.Start(); err != nil {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	case sig := <-sigChan:
		fmt.Printf("\nReceived signal: %v\n", sig)

		ctx, cancel := context.WithTimeout(context.Background(), engineConfig.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("Server stopped")
	}
}
