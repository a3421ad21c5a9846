package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openoptions/go-settings-registry/api"
	"github.com/openoptions/go-settings-registry/config"
	"github.com/openoptions/go-settings-registry/internal/localization"
	"github.com/openoptions/go-settings-registry/internal/registry"
	"github.com/openoptions/go-settings-registry/model"
)

func main() {
	// Define command-line flags. Flags override environment configuration.
	var (
		help    = flag.Bool("help", false, "Show help message")
		version = flag.Bool("version", false, "Show version information")
		port    = flag.String("port", "", "Port to run the server on")
		dataDir = flag.String("data-dir", "", "Directory to store registry data")
	)

	flag.Parse()

	// Handle help flag
	if *help {
		fmt.Printf("Settings Registry - A typed game-settings service with live apply and fuzzy page search\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s                            # Start server on default port 8080\n", os.Args[0])
		fmt.Printf("  %s --port 9000                # Start server on port 9000\n", os.Args[0])
		fmt.Printf("  %s --data-dir /tmp/settings   # Use custom data directory\n", os.Args[0])
		return
	}

	// Handle version flag
	if *version {
		fmt.Printf("Settings Registry v1.0.0\n")
		fmt.Printf("Typed settings schema, live-apply observers, and weighted page search\n")
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != "" {
		cfg.Port = *port
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	// Initialize the settings registry
	log.Printf("Using data directory: %s", cfg.DataDir)
	reg := registry.NewRegistry(cfg.DataDir, config.DefaultSchema(), cfg.MaxWorkers)

	// Live-apply observer: every committed write is visible here before the
	// HTTP response goes out.
	reg.Store().Subscribe("", func(change model.Change) {
		log.Printf("Applied setting change: [%s] %s = %v", change.Section, change.Key, change.Value)
	})

	if cfg.WatchValues {
		if err := reg.WatchValues(); err != nil {
			log.Printf("Warning: Could not watch values file: %v", err)
		}
	}

	// Initialize Gin router
	router := gin.Default()

	// Setup API routes
	api.SetupRoutes(router, reg, localization.DefaultCatalog())

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start the server
	go func() {
		log.Printf("Starting server on port %s...", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Shut down cleanly so pending jobs drain and state is persisted.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Warning: Server shutdown error: %v", err)
	}
	reg.Stop()
	log.Println("Server stopped")
}
