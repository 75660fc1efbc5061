package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"modulmate/internal/common/config"
	"modulmate/internal/common/middleware"
	"modulmate/internal/editor/export"
	"modulmate/internal/editor/handlers"
	"modulmate/internal/editor/metrics"
	"modulmate/internal/editor/render"
	"modulmate/internal/editor/repository"
	"modulmate/internal/editor/service"
	"modulmate/internal/editor/store"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Editor Service
// ============================================================

func main() {
	cfg := config.Load()
	ctx := context.Background()

	repo, db, err := repository.Open(ctx, cfg.DBDriver, cfg.DBPath, cfg.DBDSN)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	storage, err := service.Open(ctx, service.Options{
		Driver:     cfg.StorageDriver,
		Root:       cfg.StorageRoot,
		S3Bucket:   cfg.S3Bucket,
		S3Region:   cfg.S3Region,
		S3Endpoint: cfg.S3Endpoint,
		PathStyle:  cfg.S3PathStyle,
	})
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}

	collector := metrics.New()
	editorStore := store.New(store.WithObserver(collector))

	captureOpts := render.DefaultCaptureOptions()
	captureOpts.Size = cfg.CaptureSize
	captureOpts.Scale = cfg.CaptureScale

	sequencer := export.NewSequencer(
		editorStore,
		export.NewStorageCapturer(storage, captureOpts),
		time.Duration(cfg.ExportStepDelayMS)*time.Millisecond,
	)
	sequencer.SetObserver(collector)

	editorHandler := handlers.NewEditorHandler(editorStore, repo, storage, sequencer, captureOpts)
	healthHandler := handlers.NewHealthHandler(db, storage)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Modulmate Editor",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS(cfg.CORSOrigins))

	// ============================================================
	// Health, Docs & Metrics
	// ============================================================

	healthHandler.Routes(app)
	app.Get("/docs", handlers.SwaggerUI)
	app.Get("/docs/openapi.yaml", handlers.SwaggerSpec)
	app.Get("/metrics", adaptor.HTTPHandler(collector.Handler()))

	// ============================================================
	// Editor Routes
	// ============================================================

	editorHandler.Routes(app)

	// ============================================================
	// Server Start
	// ============================================================

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Printf("[EDITOR] shutting down")
		sequencer.Cancel()
		if err := app.Shutdown(); err != nil {
			log.Printf("[EDITOR] shutdown: %v", err)
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Editor Service on %s (env: %s, db: %s, storage: %s)", addr, cfg.Environment, cfg.DBDriver, storage.Driver())

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
