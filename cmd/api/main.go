package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"alfredoptarigan/excel-viewer/internal/config"
	"alfredoptarigan/excel-viewer/internal/handlers"
	"alfredoptarigan/excel-viewer/internal/repositories"
	"alfredoptarigan/excel-viewer/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	if err := config.InitLogger(cfg.Log); err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer zap.L().Sync() //nolint:errcheck
	zap.L().Info("✅ Config loaded successfully")

	// Upload audit trail is optional
	var uploadRepo repositories.UploadRepository
	if cfg.Database.Enabled {
		db, err := config.InitDatabase(cfg)
		if err != nil {
			zap.L().Fatal("❌ Failed to initialize database", zap.Error(err))
		}
		uploadRepo = repositories.NewUploadRepository(db)
		zap.L().Info("✅ Upload history enabled")
	}

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		zap.L().Fatal("❌ Failed to create upload directory", zap.Error(err))
	}

	renderer, err := services.NewRenderer()
	if err != nil {
		zap.L().Fatal("❌ Failed to load templates", zap.Error(err))
	}

	store := services.NewDatasetStore()
	extractor := services.NewSheetExtractor()
	rowFilter := services.NewRowFilter(cfg.Filter.Fields, cfg.Filter.SearchColumn)
	zap.L().Info("✅ Services initialized successfully",
		zap.Strings("filter_fields", cfg.Filter.Fields),
		zap.String("search_column", cfg.Filter.SearchColumn),
	)

	janitor := services.NewJanitor(storageService, cfg.Storage.Retention, cfg.Storage.SweepInterval)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	janitor.Start(ctx)

	// Initialize Handlers
	uploadHandler := handlers.NewUploadHandler(
		storageService,
		extractor,
		store,
		uploadRepo,
		cfg.Storage.MaxFileSize,
	)
	viewHandler := handlers.NewViewHandler(store, rowFilter, renderer, cfg.Filter.SearchParam)
	historyHandler := handlers.NewHistoryHandler(uploadRepo)
	zap.L().Info("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Excel Viewer",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	handlers.RegisterRoutes(app, uploadHandler, viewHandler, historyHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zap.L().Info("🛑 Shutting down server...")
		janitor.Stop()
		if err := app.Shutdown(); err != nil {
			zap.L().Error("❌ Server forced to shutdown", zap.Error(err))
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zap.L().Info("🌐 Server starting", zap.String("addr", addr), zap.String("upload_dir", cfg.Storage.UploadPath))

	if err := app.Listen(addr); err != nil {
		zap.L().Fatal("❌ Failed to start server", zap.Error(err))
	}
}
