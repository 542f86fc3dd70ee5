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

	"alfredoptarigan/ats-scanner/internal/config"
	"alfredoptarigan/ats-scanner/internal/handlers"
	"alfredoptarigan/ats-scanner/internal/repositories"
	"alfredoptarigan/ats-scanner/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initializes repositories
	resumeRepo := repositories.NewResumeRepository(db)
	runRepo := repositories.NewScanRunRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.JDPath, cfg.Storage.ResumePath)
	if err := storageService.EnsureDirs(); err != nil {
		log.Fatalf("❌ Failed to create storage directories: %v", err)
	}

	matcher, err := services.NewMatcher(64)
	if err != nil {
		log.Fatalf("❌ Failed to initialize keyword matcher: %v", err)
	}
	log.Println("✅ Services initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Gemini powers JD generation and, together with Qdrant, semantic scores.
	var geminiService services.GeminiService
	if cfg.Gemini.APIKey != "" {
		geminiService, err = services.NewGeminiService(
			ctx,
			cfg.Gemini.APIKey,
			cfg.Gemini.Model,
			cfg.Gemini.EmbedModel,
			cfg.Worker.RetryInitialDelay,
		)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
		}
		log.Println("✅ Gemini AI initialized successfully")
	} else {
		log.Println("⚠️ GEMINI_API_KEY not set, JD generation disabled")
	}

	var semanticIndex services.SemanticIndex
	if cfg.Qdrant.Enabled && geminiService != nil {
		qdrantService, err := services.NewQdrantService(
			cfg.Qdrant.URL,
			cfg.Qdrant.APIKey,
			cfg.Qdrant.Collection,
		)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
		}

		if err := qdrantService.InitCollection(ctx); err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
		}
		semanticIndex = services.NewSemanticIndex(geminiService, qdrantService, services.NewTextChunker())
		log.Println("✅ Qdrant initialized successfully")
	}

	jdService := services.NewJDService(storageService, geminiService, cfg.Worker.RetryMaxAttempts)
	ingestor := services.NewResumeIngestor(
		storageService,
		services.NewDocumentParser(),
		services.NewResumeParser(),
		resumeRepo,
		semanticIndex,
		cfg.Storage.MaxFileSize,
		cfg.Storage.AllowedExtensions,
	)
	scannerService := services.NewScannerService(
		storageService,
		resumeRepo,
		runRepo,
		matcher,
		semanticIndex,
		cfg.Worker.Concurrency,
	)
	log.Println("✅ Scanner service initialized")

	// Initialize worker
	sweeper := services.NewStaleRunSweeper(runRepo, cfg.Worker.StaleRunAge, cfg.Worker.SweepInterval)
	sweeper.Start(ctx)
	log.Println("✅ Worker started successfully")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "ATS Resume Scanner API",
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 5 * time.Minute,
		BodyLimit:    int(cfg.Storage.MaxRequestSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	handlers.Register(app,
		handlers.NewJDHandler(jdService),
		handlers.NewScanHandler(scannerService),
		handlers.NewUploadHandler(ingestor, storageService),
	)
	log.Println("✅ Handlers initialized")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		cancel()
		sweeper.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)
	log.Printf("📁 JD folder: %s, resume folder: %s\n", cfg.Storage.JDPath, cfg.Storage.ResumePath)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
