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
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-analyzer/internal/config"
	"alfredoptarigan/resume-analyzer/internal/handlers"
	"alfredoptarigan/resume-analyzer/internal/logger"
	"alfredoptarigan/resume-analyzer/internal/repositories"
	"alfredoptarigan/resume-analyzer/internal/services"
)

const multipartOverhead = 1 << 20

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.Server)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

	zlog.Info("config loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("ai_provider", cfg.AIProvider),
	)

	// Initialize database
	db, err := config.InitDatabase(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to initialize database", zap.Error(err))
	}

	resumeRepo := repositories.NewResumeRepository(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize services
	pdfParser := services.NewPDFParserService(zlog)

	geminiService, err := services.NewGeminiService(ctx, cfg.Gemini, zlog)
	if err != nil {
		zlog.Fatal("failed to initialize gemini", zap.Error(err))
	}

	var assessor services.Assessor
	switch cfg.AIProvider {
	case config.ProviderGemini:
		assessor = geminiService
	default:
		assessor = services.NewOpenRouterService(cfg.OpenRouter, zlog)
	}

	analyzer := services.NewAnalyzerService(pdfParser, assessor, zlog)

	// Similarity index is optional
	var indexer services.Indexer
	if cfg.IndexEnabled() {
		indexer = initIndexer(ctx, cfg, resumeRepo, geminiService, zlog)
	} else {
		zlog.Info("similarity index disabled")
	}

	uploadHandler := handlers.NewUploadHandler(resumeRepo, analyzer, indexer, cfg.Storage.MaxFileSize, zlog)
	resultHandler := handlers.NewResultHandler(resumeRepo, indexer, zlog)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:     "AI Resume Analyzer API",
		ReadTimeout: 30 * time.Second,
		// the model call runs inside the request
		WriteTimeout: 3 * time.Minute,
		BodyLimit:    bodyLimit(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator:  uuid.NewString,
		ContextKey: logger.RequestIDKey,
	}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":      "healthy",
			"time":        time.Now(),
			"ai_provider": cfg.AIProvider,
			"index":       indexer != nil,
		})
	})

	api.Post("/resumes", uploadHandler.HandleUpload)
	api.Get("/resumes", resultHandler.HandleList)
	api.Get("/resumes/:id", resultHandler.HandleGetResult)
	api.Get("/resumes/:id/similar", resultHandler.HandleSimilar)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "AI Resume Analyzer API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/resumes",
				"GET /api/v1/resumes",
				"GET /api/v1/resumes/:id",
				"GET /api/v1/resumes/:id/similar",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zlog.Info("shutting down server")
		if indexer != nil {
			indexer.Stop()
		}
		cancel()
		if err := app.Shutdown(); err != nil {
			zlog.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zlog.Info("server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		zlog.Fatal("failed to start server", zap.Error(err))
	}
}

func initIndexer(
	ctx context.Context,
	cfg *config.Config,
	resumeRepo repositories.ResumeRepository,
	embedder services.Embedder,
	zlog *zap.Logger,
) services.Indexer {
	qdrantService, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
		zlog,
	)
	if err != nil {
		zlog.Fatal("failed to initialize qdrant", zap.Error(err))
	}

	if err := qdrantService.InitCollection(ctx); err != nil {
		zlog.Fatal("failed to initialize qdrant collection", zap.Error(err))
	}

	indexer := services.NewIndexer(resumeRepo, embedder, qdrantService, cfg.Index.Concurrency, zlog)
	indexer.Start(ctx)

	return indexer
}

// bodyLimit leaves room for the multipart envelope so oversize files get the
// handler's readable error. Zero or less means no file limit, which keeps fiber's default.
func bodyLimit(maxFileSize int64) int {
	if maxFileSize <= 0 {
		return fiber.DefaultBodyLimit
	}
	return int(maxFileSize) + multipartOverhead
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
