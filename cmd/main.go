package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "contacts-backend/config"
	"contacts-backend/middleware"
	"contacts-backend/token"
	"contacts-backend/utils"

	// Repositories
	contact_repositories "contacts-backend/contacts/repositories"

	// Routes
	contact_routes "contacts-backend/contacts/routes"
	import_routes "contacts-backend/imports/routes"

	// Imports
	import_services "contacts-backend/imports/services"
	import_tasks "contacts-backend/imports/tasks"

	// bleve
	bleveRepositories "contacts-backend/bleve/repositories"
	bleveServices "contacts-backend/bleve/services"

	// WebSocket
	"contacts-backend/websocket"

	"contacts-backend/internal/bootstrap"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Initialize Zap logger
	config.InitLogger()
	defer config.Logger.Sync()

	// Environment variables may also come from the container
	if err := godotenv.Load(".env"); err != nil {
		config.Logger.Warn("No .env file loaded", zap.Error(err))
	}

	maxUploadMB := config.GetEnvInt("IMPORT_MAX_FILE_MB", 10)
	app := fiber.New(fiber.Config{
		BodyLimit: maxUploadMB * 1024 * 1024,
	})
	app.Use(recover.New())

	// Apply CORS middleware from middleware package
	middleware.InitCors(app)

	// Initialize database and configs
	db := config.ConfigureDatabase()
	port := config.GetEnvOr("PORT", "8080")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient := config.InitRedisServer(ctx)
	defer redisClient.Close()

	// asynq keeps its own connections to the same Redis
	redisOpts := config.RedisOptions()
	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     redisOpts.Addr,
		Password: redisOpts.Password,
		DB:       redisOpts.DB,
	}
	asynqClient := asynq.NewClient(asynqRedisOpt)
	defer asynqClient.Close()

	tokenMaker, err := token.NewPasetoMaker(config.GetEnv("TOKEN_SYMMETRIC_KEY"))
	if err != nil {
		config.Logger.Fatal("Cannot create token maker", zap.Error(err))
	}
	appCtx := &middleware.AppContext{PasetoMaker: tokenMaker, Ctx: ctx, RedisClient: redisClient}
	protected := middleware.ProtectedRoute(appCtx)

	indexPath := config.GetEnv("BLEVE_INDEX_PATH")
	if indexPath == "" {
		indexPath = "./bleve_data" // Default for local development
		config.Logger.Warn("BLEVE_INDEX_PATH not set, using default: ./bleve_data")
	}

	// ------ WebSocket Hub Initialization for import notifications ------
	wsHub := websocket.NewHub()
	go wsHub.Run(ctx)

	// Repositories
	bleveIndexingService := bleveServices.NewIndexingService(config.Logger, indexPath)
	defer bleveIndexingService.Close()
	_, bleveInterfaceRepo := bleveRepositories.NewBleveRepository(bleveIndexingService)
	contactRepo := contact_repositories.NewContactRepository(db)

	// Re-Index all data
	if config.GetEnv("BLEVE_REINDEX") == "true" {
		go bootstrap.IndexBleveData(ctx, contactRepo, bleveInterfaceRepo, config.Logger)
	}

	// Background indexing of imported contacts
	worker := asynq.NewServer(asynqRedisOpt, asynq.Config{
		Concurrency: 2,
		Queues:      map[string]int{import_tasks.IndexingQueue: 1},
	})
	mux := asynq.NewServeMux()
	mux.Handle(import_tasks.TypeIndexContacts, import_tasks.NewIndexContactsHandler(contactRepo, bleveInterfaceRepo, config.Logger))
	if err := worker.Start(mux); err != nil {
		config.Logger.Fatal("Failed to start task worker", zap.Error(err))
	}
	defer worker.Shutdown()

	// Services
	uploads := utils.NewTempUploadStorage(config.GetEnvOr("IMPORT_UPLOAD_DIR", "./tmp/imports"))
	importService := import_services.NewImportService(
		contactRepo,
		uploads,
		config.Logger,
		wsHub,
		import_tasks.NewIndexEnqueuer(asynqClient, config.Logger),
	)
	importLimiter := middleware.NewOrganizationRateLimiter(config.GetEnvInt("IMPORT_RATE_PER_MINUTE", 10))

	// Routes
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	import_routes.ImportInitRoutes(app, protected, importService, uploads, importLimiter, config.Logger)
	contact_routes.ContactInitRoutes(app, protected, contactRepo, bleveInterfaceRepo)

	wsHandler := websocket.NewWsHandler(wsHub, tokenMaker)
	app.Get("/ws/imports", wsHandler.HandleWebSocket)
	config.Logger.Info("WebSocket endpoint registered at /ws/imports")

	// Background cleanup tasks
	uploadTTL := time.Duration(config.GetEnvInt("IMPORT_UPLOAD_TTL_HOURS", 24)) * time.Hour
	cleanup, err := utils.RunScheduledCleanup(uploads, uploadTTL, config.Logger)
	if err != nil {
		config.Logger.Fatal("Failed to schedule upload cleanup", zap.Error(err))
	}
	defer cleanup.Stop()

	go func() {
		<-ctx.Done()
		config.Logger.Info("Shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			config.Logger.Error("Server shutdown failed", zap.Error(err))
		}
	}()

	// Start the application
	config.Logger.Info("Server starting", zap.String("port", port))
	if err := app.Listen(":" + port); err != nil {
		config.Logger.Error("Server failed", zap.String("port", port), zap.Error(err))
	}
}
