package main

import (
	"log"
	"os"

	api "lifedash-backend/cmd/api"
	authdomain "lifedash-backend/internal/auth/domain"
	authRepo "lifedash-backend/internal/auth/repository"
	authUsecase "lifedash-backend/internal/auth/usecase"
	searchdomain "lifedash-backend/internal/search/domain"
	searchRepo "lifedash-backend/internal/search/repository"
	searchUsecase "lifedash-backend/internal/search/usecase"
	syncdomain "lifedash-backend/internal/sync/domain"
	syncRepo "lifedash-backend/internal/sync/repository"
	"lifedash-backend/internal/sync/scheduler"
	syncUsecase "lifedash-backend/internal/sync/usecase"
	"lifedash-backend/pkg/chroma"
	"lifedash-backend/pkg/config"
	"lifedash-backend/pkg/database"
	"lifedash-backend/pkg/fcm"
	"lifedash-backend/pkg/notion"
	"lifedash-backend/pkg/sse"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&authdomain.User{}, &authdomain.RefreshToken{}, &authdomain.DeviceToken{}, &syncdomain.Binding{}, &searchdomain.IndexHistory{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}
	// Every domain mirror table shares the record shape
	for _, table := range syncRepo.MirrorTables() {
		if err := db.Table(table).AutoMigrate(&syncdomain.MirrorRecord{}); err != nil {
			log.Fatal("Failed to migrate mirror table "+table+":", err)
		}
	}

	// Initialize repositories (dependency injection)
	userRepo := authRepo.NewUserRepository(db)
	deviceTokenRepo := authRepo.NewDeviceTokenRepository(db)
	bindingRepo := syncRepo.NewBindingRepository(db)
	recordRepo := syncRepo.NewRecordRepository(db)
	indexHistoryRepo := searchRepo.NewIndexHistoryRepository(db)

	// Initialize SSE Manager
	sseManager := sse.NewManager()
	go sseManager.Run()

	// Initialize Notion API client
	notionClient := notion.NewClient(cfg.NotionBaseURL, cfg.NotionVersion)

	// Initialize FCM Client (optional, notifications degrade to SSE only)
	var fcmClient *fcm.Client
	if cfg.FirebaseCredentials != "" {
		fcmClient, err = fcm.NewClient(cfg.FirebaseCredentials)
		if err != nil {
			log.Printf("[WARN] Failed to initialize FCM client (push notifications disabled): %v", err)
			fcmClient = nil
		}
	}

	// Initialize Chroma client (optional, search endpoints disabled without it)
	var chromaClient *chroma.ChromaClient
	if cfg.ChromaAPIKey != "" {
		chromaClient, err = chroma.NewChromaClient(cfg)
		if err != nil {
			log.Printf("[WARN] Failed to initialize Chroma client (semantic search disabled): %v", err)
			chromaClient = nil
		}
	}

	// Initialize use cases (dependency injection)
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepo, cfg)
	syncUsecaseInstance := syncUsecase.NewSyncUsecase(bindingRepo, recordRepo, userRepo, notionClient)
	webhookUsecaseInstance := syncUsecase.NewWebhookUsecase(bindingRepo, recordRepo, userRepo, notionClient, syncUsecaseInstance)

	var searchUsecaseInstance searchUsecase.SearchUsecase
	if chromaClient != nil {
		searchUsecaseInstance = searchUsecase.NewSearchUsecase(indexHistoryRepo, recordRepo, chromaClient)
	}

	// Start the scheduled-sync safety net
	syncScheduler := scheduler.NewSyncScheduler(bindingRepo, syncUsecaseInstance, cfg.SyncInterval)
	syncScheduler.Start()
	defer syncScheduler.Stop()

	// Initialize HTTP handler
	handler := api.NewHandler(
		authUsecaseInstance,
		syncUsecaseInstance,
		webhookUsecaseInstance,
		searchUsecaseInstance,
		sseManager,
		cfg,
		userRepo,
		deviceTokenRepo,
		indexHistoryRepo,
		chromaClient,
		fcmClient,
	)
	defer handler.Stop()

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	log.Printf("Server starting on port %s", port)
	if err := handler.Start(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
