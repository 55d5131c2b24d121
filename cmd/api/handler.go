package api

import (
	"log"

	authDelivery "lifedash-backend/internal/auth/delivery"
	authRepo "lifedash-backend/internal/auth/repository"
	authUsecase "lifedash-backend/internal/auth/usecase"
	calendarDelivery "lifedash-backend/internal/calendar/delivery"
	"lifedash-backend/internal/notification"
	searchDelivery "lifedash-backend/internal/search/delivery"
	searchRepo "lifedash-backend/internal/search/repository"
	searchUsecasePkg "lifedash-backend/internal/search/usecase"
	syncDelivery "lifedash-backend/internal/sync/delivery"
	syncUsecasePkg "lifedash-backend/internal/sync/usecase"
	"lifedash-backend/pkg/calendar"
	"lifedash-backend/pkg/chroma"
	"lifedash-backend/pkg/config"
	"lifedash-backend/pkg/fcm"
	"lifedash-backend/pkg/sse"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase     authUsecase.AuthUsecase
	sseManager      *sse.Manager
	config          *config.Config
	authHandler     *authDelivery.AuthHandler
	syncHandler     *syncDelivery.SyncHandler
	webhookHandler  *syncDelivery.WebhookHandler
	searchHandler   *searchDelivery.SearchHandler
	calendarHandler *calendarDelivery.CalendarHandler
	indexer         *searchUsecasePkg.IndexerService
}

// NewHandler wires the delivery layer together. The sync usecases get their
// optional collaborators (indexer, notifier) here so the sync package stays
// free of search and notification imports.
func NewHandler(
	authUc authUsecase.AuthUsecase,
	syncUc syncUsecasePkg.SyncUsecase,
	webhookUc syncUsecasePkg.WebhookUsecase,
	searchUc searchUsecasePkg.SearchUsecase,
	sseManager *sse.Manager,
	cfg *config.Config,
	userRepository authRepo.UserRepository,
	deviceTokenRepo authRepo.DeviceTokenRepository,
	indexHistoryRepo searchRepo.IndexHistoryRepository,
	chromaClient *chroma.ChromaClient,
	fcmClient *fcm.Client,
) *Handler {
	var indexer *searchUsecasePkg.IndexerService
	if chromaClient != nil {
		indexer = searchUsecasePkg.NewIndexerService(indexHistoryRepo, chromaClient, 3)
		indexer.Start()
		syncUc.SetRecordIndexer(indexer)
		log.Println("Indexer service started")
	} else {
		log.Println("Warning: Chroma client not available, semantic search disabled")
	}

	notifService := notification.NewService(sseManager, deviceTokenRepo, fcmClient)
	syncUc.SetChangeNotifier(notifService)
	webhookUc.SetChangeNotifier(notifService)

	calendarService := calendar.NewService(cfg.GoogleClientID, cfg.GoogleClientSecret)

	var searchHandler *searchDelivery.SearchHandler
	if searchUc != nil {
		searchHandler = searchDelivery.NewSearchHandler(searchUc)
	}

	return &Handler{
		authUsecase:     authUc,
		sseManager:      sseManager,
		config:          cfg,
		authHandler:     authDelivery.NewAuthHandler(authUc, deviceTokenRepo),
		syncHandler:     syncDelivery.NewSyncHandler(syncUc),
		webhookHandler:  syncDelivery.NewWebhookHandler(webhookUc, cfg.NotionWebhookSecret),
		searchHandler:   searchHandler,
		calendarHandler: calendarDelivery.NewCalendarHandler(calendarService, userRepository),
		indexer:         indexer,
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h)

	return r.Run(addr)
}

// Stop shuts down the background workers the handler owns
func (h *Handler) Stop() {
	if h.indexer != nil {
		h.indexer.Stop()
	}
}
