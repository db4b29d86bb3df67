package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"autovid/internal/analytics"
	"autovid/internal/api/handlers"
	"autovid/internal/api/middleware"
	"autovid/internal/config"
	"autovid/internal/database"
	"autovid/internal/logger"
	"autovid/internal/reconciler"
	"autovid/internal/services/discovery"
	"autovid/internal/services/summarizer"
	"autovid/internal/services/youtube"
	"autovid/internal/store"
)

type Server struct {
	config *config.Config
	logger *logger.Logger
	db     *database.Database
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, logger *logger.Logger, db *database.Database) *Server {
	// Set Gin mode
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())

	// Stores
	shops := store.NewShopStore(db.DB)
	infos := store.NewExtendedInfoStore(db.DB)
	activities := store.NewActivityStore(db.DB)
	prompts := store.NewPromptStore(db.DB)

	// External services and the reconciler on top of them
	discoveryClient := discovery.NewClient(cfg.DiscoveryWebhookURL, logger)
	summarizerClient := summarizer.NewClient(cfg.PerplexityAPIKey, cfg.PerplexityModel, logger)
	validator := youtube.NewValidator()
	rec := reconciler.New(infos, prompts, summarizerClient, validator, logger)
	aggregator := analytics.New(activities, infos, cfg.AnalyticsBatchSize, cfg.AnalyticsBatchDelay, logger)

	// Handlers
	videoHandler := handlers.NewVideoHandler(discoveryClient, rec, infos, cfg, logger)
	productHandler := handlers.NewProductHandler(infos, rec, cfg, logger)
	activityHandler := handlers.NewActivityHandler(activities, logger)
	analyticsHandler := handlers.NewAnalyticsHandler(aggregator, cfg, logger)
	promptHandler := handlers.NewPromptHandler(prompts, logger)
	shopHandler := handlers.NewShopHandler(shops, prompts, cfg, logger)
	webhookHandler := handlers.NewWebhookHandler(cfg, logger)

	// Health check
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Routes
	apiGroup := router.Group("/api")
	{
		// No shop credentials yet at install time; webhooks carry
		// their own HMAC authentication.
		apiGroup.POST("/install", shopHandler.Install)
		apiGroup.POST("/webhooks", webhookHandler.Handle)

		authed := apiGroup.Group("")
		authed.Use(middleware.ShopAuth(shops, logger))
		{
			authed.POST("/get-video", videoHandler.GetVideo)
			authed.POST("/update-metafield", videoHandler.UpdateMetafield)
			authed.POST("/delete-metafield", videoHandler.DeleteMetafield)
			authed.POST("/mark-video-opened", videoHandler.MarkVideoOpened)

			authed.POST("/update-pageview", activityHandler.UpdatePageView)
			authed.POST("/update-videocount", activityHandler.UpdateVideoCount)

			authed.POST("/get-products", productHandler.GetProducts)
			authed.GET("/products/:id/videos", productHandler.ListVideos)
			authed.POST("/products/:id/videos", productHandler.UpdateVideos)

			authed.GET("/analytics", analyticsHandler.Get)

			authed.GET("/prompt", promptHandler.Get)
			authed.PUT("/prompt", promptHandler.Update)

			authed.GET("/onboarding", shopHandler.GetOnboarding)
			authed.POST("/onboarding", shopHandler.CompleteOnboarding)
		}
	}

	return &Server{
		config: cfg,
		logger: logger,
		db:     db,
		router: router,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server on " + addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}

// Router exposes the Gin engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
