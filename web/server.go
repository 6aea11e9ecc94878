package web

import (
	"context"
	"net/http"

	"clozesmith/config"
	"clozesmith/llmclient"
	"clozesmith/store"
	"clozesmith/web/handlers"
	"clozesmith/web/middleware"
	"clozesmith/web/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	router  *gin.Engine
	logger  *zap.Logger
	config  *config.Config
	library *store.Library
	client  *llmclient.Client
	secret  []byte
}

func NewServer(cfg *config.Config, logger *zap.Logger, library *store.Library, client *llmclient.Client, sessionSecret []byte) *Server {
	// Set Gin mode based on environment
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(func(c *gin.Context) {
		// Add logger to context
		c.Set("logger", logger)
		c.Next()
	})

	server := &Server{
		router:  router,
		logger:  logger,
		config:  cfg,
		library: library,
		client:  client,
		secret:  sessionSecret,
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	// Serve static files
	s.router.Static("/static", "./web/static")
	s.router.GET("/", func(c *gin.Context) {
		c.File("./web/static/index.html")
	})
	s.router.GET("/login", func(c *gin.Context) {
		c.File("./web/static/login.html")
	})
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	refineService := services.NewRefineService(s.config, s.client, s.library, s.logger)
	composeService := services.NewComposeService(s.config, s.client, s.library, s.logger)
	rewriteService := services.NewRewriteService(s.config, s.client, s.logger)
	sourceService := services.NewSourceService(s.config, s.logger)

	authHandler := handlers.NewAuthHandler(s.config, s.secret, s.logger)
	cardsHandler := handlers.NewCardsHandler(s.config, refineService, composeService, rewriteService, s.logger)
	extractHandler := handlers.NewExtractHandler(sourceService, s.logger)
	libraryHandler := handlers.NewLibraryHandler(s.library, s.logger)

	s.router.POST("/api/login", authHandler.Login)
	s.router.POST("/api/logout", authHandler.Logout)

	authEnabled := s.config.AuthPassword != ""
	if !authEnabled {
		s.logger.Warn("AUTH_PASSWORD not set, API is open to anyone who can reach it")
	}

	limiter, err := middleware.NewSessionRateLimiter(middleware.RateLimiterConfig{
		RequestsPerMinute: s.config.RateLimitRequestsPerMin,
		BurstSize:         s.config.RateLimitBurstSize,
		CacheSize:         s.config.RateLimitCacheSize,
	}, s.logger)
	if err != nil {
		s.logger.Fatal("Failed to create rate limiter", zap.Error(err))
	}

	api := s.router.Group("/api")
	api.Use(middleware.AuthRequired(s.secret, authEnabled, s.logger))
	api.Use(middleware.RateLimitMiddleware(limiter))

	api.POST("/refine", cardsHandler.Refine)
	api.POST("/compose", cardsHandler.Compose)
	api.POST("/rewrite", cardsHandler.Rewrite)
	api.POST("/extract", extractHandler.Extract)
	api.GET("/models", cardsHandler.Models)

	api.GET("/learned", libraryHandler.ListLearned)
	api.POST("/learned", libraryHandler.AddLearned)
	api.DELETE("/learned/:id", libraryHandler.DeleteLearned)
	api.GET("/style-seed", libraryHandler.GetStyleSeed)
	api.PUT("/style-seed", libraryHandler.PutStyleSeed)
}

func (s *Server) Start(ctx context.Context, addr string) error {
	s.logger.Info("Starting web server", zap.String("address", addr))

	srv := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Web server failed to start", zap.Error(err))
		}
	}()

	// Wait for context cancellation
	<-ctx.Done()

	s.logger.Info("Shutting down web server")
	return srv.Shutdown(context.Background())
}
