package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mentormesh/mentormesh-api/config"
	"github.com/mentormesh/mentormesh-api/internal/cache"
	"github.com/mentormesh/mentormesh-api/internal/database/postgres"
	"github.com/mentormesh/mentormesh-api/internal/handlers"
	"github.com/mentormesh/mentormesh-api/internal/middleware"
	"github.com/mentormesh/mentormesh-api/internal/repository"
	"github.com/mentormesh/mentormesh-api/internal/services"
	"github.com/mentormesh/mentormesh-api/pkg/db"
	"github.com/mentormesh/mentormesh-api/pkg/httpclient"
	"github.com/mentormesh/mentormesh-api/pkg/jwt"
	"github.com/mentormesh/mentormesh-api/pkg/logger"
	"github.com/mentormesh/mentormesh-api/pkg/metrics"
	"github.com/mentormesh/mentormesh-api/pkg/notify"
	"github.com/mentormesh/mentormesh-api/pkg/objectstorage"
	"github.com/mentormesh/mentormesh-api/pkg/profiling"
	"github.com/mentormesh/mentormesh-api/pkg/tracing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// registerPublicRoutes registers routes that need no session
func registerPublicRoutes(
	v1 *gin.RouterGroup,
	generalRateLimiter, authRateLimiter, registrationRateLimiter *middleware.RateLimiter,
	authHandler *handlers.AuthHandler,
	skillHandler *handlers.SkillHandler,
) {
	auth := v1.Group("/auth")
	auth.POST("/register", registrationRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), authHandler.Register)
	auth.POST("/request-login", authRateLimiter.Middleware(), authHandler.RequestLogin)
	auth.POST("/verify", authHandler.VerifyLogin)
	auth.POST("/logout", authHandler.Logout)

	v1.GET("/skills", generalRateLimiter.Middleware(), skillHandler.List)
	v1.GET("/skills/:slug/mentors", generalRateLimiter.Middleware(), skillHandler.Mentors)
	v1.GET("/skills/:slug/mentees", generalRateLimiter.Middleware(), skillHandler.Mentees)
}

// registerSessionRoutes registers routes behind the session cookie
func registerSessionRoutes(
	router *gin.Engine,
	cfg *config.Config,
	tokenManager *jwt.TokenManager,
	writeRateLimiter, messageRateLimiter *middleware.RateLimiter,
	authHandler *handlers.AuthHandler,
	skillHandler *handlers.SkillHandler,
	profileHandler *handlers.ProfileHandler,
	matchHandler *handlers.MatchHandler,
	suggestionHandler *handlers.SuggestionHandler,
	mentorshipHandler *handlers.MentorshipHandler,
	conversationHandler *handlers.ConversationHandler,
) {
	v1 := router.Group("/api/v1")
	v1.Use(middleware.SessionMiddleware(tokenManager, cfg.Session.CookieDomain, cfg.Session.CookieSecure))

	v1.GET("/auth/session", authHandler.GetSession)

	// Catalog management (service enforces admin)
	v1.POST("/skills", writeRateLimiter.Middleware(), skillHandler.Create)
	v1.DELETE("/skills/:id", writeRateLimiter.Middleware(), skillHandler.Delete)

	v1.GET("/profile", profileHandler.Get)
	v1.PUT("/profile", writeRateLimiter.Middleware(), profileHandler.Update)
	v1.POST("/profile/avatar", writeRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(10*1024*1024), profileHandler.UploadAvatar)
	v1.POST("/profile/complete-onboarding", profileHandler.CompleteOnboarding)

	v1.GET("/matches", matchHandler.List)

	v1.GET("/suggestions", suggestionHandler.List)
	v1.POST("/suggestions", writeRateLimiter.Middleware(), suggestionHandler.Create)
	v1.POST("/suggestions/generate", writeRateLimiter.Middleware(), matchHandler.Generate)
	v1.POST("/suggestions/:id/respond", writeRateLimiter.Middleware(), suggestionHandler.Respond)

	v1.GET("/mentorships", mentorshipHandler.List)
	v1.GET("/mentorships/:id", mentorshipHandler.Get)
	v1.POST("/mentorships/:id/activate", writeRateLimiter.Middleware(), mentorshipHandler.Activate)
	v1.POST("/mentorships/:id/complete", writeRateLimiter.Middleware(), mentorshipHandler.Complete)
	v1.POST("/mentorships/:id/cancel", writeRateLimiter.Middleware(), mentorshipHandler.Cancel)
	v1.GET("/mentorships/:id/messages", mentorshipHandler.ListMessages)
	v1.POST("/mentorships/:id/messages", messageRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), mentorshipHandler.SendMessage)

	v1.GET("/conversations", conversationHandler.List)
	v1.POST("/conversations", writeRateLimiter.Middleware(), conversationHandler.Start)
	v1.GET("/conversations/:id/messages", conversationHandler.ListMessages)
	v1.POST("/conversations/:id/messages", messageRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), conversationHandler.SendMessage)
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting MentorMesh API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Observability.ServiceInstanceID,
		cfg.Server.AppEnv,
		cfg.Observability.ExporterEndpoint,
	)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	// Continuous profiling (optional)
	stopProfiler, err := profiling.InitProfiler(
		cfg.Profiling,
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Observability.ServiceInstanceID,
		cfg.Server.AppEnv,
	)
	if err != nil {
		logger.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer stopProfiler()

	// Start infrastructure metrics collection
	metrics.RecordInfrastructureMetrics()

	// Initialize PostgreSQL connection pool
	pool, err := db.NewPool(context.Background(), db.PoolConfig{
		URL:      cfg.Database.URL,
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		logger.Fatal("Failed to initialize database connection pool", zap.Error(err))
	}
	defer pool.Close()

	// NOTE: Database migrations are run separately via the migrate command

	store := postgres.NewClient(pool)

	// Initialize object storage client for avatar uploads
	var storageClient objectstorage.ClientInterface
	if cfg.ObjectStorage.AccessKeyID != "" && cfg.ObjectStorage.SecretAccessKey != "" {
		storageClient, err = objectstorage.NewClient(
			cfg.ObjectStorage.AccessKeyID,
			cfg.ObjectStorage.SecretAccessKey,
			cfg.ObjectStorage.BucketName,
			cfg.ObjectStorage.Endpoint,
			cfg.ObjectStorage.Region,
		)
		if err != nil {
			logger.Fatal("Failed to initialize object storage client", zap.Error(err))
		}
	}

	// Initialize skill catalog cache synchronously before accepting
	// requests, so the container is not marked healthy with a cold cache
	skillsCache := cache.NewSkillsCache(store, time.Duration(cfg.Cache.SkillsTTLSeconds)*time.Second)
	if err := skillsCache.Initialize(); err != nil {
		logger.Fatal("Failed to initialize skills cache", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(store)

	// Notification webhook (empty URL drops all events)
	httpClient := httpclient.NewStandardClient()
	notifier := notify.NewWebhookNotifier(cfg.Notifications.WebhookURL, httpClient)

	// Initialize services
	authService := services.NewAuthService(store, cfg, notifier)
	skillService := services.NewSkillService(store, store, skillsCache)
	profileService := services.NewProfileService(store, userRepo, store, storageClient)
	matchingService := services.NewMatchingService(userRepo, store, notifier, cfg.Matching)
	suggestionService := services.NewSuggestionService(store, userRepo, notifier)
	mentorshipService := services.NewMentorshipService(store, store, notifier)
	conversationService := services.NewConversationService(store, store, userRepo, notifier)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return store.Ping(ctx)
	}, skillsCache.IsReady)
	authHandler := handlers.NewAuthHandler(authService)
	skillHandler := handlers.NewSkillHandler(skillService)
	profileHandler := handlers.NewProfileHandler(profileService)
	matchHandler := handlers.NewMatchHandler(matchingService)
	suggestionHandler := handlers.NewSuggestionHandler(suggestionService)
	mentorshipHandler := handlers.NewMentorshipHandler(mentorshipService)
	conversationHandler := handlers.NewConversationHandler(conversationService)

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// CORS: only allow configured origins; session cookies require credentials
	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "traceparent", "tracestate"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Rate limiters, tuned per endpoint class
	generalRateLimiter := middleware.NewRateLimiter(100, 200)       // reads
	writeRateLimiter := middleware.NewRateLimiter(10, 20)           // profile and lifecycle writes
	messageRateLimiter := middleware.NewRateLimiter(5, 10)          // chat messages
	authRateLimiter := middleware.NewRateLimiter(0.0333, 3)         // ~2 login links/min per IP
	registrationRateLimiter := middleware.NewRateLimiter(0.0167, 3) // ~1 registration/min per IP

	// Operational endpoints (not versioned)
	api := router.Group("/api")
	api.GET("/healthcheck", generalRateLimiter.Middleware(), healthHandler.Healthcheck)
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	v1 := router.Group("/api/v1")
	registerPublicRoutes(v1, generalRateLimiter, authRateLimiter, registrationRateLimiter, authHandler, skillHandler)

	registerSessionRoutes(router, cfg, authService.GetTokenManager(),
		writeRateLimiter, messageRateLimiter,
		authHandler, skillHandler, profileHandler, matchHandler,
		suggestionHandler, mentorshipHandler, conversationHandler)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
