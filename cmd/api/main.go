package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/timeout"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/richxcame/giftcard-service/internal/exclusions"
	"github.com/richxcame/giftcard-service/internal/giftcards"
	"github.com/richxcame/giftcard-service/internal/mailer"
	"github.com/richxcame/giftcard-service/internal/menutypes"
	"github.com/richxcame/giftcard-service/internal/pdf"
	"github.com/richxcame/giftcard-service/pkg/common"
	"github.com/richxcame/giftcard-service/pkg/config"
	"github.com/richxcame/giftcard-service/pkg/database"
	"github.com/richxcame/giftcard-service/pkg/health"
	"github.com/richxcame/giftcard-service/pkg/logger"
	"github.com/richxcame/giftcard-service/pkg/middleware"
	"github.com/richxcame/giftcard-service/pkg/ratelimit"
	"github.com/richxcame/giftcard-service/pkg/redis"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load("giftcards")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Server.Environment); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
		}); err != nil {
			logger.Warn("Failed to initialize Sentry", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	if err := database.RunMigrations(&cfg.Database); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	pool, err := database.NewPostgresPool(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(pool)

	redisClient, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Repositories
	menuTypeRepo := menutypes.NewRepository(pool)
	exclusionRepo := exclusions.NewRepository(pool)
	giftCardRepo := giftcards.NewRepository(pool)

	// Optional delivery collaborators
	var mailSender giftcards.Mailer
	if cfg.Email.Enabled && cfg.Email.APIKey != "" {
		mailSender = mailer.NewClient(cfg.Email)
	} else {
		logger.Warn("Email delivery disabled, gift cards will be issued without emails")
	}

	var pdfRenderer giftcards.PDFRenderer
	if cfg.PDF.Enabled && cfg.PDF.RendererURL != "" {
		pdfRenderer = pdf.NewRenderer(cfg.PDF)
	}

	// Services
	menuTypeService := menutypes.NewService(menuTypeRepo)
	exclusionService := exclusions.NewService(exclusionRepo)
	giftCardService := giftcards.NewService(giftCardRepo, menuTypeRepo, exclusionService, mailSender, pdfRenderer)

	// Handlers
	menuTypeHandler := menutypes.NewHandler(menuTypeService)
	exclusionHandler := exclusions.NewHandler(exclusionService)
	giftCardHandler := giftcards.NewHandler(giftCardService)
	webhookHandler := giftcards.NewWebhookHandler(giftCardService, cfg.Stripe.WebhookSecret)

	limiter := ratelimit.NewLimiter(redisClient.Client, cfg.RateLimit)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Recovery())
	router.Use(middleware.Metrics(cfg.Server.ServiceName))
	router.Use(middleware.SecurityHeaders())

	if cfg.Sentry.DSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.Server.CORSOrigins, ",")
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "Stripe-Signature"}
	router.Use(cors.New(corsConfig))

	if cfg.Server.RequestTimeout > 0 {
		router.Use(timeout.New(
			timeout.WithTimeout(time.Duration(cfg.Server.RequestTimeout)*time.Second),
			timeout.WithHandler(func(c *gin.Context) { c.Next() }),
		))
	}

	// Health and metrics, no auth
	dbCheck := health.NewCachedChecker(health.DatabaseChecker(pool), 5*time.Second)
	redisCheck := health.NewCachedChecker(health.RedisChecker(redisClient.Client), 5*time.Second)
	router.GET("/healthz", common.HealthCheckWithDeps(cfg.Server.ServiceName, version, map[string]func() error{
		"postgres": dbCheck.Check,
		"redis":    redisCheck.Check,
	}))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authMiddleware := middleware.AuthMiddleware(cfg.JWT.Secret)
	rateLimitMiddleware := ratelimit.Middleware(limiter)

	giftcards.RegisterRoutes(router, giftCardHandler, authMiddleware, rateLimitMiddleware)
	giftcards.RegisterWebhookRoutes(router, webhookHandler)
	menutypes.RegisterRoutes(router, menuTypeHandler, authMiddleware)
	exclusions.RegisterRoutes(router, exclusionHandler, authMiddleware)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("Gift card service listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}
}
