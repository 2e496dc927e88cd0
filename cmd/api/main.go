package main

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/timeout"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vialuxe/transfer-booking/internal/catalog"
	"github.com/vialuxe/transfer-booking/internal/drafts"
	"github.com/vialuxe/transfer-booking/internal/pricing"
	"github.com/vialuxe/transfer-booking/internal/reservations"
	"github.com/vialuxe/transfer-booking/internal/staff"
	"github.com/vialuxe/transfer-booking/internal/wizard"
	"github.com/vialuxe/transfer-booking/pkg/common"
	"github.com/vialuxe/transfer-booking/pkg/config"
	"github.com/vialuxe/transfer-booking/pkg/database"
	"github.com/vialuxe/transfer-booking/pkg/logger"
	"github.com/vialuxe/transfer-booking/pkg/middleware"
	"github.com/vialuxe/transfer-booking/pkg/redis"
	ws "github.com/vialuxe/transfer-booking/pkg/websocket"
)

const (
	serviceName    = "booking-api"
	serviceVersion = "1.0.0"
)

func main() {
	cfg, err := config.Load(serviceName)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Server.Environment); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	if cfg.Sentry.Enabled && cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Server.Environment,
			Release:     serviceName + "@" + serviceVersion,
		}); err != nil {
			log.Fatalf("Failed to init Sentry: %v", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	if err := database.RunMigrations(&cfg.Database); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db, err := database.NewPostgresPool(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	redisClient, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	hub := ws.NewHub(logger.Get())
	go hub.Run()

	// Draft persistence, with saves fanned out to websocket watchers
	draftStore := drafts.NewStore(redisClient)
	draftStore.AddListener(func(event drafts.SavedEvent) {
		hub.Publish(ws.Event{Topic: event.DraftID, Type: "draft.saved", Payload: event})
	})

	catalogRepo := catalog.NewRepository(db)
	catalogReader := catalog.NewReader(catalogRepo, redisClient)
	catalogHandler := catalog.NewHandler(catalogReader)
	catalogAdmin := catalog.NewAdminHandler(catalogRepo, catalogReader)

	pricingRepo := pricing.NewRepository(db)
	resolver := pricing.NewResolver(pricingRepo, redisClient)
	pricingHandler := pricing.NewHandler(resolver, catalogReader)
	pricingAdmin := pricing.NewAdminHandler(pricingRepo)

	reservationRepo := reservations.NewRepository(db)
	reservationService := reservations.NewService(reservationRepo)
	reservationHandler := reservations.NewHandler(reservationService)

	wizardService := wizard.NewService(draftStore, catalogReader, resolver, reservationService)
	wizardHandler := wizard.NewHandler(wizardService)
	draftHandler := drafts.NewHandler(draftStore, hub)

	staffRepo := staff.NewRepository(db)
	staffService := staff.NewService(staffRepo, cfg.JWT)
	staffHandler := staff.NewHandler(staffService)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Recovery())
	router.Use(middleware.Metrics(serviceName))
	router.Use(middleware.SecurityHeaders())
	if cfg.Sentry.Enabled {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.Server.CORSOrigins, ",")
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	router.Use(cors.New(corsConfig))

	router.GET("/healthz", common.HealthCheckWithDeps(serviceName, serviceVersion, map[string]func() error{
		"postgres": func() error { return db.Ping(context.Background()) },
		"redis": func() error {
			_, err := redisClient.Exists(context.Background(), "healthcheck")
			return err
		},
	}))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	catalogHandler.RegisterRoutes(router)
	draftHandler.RegisterRoutes(router)
	wizardHandler.RegisterRoutes(router)
	reservationHandler.RegisterRoutes(router)
	staffHandler.RegisterRoutes(router)

	// Quote lookups hit the database and must not hold requests forever
	router.GET("/api/v1/quotes", timeoutHandler(5*time.Second, pricingHandler.GetQuote))

	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
	{
		catalogAdmin.RegisterRoutes(admin)
		pricingAdmin.RegisterRoutes(admin)
		reservationHandler.RegisterAdminRoutes(admin)
	}

	addr := ":" + cfg.Server.Port
	logger.Info("Booking API starting on " + addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func timeoutHandler(d time.Duration, h gin.HandlerFunc) gin.HandlerFunc {
	return timeout.New(
		timeout.WithTimeout(d),
		timeout.WithHandler(h),
		timeout.WithResponse(func(c *gin.Context) {
			common.ErrorResponse(c, http.StatusGatewayTimeout, "request timed out")
		}),
	)
}
