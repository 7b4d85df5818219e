package main

import (
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"servicehub/internal/config"
	"servicehub/internal/database"
	"servicehub/internal/events"
	"servicehub/internal/middleware"
	"servicehub/internal/modules/availability"
	"servicehub/internal/modules/booking"
	"servicehub/internal/modules/catalog"
	"servicehub/internal/modules/worker"
	jwtsvc "servicehub/internal/pkg/jwt"
	"servicehub/internal/repository"
)

func main() {
	log, err := newLogger()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config", zap.Error(err))
	}

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("database connect", zap.Error(err))
	}
	if err := database.Migrate(db, repository.Models()...); err != nil {
		log.Fatal("database migrate", zap.Error(err))
	}

	bookingRepo := repository.NewBookingRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	workerRepo := repository.NewWorkerRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)

	bus := events.NewBus(log)
	bus.Subscribe(events.PaymentCapture{Log: log.Named("payment")})
	bus.Subscribe(events.CalendarSync{Log: log.Named("calendar")})
	bus.Subscribe(events.Notifier{Log: log.Named("notify")})

	availService := availability.NewService(workerRepo, scheduleRepo, bookingRepo)
	availHandler := availability.NewHandler(availService)

	bookingService := booking.NewService(bookingRepo, serviceRepo, workerRepo, availService, bus, cfg.Pricing)
	bookingHandler := booking.NewHandler(bookingService)

	catalogService := catalog.NewService(serviceRepo, bookingRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	workerService := worker.NewService(workerRepo, scheduleRepo, serviceRepo)
	workerHandler := worker.NewHandler(workerService)

	j := jwtsvc.New(cfg.JWTSecret, 24*time.Hour)

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(log))
	r.Use(cors.New(corsConfig()))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		availHandler.RegisterRoutes(v1)
		bookingHandler.RegisterRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))

		admin := v1.Group("/")
		admin.Use(middleware.Auth(j), middleware.RequireRole(jwtsvc.RoleAdmin))

		catalogHandler.RegisterRoutes(v1, admin)
		workerHandler.RegisterRoutes(v1, protected)
	}

	log.Info("listening", zap.String("addr", cfg.ListenAddr))
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatal("server", zap.Error(err))
	}
}

func newLogger() (*zap.Logger, error) {
	if os.Getenv("APP_ENV") == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func corsConfig() cors.Config {
	c := cors.DefaultConfig()
	c.AllowOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	if extra := os.Getenv("CORS_ALLOWED_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.AllowOrigins = append(c.AllowOrigins, o)
			}
		}
	}
	c.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	c.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	c.AllowCredentials = true
	return c
}
