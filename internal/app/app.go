package app

import (
	"context"
	"fmt"
	"time"

	"favorx_backend/internal/cache"
	"favorx_backend/internal/config"
	"favorx_backend/internal/email"
	"favorx_backend/internal/geo"
	"favorx_backend/internal/handlers"
	"favorx_backend/internal/logger"
	"favorx_backend/internal/middleware"
	"favorx_backend/internal/models"
	"favorx_backend/internal/routes"
	"favorx_backend/internal/services"
	"favorx_backend/internal/workers"

	_ "favorx_backend/docs"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := migrate(gormDB); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Fatal("Redis unavailable", "addr", cfg.Redis.Addr, "error", err)
	}
	logger.Info("Redis connected", "addr", cfg.Redis.Addr)

	container := buildServices(cfg, gormDB, redisClient)

	// Warm the spatial index from the profiles table so proximity queries
	// work right after a restart.
	if indexed, err := container.LocationService.RebuildIndex(context.Background()); err != nil {
		logger.Error("Initial location index build failed", "error", err)
	} else {
		logger.Info("Location index warmed", "indexed", indexed)
	}

	scheduler := workers.NewScheduler(
		container.KarmaService,
		container.LocationService,
		container.RefreshTokenRepo,
	)
	scheduler.Start(context.Background())
	defer scheduler.Stop()

	router := buildRouter(container)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := router.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func buildServices(cfg *config.Config, gormDB *gorm.DB, redisClient *redis.Client) *services.ServiceContainer {
	cacheStore := cache.NewRedisCache(redisClient)
	locationIndex := geo.NewRedisIndex(redisClient)
	geocoder := geo.NewHTTPGeocoder(
		cfg.Geocoder.BaseURL,
		cfg.Geocoder.APIKey,
		time.Duration(cfg.Geocoder.Timeout)*time.Second,
	)

	var emailProvider email.Provider
	if cfg.Email.SMTPUsername == "" {
		logger.Warn("SMTP credentials not set, outbound email is mocked")
		emailProvider = email.NewMockProvider()
	} else {
		emailProvider = email.NewSMTPProvider(email.SMTPConfig{
			Host:      cfg.Email.SMTPHost,
			Port:      cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
		})
	}

	return services.NewServiceContainer(gormDB, cacheStore, locationIndex, geocoder, emailProvider)
}

func buildRouter(container *services.ServiceContainer) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.TimeoutMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())

	routes.RegisterRoutes(router, handlers.NewAppHandlers(container))
	return router
}

func migrate(db *gorm.DB) error {
	// uuid_generate_v4 defaults on BaseModel need the extension.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return err
	}
	// The skill search distance filter uses earthdistance.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS cube`).Error; err != nil {
		return err
	}
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS earthdistance`).Error; err != nil {
		return err
	}

	return db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Profile{},
		&models.Skill{},
		&models.Rating{},
		&models.Review{},
		&models.Report{},
		&models.ModerationAction{},
		&models.TrustVerification{},
	)
}
