package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-factory-planner/internal/config"
	"go-factory-planner/internal/handler"
	"go-factory-planner/internal/lock"
	"go-factory-planner/internal/model"
	"go-factory-planner/internal/repository"
	"go-factory-planner/internal/service"
	"go-factory-planner/internal/ws"
	"go-factory-planner/pkg/database"
	"go-factory-planner/pkg/jwt"
	"go-factory-planner/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func main() {
	// 1. Load Config
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	// 2. Setup Database
	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	// Auto Migrate (Hati-hati di production, sebaiknya pakai tools migrasi terpisah)
	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}

	// 3. Stock locks: Redis when configured so several instances share them
	var locker lock.Locker = lock.NewLocalLocker()
	var rdb *redis.Client
	if cfg.Redis.Address != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		locker = lock.NewRedisLocker(rdb, cfg.LockTTL, log)
		log.WithField("address", cfg.Redis.Address).Info("using redis stock locks")
	}

	// 4. Setup WebSocket Hub
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	wsHub := ws.NewHub(log)
	go wsHub.Run(ctx)

	// 5. Dependency Injection (Wiring Layers)
	materialRepo := repository.NewMaterialRepo(db)
	productRepo := repository.NewProductRepo(db)
	runRepo := repository.NewProductionRunRepo(db)
	operatorRepo := repository.NewOperatorRepo(db)

	productionService := service.NewProductionService(productRepo, materialRepo, runRepo, db, locker, wsHub, log)
	authService := service.NewAuthService(operatorRepo, jwt.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL))

	// 6. Seed default admin operator
	if cfg.Auth.Enabled {
		created, err := authService.SeedAdmin(cfg.Auth.AdminEmail, cfg.Auth.AdminPassword)
		if err != nil {
			log.Warnf("failed to seed admin operator: %v", err)
		} else if created {
			log.WithField("email", cfg.Auth.AdminEmail).Info("admin operator created")
		}
	}

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: cfg.AppName,
	})

	// Middleware
	app.Use(fiberlogger.New()) // Logging request
	app.Use(recover.New())     // Panic recovery
	app.Use(cors.New())        // CORS

	handler.SetupRoutes(app, handler.Services{
		Materials:   service.NewMaterialService(materialRepo, locker, wsHub),
		Products:    service.NewProductService(productRepo, materialRepo, wsHub),
		Production:  productionService,
		Dashboard:   service.NewDashboardService(productRepo, materialRepo, runRepo, productionService, cfg.LowStockThreshold),
		Auth:        authService,
		AuthEnabled: cfg.Auth.Enabled,
		Hub:         wsHub,
	})

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}
	stop()
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Info("Server exited")
}
