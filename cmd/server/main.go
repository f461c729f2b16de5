package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"plantgarden/internal/catalog"
	"plantgarden/internal/draw"
	"plantgarden/internal/notification"
	"plantgarden/internal/plant"
	"plantgarden/internal/reward"
	"plantgarden/internal/scheduler"
	"plantgarden/pkg/database"
	"plantgarden/pkg/middleware"
)

func getEnvVar(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️ No .env file found, using environment")
	}

	db, err := database.Connect()
	if err != nil {
		log.Fatalf("❌ Database connection failed: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	// Redis is optional - the draw rate limiter degrades to a no-op without it
	var redisClient *redis.Client
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.Printf("⚠️ Redis unreachable (%v), draw rate limiting disabled", err)
			redisClient = nil
		}
	}

	// Service wiring. The reward hooks point back at the plant service, so
	// they are attached after the reward engine exists.
	notifier := notification.NewService(db)
	catalogService := catalog.NewService(db)
	plantService := plant.NewService(db, catalogService, notifier)
	drawService := draw.NewService(db, catalogService, plantService)
	rewardService := reward.NewService(db, drawService, plantService, notifier)
	plantService.SetRewardHooks(rewardService)

	// Idempotent seeds
	if err := catalogService.CreateDefaultPlantTypes(); err != nil {
		log.Fatalf("❌ Plant type seeding failed: %v", err)
	}
	if err := rewardService.CreateDefaultMilestoneRewards(); err != nil {
		log.Fatalf("❌ Milestone rule seeding failed: %v", err)
	}
	if err := rewardService.CreateDefaultMissions(); err != nil {
		log.Fatalf("❌ Mission seeding failed: %v", err)
	}

	// Background garden sweep
	sweepInterval, err := time.ParseDuration(getEnvVar("SWEEP_INTERVAL", "6h"))
	if err != nil {
		sweepInterval = 6 * time.Hour
	}
	gardenSweep := scheduler.NewScheduler(plantService, rewardService, sweepInterval)
	gardenSweep.Start()

	router := setupRouter(db, redisClient, catalogService, plantService, drawService, rewardService, gardenSweep)

	srv := &http.Server{
		Addr:    ":" + getEnvVar("PORT", "8080"),
		Handler: router,
	}

	go func() {
		log.Printf("🚀 Plant garden server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Printf("🛑 Shutting down...")
	gardenSweep.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Forced shutdown: %v", err)
	}
}

func setupRouter(
	db *gorm.DB,
	redisClient *redis.Client,
	catalogService *catalog.Service,
	plantService *plant.Service,
	drawService *draw.Service,
	rewardService *reward.Service,
	gardenSweep *scheduler.Scheduler,
) *gin.Engine {
	if getEnvVar("GIN_MODE", "debug") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(middleware.CORS())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":        "ok",
			"sweep_running": gardenSweep.IsHealthy(),
			"timestamp":     time.Now().Format(time.RFC3339),
		})
	})

	catalogHandler := catalog.NewHandler(db)
	plantHandler := plant.NewHandler(db, plantService)
	drawHandler := draw.NewHandler(db, drawService)
	rewardHandler := reward.NewHandler(db, rewardService)
	drawLimiter := middleware.NewDrawRateLimiter(redisClient)

	api := router.Group("/api/v1")
	api.Use(middleware.Auth())
	{
		api.GET("/plant-types", catalogHandler.ListPlantTypes)
		api.GET("/plant-types/:id", catalogHandler.GetPlantType)

		api.POST("/plants", plantHandler.StartPlant)
		api.GET("/plants/current", plantHandler.GetCurrentPlant)
		api.POST("/plants/:id/water", plantHandler.WaterPlant)
		api.POST("/plants/:id/experience", plantHandler.AddExperience)
		api.POST("/plants/:id/grow", plantHandler.AdvancePlantStage)
		api.GET("/plants/:id/watering-logs", plantHandler.GetWateringLogs)

		api.POST("/draws", drawLimiter.DrawRateLimit(), drawHandler.DrawPlant)
		api.GET("/draws/history", drawHandler.GetDrawHistory)
		api.GET("/inventory", drawHandler.GetInventory)
		api.DELETE("/inventory/:plantTypeId", drawHandler.RemoveInventoryEntry)

		api.GET("/tickets", rewardHandler.ListTickets)
		api.POST("/tickets/:id/draw", drawLimiter.DrawRateLimit(), rewardHandler.UseTicket)
		api.GET("/missions", rewardHandler.ListMissions)

		// In-process hooks for the promise/verification subsystem
		api.POST("/hooks/verification-complete", rewardHandler.VerificationCompleteHook)
		api.POST("/hooks/plant-complete", rewardHandler.PlantCompleteHook)

		api.POST("/admin/force-sweep", func(c *gin.Context) {
			gardenSweep.ForceSweep()
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "Garden sweep triggered"})
		})
	}

	return router
}
