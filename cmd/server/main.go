package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alcyxob/gym-coach/internal/api"
	"alcyxob/gym-coach/internal/config"
	"alcyxob/gym-coach/internal/logger"
	"alcyxob/gym-coach/internal/repository/mongo"
	"alcyxob/gym-coach/internal/service"
	"alcyxob/gym-coach/internal/storage"

	"github.com/gin-gonic/gin"
)

// @title Gym Coach API
// @version 1.0
// @description Trainers assign catalog exercises to students, order them, and students work through the plan.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		panic("could not load config: " + err.Error())
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		panic("could not build logger: " + err.Error())
	}
	defer log.Sync()
	log.Info("Starting Gym Coach server...", "address", cfg.Server.Address, "database", cfg.Database.Name)

	if cfg.JWT.Secret == "" {
		log.Fatal("JWT secret is not configured (JWT_SECRET)")
	}

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(context.Background(), cfg.Database.URI)
	if err != nil {
		log.Fatal("Could not connect to MongoDB", "error", err)
	}
	defer func() {
		log.Info("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Error("Failed to disconnect MongoDB", "error", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)

	// --- Ensure Indexes ---
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := mongo.EnsureIndexes(ctx, appDB); err != nil {
			log.Warn("Index creation failed", "error", err)
			return
		}
		log.Debug("Index creation completed")
	}()

	// --- Initialize Storage ---
	// Without a bucket the catalog serves absolute media URLs only.
	var mediaStorage storage.MediaStorage
	if cfg.S3.BucketName != "" {
		mediaStorage, err = storage.NewS3Storage(context.Background(), cfg.S3, log)
		if err != nil {
			log.Fatal("Failed to initialize S3 storage", "error", err)
		}
	} else {
		log.Warn("S3 bucket not configured; media uploads are disabled")
	}

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	assignmentRepo := mongo.NewMongoAssignmentRepository(appDB)
	orderRepo := mongo.NewMongoOrderRepository(appDB)
	bodyPartRepo := mongo.NewMongoBodyPartRepository(appDB)
	adminRepo := mongo.NewMongoAdminRepository(appDB)
	onboardingRepo := mongo.NewMongoOnboardingRepository(appDB)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, adminRepo, cfg.JWT.Secret, cfg.JWT.Expiration, log)
	catalogService := service.NewCatalogService(bodyPartRepo, mediaStorage, log)
	trainerService := service.NewTrainerService(userRepo, assignmentRepo, orderRepo, bodyPartRepo, log)
	studentService := service.NewStudentService(userRepo, assignmentRepo, orderRepo, bodyPartRepo, onboardingRepo, log)

	// --- Initialize Gin Engine ---
	if cfg.Log.Mode == "prod" || cfg.Log.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestLogger(log))
	if len(cfg.Server.CORSOrigins) > 0 {
		router.Use(api.CORS(cfg.Server.CORSOrigins))
	}
	api.SetupRoutes(router, authService, catalogService, trainerService, studentService)

	// --- Start HTTP Server ---
	// No WriteTimeout: exercise detail streams stay open.
	server := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Info("Server listening", "address", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("ListenAndServe error", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}
	log.Info("Server exiting.")
}
