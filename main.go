package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"civiclens-be/config"
	"civiclens-be/controllers"
	"civiclens-be/models"
	"civiclens-be/notify"
	"civiclens-be/routes"
	authUtils "civiclens-be/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("Please define the JWT_SECRET environment variable")
	}

	db := config.ConnectDB(cfg.MongoURI, cfg.DBName)
	if db == nil {
		log.Fatal("Failed to initialize MongoDB client, check MONGODB_URI")
	}

	config.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword)

	if err := models.EnsureUserIndexes(db.Collection("users")); err != nil {
		log.Printf("Failed to ensure user indexes: %v", err)
	}
	if err := models.EnsureNGOIndexes(db.Collection("ngos")); err != nil {
		log.Printf("Failed to ensure NGO indexes: %v", err)
	}
	if err := models.EnsureVerificationIndex(db.Collection("verifications")); err != nil {
		log.Printf("Failed to ensure verification index: %v", err)
	}

	notifier := notify.NewDispatcher(notify.NewSMTPSender(notify.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}))

	tokens := authUtils.NewTokenManager(cfg.JWTSecret)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:   []string{"Content-Length"},
	}))

	r.Static("/uploads", cfg.UploadDir)

	routes.AuthRoutes(r, controllers.NewAuthController(db, tokens), tokens)
	routes.IssueRoutes(r, controllers.NewIssueController(db, notifier, cfg.UploadDir), tokens)
	routes.NGORoutes(r, controllers.NewNGOController(db, tokens, notifier, cfg.NGOSignupCode), tokens)
	routes.EventRoutes(r, controllers.NewEventController(db), tokens)
	routes.UserRoutes(r, controllers.NewProfileController(db), controllers.NewStatsController(db), tokens)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	// drain any queued notifications before exiting
	notifier.Close()
}
