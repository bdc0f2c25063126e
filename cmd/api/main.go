package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"taskman/internal/auth"
	"taskman/internal/config"
	"taskman/internal/database"
	"taskman/internal/handlers"
	"taskman/internal/mail"
	"taskman/internal/middleware"
	"taskman/internal/store"
)

func main() {
	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	var sender mail.Sender = mail.NopSender{}
	if cfg.SendGridAPIKey != "" {
		sender = mail.NewSendGridSender(cfg.SendGridAPIKey, cfg.MailFrom)
	} else {
		log.Println("SENDGRID_API_KEY not set, email notifications disabled")
	}
	dispatcher := mail.NewDispatcher(sender, 64)
	defer dispatcher.Close()

	users := store.NewUserStore(db)
	tasks := store.NewTaskStore(db)
	tokens := auth.NewTokenManager(cfg.JWTSecret)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())

	handler := handlers.New(users, tasks, tokens, dispatcher)
	handler.RegisterRoutes(router)

	log.Printf("Task Manager API starting on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
