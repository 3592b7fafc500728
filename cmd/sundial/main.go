package main

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sundial-dev/sundial/db"
	"github.com/sundial-dev/sundial/internal/auth"
	"github.com/sundial-dev/sundial/internal/mailer"
	"github.com/sundial-dev/sundial/internal/router"
)

const tokenTTL = 24 * time.Hour

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	conn, err := db.Connect(os.Getenv("DATABASE_URL"))

	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.Migrate(conn); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	if err := db.EnsureSuperAdmin(conn, os.Getenv("SUPER_ADMIN_EMAIL"), os.Getenv("SUPER_ADMIN_PASSWORD")); err != nil {
		log.Fatalf("Failed to seed super admin: %v", err)
	}

	tokens, err := auth.NewTokenManager(os.Getenv("JWT_SECRET"), tokenTTL)

	if err != nil {
		log.Fatalf("Failed to initialize token manager: %v", err)
	}

	mail := mailer.New(
		os.Getenv("SMTP_HOST"),
		os.Getenv("SMTP_PORT"),
		os.Getenv("SMTP_USER"),
		os.Getenv("SMTP_PASSWORD"),
		os.Getenv("SMTP_FROM"),
	)

	r := router.New(conn, tokens, mail)

	var port string

	if port = os.Getenv("PORT"); port == "" {
		port = "3000"
		log.Println("PORT not set, defaulting to 3000")
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
