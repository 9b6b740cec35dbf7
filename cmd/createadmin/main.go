package main

import (
	"context"
	"flag"
	"log"

	"github.com/forkwell/recipe-api/config"
	"github.com/forkwell/recipe-api/internal/database"
	"github.com/forkwell/recipe-api/internal/service"
)

// Provisions a superuser account with elevated flags.
func main() {
	email := flag.String("email", "", "superuser email")
	password := flag.String("password", "", "superuser password")
	name := flag.String("name", "Admin", "display name")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("both -email and -password are required")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	auth := service.NewAuthService(db, cfg.JWTSecret)
	user, err := auth.CreateSuperuser(context.Background(), *email, *password, *name)
	if err != nil {
		log.Fatalf("Failed to create superuser: %v", err)
	}

	log.Printf("Created superuser %s (%s)", user.Email, user.ID)
}
