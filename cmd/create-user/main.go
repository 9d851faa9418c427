package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/stefanr/teamup-api/internal/config"
	"github.com/stefanr/teamup-api/internal/database"
	"github.com/stefanr/teamup-api/internal/services"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Println("Usage: create-user <email> <name>")
		os.Exit(1)
	}

	email := os.Args[1]
	name := os.Args[2]

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	userService := services.NewUserService(db)

	user, err := userService.Create(ctx, email, name)
	if err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Printf("Created user %s (%s)\n", user.ID, user.Email)
}
