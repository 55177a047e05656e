package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/aditpras/taskboard/config"
	"github.com/aditpras/taskboard/internal/domain/entity"
	"github.com/aditpras/taskboard/internal/domain/repository"
	"github.com/aditpras/taskboard/internal/infrastructure/mongodb"
	"github.com/aditpras/taskboard/pkg/helpers"
)

// Seeds an admin account so a fresh deployment has someone who can create
// todos and manage users.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	email := getenv("SEED_ADMIN_EMAIL", "admin@taskboard.local")
	password := getenv("SEED_ADMIN_PASSWORD", "password123")
	fullname := getenv("SEED_ADMIN_NAME", "Taskboard Admin")

	ctx := context.Background()
	client, db, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDBName, cfg.MongoTimeout)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("failed to ensure indexes: %v", err)
	}

	users := mongodb.NewUserRepository(db)
	if existing, err := users.GetByEmail(ctx, email); err == nil {
		fmt.Printf("admin already seeded: id=%s email=%s\n", existing.ID.Hex(), existing.Email)
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		log.Fatalf("failed to look up admin: %v", err)
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	u := &entity.User{
		Fullname: fullname,
		Email:    email,
		Password: hash,
		Role:     entity.RoleAdmin,
	}
	if err := users.Create(ctx, u); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Printf("seeded admin: id=%s email=%s password=%s\n", u.ID.Hex(), email, password)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
