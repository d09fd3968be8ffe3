package main

import (
	"context"
	"log"
	"os"

	"fapbot/internal/db"
	"fapbot/internal/domain"
	"fapbot/internal/repository"
	"fapbot/internal/service"
)

func main() {
	// expects DATABASE_URL env var
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	store := repository.NewStore(pool)
	ctx := context.Background()

	u := &domain.User{
		TgID:     1234567890,
		Username: "demouser",
	}
	if err := store.CreateOrUpdate(ctx, u); err != nil {
		log.Fatalf("create user failed: %v", err)
	}
	log.Printf("user id=%d username=%s created_at=%v\n", u.ID, u.Username, u.CreatedAt)

	// give the demo user something to play with
	if _, err := store.AddCoins(ctx, u.ID, 50); err != nil {
		log.Fatalf("add coins failed: %v", err)
	}
	if err := store.AddItem(ctx, u.ID, domain.ItemRitual, 1); err != nil {
		log.Fatalf("add item failed: %v", err)
	}

	service.InitJWT(secret)
	token, err := service.GenerateJWT(u.ID)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}
	log.Printf("token=%s\n", token)
}
