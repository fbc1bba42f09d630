// Package main provides a tool to seed the database with demo data.
//
// It creates a demo user with a handful of todo items and labels so the API
// can be exercised without going through registration first.
//
// Usage:
//
//	DATA_PATH=~/Docket/data go run ./cmd/seed
//	DATA_PATH=~/Docket/data go run ./cmd/seed --username alice --admin
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/docketapp/docket-server/internal/auth"
	"github.com/docketapp/docket-server/internal/domain"
	"github.com/docketapp/docket-server/internal/store/sqlite"
)

var (
	username = flag.String("username", "demo", "Username for the seeded account")
	password = flag.String("password", "demo-password", "Password for the seeded account")
	admin    = flag.Bool("admin", false, "Give the seeded account the admin role")
)

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/Docket/data")
	}

	dbPath := filepath.Join(dataPath, "docket.db")
	fmt.Printf("Opening database at: %s\n", dbPath)

	if err := os.MkdirAll(dataPath, 0o755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	s, err := sqlite.Open(dbPath, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	passwordHash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	role := domain.RoleUser
	if *admin {
		role = domain.RoleAdmin
	}

	user := &domain.User{
		Username:     *username,
		DisplayName:  *username,
		PasswordHash: passwordHash,
		Role:         role,
	}
	user.InitTimestamps()

	if err := s.CreateUser(ctx, user); err != nil {
		log.Fatalf("Failed to create user %q: %v", *username, err)
	}
	fmt.Printf("Created user %q (id %d, role %s)\n", user.Username, user.ID, user.Role)

	seedItems := []struct {
		description string
		labels      []string
	}{
		{"Buy groceries", []string{"errands"}},
		{"Book dentist appointment", []string{"health", "errands"}},
		{"Write project proposal", []string{"work"}},
		{"Plan weekend trip", nil},
		{"Renew passport", []string{"errands", "urgent"}},
	}

	for _, seed := range seedItems {
		item, err := s.CreateItem(ctx, user.ID, seed.description)
		if err != nil {
			log.Fatalf("Failed to create item %q: %v", seed.description, err)
		}

		for _, name := range seed.labels {
			if _, err := s.CreateLabel(ctx, user.ID, item.ID, name); err != nil {
				log.Fatalf("Failed to label item %d with %q: %v", item.ID, name, err)
			}
		}

		fmt.Printf("Created item %d: %s (labels: %d)\n", item.ID, seed.description, len(seed.labels))
	}

	fmt.Println("\nSeed complete.")
	fmt.Printf("Login with: username=%s password=%s\n", *username, *password)
}
