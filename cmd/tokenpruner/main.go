package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	_ "github.com/lib/pq"

	"github.com/vibestack/backend/internal/adapters/repository/postgres"
	"github.com/vibestack/backend/internal/config"
)

// One-shot maintenance job: drops denylist rows whose tokens have
// passed their natural expiry. Intended to run on a schedule.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	denylist := postgres.NewRevokedTokenRepository(db)

	// Use a timeout for the job execution to prevent it from hanging indefinitely
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	log.Println("Starting revoked token pruning job...")

	pruned, err := denylist.PruneExpired(ctx, time.Now())
	if err != nil {
		log.Fatalf("Error pruning revoked tokens: %v", err)
	}

	log.Printf("Pruning completed successfully, %d rows removed.", pruned)
}
