package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"

	"LemmyVotes/internal/api/middleware"
	"LemmyVotes/internal/api/routes"
	"LemmyVotes/internal/config"
	"LemmyVotes/internal/core/instances"
	"LemmyVotes/internal/core/lemmy"
	"LemmyVotes/internal/core/votes"
	postgresRepo "LemmyVotes/internal/db/postgres"
	sqliteRepo "LemmyVotes/internal/db/sqlite"
)

func main() {
	cfg := config.FromEnv()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Lemmy database (read-only data source)
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to Lemmy database:", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping Lemmy database:", err)
	}

	log.Println("Connected to Lemmy database")

	// Instance allowlist database; the fetch-instances job keeps it current
	instanceDB, err := sqliteRepo.Open(cfg.InstanceDBPath)
	if err != nil {
		log.Fatal("Failed to open instance database:", err)
	}
	defer instanceDB.Close()

	if err := sqliteRepo.Migrate(instanceDB); err != nil {
		log.Fatal("Failed to migrate instance database:", err)
	}

	// Upstream Lemmy API session for resolve_object validation
	lemmyClient := lemmy.NewClient(cfg.LemmyBaseURL, logger)
	if cfg.LemmyUsername != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		err := lemmyClient.Login(ctx, cfg.LemmyUsername, cfg.LemmyPassword)
		cancel()
		if err != nil {
			log.Fatal("Failed to authenticate with Lemmy API:", err)
		}
	} else {
		log.Println("LEMMY_USERNAME not set, calling upstream API unauthenticated")
	}

	// Initialize repositories and services
	voteRepo := postgresRepo.NewVoteRepository(db)
	voteService := votes.NewService(voteRepo, logger)
	instanceService := instances.NewService(sqliteRepo.NewInstanceRepository(instanceDB), logger)

	r := chi.NewRouter()

	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute)
	r.Use(rateLimiter.Middleware)

	routes.RegisterVoteRoutes(r, voteService, instanceService, lemmyClient)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	fmt.Printf("Vote viewer starting on %s\n", cfg.ListenAddr)
	log.Fatal(http.ListenAndServe(cfg.ListenAddr, r))
}
