package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	_ "github.com/jackc/pgx/v5/stdlib"

	"route-notify-service/internal/adapters/sessions"
	"route-notify-service/internal/api"
	"route-notify-service/internal/config"
	"route-notify-service/internal/platform/db"
	"route-notify-service/internal/ports"
)

// main is the application composition root.
// It wires the session store behind its port and starts the HTTP server;
// the route-service and messaging adapters are constructed per request by
// the handlers, so no client state outlives a request.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg := config.FromEnv()
	port := config.Get("PORT", "8080")

	store, cleanup, err := openSessionStore()
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	router := api.NewRouter(cfg, store)

	// Write timeout covers a full sequential send batch against the
	// messaging provider (one call in flight at a time).
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// openSessionStore selects the session backend: Redis by default,
// Postgres when SESSION_BACKEND=postgres.
func openSessionStore() (ports.SessionStore, func(), error) {
	backend := strings.ToLower(config.Get("SESSION_BACKEND", "redis"))

	switch backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     config.Get("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, nil, fmt.Errorf("verify redis connection: %w", err)
		}

		return sessions.NewRedisStore(client), func() { _ = client.Close() }, nil

	case "postgres":
		databaseURL := os.Getenv("DATABASE_URL")
		if strings.TrimSpace(databaseURL) == "" {
			return nil, nil, fmt.Errorf("DATABASE_URL is required for SESSION_BACKEND=postgres")
		}

		pool, err := db.Open(databaseURL)
		if err != nil {
			return nil, nil, err
		}

		if err := sessions.InitSchema(pool); err != nil {
			pool.Close()
			return nil, nil, err
		}

		return sessions.NewSQLStore(pool), func() { _ = pool.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown SESSION_BACKEND %q", backend)
	}
}
