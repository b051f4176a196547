package main

import (
	"context"
	"log"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"trash-route-solver/internal/adapters/repositories"
	"trash-route-solver/internal/api"
	"trash-route-solver/internal/api/handlers"
	"trash-route-solver/internal/config"
	"trash-route-solver/internal/platform/db"
)

// main is the server composition root.
// It wires the run store behind the handler interface and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load("")
	if err != nil {
		log.Fatal(err)
	}

	var runs handlers.RunStore
	if cfg.DatabaseURL != "" {
		pg, err := db.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer pg.Close()

		if err := repositories.InitPgSchema(context.Background(), pg); err != nil {
			log.Fatal(err)
		}
		runs = repositories.NewPgRunRepository(pg)
	} else {
		sqlite, err := db.OpenSqlite(cfg.CacheDBPath)
		if err != nil {
			log.Fatal(err)
		}
		defer sqlite.Close()

		if err := repositories.InitSchema(sqlite); err != nil {
			log.Fatal(err)
		}
		runs = repositories.NewSqliteRunRepository(sqlite)
	}

	router := api.NewRouter(runs, cfg.DomainWeights())

	// Timeouts are tuned for large inline problem payloads.
	log.Printf("Server listening addr=:%s", cfg.Port)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}
