package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"recshare/internal/config"
	"recshare/internal/db"
	"recshare/internal/jobs"
	"recshare/internal/metrics"
	"recshare/internal/server"
	"recshare/internal/store"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	// Initialize storage
	var st store.Store
	if cfg.UseMemoryStore() {
		log.Println("Using in-memory store (data is not persisted)")
		st = store.NewMemory()
	} else {
		database, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}

		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		log.Println("Migrations completed successfully")

		st = database
	}
	defer st.Close()

	metrics.Init(st)

	srv := server.New(cfg)
	srv.RegisterRoutes(st)

	if cfg.EnableURLProbes {
		prober := jobs.NewURLProber(st, cfg.ProbeInterval, cfg.ProbeMaxAge, cfg.ProbeBatchLimit)
		go prober.Start(ctx)
	}

	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Server started on %s", cfg.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
