package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/mkovac/journal-insights/internal/api"
	"github.com/mkovac/journal-insights/internal/config"
	"github.com/mkovac/journal-insights/internal/insight"
	"github.com/mkovac/journal-insights/internal/llm"
	"github.com/mkovac/journal-insights/internal/scheduler"
	"github.com/mkovac/journal-insights/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting insight-server...")

	// .env is optional; real deployments set env vars directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	backend := llm.NewClient(cfg.OllamaURL, cfg.OllamaModel, cfg.BackendPerMin)

	log.Println("Validating generation backend connection...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := backend.HealthCheck(ctx); err != nil {
		log.Printf("WARNING: backend health check failed: %v", err)
		log.Println("Server will start but insight generation may not work")
	} else {
		log.Printf("Backend connected: %s (model: %s)", cfg.OllamaURL, cfg.OllamaModel)
	}
	cancel()

	registry := insight.DefaultRegistry()
	orch := insight.NewOrchestrator(registry, db, db, backend, clockwork.NewRealClock())

	sched, err := scheduler.New(orch, backend, scheduler.Config{
		Timezone:      cfg.Timezone,
		SweepInterval: cfg.SweepInterval,
		SweepCron:     cfg.SweepCron,
	})
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}
	if err := sched.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	router := api.NewRouter(cfg, db, orch, backend)

	addr := ":" + cfg.Port
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down gracefully...")

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Stopping scheduler...")
	if err := sched.Stop(); err != nil {
		log.Printf("Scheduler shutdown error: %v", err)
	}

	log.Println("Closing database...")
	if err := db.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("Shutdown complete")
}
