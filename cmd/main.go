package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ai-call-readiness-service/internal/app"
	"ai-call-readiness-service/internal/config"
	"ai-call-readiness-service/internal/events"
	apihttp "ai-call-readiness-service/internal/http"
	"ai-call-readiness-service/internal/observability"
)

func main() {
	cfg := config.Load()

	application := app.New(cfg)
	if err := application.Start(context.Background()); err != nil {
		log.Fatalf("startup failed: %v", err)
	}

	// Kafka publisher with separate topics for analysis snapshots and alerts
	publisher := events.New(&events.Config{
		Enabled:       cfg.Kafka.Enabled,
		Brokers:       cfg.Kafka.Brokers,
		TopicAnalysis: cfg.Kafka.TopicAnalysis,
		TopicAlerts:   cfg.Kafka.TopicAlerts,
		Principal:     cfg.Kafka.Principal,
	})
	defer publisher.Close()

	// Observability server on its own port
	obs := observability.NewServer(":" + cfg.Observability.MetricsPort)
	obs.Start()

	handler := apihttp.NewHandler(application.Sessions, application.Analyzer, publisher)
	server := &http.Server{
		Addr:         ":" + cfg.Service.HTTPPort,
		Handler:      apihttp.NewRouter(handler),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Call Readiness Service started on :%s", cfg.Service.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http serve failed: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Println("shutting down HTTP server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	if err := obs.Shutdown(ctx); err != nil {
		log.Printf("observability shutdown: %v", err)
	}
	application.Shutdown()
}
