package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cabline/internal/config"
	"cabline/internal/events"
	api "cabline/internal/http"
	"cabline/internal/http/handlers"
	"cabline/internal/repositories"

	"github.com/gin-gonic/gin"
)

func main() {
	env := config.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	ctx := context.Background()

	sqlDB, err := config.OpenSQL(env.MySQLDSN)
	if err != nil {
		log.Fatalf("mysql connect: %v", err)
	}
	defer sqlDB.Close()

	mongoClient, err := config.ConnectMongo(ctx, env.MongoURI)
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	auditRepo := repositories.AuditRepo{DB: sqlDB}
	staffRepo := repositories.StaffRepo{DB: sqlDB}
	if err := auditRepo.EnsureTable(); err != nil {
		log.Fatalf("audit table: %v", err)
	}
	if err := staffRepo.EnsureTable(); err != nil {
		log.Fatalf("staff table: %v", err)
	}

	publisher := events.NewKafkaPublisher(env.KafkaBrokers, env.KafkaTopic)
	defer publisher.Close()

	handler := &handlers.Handler{
		Store:           repositories.NewBookingRepo(mongoClient.Database(env.MongoDB)),
		Audit:           auditRepo,
		Events:          events.Dispatcher{Pub: publisher},
		Staff:           staffRepo,
		SQL:             sqlDB,
		Mongo:           mongoClient,
		JWTSecret:       []byte(env.JWTSecret),
		BootstrapSecret: env.BootstrapSecret,
	}

	r := api.NewRouter(env, handler)

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server run: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server shutdown: %v", err)
	}

	log.Println("server stopped cleanly")
}
