package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"shopapi/internal/config"
	"shopapi/internal/handlers"
	"shopapi/internal/hash"
	"shopapi/internal/logging"
	"shopapi/internal/middleware/loggingmw"
	"shopapi/internal/models"
	"shopapi/internal/mykafka"
	"shopapi/internal/session"
	httpserver "shopapi/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	if err := seedUser(db, configuration); err != nil {
		log.Fatalf("seed error: %v", err)
	}

	logger := logging.New(configuration.LOG_LEVEL)
	prod := mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	sessions := &session.Service{DB: db}

	deps := httpserver.Deps{
		DB:             db,
		Sessions:       sessions,
		AuthHandler:    &handlers.AuthHandler{DB: db, Sessions: sessions, Producer: prod},
		ProductHandler: &handlers.ProductHandler{DB: db, Producer: prod},
		CartHandler:    &handlers.CartHandler{DB: db, Producer: prod},
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.APP_PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}

// seedUser creates the bootstrap account from SEED_USERNAME/SEED_PASSWORD so
// login works before any registration has happened. No-op when unset or when
// the user already exists.
func seedUser(db *gorm.DB, cfg *config.Config) error {
	if cfg.SEED_USERNAME == "" || cfg.SEED_PASSWORD == "" {
		return nil
	}
	pwHash, err := hash.HashPassword(cfg.SEED_PASSWORD)
	if err != nil {
		return err
	}
	user := models.User{Username: cfg.SEED_USERNAME, PasswordHash: pwHash}
	return db.Where("username = ?", cfg.SEED_USERNAME).FirstOrCreate(&user).Error
}
