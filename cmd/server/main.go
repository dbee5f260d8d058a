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

	"github.com/Rodluisfelipe/SisRestaurantes-sub000/internal/config"
	"github.com/Rodluisfelipe/SisRestaurantes-sub000/internal/es"
	"github.com/Rodluisfelipe/SisRestaurantes-sub000/internal/handlers"
	"github.com/Rodluisfelipe/SisRestaurantes-sub000/internal/logging"
	loggingmw "github.com/Rodluisfelipe/SisRestaurantes-sub000/internal/middleware/logging"
	"github.com/Rodluisfelipe/SisRestaurantes-sub000/internal/mykafka"
	"github.com/Rodluisfelipe/SisRestaurantes-sub000/internal/pos"
	"github.com/Rodluisfelipe/SisRestaurantes-sub000/internal/service/token"
	httpserver "github.com/Rodluisfelipe/SisRestaurantes-sub000/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	jwtSecret := []byte(configuration.JWT_SECRET)
	refreshSecret := []byte(configuration.REFRESH_SECRET)

	brokers := []string{configuration.KAFKA_ADDRESS}
	topics := []string{"user_events", "product_events", "order_events"}
	prod, err := mykafka.NewProducer(brokers, topics)
	if err != nil {
		log.Fatal(err)
	}

	esClient, err := es.NewClient(configuration)
	if err != nil {
		log.Fatal(err)
	}

	tokens := &token.TokenService{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		DB:              db,
		AuthHandler:     &handlers.AuthHandler{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret, Producer: prod, Tokens: tokens},
		ProductHandler:  &handlers.ProductHandler{DB: db, Producer: prod},
		CategoryHandler: &handlers.CategoryHandler{DB: db},
		ToppingHandler:  &handlers.ToppingHandler{DB: db},
		BusinessHandler: &handlers.BusinessHandler{DB: db},
		TableHandler:    &handlers.TableHandler{DB: db, MenuBaseURL: configuration.MENU_BASE_URL},
		OrderHandler:    &handlers.OrderHandler{DB: db},
		ReportHandler:   &handlers.ReportHandler{DB: db},
		SearchHandler:   &handlers.SearchHandler{ES: esClient, Index: "menu_items"},
		PosHandler:      &handlers.PosHandler{DB: db, Producer: prod, Sessions: pos.NewRegistry()},
		ServiceHandler:  tokens,
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.PORT,
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
