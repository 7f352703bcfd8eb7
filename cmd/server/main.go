package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/avolkov/shop-api/internal/config"
	"github.com/avolkov/shop-api/internal/db"
	"github.com/avolkov/shop-api/internal/es"
	"github.com/avolkov/shop-api/internal/handlers"
	"github.com/avolkov/shop-api/internal/logging"
	loggingmw "github.com/avolkov/shop-api/internal/middleware/logging"
	"github.com/avolkov/shop-api/internal/mykafka"
	"github.com/avolkov/shop-api/internal/service/search"
	"github.com/avolkov/shop-api/internal/service/token"
	httpserver "github.com/avolkov/shop-api/internal/transport/http"
)

const productIndex = "product"

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		os.Exit(1)
	}

	log := logging.New(configuration.LOG_LEVEL)

	database, err := db.Open(context.Background(), configuration.DATABASE_URL)
	if err != nil {
		log.Error("database open failed", "error", err)
		os.Exit(1)
	}
	if err := db.Migrate(database); err != nil {
		log.Error("database migration failed", "error", err)
		os.Exit(1)
	}

	tokens := &token.Service{Secret: []byte(configuration.JWT_SECRET)}

	var producer *mykafka.Producer
	if configuration.KAFKA_ADDRESS != "" {
		producer, err = mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})
		if err != nil {
			log.Error("kafka producer init failed", "error", err)
			os.Exit(1)
		}
	} else {
		log.Warn("KAFKA_ADDRESS not set, mutation events disabled")
	}

	productHandler := &handlers.ProductHandler{DB: database}
	searchHandler := &handlers.SearchHandler{Index: productIndex}
	if configuration.ES_URL != "" {
		esClient, err := es.NewClient(configuration)
		if err != nil {
			log.Error("elasticsearch init failed", "error", err)
			os.Exit(1)
		}
		searchHandler.ES = esClient
		productHandler.Search = &search.Indexer{ES: esClient, Index: productIndex}
	} else {
		log.Warn("ES_URL not set, product search disabled")
	}
	if producer != nil {
		productHandler.Events = producer
	}

	userHandler := &handlers.UserHandler{DB: database}
	authHandler := &handlers.AuthHandler{DB: database, Tokens: tokens}
	if producer != nil {
		userHandler.Events = producer
		authHandler.Events = producer
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(log))

	httpserver.Register(e, &httpserver.Deps{
		DB:             database,
		Tokens:         tokens,
		AuthHandler:    authHandler,
		ProductHandler: productHandler,
		UserHandler:    userHandler,
		SearchHandler:  searchHandler,
	})

	srv := &http.Server{
		Addr:         configuration.HTTP_ADDR,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error("db close error", "error", err)
		}
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Error("kafka close error", "error", err)
		}
	}

	log.Info("shutdown complete")
}
