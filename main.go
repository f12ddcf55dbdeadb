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

	"bitemebuddy/auth"
	"bitemebuddy/config"
	"bitemebuddy/handlers"
	"bitemebuddy/middleware"
	"bitemebuddy/routes"
	"bitemebuddy/services"
	"bitemebuddy/store"
	"bitemebuddy/views"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	// Set Gin mode
	if os.Getenv("GIN_MODE") == "" && !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := config.OpenDB(cfg.DatabaseURL, cfg.Debug)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}
	if err := config.AutoMigrate(db); err != nil {
		log.Fatal("Failed to migrate database: ", err)
	}
	if err := config.SeedAdmin(db, cfg.Admin); err != nil {
		log.Fatal("Failed to seed admin: ", err)
	}
	st := store.New(db)

	// Optional collaborators
	var cache *services.RedisCache
	if cfg.RedisURL != "" {
		if cache, err = services.NewRedisCache(cfg.RedisURL); err != nil {
			log.Printf("Redis unavailable, catalog cache disabled: %v", err)
		} else {
			defer cache.Close()
		}
	}
	var events services.EventPublisher = services.NopPublisher{}
	if cfg.RabbitMQURL != "" {
		publisher, err := services.DialAMQP(cfg.RabbitMQURL, services.OrderEventsExchange)
		if err != nil {
			log.Printf("RabbitMQ unavailable, order events disabled: %v", err)
		} else {
			defer publisher.Close()
			events = publisher
		}
	}

	uploads := services.NewUploader(cfg.Upload)
	if err := uploads.EnsureDirs(); err != nil {
		log.Fatal("Failed to create upload directories: ", err)
	}

	tokens := auth.NewTokens(cfg.SecretKey, cfg.TokenTTL)
	h := handlers.New(handlers.Deps{
		Config:   cfg,
		Store:    st,
		Tokens:   tokens,
		Orders:   services.NewOrderService(st, events),
		Delivery: services.NewDeliveryService(st, services.NewSMSSender(cfg.Twilio), events, cfg.OTPTTL),
		Catalog:  services.NewCatalog(st, cache, cfg.CatalogTTL),
		Uploads:  uploads,
	})

	// Create Gin router with default middleware (logger + recovery)
	r := gin.Default()
	r.HTMLRender = views.MustNew()
	r.MaxMultipartMemory = cfg.Upload.MaxSize
	r.Use(middleware.ErrorPages(cfg.AppName))

	routes.SetupRoutes(r, h, tokens, st, cfg.Upload)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("%s running on http://localhost:%s", cfg.AppName, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
}
