package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"omnia-tickets/internal/admin"
	"omnia-tickets/internal/admin/admin_api"
	"omnia-tickets/internal/auth"
	"omnia-tickets/internal/config"
	"omnia-tickets/internal/database/migrations"
	"omnia-tickets/internal/inventory"
	"omnia-tickets/internal/kafka"
	"omnia-tickets/internal/logger"
	"omnia-tickets/internal/mailer"
	"omnia-tickets/internal/purchase"
	"omnia-tickets/internal/purchase/purchase_api"
	"omnia-tickets/internal/security"
	"omnia-tickets/internal/security/security_api"
	"omnia-tickets/internal/uploads"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

func connectPostgres(dsn string, log *logger.Logger) *bun.DB {
	var sqldb *sql.DB
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Connecting to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		sqldb, err = sql.Open("postgres", dsn)
		if err == nil {
			err = sqldb.Ping()
		}
		if err == nil {
			break
		}
		log.Error("DATABASE", fmt.Sprintf("PostgreSQL connection failed: %v", err))
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err))
	}

	log.Info("DATABASE", "PostgreSQL connection successful")
	return bun.NewDB(sqldb, pgdialect.New())
}

func connectRedis(ctx context.Context, addr string, log *logger.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Redis connection error: %v", err))
	}
	log.Info("DATABASE", fmt.Sprintf("Redis connection successful to %s", addr))
	return client
}

func main() {
	log := logger.NewLogger()
	defer log.Close()

	log.Info("APP", "Starting Omnia Tickets service")

	if err := godotenv.Load(); err != nil {
		log.Warn("CONFIG", ".env file not found, using environment variables")
	}
	cfg := config.Load()

	if cfg.Auth.JWTSecret == "" {
		log.Fatal("CONFIG", "JWT_SECRET not set")
	}
	if cfg.Auth.AdminPasswordHash == "" {
		log.Fatal("CONFIG", "ADMIN_PASSWORD_HASH not set")
	}

	ctx := context.Background()

	bunDB := connectPostgres(cfg.Database.DSN, log)
	defer bunDB.Close()

	if cfg.Database.AutoMigrate {
		runner := migrations.NewRunner(bunDB, cfg.Database.MigrationsDir)
		if err := runner.Up(); err != nil {
			log.Fatal("DATABASE", fmt.Sprintf("Migrations failed: %v", err))
		}
		log.Info("DATABASE", "Migrations applied")
	}

	redisClient := connectRedis(ctx, cfg.Redis.Addr, log)
	defer redisClient.Close()

	var events kafka.Publisher = kafka.NoopPublisher{}
	if cfg.Kafka.Enabled {
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, kafka.Topics()); err != nil {
			log.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		}
		producer := kafka.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()
		events = producer
		log.Info("KAFKA", "Kafka producer initialized")
	} else {
		log.Warn("KAFKA", "Kafka disabled, lifecycle events will not be published")
	}

	storage, err := uploads.NewDiskStorage(cfg.Uploads.Dir)
	if err != nil {
		log.Fatal("UPLOAD", fmt.Sprintf("Uploads directory unavailable: %v", err))
	}

	inventoryService := inventory.NewService(
		&inventory.DB{Bun: bunDB},
		inventory.NewRedisLock(redisClient),
		log,
	)
	purchaseDB := &purchase.DB{Bun: bunDB}
	purchaseService := purchase.NewService(purchaseDB, inventoryService, events, log)
	confirmationMailer := mailer.New(cfg.Email, log)
	adminService := admin.NewService(purchaseDB, inventoryService, confirmationMailer, events, log)
	securityService := security.NewService(purchaseDB, events, log)
	adminAuth := auth.NewAdmin(cfg.Auth)

	publicHandler := &purchase_api.Handler{
		Purchases: purchaseService,
		Inventory: inventoryService,
		Storage:   storage,
		Logger:    log,
	}
	adminHandler := &admin_api.Handler{
		Admin:  adminService,
		Auth:   adminAuth,
		Logger: log,
	}
	securityHandler := &security_api.Handler{
		Security: securityService,
		Logger:   log,
	}

	log.Info("HTTP", "Setting up router")
	r := chi.NewRouter()

	// --- Public routes ---
	r.Get("/api/tickets", publicHandler.GetOffering)
	r.Get("/api/purchases/settings", publicHandler.GetOffering)
	r.Post("/api/purchases", publicHandler.SubmitPurchase)
	r.Get("/api/purchases/qr/{code}", publicHandler.GetQRCode)
	r.Post("/api/admin/login", adminHandler.Login)
	r.Get("/api/security/verify/{code}", securityHandler.VerifyCode)
	r.Post("/api/security/use/{code}", securityHandler.UseCode)
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.Uploads.Dir))))

	// --- Admin routes ---
	r.Group(func(r chi.Router) {
		r.Use(adminAuth.Middleware())
		r.Get("/api/purchases", adminHandler.ListPurchases)
		r.Post("/api/admin/confirm/{id}", adminHandler.ConfirmPurchase)
		r.Post("/api/admin/reject/{id}", adminHandler.RejectPurchase)
		r.Post("/api/admin/reset", adminHandler.Reset)
		r.Post("/api/tickets/update", adminHandler.UpdateSettings)
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP", fmt.Sprintf("Omnia Tickets service running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	log.Info("APP", "Service started, waiting for shutdown signal")
	<-stop

	log.Info("APP", "Shutdown signal received")
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("HTTP", fmt.Sprintf("Server shutdown failed: %v", err))
	} else {
		log.Info("HTTP", "Service shutdown complete")
	}
}
