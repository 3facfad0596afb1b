package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/uptrace/bun"

	artist_db "fyyur/internal/artists/db"
	"fyyur/internal/artists/artist_api"
	artists "fyyur/internal/artists/service"
	"fyyur/internal/config"
	"fyyur/internal/database"
	"fyyur/internal/flash"
	"fyyur/internal/kafka"
	"fyyur/internal/logger"
	"fyyur/internal/qr"
	show_db "fyyur/internal/shows/db"
	shows "fyyur/internal/shows/service"
	"fyyur/internal/shows/show_api"
	venue_db "fyyur/internal/venues/db"
	venues "fyyur/internal/venues/service"
	"fyyur/internal/venues/venue_api"
	"fyyur/internal/web"
	"fyyur/internal/web/router"
)

func openDatabase(ctx context.Context, cfg *config.Config, logger *logger.Logger) *bun.DB {
	bunDB, err := database.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("DATABASE", err.Error())
	}

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, bunDB, cfg.Database, logger); err != nil {
			logger.Fatal("DATABASE", fmt.Sprintf("Migration failed: %v", err))
		}
		logger.Info("DATABASE", "✅ Schema up to date")
	}

	if cfg.Database.Seed {
		seeded, err := database.Seed(ctx, bunDB, time.Now())
		if err != nil {
			logger.Fatal("DATABASE", fmt.Sprintf("Seeding failed: %v", err))
		}
		if seeded {
			logger.Info("DATABASE", "Sample venues, artists and shows inserted")
		}
	}
	return bunDB
}

// flashStore keeps flash messages in Redis when REDIS_ADDR is set, so several
// instances can share sessions. Otherwise they live in process memory.
func flashStore(ctx context.Context, cfg *config.Config, logger *logger.Logger) (flash.Store, func()) {
	if cfg.Redis.Addr == "" {
		logger.Info("FLASH", "REDIS_ADDR not set, keeping flash messages in memory")
		return flash.NewMemoryStore(cfg.Flash.TTL), func() {}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Fatal("REDIS", fmt.Sprintf("Redis connection error: %v", err))
	}
	logger.Info("REDIS", fmt.Sprintf("✅ Redis connection successful to %s (DB: %d)", cfg.Redis.Addr, cfg.Redis.DB))
	return flash.NewRedisStore(client, cfg.Flash.TTL), func() { client.Close() }
}

func eventPublisher(ctx context.Context, cfg *config.Config, logger *logger.Logger) (kafka.Publisher, func()) {
	if !cfg.Kafka.Enabled {
		logger.Info("KAFKA", "Kafka disabled, domain events are not published")
		return kafka.NoopPublisher{}, func() {}
	}

	logger.Info("KAFKA", fmt.Sprintf("Using Kafka brokers: %v", cfg.Kafka.Brokers))
	if err := kafka.EnsureTopicsExist(ctx, cfg.Kafka.Brokers, cfg.Kafka.TopicPrefix, logger); err != nil {
		logger.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
	} else {
		logger.Info("KAFKA", "Required topics ensured successfully")
	}

	producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicPrefix, logger)
	return producer, func() {
		if err := producer.Close(); err != nil {
			logger.Error("KAFKA", fmt.Sprintf("Failed to close producer: %v", err))
		}
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, ".env file not found, using environment variables")
	}
	cfg := config.Load()

	logger := logger.NewLogger(cfg.Log.Dir)
	defer logger.Close()
	logger.Info("APP", "Starting Fyyur")

	ctx := context.Background()

	bunDB := openDatabase(ctx, cfg, logger)
	defer bunDB.Close()

	store, closeStore := flashStore(ctx, cfg, logger)
	defer closeStore()

	events, closeEvents := eventPublisher(ctx, cfg, logger)
	defer closeEvents()

	fm := flash.NewManager(store, cfg.Flash.CookieName, cfg.Flash.TTL, logger)
	rd, err := web.NewRenderer(fm, logger)
	if err != nil {
		logger.Fatal("RENDER", err.Error())
	}
	qrGen := qr.NewQRGenerator(cfg.Server.PublicURL)

	venueService := venues.NewVenueService(&venue_db.DB{Bun: bunDB}, events, logger)
	artistService := artists.NewArtistService(&artist_db.DB{Bun: bunDB}, events, logger)
	showService := shows.NewShowService(&show_db.DB{Bun: bunDB}, events, logger)

	logger.Info("HTTP", "Setting up router and middleware")
	handler := router.New(router.Deps{
		Render: rd,
		Flash:  fm,
		DB:     bunDB,
		Logger: logger,
		Handlers: []router.RouteRegistrar{
			venue_api.NewHandler(venueService, rd, fm, qrGen, logger),
			artist_api.NewHandler(artistService, rd, fm, qrGen, logger),
			show_api.NewHandler(showService, rd, fm, logger),
		},
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("HTTP", fmt.Sprintf("🚀 Fyyur running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		logger.Info("HTTP", "✅ Fyyur shutdown complete")
	}
}
