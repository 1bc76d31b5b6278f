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

	"github.com/fjod/xpawto-store/internal/cache"
	"github.com/fjod/xpawto-store/internal/config"
	h "github.com/fjod/xpawto-store/internal/http"
	"github.com/fjod/xpawto-store/internal/poller"
	"github.com/fjod/xpawto-store/internal/publisher"
	"github.com/fjod/xpawto-store/internal/repository"
	"github.com/fjod/xpawto-store/internal/service"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		// carts start empty and catalog snapshots are skipped until redis is back
		log.Printf("Redis ping failed, continuing degraded: %v", err)
	} else {
		log.Printf("Redis ping succeeded")
	}
	redisCache := cache.NewRedisCache(redisClient)

	var recorder service.HandoffRecorder
	if len(cfg.KafkaBrokers) > 0 {
		handoffs := publisher.NewHandoffPublisher(cfg.KafkaBrokers...)
		defer handoffs.Close()
		recorder = handoffs
		log.Printf("Publishing checkout handoffs to %v", cfg.KafkaBrokers)
	}

	catalog := service.NewCatalogService(store, redisCache)
	carts := service.NewCartService(redisCache, catalog)
	checkout := service.NewCheckoutService(carts, cfg.WhatsAppPhone, recorder)
	testimonials := service.NewTestimonialService(store)

	pollCtx, stopPoller := context.WithCancel(ctx)
	defer stopPoller()
	if cfg.SnapshotRefresh > 0 {
		go poller.NewSnapshotPoller(catalog, cfg.SnapshotRefresh).Run(pollCtx)
	}

	router := h.NewRouter(h.Handlers{
		Products:     h.NewProductHandler(catalog, cfg.RequestTimeout),
		Testimonials: h.NewTestimonialHandler(testimonials, cfg.RequestTimeout),
		Cart:         h.NewCartHandler(carts, cfg.RequestTimeout),
		Checkout:     h.NewCheckoutHandler(checkout, cfg.RequestTimeout),
	}, h.RouterConfig{
		RequestTimeout:     cfg.RequestTimeout,
		MaxRequestBodySize: cfg.MaxRequestBodySize,
		AdminUsername:      cfg.AdminUsername,
		AdminPassword:      cfg.AdminPassword,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	stopPoller()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}

func openStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	seed, err := repository.DefaultSeed()
	if err != nil {
		return nil, err
	}

	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		log.Printf("Using in-memory store (%d products seeded)", len(seed.Products))
		return repository.NewMemoryStore(seed), nil
	case config.StoreDriverSQLite:
		repo, err := repository.NewSQLiteRepository(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		if err := repo.RunMigrations(); err != nil {
			repo.Close()
			return nil, err
		}
		if err := repo.SeedIfEmpty(ctx, seed); err != nil {
			repo.Close()
			return nil, err
		}
		log.Printf("Connected to sqlite at %s", cfg.DBPath)
		return repo, nil
	default:
		return nil, errors.New("unknown store driver: " + string(cfg.StoreDriver))
	}
}
