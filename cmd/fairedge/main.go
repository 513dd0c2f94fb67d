package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/XavierBriggs/fairedge/internal/activity"
	"github.com/XavierBriggs/fairedge/internal/broadcaster"
	"github.com/XavierBriggs/fairedge/internal/config"
	"github.com/XavierBriggs/fairedge/internal/hotcache"
	"github.com/XavierBriggs/fairedge/internal/httpapi"
	"github.com/XavierBriggs/fairedge/internal/oddsclient"
	"github.com/XavierBriggs/fairedge/internal/persistence"
	"github.com/XavierBriggs/fairedge/internal/scheduler"
)

func main() {
	fmt.Println("=== fairedge ===")

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ configuration: %v\n", err)
		os.Exit(1)
	}

	marketsFile, err := config.LoadMarketsFile(cfg.MarketsConfigPath)
	if err != nil {
		fmt.Printf("❌ markets config: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✓ loaded markets config")

	if err := persistence.RunMigrations(cfg.DBURL); err != nil {
		fmt.Printf("❌ migrations: %v\n", err)
		os.Exit(2)
	}
	fmt.Println("✓ migrations applied")

	writer, err := persistence.New(cfg.DBURL)
	if err != nil {
		fmt.Printf("❌ failed to connect to database: %v\n", err)
		os.Exit(2)
	}
	defer writer.Close()
	fmt.Println("✓ connected to database")

	redisOpts, err := redis.ParseURL(cfg.CacheURL)
	if err != nil {
		fmt.Printf("❌ failed to parse cache URL: %v\n", err)
		os.Exit(2)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		cancelPing()
		fmt.Printf("❌ failed to connect to cache: %v\n", err)
		os.Exit(2)
	}
	cancelPing()
	fmt.Println("✓ connected to cache")

	cache := hotcache.New(redisClient)
	tracker := activity.New(redisClient, cfg.SessionHeartbeatTTL)
	hub := broadcaster.NewHub()

	oddsClient := oddsclient.New(oddsclient.Config{
		BaseURL: cfg.UpstreamURL,
		APIKey:  cfg.UpstreamAPIKey,
		Timeout: cfg.UpstreamTimeout,
	})

	fees := marketsFile.BookRegistry(cfg.ExchangeFee()).ExchangeFees()

	p := &pipeline{
		odds:        oddsClient,
		cache:       cache,
		writer:      writer,
		hub:         hub,
		fees:        fees,
		sportKeys:   marketsFile.SportKeys,
		marketKinds: marketsFile.MarketKinds,
	}

	sched := scheduler.New(cfg.RefreshInterval, cfg.StaleThreshold, p.runCycle, tracker, cache)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go sched.Run(ctx)

	handler := httpapi.NewHandler(cache, tracker, sched, hub, pingerFunc(cache.Ping), pingerFunc(writer.Ping), pingerFunc(oddsClient.Ping))
	router := httpapi.NewRouter(handler, cfg.CORSOrigins)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		fmt.Printf("✓ listening on :%d\n", cfg.HTTPPort)
		fmt.Println("  endpoints:")
		fmt.Println("    GET  /health")
		fmt.Println("    GET  /opportunities")
		fmt.Println("    GET  /opportunities/stream")
		fmt.Println("    POST /opportunities/refresh")
		fmt.Println("    GET  /opportunities/refresh/{taskID}")
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			fmt.Printf("❌ server error: %v\n", err)
			os.Exit(1)
		}

	case <-ctx.Done():
		fmt.Println("\n⚠️  shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("⚠️  graceful shutdown failed: %v\n", err)
			if err := srv.Close(); err != nil {
				fmt.Printf("❌ could not stop server: %v\n", err)
			}
		}
	}

	fmt.Println("✓ shutdown complete")
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }
