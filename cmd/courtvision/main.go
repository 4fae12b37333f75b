package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fortuna/courtvision/internal/api/rest"
	"github.com/fortuna/courtvision/internal/api/websocket"
	"github.com/fortuna/courtvision/internal/auth"
	"github.com/fortuna/courtvision/internal/cache"
	"github.com/fortuna/courtvision/internal/chat"
	"github.com/fortuna/courtvision/internal/config"
	"github.com/fortuna/courtvision/internal/gemini"
	"github.com/fortuna/courtvision/internal/injuries"
	"github.com/fortuna/courtvision/internal/nba"
	"github.com/fortuna/courtvision/internal/publisher"
	"github.com/fortuna/courtvision/internal/refresh"
	"github.com/fortuna/courtvision/internal/store"
	"github.com/fortuna/courtvision/internal/trends"
)

const (
	serviceName    = "courtvision"
	serviceVersion = "1.0.0"
)

func main() {
	log.Printf("Starting %s v%s - NBA Scoring Trends Dashboard", serviceName, serviceVersion)

	// Load configuration from environment
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Redis cache with retry logic
	var redisCache *cache.RedisCache
	maxRetries := 30
	retryDelay := 2 * time.Second

	log.Println("Connecting to Redis...")
	for i := 0; i < maxRetries; i++ {
		redisCache, err = cache.NewRedisCache(cfg.Redis.URL)
		if err == nil {
			break
		}

		if i < maxRetries-1 {
			log.Printf("Redis connection attempt %d/%d failed: %v (retrying in %v)", i+1, maxRetries, err, retryDelay)
			time.Sleep(retryDelay)
		} else {
			log.Fatalf("Failed to connect to Redis after %d attempts: %v", maxRetries, err)
		}
	}
	defer redisCache.Close()

	log.Println("✓ Connected to Redis")

	// Optional snapshot archive
	var archive *store.SnapshotRepository
	if cfg.Archive.DSN != "" {
		db, err := store.NewDatabase(cfg.Archive.DSN)
		if err != nil {
			log.Fatalf("Failed to connect to archive database: %v", err)
		}
		defer db.Close()

		if err := db.RunMigrations(); err != nil {
			log.Fatalf("Failed to run archive migrations: %v", err)
		}

		archive = store.NewSnapshotRepository(db)
		log.Println("✓ Snapshot archive enabled")
	} else {
		log.Println("Snapshot archive disabled (no ARCHIVE_DSN)")
	}

	// Domain services
	statsClient := nba.NewClient("", cfg.NBA.RequestsPer)
	trendService := trends.NewService(statsClient, redisCache, cfg.NBA)

	injuryClient, err := injuries.NewClient(cfg.Injuries.URL)
	if err != nil {
		log.Fatalf("Failed to create injury client: %v", err)
	}
	defer injuryClient.Close()

	injuryService := injuries.NewService(injuryClient, redisCache, cfg.Injuries.TTL, trendService.TeamMap)

	modelClient := gemini.NewClient(cfg.Gemini.APIKey, cfg.Gemini.Model)
	chatService := chat.NewService(modelClient, trendService, injuryService, archive)

	gate := auth.NewGate(cfg.Auth.AccessPassword, cfg.Auth.SessionTTL)
	streamPublisher := publisher.NewRedisStreamPublisher(redisCache.Client())

	log.Printf("✓ Services initialized (season %s, model %s)", cfg.NBA.Season, cfg.Gemini.Model)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Background refresher
	refresher := refresh.NewRefresher(trendService, streamPublisher, archive, cfg.Refresh)
	if cfg.Refresh.Enabled {
		go refresher.Start(ctx)
		log.Println("✓ Refresher started")
	} else {
		log.Println("Refresher disabled")
	}

	// REST API + dashboard server
	handler := rest.NewHandler(gate, redisCache, trendService, injuryService, chatService, streamPublisher, archive)
	restServer := rest.NewServer(cfg.Server.RESTPort, handler, gate)
	go func() {
		if err := restServer.Start(); err != nil {
			log.Printf("REST server error: %v", err)
		}
	}()

	log.Printf("✓ REST API server listening on :%s", cfg.Server.RESTPort)

	// WebSocket chat + updates server
	wsServer := websocket.NewServer(gate, chatService, streamPublisher)
	go func() {
		if err := wsServer.Start(ctx, cfg.Server.WSPort); err != nil {
			log.Printf("WebSocket server error: %v", err)
		}
	}()

	log.Printf("✓ WebSocket server listening on :%s", cfg.Server.WSPort)
	log.Printf("✓ %s v%s started successfully", serviceName, serviceVersion)
	log.Printf("  Dashboard: http://0.0.0.0:%s", cfg.Server.RESTPort)
	log.Printf("  WebSocket: ws://0.0.0.0:%s", cfg.Server.WSPort)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down CourtVision gracefully...")

	cancel()
	refresher.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := restServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("REST server shutdown error: %v", err)
	}
	if err := wsServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("WebSocket server shutdown error: %v", err)
	}

	log.Println("CourtVision stopped")
}
