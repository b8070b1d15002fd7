package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"storefrontgo/internal/audit"
	"storefrontgo/internal/config"
	"storefrontgo/internal/countdown"
	"storefrontgo/internal/database/db_client"
	"storefrontgo/internal/http/http_server"
	"storefrontgo/internal/redis/redis_client"
	"storefrontgo/internal/redis/watcher/expirywatcher"
	"storefrontgo/internal/services/auction"
	"storefrontgo/internal/services/registration"
	"storefrontgo/internal/services/search"
	"storefrontgo/internal/upstream"
	"storefrontgo/internal/ws"
)

var (
	Log, _ = zap.NewDevelopment()
)

func main() {
	defer Log.Sync()
	zap.ReplaceGlobals(Log)

	var err error
	var cfg *config.Config
	var redisClient *redis.Client

	// 1. Load configuration
	cfg, err = config.LoadConfig()
	if err != nil {
		Log.Fatal("Failed to load configuration", zap.Error(err))
	}
	Log.Debug("Configuration loaded successfully", zap.Any("config", cfg))

	// 2. Context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	// 3. Redis
	redisClient, err = redis_client.NewRedisClient(cfg.RedisHost, int(cfg.RedisPort))
	if err != nil {
		Log.Fatal("Failed to create Redis client", zap.Error(err))
	}
	defer redisClient.Close()
	Log.Debug("Redis client created successfully")

	// 4. Postgres db client
	pgDb, err := db_client.Open(cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDb)
	if err != nil {
		Log.Fatal("pg-open", zap.Error(err))
	}
	defer pgDb.Close()
	if err := db_client.EnsureSchema(ctx, pgDb); err != nil {
		Log.Fatal("pg-schema", zap.Error(err))
	}

	// 5. Upstream marketplace client
	backend := upstream.NewClient(cfg.BackendURL, cfg.BackendTimeout)

	// 6. Background: bid audit trail
	recorder := audit.NewRecorder(pgDb)
	recorder.Run(ctx)

	// 7. Services
	auctionService := auction.NewAuctionService(backend, redisClient, countdown.SystemClock,
		cfg.SnapshotCacheTTL, recorder)
	registrationService := registration.NewRegistrationService(
		registration.NewRedisStore(redisClient, cfg.WizardTTL), backend)
	searchService := search.NewSearchService(pgDb)

	// 8. WebSockets hub + Redis fan-out
	hub := ws.NewHub()
	wsSrv := ws.NewWsServer(hub, redisClient, auctionService, countdown.SystemClock)

	// 9. Background: key-expiry watcher ➜ latch + live rooms
	go expirywatcher.Run(ctx, redisClient, auctionService, wsSrv)

	// 10. HTTP + WS server
	httpServer := http_server.NewHttpServer(ctx, cfg, wsSrv, http_server.Services{
		Auction:      auctionService,
		Registration: registrationService,
		Search:       searchService,
		Backend:      backend,
	})
	go func() {
		<-ctx.Done()
		httpServer.Dispose()
	}()
	if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		Log.Fatal("Failed to start HTTP server", zap.Error(err))
	}
}
