package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"egov-portal/assistant"
	"egov-portal/config"
	"egov-portal/database"
	"egov-portal/handlers"
	"egov-portal/logger"
	"egov-portal/metrics"
	"egov-portal/middleware"
	"egov-portal/realtime"
	"egov-portal/revocation"
	"egov-portal/state"
	"egov-portal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer log.Sync()
	zap.ReplaceGlobals(log)

	if err := config.ValidateConfig(cfg); err != nil {
		log.Fatal("Invalid configuration", zap.Error(err))
	}

	// Initialize JWT
	if err := utils.InitializeJWT(cfg.JWTSecret, cfg.TokenTTL); err != nil {
		log.Fatal("Failed to initialize JWT", zap.Error(err))
	}

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL, cfg.LogLevel == "debug")
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	revoked := newRevocationStore(ctx, cfg, log)

	hub := realtime.NewHub(log, cfg.CORSOrigin)
	go hub.Run(ctx)

	store := state.New(time.Now, state.NewRandomIDs(state.SeedTokenStart),
		state.WithToastTTL(cfg.ToastTTL),
		state.WithLogger(log),
		state.WithListener(metrics.StoreListener),
		state.WithListener(hub.Listener),
	)
	defer store.Close()
	store.Dispatch(state.SetLoading{Loading: false})

	ai := assistant.NewClient(assistant.Config{
		BaseURL:    cfg.GenAI.BaseURL,
		APIKey:     cfg.GenAI.APIKey,
		Model:      cfg.GenAI.Model,
		Timeout:    cfg.GenAI.Timeout,
		MaxRetries: 2,
	}, log)

	h := handlers.NewHandlers(db, cfg, store, revoked, ai, hub, log)

	rl := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go rl.Cleanup(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           middleware.CORS(cfg.CORSOrigin)(handlers.NewRouter(h, rl)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server starting",
			zap.String("port", cfg.Port),
			zap.String("environment", cfg.Environment),
			zap.String("database", cfg.DatabaseURL),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
}

// newRevocationStore uses Redis when REDIS_ADDR is set and reachable, and
// the in-process store otherwise.
func newRevocationStore(ctx context.Context, cfg *config.Config, log *zap.Logger) revocation.Store {
	if cfg.RedisAddr == "" {
		log.Info("Token revocation kept in memory")
		return revocation.NewMemoryStore()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		if cfg.IsProduction() {
			log.Fatal("Failed to connect to Redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		log.Warn("Redis unreachable, keeping token revocation in memory", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		client.Close()
		return revocation.NewMemoryStore()
	}

	log.Info("Token revocation backed by Redis", zap.String("addr", cfg.RedisAddr))
	return revocation.NewRedisStore(client)
}
