package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/wesleydiniz/car-market-app/internal/api"
	"github.com/wesleydiniz/car-market-app/internal/catalog"
	"github.com/wesleydiniz/car-market-app/internal/common/config"
	"github.com/wesleydiniz/car-market-app/internal/common/database"
	"github.com/wesleydiniz/car-market-app/internal/common/logger"
	"github.com/wesleydiniz/car-market-app/internal/ranking"
	"github.com/wesleydiniz/car-market-app/internal/recommend"
	"github.com/wesleydiniz/car-market-app/internal/respcache"
	"github.com/wesleydiniz/car-market-app/internal/users"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting car-market-app",
		zap.String("environment", cfg.App.Environment),
		zap.Int("port", cfg.Server.Port),
	)

	ctx := context.Background()

	// --- Init Postgres with retry ---
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres init failed", zap.Error(err))
	}
	defer pg.Close()

	err = retryWithBackoff(func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return pg.Ping(pingCtx)
	}, 5, 2*time.Second, zapLog, "Postgres connection")
	if err != nil {
		zapLog.Fatal("postgres unreachable", zap.Error(err))
	}

	// --- Init Redis with retry ---
	rdb, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		zapLog.Fatal("redis init failed", zap.Error(err))
	}
	defer rdb.Close()

	err = retryWithBackoff(func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return rdb.Ping(pingCtx)
	}, 5, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis unreachable", zap.Error(err))
	}

	// --- Wire the pipeline ---
	originClient, err := ranking.NewOriginClient(cfg.Ranking, log)
	if err != nil {
		zapLog.Fatal("ranking origin client init failed", zap.Error(err))
	}

	tieredCache := ranking.NewTieredCache(
		rdb.GetClient(),
		originClient.FetchRanking,
		cfg.Ranking.ShortTTLDuration(),
		cfg.Ranking.LongTTLDuration(),
		log,
	)
	mergeStage := ranking.NewStage(log)
	catalogStore := catalog.NewStore(pg.GetDB(), log)
	userStore := users.NewStore(pg.GetDB(), log)
	responseCache := respcache.New(rdb.GetClient(), log)

	service := recommend.NewService(
		userStore,
		catalogStore,
		tieredCache,
		mergeStage,
		responseCache,
		cfg.ResponseCache.TTLDuration(),
		log,
	)

	handler := api.NewHandler(service, log)
	router := api.SetupRouter(cfg, handler, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Millisecond,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("server failed", zap.Error(err))
		}
	}()

	zapLog.Info("server started", zap.String("addr", srv.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLog.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}

	zapLog.Info("server stopped")
}
