package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	rdb "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/dropDatabas3/clubauth/internal/auth"
	"github.com/dropDatabas3/clubauth/internal/config"
	"github.com/dropDatabas3/clubauth/internal/http/router"
	"github.com/dropDatabas3/clubauth/internal/metrics"
	"github.com/dropDatabas3/clubauth/internal/observability/logger"
	"github.com/dropDatabas3/clubauth/internal/rate"
	"github.com/dropDatabas3/clubauth/internal/token"
)

func main() {
	// .env opcional (dev); en prod las vars vienen del entorno real
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file, using system environment: %v", err)
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.Log.Level,
		ServiceName: "clubauth",
	})
	defer logger.Sync()

	if err := metrics.RegisterAuth(nil); err != nil {
		logger.L().Fatal("metrics registration failed", logger.Err(err))
	}

	authCfg := auth.Config{
		Username:      cfg.AdminAuth.Username,
		PasswordHash:  cfg.AdminAuth.PasswordHash,
		SigningSecret: cfg.AdminAuth.SigningSecret,
		TokenTTL:      time.Duration(cfg.AdminAuth.TokenTTLSeconds) * time.Second,
	}
	if !authCfg.Complete() {
		// no abortamos: el servicio arranca y responde el error de
		// configuración en cada request (y /readyz lo refleja)
		logger.L().Warn("admin auth configuration incomplete, all auth requests will fail",
			logger.Component("config"))
	}

	clk := token.SystemClock()
	svc := auth.NewService(authCfg, clk)

	var limiter rate.Limiter
	if cfg.Rate.Enabled {
		switch cfg.Rate.Store {
		case "redis":
			client := rdb.NewClient(&rdb.Options{
				Addr: cfg.Rate.Redis.Addr,
				DB:   cfg.Rate.Redis.DB,
			})
			if err := client.Ping(context.Background()).Err(); err != nil {
				logger.L().Fatal("redis unreachable", logger.Err(err))
			}
			limiter = rate.NewRedisLimiter(client, cfg.Rate.Redis.Prefix, cfg.Rate.Auth.Limit, cfg.AuthWindow())
		default:
			limiter = rate.NewMemoryLimiter(cfg.Rate.Auth.Limit, cfg.AuthWindow())
		}
		logger.L().Info("rate limiting enabled",
			logger.String("store", cfg.Rate.Store),
			logger.Int("limit", cfg.Rate.Auth.Limit),
			logger.String("window", cfg.Rate.Auth.Window))
	}

	handler := router.New(router.Deps{
		Auth:    svc,
		AuthCfg: authCfg,
		Clock:   clk,
		Limiter: limiter,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.L().Info("clubauth up", logger.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.L().Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.L().Fatal("server failed", logger.Err(err))
	}
}
