package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"go-storefront/internal/backend"
	"go-storefront/internal/checkout"
	"go-storefront/internal/core/auth"
	"go-storefront/internal/core/cache"
	"go-storefront/internal/core/config"
	"go-storefront/internal/core/database"
	"go-storefront/internal/core/logger"
	"go-storefront/internal/core/server"
	"go-storefront/internal/feature/storefront"
	"go-storefront/internal/repo"
	"go-storefront/internal/session"
	"go-storefront/internal/store/catalog"
	"go-storefront/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := logger.FromConfig(cfg.Log)
	defer cleanup()
	defer logger.RedirectStdLog(log, zapcore.InfoLevel)()
	gin.DefaultWriter = logger.ToWriter(log, zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(log, zapcore.ErrorLevel)
	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 远端商城
	if cfg.Backend.BaseURL == "" {
		log.Fatal("backend.base_url is required")
	}
	client := backend.New(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.BackendTimeout(),
		Paths:   backend.Paths(cfg.Backend.Paths),
		Logger:  log,
	})

	// 目录缓存（可选）
	var catalogSrc catalog.Source = client
	var catalogCache router.CatalogCache
	if cfg.Redis.Addr != "" {
		rc := cache.New(cache.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		defer func() { _ = rc.Close() }()
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rc.Ping(ctx); err != nil {
			// 缓存不可用时 GetOrLoad 会直接回源，这里只告警
			log.Warn("redis ping failed, catalog cache degraded", zap.Error(err))
		}
		cancel()
		cc := backend.NewCachedCatalog(client, rc, cfg.CatalogTTL())
		catalogSrc, catalogCache = cc, cc
		log.Info("catalog cache enabled", zap.String("redis", cfg.Redis.Addr), zap.Duration("ttl", cfg.CatalogTTL()))
	}

	// 会话仓储：配置了数据库就落库，否则只在内存
	var sessionRepo session.Repository = session.NewMemoryRepo()
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Logger:             log,
	})
	switch {
	case errors.Is(err, database.ErrDisabled):
		log.Info("db disabled, sessions kept in memory only")
	case err != nil:
		log.Fatal("db open", zap.Error(err), zap.String("dsn", database.MaskDSN(cfg.DB.DSN)))
	default:
		log.Info("database connected", zap.String("driver", cfg.DB.Driver))
		if cfg.DB.AutoMigrate {
			if err := db.AutoMigrate(storefront.Models()...); err != nil {
				log.Fatal("automigrate failed", zap.Error(err))
			}
			log.Info("automigrate done")
		}
		sessionRepo = repo.NewSessionRepo(db)
	}

	sessions := session.NewManager(session.Deps{
		Catalog: catalogSrc,
		Auth:    client,
		Repo:    sessionRepo,
		Logger:  log,
		IdleTTL: cfg.SessionIdleTTL(),
	})
	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	go sessions.Janitor(janitorCtx, cfg.SessionSweepInterval())

	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    cfg.TokenTTL(),
	}
	if len(jwter.Secret) == 0 {
		log.Fatal("jwt.secret is required")
	}

	deps := router.Deps{
		Logger:   log,
		Sessions: sessions,
		Checkout: checkout.New(client, log),
		JWT:      jwter,
		Cache:    catalogCache,
		Limits:   cfg.Limits,
	}

	apiSrv := server.BuildServer(
		server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port),
		router.NewAPIEngine(deps),
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
		log,
	)
	adminSrv := server.BuildServer(
		server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port),
		router.NewAdminEngine(deps),
		5*time.Second, 10*time.Second, 60*time.Second,
		log,
	)

	apiURL := server.HumanURL(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	adminURL := server.HumanURL(cfg.App.Admin.Host, cfg.App.Admin.Port)
	log.Info("storefront gateway starting",
		zap.String("api_v1", apiURL+"/api/v1"),
		zap.String("health", apiURL+"/health"),
		zap.String("metrics", apiURL+"/metrics"),
		zap.String("admin_v1", adminURL+"/admin/v1"),
		zap.String("backend", cfg.Backend.BaseURL),
	)

	for name, srv := range map[string]*http.Server{"user api": apiSrv, "admin api": adminSrv} {
		go func(name string, srv *http.Server) {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(name+" start FAILED", zap.Error(err))
			}
		}(name, srv)
	}
	log.Info("storefront gateway started SUCCESS")

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	stopJanitor()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = apiSrv.Shutdown(ctx)
	_ = adminSrv.Shutdown(ctx)
	log.Info("storefront gateway stopped gracefully")
}
