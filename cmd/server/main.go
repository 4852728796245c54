package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jadamsuryateja/feedback-console/config"
	"github.com/jadamsuryateja/feedback-console/internal/api/handler"
	"github.com/jadamsuryateja/feedback-console/internal/api/middleware"
	"github.com/jadamsuryateja/feedback-console/internal/api/router"
	"github.com/jadamsuryateja/feedback-console/internal/gateway"
	"github.com/jadamsuryateja/feedback-console/internal/model"
	"github.com/jadamsuryateja/feedback-console/internal/notify"
	"github.com/jadamsuryateja/feedback-console/internal/repository"
	"github.com/jadamsuryateja/feedback-console/internal/service"
	"github.com/jadamsuryateja/feedback-console/pkg/database"
	"github.com/jadamsuryateja/feedback-console/pkg/jwt"
	"github.com/jadamsuryateja/feedback-console/pkg/kafka"
	applogger "github.com/jadamsuryateja/feedback-console/pkg/logger"
	"github.com/jadamsuryateja/feedback-console/pkg/redis"
)

func main() {
	// 1. .env is optional; real deployments set FEEDBACK_* directly
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("FEEDBACK_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting feedback console",
		zap.Int("port", cfg.Server.Port),
		zap.String("upstream", cfg.Upstream.BaseURL),
		zap.String("broker", cfg.Realtime.Broker),
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 3. activity log store (optional)
	var db *gorm.DB
	if cfg.Database.Enabled {
		db, err = database.NewDB(&cfg.Database, logger)
		if err != nil {
			logger.Fatal("database connection failed", zap.Error(err))
		}
		sqlDB, err := db.DB()
		if err != nil {
			logger.Fatal("get sql.DB", zap.Error(err))
		}
		if err := database.RunMigrations(sqlDB, logger); err != nil {
			logger.Fatal("database migration failed", zap.Error(err))
		}
	} else {
		logger.Info("db.enabled is false, activity log is not persisted")
	}

	// 4. redis (optional: sessions fall back to memory, rate limiting is off)
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, using in-process sessions", zap.Error(err))
		rdb = nil
	}

	// 5. change event stream (optional)
	var producer *kafka.Producer
	if cfg.Kafka.Enabled {
		producer, err = kafka.NewProducer(&cfg.Kafka)
		if err != nil {
			logger.Fatal("kafka producer failed", zap.Error(err))
		}
	}

	// 6. realtime: broker, console hub, upstream follower
	var broker notify.Broker = notify.NewMemoryBroker()
	if cfg.Realtime.Broker == "redis" {
		if rdb == nil {
			logger.Fatal("realtime.broker is redis but redis is unavailable")
		}
		broker = notify.NewRedisBroker(rdb, cfg.Realtime.Channel, logger.Named("notify.redis"))
	}

	// svc is assigned before hub.Start, so Observe never sees it nil
	var svc *service.Service
	hub := notify.NewHub(broker, notify.HubOptions{
		WriteTimeout: cfg.Realtime.WriteTimeout,
		CheckOrigin:  middleware.AllowedOrigin(cfg.Server.CORS.AllowOrigins),
		Observe:      func(m notify.Message) { svc.ObserveRefresh(m) },
	}, logger)

	var follower *notify.Session
	if cfg.Realtime.UpstreamWSURL != "" {
		follower = notify.NewSession(notify.ClientOptions{
			URL:            cfg.Realtime.UpstreamWSURL,
			Token:          cfg.Realtime.UpstreamToken,
			ReconnectDelay: cfg.Realtime.ReconnectDelay,
			WriteTimeout:   cfg.Realtime.WriteTimeout,
		}, nil, logger)
	}

	var notifier *notify.Notifier
	if follower != nil {
		notifier = notify.NewNotifier(broker, follower, logger)
	} else {
		notifier = notify.NewNotifier(broker, nil, logger)
	}

	// 7. dependency wiring: Gateway → Service → Handler
	upstream := gateway.New(cfg.Upstream.BaseURL, &http.Client{Timeout: cfg.Upstream.Timeout}, logger)
	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)

	deps := service.Deps{
		Upstream: upstream,
		Notifier: notifier,
		Closer:   hub,
	}
	if rdb != nil {
		deps.Sessions = rdb
	}
	if producer != nil {
		deps.Publisher = producer
	}
	svc = service.NewService(cfg, repo, deps, jwtMgr, logger)
	if err := hub.Start(ctx); err != nil {
		logger.Fatal("start realtime hub", zap.Error(err))
	}

	if follower != nil {
		// the relayed broadcast reaches ObserveRefresh on every instance
		follower.On(notify.EventConfigRefresh, func(ctx context.Context, _ notify.Frame) {
			if err := notifier.Relay(ctx, notify.EventConfigRefresh); err != nil {
				logger.Warn("relay upstream refresh", zap.Error(err))
			}
		})
		id := model.Identity{Username: "feedback-console", Role: model.Role(cfg.Realtime.UpstreamRole)}
		if err := follower.Start(ctx, id); err != nil {
			logger.Fatal("start upstream follower", zap.Error(err))
		}
	}

	h := handler.NewHandler(svc, hub)
	engine := router.Setup(cfg, h, svc.Auth, rdb, logger)

	// 8. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}

	if follower != nil {
		if err := follower.Stop(); err != nil {
			logger.Warn("stop upstream follower", zap.Error(err))
		}
	}
	// ends the hub's broker subscription, which closes every socket
	stop()

	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Warn("close kafka producer", zap.Error(err))
		}
	}
	if rdb != nil {
		rdb.Close()
	}
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}

	logger.Info("server stopped")
}
