package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pkg/cache"
	"github.com/wyfcoding/pkg/config"
	"github.com/wyfcoding/pkg/database"
	"github.com/wyfcoding/pkg/logging"
	"github.com/wyfcoding/pkg/messagequeue/kafka"
	"github.com/wyfcoding/pkg/messagequeue/outbox"
	"github.com/wyfcoding/pkg/metrics"
	"golang.org/x/sync/errgroup"

	"github.com/wyfcoding/usermanagement/internal/user/application"
	"github.com/wyfcoding/usermanagement/internal/user/infrastructure/geoip"
	"github.com/wyfcoding/usermanagement/internal/user/infrastructure/persistence/mysql"
	userredis "github.com/wyfcoding/usermanagement/internal/user/infrastructure/persistence/redis"
	userhttp "github.com/wyfcoding/usermanagement/internal/user/interfaces/http"
)

var configPath = flag.String("config", "configs/usermanagement/config.toml", "config file path")

func main() {
	flag.Parse()

	// 1. 配置
	var cfg config.Config
	if err := config.Load(*configPath, &cfg); err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// 2. 日志
	logCfg := &logging.Config{Service: cfg.Server.Name, Level: cfg.Log.Level}
	logger := logging.NewFromConfig(logCfg)
	slog.SetDefault(logger.Logger)

	// 3. 指标
	metricsImpl := metrics.NewMetrics(cfg.Server.Name)

	// 4. 数据库
	db, err := database.NewDB(cfg.Data.Database, cfg.CircuitBreaker, logger, metricsImpl)
	if err != nil {
		slog.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	if cfg.Server.Environment == "dev" {
		if err := db.RawDB().AutoMigrate(&mysql.UserModel{}, &outbox.Message{}); err != nil {
			slog.Error("failed to migrate database", "error", err)
		}
	}

	// 5. Kafka & Outbox
	kafkaProducer := kafka.NewProducer(&cfg.MessageQueue.Kafka, logger, metricsImpl)
	outboxMgr := outbox.NewManager(db.RawDB(), logger.Logger)
	pusher := func(ctx context.Context, topic, key string, payload []byte) error {
		return kafkaProducer.PublishToTopic(ctx, topic, []byte(key), payload)
	}
	outboxProcessor := outbox.NewProcessor(outboxMgr, pusher, 100, 2*time.Second)

	// 6. Redis
	redisCache, err := cache.NewRedisCache(&cfg.Data.Redis, cfg.CircuitBreaker, logger, metricsImpl)
	if err != nil {
		slog.Error("failed to init redis", "error", err)
		os.Exit(1)
	}

	// 7. 仓储与外部客户端
	userRepo := mysql.NewUserRepository(db.RawDB())
	sessionRepo := userredis.NewSessionRedisRepository(redisCache.GetClient())
	publisher := outbox.NewPublisher(outboxMgr)
	geoClient := geoip.NewClient()

	// 8. 应用服务
	authSvc := application.NewAuthCommandService(userRepo, sessionRepo, geoClient, publisher, 24*time.Hour)
	adminSvc := application.NewAdminCommandService(userRepo, publisher)
	querySvc := application.NewUserQueryService(userRepo, sessionRepo)

	// 9. 管理员播种（仅当用户表为空）
	seedCtx, seedCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := authSvc.EnsureAdmin(seedCtx, os.Getenv("ADMIN_EMAIL"), os.Getenv("ADMIN_PASSWORD")); err != nil {
		slog.Error("failed to seed admin user", "error", err)
	}
	seedCancel()

	// 10. 接口层
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	handler := userhttp.NewHandler(authSvc, adminSvc, querySvc)
	handler.RegisterRoutes(r.Group("/"))

	// 11. 启动
	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		outboxProcessor.Start()
		<-ctx.Done()
		outboxProcessor.Stop()
		return nil
	})

	addr := fmt.Sprintf(":%d", cfg.Server.HTTP.Port)
	server := &http.Server{Addr: addr, Handler: r}

	g.Go(func() error {
		slog.Info("HTTP server starting", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-quit:
			slog.Info("shutting down servers...")
		case <-ctx.Done():
			slog.Info("context cancelled, shutting down...")
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server exited with error", "error", err)
	}
}
