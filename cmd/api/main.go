package main

import (
	"context"
	"log"
	"time"

	"github.com/LJTian/CampusFeed/internal/api"
	"github.com/LJTian/CampusFeed/internal/cache"
	"github.com/LJTian/CampusFeed/internal/collector"
	"github.com/LJTian/CampusFeed/internal/config"
	"github.com/LJTian/CampusFeed/internal/feed"
	"github.com/LJTian/CampusFeed/internal/logger"
	"github.com/LJTian/CampusFeed/internal/processor"
	"github.com/LJTian/CampusFeed/internal/scheduler"
	"github.com/LJTian/CampusFeed/internal/site"
	"github.com/LJTian/CampusFeed/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	// 配置了 Redis 时详情页缓存与归档列表缓存共用一个客户端，否则退化为进程内缓存
	var (
		rdb   *redis.Client
		store cache.Store = cache.NewMemoryStore()
	)
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			zl.Warn("redis ping failed", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		cancel()
		store = cache.NewRedisStore(rdb)
	}
	gate := cache.NewGate(store, cache.WithTTL(cfg.CacheTTL), cache.WithLogger(zl))

	svc := feed.NewService(
		site.Builtin(),
		collector.NewPageFetcher(cfg.UserAgent, cfg.RequestTimeout),
		gate,
		feed.NewAssembler(cfg.IssueURL),
		zl,
	)

	var (
		archive scheduler.Archiver
		reader  api.ArchiveReader
	)
	if cfg.PostgresDSN != "" {
		st, err := storage.NewStore(cfg.PostgresDSN, rdb, zl)
		if err != nil {
			zl.Fatal("init store failed", zap.Error(err))
		}
		archive, reader = st, st
	} else {
		zl.Info("POSTGRES_DSN not set, archive disabled")
	}

	s, err := scheduler.New(cfg.CronSpec, svc, processor.NewSimpleProcessor(), archive, zl)
	if err != nil {
		zl.Fatal("init scheduler failed", zap.Error(err))
	}
	s.Start()
	defer s.Stop()

	r := gin.Default()
	// 若配置了全局访问密码，则启用 Basic Auth 保护（/health 仍然免认证）
	if cfg.BasicAuthUser != "" && cfg.BasicAuthPass != "" {
		r.Use(api.BasicAuth(cfg.BasicAuthUser, cfg.BasicAuthPass))
	}

	api.NewServer(svc, reader).RegisterRoutes(r)

	addr := ":" + cfg.AppPort
	zl.Info("starting api server", zap.String("addr", addr), zap.String("cron", cfg.CronSpec))
	if err := r.Run(addr); err != nil {
		zl.Fatal("server exit", zap.Error(err))
	}
}
