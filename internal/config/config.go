package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort string

	// 为空时详情页缓存退化为进程内缓存
	RedisAddr string
	// 为空时不启用归档
	PostgresDSN string

	CronSpec string

	CacheTTL       time.Duration
	RequestTimeout time.Duration
	UserAgent      string
	IssueURL       string
	LogLevel       string

	BasicAuthUser string
	BasicAuthPass string
}

// Load 读取环境变量；当前目录下存在 .env 时先加载它（不覆盖已有变量）
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warn: load .env: %v", err)
	}

	cfg := &Config{
		AppPort:        getEnv("APP_PORT", "9000"),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		PostgresDSN:    getEnv("POSTGRES_DSN", ""),
		CronSpec:       getEnv("CRON_SPEC", "*/30 * * * *"),
		CacheTTL:       getDuration("CACHE_TTL", time.Hour),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 15*time.Second),
		UserAgent:      getEnv("USER_AGENT", "CampusFeedBot/1.0"),
		IssueURL:       getEnv("ISSUE_TRACKER_URL", "https://github.com/LJTian/CampusFeed/issues"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		BasicAuthUser:  getEnv("APP_BASIC_USER", ""),
		BasicAuthPass:  getEnv("APP_BASIC_PASS", ""),
	}
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getDuration 解析 time.ParseDuration 格式（如 30m、1h），非法值回退默认
func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("warn: invalid %s=%q, use default %s", key, v, def)
		return def
	}
	return d
}
