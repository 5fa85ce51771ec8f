package config

import (
	"os"
	"strconv"
	"time"
)

// Config 汇总全部运行配置，启动时构建一次，依赖注入到各组件
// 不使用包级可变状态
type Config struct {
	DatabaseURL string
	RedisURL    string // 为空时使用进程内缓存（本地开发）

	Port          string
	SessionSecret string
	APIPrefix     string

	UploadsDir       string
	MaxFileSizeMB    int64
	AllowedMimeTypes []string

	CacheTTL    time.Duration // 帖子/列表缓存
	TagCacheTTL time.Duration // 标签目录，变化慢，放宽一倍

	// 首次启动时种子 owner 账号（留空则跳过）
	OwnerUsername string
	OwnerEmail    string
	OwnerPassword string
}

// Load 从环境变量读取配置，未设置时使用本地开发默认值
func Load() *Config {
	cfg := &Config{
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		Port:          getEnv("PORT", "8080"),
		SessionSecret: getEnv("SESSION_SECRET", "secret_key_change_me"),
		APIPrefix:     getEnv("API_PREFIX", "/api/v1"),
		UploadsDir:    getEnv("UPLOADS_DIR", "uploads"),
		MaxFileSizeMB: getEnvInt64("MAX_FILE_SIZE_MB", 10),
		AllowedMimeTypes: []string{
			"image/jpeg", "image/png", "image/gif", "image/webp",
		},
		CacheTTL:      time.Duration(getEnvInt64("CACHE_TTL_SECONDS", 300)) * time.Second,
		OwnerUsername: os.Getenv("OWNER_USERNAME"),
		OwnerEmail:    os.Getenv("OWNER_EMAIL"),
		OwnerPassword: os.Getenv("OWNER_PASSWORD"),
	}
	cfg.TagCacheTTL = 2 * cfg.CacheTTL

	if cfg.DatabaseURL == "" {
		// Fallback for local dev if not set
		cfg.DatabaseURL = "host=localhost user=postgres password=postgres dbname=spectra port=5432 sslmode=disable"
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
