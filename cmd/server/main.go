package main

import (
	"log"
	"os"

	"spectra/internal/cache"
	"spectra/internal/config"
	"spectra/internal/db"
	"spectra/internal/router"
	"spectra/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	cfg := config.Load()

	// Initialize Database
	gdb, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	// 缓存后端：配置了 Redis 用 Redis，否则进程内 LRU
	var store cache.Store
	if cfg.RedisURL != "" {
		redisStore, err := cache.NewRedisStore(cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis init failed: %v", err)
		}
		defer redisStore.Close()
		store = redisStore
		log.Println("cache: redis")
	} else {
		memStore, err := cache.NewMemoryStore(1024)
		if err != nil {
			log.Fatalf("memory cache init failed: %v", err)
		}
		store = memStore
		log.Println("cache: in-process lru")
	}

	if err := os.MkdirAll(cfg.UploadsDir, 0o755); err != nil {
		log.Fatalf("uploads dir init failed: %v", err)
	}

	// Services
	inv := services.NewInvalidator(store)
	tagService := services.NewTagService(gdb, store, cfg)
	svc := router.Services{
		Users:    services.NewUserService(gdb),
		Posts:    services.NewPostService(gdb, store, inv, tagService, cfg),
		Comments: services.NewCommentService(gdb, store, inv, cfg),
		Votes:    services.NewVoteService(gdb, store, inv, cfg),
		Tags:     tagService,
	}

	// Initialize Gin
	r := gin.Default()

	// Setup Sessions
	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("spectra_session", sessionStore))

	router.RegisterRoutes(r, cfg, svc)

	log.Printf("Spectra server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
