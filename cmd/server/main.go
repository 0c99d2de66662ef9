package main

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"dbmonitor/internal/app/di"
	"dbmonitor/internal/app/router"
	"dbmonitor/internal/feature/results/adapters"
	resultshandler "dbmonitor/internal/feature/results/transport/handler"
	infradb "dbmonitor/internal/platform/db"
	"dbmonitor/internal/platform/http/handler"
	infraredis "dbmonitor/internal/platform/redis"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	// db
	db, err := infradb.OpenDB(adapters.Models()...)
	if err != nil {
		log.Fatal("failed to open result database:", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			log.Println("[ERROR] Failed to close database:", err)
		}
	}()

	// Redis
	redisCfg := infraredis.LoadConfig()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(ctx, redisCfg); err != nil {
		if errors.Is(err, infraredis.ErrNotConfigured) {
			log.Println("[INFO] REDIS_HOST is not set. Running without cache.")
		} else {
			log.Println("[WARN] Redis unavailable. Running without cache.")
		}
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}
	cancel()

	// Usecase / Handler
	resultsUC := di.NewResultsUsecase(rdb, db, redisCfg.CacheTTL)
	resultsH := resultshandler.NewResultsHandler(resultsUC)
	healthH := handler.NewHealthHandler(sqlDB)

	// ルータ生成
	r := router.NewRouter(resultsH, healthH, allowOrigins())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

// allowOrigins はカンマ区切りの CORS_ALLOW_ORIGINS を読み込みます。
func allowOrigins() []string {
	var out []string
	for _, o := range strings.Split(os.Getenv("CORS_ALLOW_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
