package infra_redis_init

import (
	"fmt"
	"log"

	"github.com/go-redis/redis"
	"github.com/sharuys/SecretSanta/internal/config"
)

func Options(cfg config.RedisCache) *redis.Options {
	return &redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       0,
	}
}

func MustEstablishConn(cfg config.RedisCache) *redis.Client {
	client := redis.NewClient(Options(cfg))

	if err := client.Ping().Err(); err != nil {
		log.Fatal("redis ping failed", err)
	}

	return client
}
