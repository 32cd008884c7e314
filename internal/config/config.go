package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type HTTPServer struct {
	Host string
	Port string
}

type Storage struct {
	// memory or postgres
	Driver string
	// Seed demo rooms 10 and 20 on start
	SeedDemo bool
}

type RedisCache struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	TTL      time.Duration
}

type Postgres struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type Log struct {
	Level string
}

type Config struct {
	HTTP     HTTPServer
	Storage  Storage
	Redis    RedisCache
	Postgres Postgres
	Log      Log
}

const logtag = "[config]"

func Load() *Config {
	configPath := flag.String("config", "", "path env file")
	flag.Parse()

	if *configPath != "" {
		if err := godotenv.Load(*configPath); err != nil {
			log.Fatalf("%s err loading env from file : %v", logtag, err)
		}
		log.Printf("%s using env from : %s", logtag, *configPath)
	} else {
		log.Printf("%s using env from .env", logtag)
		_ = godotenv.Load()
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("%s %v", logtag, err)
	}

	log.Printf("%s backend config : %+v\n", logtag, cfg.Masked())
	return cfg
}

// FromEnv reads the config from the process environment only.
func FromEnv() *Config {
	return &Config{
		HTTP:     *newHTTP(),
		Storage:  *newStorage(),
		Redis:    *newRedis(),
		Postgres: *newPostgres(),
		Log:      *newLog(),
	}
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageMemory, StoragePostgres:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.Redis.Enabled && c.Redis.TTL <= 0 {
		return fmt.Errorf("REDIS_TTL must be positive, got %s", c.Redis.TTL)
	}
	return nil
}

// Masked returns a copy safe for printing.
func (c *Config) Masked() Config {
	masked := *c
	masked.Postgres.Password = mask(c.Postgres.Password)
	masked.Redis.Password = mask(c.Redis.Password)
	return masked
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "***"
}

func newHTTP() *HTTPServer {
	return &HTTPServer{
		Port: getenv("HTTP_PORT", "8080"),
		Host: getenv("HTTP_HOST", "localhost"),
	}
}

func newStorage() *Storage {
	return &Storage{
		Driver:   getenv("STORAGE_DRIVER", StorageMemory),
		SeedDemo: getbool("STORAGE_SEED_DEMO", false),
	}
}

func newRedis() *RedisCache {
	return &RedisCache{
		Enabled:  getbool("REDIS_ENABLED", false),
		Port:     getenv("REDIS_PORT", "6379"),
		Host:     getenv("REDIS_HOST", "redis"),
		Password: getsecret("REDIS_PASSWORD", ""),
		TTL:      getduration("REDIS_TTL", 24*time.Hour),
	}
}

func newPostgres() *Postgres {
	return &Postgres{
		Host:     getenv("DB_HOST", "localhost"),
		Port:     getenv("DB_PORT", "5432"),
		User:     getenv("DB_USER", "admin"),
		Password: getsecret("DB_PASSWORD", "shared"),
		DBName:   getenv("DB_NAME", "secretnick"),
		SSLMode:  getenv("DB_SSLMODE", "disable"),
	}
}

func newLog() *Log {
	return &Log{
		Level: getenv("LOG_LEVEL", "info"),
	}
}

func getenv(key, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		fmt.Printf("%s %s undefined. Using default value %s\n", logtag, key, defaultValue)
		return defaultValue
	}
	fmt.Printf("%s %s = %s\n", logtag, key, val)
	return val
}

func getsecret(key, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		fmt.Printf("%s %s undefined. Using default value\n", logtag, key)
		return defaultValue
	}
	fmt.Printf("%s %s = %s\n", logtag, key, mask(val))
	return val
}

func getbool(key string, defaultValue bool) bool {
	raw := getenv(key, strconv.FormatBool(defaultValue))
	val, err := strconv.ParseBool(raw)
	if err != nil {
		fmt.Printf("%s %s = %s is not a bool. Using default value %t\n", logtag, key, raw, defaultValue)
		return defaultValue
	}
	return val
}

func getduration(key string, defaultValue time.Duration) time.Duration {
	raw := getenv(key, defaultValue.String())
	val, err := time.ParseDuration(raw)
	if err != nil {
		fmt.Printf("%s %s = %s is not a duration. Using default value %s\n", logtag, key, raw, defaultValue)
		return defaultValue
	}
	return val
}
