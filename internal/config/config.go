package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port     string
	DBDSN    string
	LogFile  string
	LogLevel string

	JWTSecret    string
	TokenTTL     time.Duration
	BcryptCost   int
	SecureCookie bool

	RedisAddr     string
	SalesCacheTTL time.Duration

	SeedDemo     bool
	DemoPassword string
}

func Load() Config {
	return Config{
		Port:          env("PORT", "8080"),
		DBDSN:         env("DB_DSN", "sales.db"), // sqlite file in project root
		LogFile:       os.Getenv("LOG_FILE"),
		LogLevel:      env("LOG_LEVEL", "info"),
		JWTSecret:     env("JWT_SECRET", "change-me"),
		TokenTTL:      duration("TOKEN_TTL", 2*time.Hour),
		BcryptCost:    integer("BCRYPT_COST", 12),
		SecureCookie:  os.Getenv("COOKIE_SECURE") == "true", // set true behind HTTPS
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		SalesCacheTTL: duration("SALES_CACHE_TTL", 30*time.Second),
		SeedDemo:      env("SEED_DEMO", "true") == "true",
		DemoPassword:  env("DEMO_PASSWORD", "Passw0rd!"),
	}
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func duration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func integer(key string, def int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
