package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	AppEnv       string
	ServerPort   string
	DBDriver     string
	MySQLDSN     string
	PostgresDSN  string
	ResetDB      bool
	RedisAddr    string
	RedisDB      int
	RedisPass    string
	JWTSecret    string
	JWTTTL       time.Duration
	UserCacheTTL time.Duration
	SwaggerHost  string
}

// Load builds Config from environment with sensible defaults. A .env file in the
// working directory is applied first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		AppEnv:       getEnv("APP_ENV", "production"),
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		DBDriver:     getEnv("DB_DRIVER", "mysql"),
		MySQLDSN:     getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/leadflow?charset=utf8mb4&parseTime=True&loc=UTC"),
		PostgresDSN:  getEnv("POSTGRES_DSN", "host=localhost port=5432 user=postgres password=postgres dbname=leadflow sslmode=disable"),
		ResetDB:      getEnvBool("RESET_DB", false),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:      getEnvInt("REDIS_DB", 0),
		RedisPass:    os.Getenv("REDIS_PASSWORD"),
		JWTSecret:    getEnv("JWT_SECRET", "change-me"),
		JWTTTL:       getEnvDuration("JWT_TTL", 24*time.Hour),
		UserCacheTTL: getEnvDuration("USER_CACHE_TTL", time.Minute),
		SwaggerHost:  os.Getenv("SWAGGER_HOST"),
	}
}

// Development reports whether the service runs with developer defaults.
func (c *Config) Development() bool {
	return c.AppEnv == "development"
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "postgres" {
		return c.PostgresDSN
	}
	return c.MySQLDSN
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
