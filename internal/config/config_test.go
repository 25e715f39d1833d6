package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("JWT_TTL", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.False(t, cfg.Development())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("RESET_DB", "true")
	t.Setenv("APP_ENV", "development")

	cfg := Load()

	assert.Equal(t, "9000", cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.True(t, cfg.ResetDB)
	assert.True(t, cfg.Development())
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("JWT_TTL", "forever")

	cfg := Load()

	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
}

func TestConfig_DSNFollowsDriver(t *testing.T) {
	cfg := &Config{DBDriver: "postgres", MySQLDSN: "my", PostgresDSN: "pg"}
	assert.Equal(t, "pg", cfg.DSN())

	cfg.DBDriver = "mysql"
	assert.Equal(t, "my", cfg.DSN())
}
