package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "comercio-api", cfg.App.Name)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, 480, cfg.JWT.Expiration)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.False(t, cfg.Redis.Enabled(), "sin REDIS_ADDR el caché queda deshabilitado")
	assert.False(t, cfg.Mongo.Enabled())
	assert.Equal(t, 60*time.Second, cfg.Redis.CacheTTL)
	assert.Empty(t, cfg.App.PlatformKey, "el listado global de empresas queda deshabilitado")
	assert.Equal(t, "info", cfg.App.LogLevel)
}

func TestFromViper_LeeStringsNumericos(t *testing.T) {
	v := viper.New()
	v.Set("DB_PORT", "6543")
	v.Set("REDIS_ADDR", "localhost:6379")
	v.Set("REPORT_CACHE_TTL_SECONDS", "15")
	v.Set("DB_AUTO_MIGRATE", "false")
	v.Set("HTTP_PORT", "no-es-numero")
	v.Set("PLATFORM_API_KEY", "op-key")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 6543, cfg.DB.Port)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 15*time.Second, cfg.Redis.CacheTTL)
	assert.False(t, cfg.DB.AutoMigrate)
	assert.Equal(t, 8080, cfg.HTTP.Port, "un valor inválido cae al default")
	assert.Equal(t, "op-key", cfg.App.PlatformKey)
}

func TestFromViper_ProductionExigeSecret(t *testing.T) {
	v := viper.New()
	v.Set("APP_ENV", "production")

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "comercio", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/comercio?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otra"
	assert.Equal(t, "postgres://otra", c.ConnectionString())
}
