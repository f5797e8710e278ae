package config_test

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solidapi/internal/config"
)

func newViper(overrides map[string]any) *viper.Viper {
	v := viper.New()
	config.SetDefaults(v)
	for k, val := range overrides {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := config.FromViper(newViper(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.App.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "MySolidAPI", cfg.Database.Name)
	assert.Equal(t, "admin", cfg.Database.User)
	assert.Equal(t, "admin123", cfg.Database.Password)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, config.DefaultConnectionString, cfg.Database.ConnectionString())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 200*time.Millisecond, cfg.Log.SlowQueryThreshold)
	assert.False(t, cfg.RabbitMQ.Enabled)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("DATABASE_CONNECTION_STRING", "Host=db.internal;Database=catalog;Username=svc;Password=s3cret;Port=6543")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("RABBITMQ_ENABLED", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "catalog", cfg.Database.Name)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.RabbitMQ.Enabled)
	assert.Equal(t, "product_events", cfg.RabbitMQ.Queue)
}

func TestFromViper_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]any
	}{
		{name: "unknown driver", overrides: map[string]any{"DATABASE_DRIVER": "oracle"}},
		{name: "unknown log format", overrides: map[string]any{"LOG_FORMAT": "xml"}},
		{name: "postgres without host", overrides: map[string]any{"DATABASE_CONNECTION_STRING": "Database=x"}},
		{name: "malformed connection string", overrides: map[string]any{"DATABASE_CONNECTION_STRING": "Host"}},
		{name: "rabbitmq without url", overrides: map[string]any{"RABBITMQ_ENABLED": true, "RABBITMQ_URL": ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.FromViper(newViper(tt.overrides))
			assert.Error(t, err)
		})
	}
}

func TestFromViper_SQLite(t *testing.T) {
	cfg, err := config.FromViper(newViper(map[string]any{
		"DATABASE_DRIVER":            "sqlite",
		"DATABASE_CONNECTION_STRING": "",
		"DATABASE_SQLITE_PATH":       "/tmp/products.db",
	}))
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/products.db", cfg.Database.SQLitePath)
}

func TestParseConnectionString(t *testing.T) {
	db, err := config.ParseConnectionString("host=pg; database=shop ;USERNAME=u;Password=p=w")
	require.NoError(t, err)
	assert.Equal(t, "pg", db.Host)
	assert.Equal(t, "shop", db.Name)
	assert.Equal(t, "u", db.User)
	assert.Equal(t, "p=w", db.Password)

	_, err = config.ParseConnectionString("Host=x;Timeout=3")
	assert.Error(t, err)

	_, err = config.ParseConnectionString("Host=x;Port=abc")
	assert.Error(t, err)
}

func TestDatabaseConfig_RedactedConnectionString(t *testing.T) {
	db, err := config.ParseConnectionString(config.DefaultConnectionString)
	require.NoError(t, err)
	assert.Equal(t, "Host=localhost;Database=MySolidAPI;Username=admin;Password=****", db.RedactedConnectionString())
	assert.Equal(t, config.DefaultConnectionString, db.ConnectionString())
}

func TestDatabaseConfig_DSN(t *testing.T) {
	db := config.DatabaseConfig{Host: "localhost", Name: "MySolidAPI", User: "admin", Password: "pa ss", Port: 5432}
	assert.Equal(t, `host=localhost port=5432 user=admin password='pa ss' dbname=MySolidAPI sslmode=disable`, db.DSN())
}
