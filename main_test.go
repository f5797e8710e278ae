package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solidapi/internal/config"
	"solidapi/internal/models"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		App: config.AppConfig{Port: ":0", Env: "test"},
		Database: config.DatabaseConfig{
			Driver:     "sqlite",
			SQLitePath: filepath.Join(t.TempDir(), "app.db"),
		},
		Log: config.LogConfig{Level: "error", Format: "json", SlowQueryThreshold: time.Second},
	}
}

func TestNewAppHealthCheck(t *testing.T) {
	app, err := newApp(testConfig(t), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.close() })

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.http.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, true, body["seeded"])
	assert.Equal(t, false, body["rabbitmq"])
}

func TestNewAppProductLifecycle(t *testing.T) {
	app, err := newApp(testConfig(t), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.close() })
	ctx := context.Background()

	product := models.NewProduct("Notebook", "A5 dotted notebook", decimal.RequireFromString("7.50"))
	require.NoError(t, app.products.CreateProduct(ctx, product))

	products, err := app.products.GetAllProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 2)

	expensive, err := app.products.SearchProducts(ctx, "SELECT * FROM products WHERE price > {0}", 50)
	require.NoError(t, err)
	require.Len(t, expensive, 1)
	assert.Equal(t, "Product 1", expensive[0].Name)

	require.NoError(t, app.products.DeleteProduct(ctx, product.ID))
}

func TestNewAppHealthReportsMissingSeed(t *testing.T) {
	app, err := newApp(testConfig(t), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.close() })

	require.NoError(t, app.products.DeleteProduct(context.Background(), 1))

	resp, err := app.http.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, false, body["seeded"])
}

func TestNewAppInvalidDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Driver = "mysql"

	_, err := newApp(cfg, zerolog.Nop())
	assert.Error(t, err)
}
