package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("routemap-test")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "csv", cfg.Dataset.Source)
	assert.Equal(t, "routemap-test", cfg.Telemetry.ServiceName)

	chart := cfg.Chart.Render()
	assert.Equal(t, 400.0, chart.Width)
	assert.Equal(t, 130.0, chart.Margin.Left)
	assert.Equal(t, "#2a5599", chart.BarFill)

	world := cfg.Map.Render()
	assert.Equal(t, 97.0, world.Scale)
	assert.Equal(t, "#992a2a", world.RouteStroke)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ROUTEMAP_SERVER_PORT", "9090")
	t.Setenv("ROUTEMAP_DATASET_ROUTES_URL", "https://example.org/routes.csv")
	t.Setenv("ROUTEMAP_CHART_BAR_FILL", "#000000")

	cfg, err := Load("routemap-test")
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "https://example.org/routes.csv", cfg.Dataset.RoutesURL)
	assert.Equal(t, "#000000", cfg.Chart.BarFill)
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := &Config{
		Server:  ServerConfig{Port: 0, ReadTimeout: 1, WriteTimeout: 1, RequestTimeout: 1},
		Log:     LogConfig{Format: "xml"},
		Dataset: DatasetConfig{Source: "ftp", HTTPTimeout: 1},
		Chart:   ChartConfig{Width: 100, Height: 100, MarginLeft: 60, MarginRight: 60},
		Map:     MapConfig{Width: 900, Height: 600, Scale: 97},
		Cache:   CacheConfig{Size: 1},
	}
	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "server.port")
	assert.Contains(t, msg, "log.format")
	assert.Contains(t, msg, "dataset.source")
	assert.Contains(t, msg, "dataset.boundaries_url")
	assert.Contains(t, msg, "chart.width")
}

func TestValidate_PostgresSourceNeedsDatabase(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ROUTEMAP_DATASET_SOURCE", "postgres")
	t.Setenv("ROUTEMAP_DATABASE_PORT", "0")

	_, err := Load("routemap-test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.port")
}
