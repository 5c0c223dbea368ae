package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/samirrijal/routemap/internal/render"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Dataset   DatasetConfig   `mapstructure:"dataset"`
	Chart     ChartConfig     `mapstructure:"chart"`
	Map       MapConfig       `mapstructure:"map"`
	Database  DatabaseConfig  `mapstructure:"database"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Temporal  TemporalConfig  `mapstructure:"temporal"`
}

type ServerConfig struct {
	Port           int `mapstructure:"port"`
	ReadTimeout    int `mapstructure:"read_timeout"`
	WriteTimeout   int `mapstructure:"write_timeout"`
	RequestTimeout int `mapstructure:"request_timeout"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// Dataset sources. Source selects where routes come from: "csv" reads
// RoutesURL, "postgres" reads the routes table.
type DatasetConfig struct {
	Source        string `mapstructure:"source"`
	RoutesURL     string `mapstructure:"routes_url"`
	BoundariesURL string `mapstructure:"boundaries_url"`
	HTTPTimeout   int    `mapstructure:"http_timeout"`
}

func (d DatasetConfig) Timeout() time.Duration {
	return time.Duration(d.HTTPTimeout) * time.Second
}

type ChartConfig struct {
	Width        float64 `mapstructure:"width"`
	Height       float64 `mapstructure:"height"`
	MarginTop    float64 `mapstructure:"margin_top"`
	MarginRight  float64 `mapstructure:"margin_right"`
	MarginBottom float64 `mapstructure:"margin_bottom"`
	MarginLeft   float64 `mapstructure:"margin_left"`
	Padding      float64 `mapstructure:"padding"`
	Ticks        int     `mapstructure:"ticks"`
	BarFill      string  `mapstructure:"bar_fill"`
	HoverFill    string  `mapstructure:"hover_fill"`
}

// Render converts the section into a renderer layout.
func (c ChartConfig) Render() render.ChartConfig {
	return render.ChartConfig{
		Width:     c.Width,
		Height:    c.Height,
		Margin:    render.Margin{Top: c.MarginTop, Right: c.MarginRight, Bottom: c.MarginBottom, Left: c.MarginLeft},
		Padding:   c.Padding,
		Ticks:     c.Ticks,
		BarFill:   c.BarFill,
		HoverFill: c.HoverFill,
	}
}

type MapConfig struct {
	Width         float64 `mapstructure:"width"`
	Height        float64 `mapstructure:"height"`
	Scale         float64 `mapstructure:"scale"`
	OffsetY       float64 `mapstructure:"offset_y"`
	LandFill      string  `mapstructure:"land_fill"`
	BorderStroke  string  `mapstructure:"border_stroke"`
	AirportRadius float64 `mapstructure:"airport_radius"`
	AirportFill   string  `mapstructure:"airport_fill"`
	RouteStroke   string  `mapstructure:"route_stroke"`
	RouteOpacity  float64 `mapstructure:"route_opacity"`
}

// Render converts the section into a renderer layout.
func (c MapConfig) Render() render.MapConfig {
	return render.MapConfig{
		Width:         c.Width,
		Height:        c.Height,
		Scale:         c.Scale,
		OffsetY:       c.OffsetY,
		LandFill:      c.LandFill,
		BorderStroke:  c.BorderStroke,
		AirportRadius: c.AirportRadius,
		AirportFill:   c.AirportFill,
		RouteStroke:   c.RouteStroke,
		RouteOpacity:  c.RouteOpacity,
	}
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxConns int32  `mapstructure:"max_conns"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Addr      string `mapstructure:"addr"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type CacheConfig struct {
	Size       int `mapstructure:"size"`
	TTLSeconds int `mapstructure:"ttl_seconds"`
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

type TemporalConfig struct {
	HostPort  string `mapstructure:"host_port"`
	Namespace string `mapstructure:"namespace"`
	TaskQueue string `mapstructure:"task_queue"`
	Schedule  string `mapstructure:"schedule"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	// .env is optional and never overrides the real environment
	_ = godotenv.Load()

	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.request_timeout", 15)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("dataset.source", "csv")
	v.SetDefault("dataset.routes_url", "data/routes.csv")
	v.SetDefault("dataset.boundaries_url", "data/countries.geojson")
	v.SetDefault("dataset.http_timeout", 120)

	chart := render.DefaultChartConfig()
	v.SetDefault("chart.width", chart.Width)
	v.SetDefault("chart.height", chart.Height)
	v.SetDefault("chart.margin_top", chart.Margin.Top)
	v.SetDefault("chart.margin_right", chart.Margin.Right)
	v.SetDefault("chart.margin_bottom", chart.Margin.Bottom)
	v.SetDefault("chart.margin_left", chart.Margin.Left)
	v.SetDefault("chart.padding", chart.Padding)
	v.SetDefault("chart.ticks", chart.Ticks)
	v.SetDefault("chart.bar_fill", chart.BarFill)
	v.SetDefault("chart.hover_fill", chart.HoverFill)

	world := render.DefaultMapConfig()
	v.SetDefault("map.width", world.Width)
	v.SetDefault("map.height", world.Height)
	v.SetDefault("map.scale", world.Scale)
	v.SetDefault("map.offset_y", world.OffsetY)
	v.SetDefault("map.land_fill", world.LandFill)
	v.SetDefault("map.border_stroke", world.BorderStroke)
	v.SetDefault("map.airport_radius", world.AirportRadius)
	v.SetDefault("map.airport_fill", world.AirportFill)
	v.SetDefault("map.route_stroke", world.RouteStroke)
	v.SetDefault("map.route_opacity", world.RouteOpacity)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "routemap")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "routemap")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.enabled", false)
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("valkey.key_prefix", "routemap:")
	v.SetDefault("cache.size", 512)
	v.SetDefault("cache.ttl_seconds", 600)
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.task_queue", "routemap-refresh")
	v.SetDefault("temporal.schedule", "*/15 * * * *")

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: ROUTEMAP_DATASET_ROUTES_URL → dataset.routes_url
	v.SetEnvPrefix("ROUTEMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, "server.request_timeout must be positive")
	}

	switch c.Log.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("log.format must be json or text, got %q", c.Log.Format))
	}

	switch c.Dataset.Source {
	case "csv":
		if c.Dataset.RoutesURL == "" {
			errs = append(errs, "dataset.routes_url is required when dataset.source is csv")
		}
	case "postgres":
		errs = append(errs, c.Database.problems()...)
	default:
		errs = append(errs, fmt.Sprintf("dataset.source must be csv or postgres, got %q", c.Dataset.Source))
	}
	if c.Dataset.BoundariesURL == "" {
		errs = append(errs, "dataset.boundaries_url is required")
	}
	if c.Dataset.HTTPTimeout <= 0 {
		errs = append(errs, "dataset.http_timeout must be positive")
	}

	if c.Chart.Width <= c.Chart.MarginLeft+c.Chart.MarginRight {
		errs = append(errs, "chart.width must exceed the left and right margins")
	}
	if c.Chart.Height <= c.Chart.MarginTop+c.Chart.MarginBottom {
		errs = append(errs, "chart.height must exceed the top and bottom margins")
	}
	if c.Chart.Padding < 0 || c.Chart.Padding >= 1 {
		errs = append(errs, fmt.Sprintf("chart.padding must be in [0,1), got %g", c.Chart.Padding))
	}
	if c.Map.Width <= 0 || c.Map.Height <= 0 {
		errs = append(errs, "map.width and map.height must be positive")
	}
	if c.Map.Scale <= 0 {
		errs = append(errs, "map.scale must be positive")
	}

	if c.NATS.Enabled && c.NATS.URL == "" {
		errs = append(errs, "nats.url is required when nats is enabled")
	}
	if c.Valkey.Enabled && c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required when valkey is enabled")
	}
	if c.Cache.Size <= 0 {
		errs = append(errs, "cache.size must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func (d DatabaseConfig) problems() []string {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host is required")
	}
	if d.Port <= 0 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user is required")
	}
	if d.DBName == "" {
		errs = append(errs, "database.dbname is required")
	}
	return errs
}

// ValidateDatabase reports problems with the database section only, for
// commands that always need the database.
func (c *Config) ValidateDatabase() error {
	if errs := c.Database.problems(); len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
