package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"skypulse/flightcore/internal/constants"
)

// Config is the full service configuration. Values come from defaults,
// then an optional TOML file, then environment variables.
type Config struct {
	AppEnv         string  `toml:"app_env"`
	LogLevel       string  `toml:"log_level"`
	HTTPPort       int     `toml:"http_port"`
	RateLimitRPS   float64 `toml:"rate_limit_rps"` // per client IP
	RateLimitBurst int     `toml:"rate_limit_burst"`

	AviationStack AviationStackConfig `toml:"aviationstack"`
	OpenSky       OpenSkyConfig       `toml:"opensky"`
	Database      DatabaseConfig      `toml:"database"`
	Redis         RedisConfig         `toml:"redis"`
	Cache         CacheConfig         `toml:"cache"`
	Monitor       MonitorConfig       `toml:"monitor"`
	Reachability  ReachabilityConfig  `toml:"reachability"`
	Auth          AuthConfig          `toml:"auth"`

	UseMockData        bool   `toml:"use_mock_data"`        // serve the offline dataset only
	OfflineDatasetPath string `toml:"offline_dataset_path"` // empty uses the embedded dataset
	Notifier           string `toml:"notifier"`             // "log" or "redis"
	RequestTimeoutSecs int    `toml:"request_timeout_seconds"`
	ResourceTimeoutSec int    `toml:"resource_timeout_seconds"`
}

type AviationStackConfig struct {
	BaseURL           string  `toml:"base_url"`
	APIKey            string  `toml:"api_key"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

type OpenSkyConfig struct {
	BaseURL                 string `toml:"base_url"`
	LivePositionIntervalSec int    `toml:"live_position_interval_seconds"`
}

type DatabaseConfig struct {
	Driver string `toml:"driver"` // "sqlite" or "postgres"
	DSN    string `toml:"dsn"`
}

type RedisConfig struct {
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Password string `toml:"password"`
}

type CacheConfig struct {
	Backend           string `toml:"backend"` // "memory" or "redis"
	FlightHours       int    `toml:"flight_hours"`
	AirportHours      int    `toml:"airport_hours"`
	PurgeIntervalSecs int    `toml:"purge_interval_seconds"`
	MaxSearchHistory  int    `toml:"max_search_history"`
	RecentSearchLimit int    `toml:"recent_search_limit"`
}

type MonitorConfig struct {
	PollIntervalSecs int `toml:"poll_interval_seconds"`
	Concurrency      int `toml:"concurrency"`
}

type ReachabilityConfig struct {
	CheckURL     string `toml:"check_url"`
	IntervalSecs int    `toml:"interval_seconds"`
}

type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"` // empty disables bearer auth
}

// Default returns a configuration that works without any file or environment.
func Default() *Config {
	return &Config{
		AppEnv:         "development",
		LogLevel:       "info",
		HTTPPort:       8080,
		RateLimitRPS:   constants.DefaultHTTPRateLimitRPS,
		RateLimitBurst: constants.DefaultHTTPRateLimitBurst,
		AviationStack: AviationStackConfig{
			BaseURL:           constants.DefaultAviationStackBaseURL,
			RequestsPerSecond: constants.DefaultAviationStackRPS,
		},
		OpenSky: OpenSkyConfig{
			BaseURL:                 constants.DefaultOpenSkyBaseURL,
			LivePositionIntervalSec: int(constants.DefaultLivePositionInterval / time.Second),
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "skypulse.db",
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: "6379",
		},
		Cache: CacheConfig{
			Backend:           "memory",
			FlightHours:       constants.DefaultFlightCacheHours,
			AirportHours:      constants.DefaultAirportCacheHours,
			PurgeIntervalSecs: int(constants.DefaultPurgeInterval / time.Second),
			MaxSearchHistory:  constants.DefaultMaxSearchHistory,
			RecentSearchLimit: constants.DefaultRecentSearchLimit,
		},
		Monitor: MonitorConfig{
			PollIntervalSecs: int(constants.DefaultMonitorPollInterval / time.Second),
			Concurrency:      constants.DefaultMonitorConcurrency,
		},
		Reachability: ReachabilityConfig{
			CheckURL:     constants.DefaultReachabilityCheckURL,
			IntervalSecs: int(constants.DefaultReachabilityInterval / time.Second),
		},
		Notifier:           "log",
		RequestTimeoutSecs: int(constants.DefaultRequestTimeout / time.Second),
		ResourceTimeoutSec: int(constants.DefaultResourceTimeout / time.Second),
	}
}

// Load builds the configuration. path may be empty, in which case only
// defaults and environment variables apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	setString(getenv, "APP_ENV", &c.AppEnv)
	setString(getenv, "LOG_LEVEL", &c.LogLevel)
	setString(getenv, "AVIATIONSTACK_BASE_URL", &c.AviationStack.BaseURL)
	setString(getenv, "AVIATIONSTACK_API_KEY", &c.AviationStack.APIKey)
	setString(getenv, "OPENSKY_BASE_URL", &c.OpenSky.BaseURL)
	setString(getenv, "DB_DRIVER", &c.Database.Driver)
	setString(getenv, "DB_DSN", &c.Database.DSN)
	setString(getenv, "REDIS_HOST", &c.Redis.Host)
	setString(getenv, "REDIS_PORT", &c.Redis.Port)
	setString(getenv, "REDIS_PASSWORD", &c.Redis.Password)
	setString(getenv, "CACHE_BACKEND", &c.Cache.Backend)
	setString(getenv, "NOTIFIER", &c.Notifier)
	setString(getenv, "OFFLINE_DATASET_PATH", &c.OfflineDatasetPath)
	setString(getenv, "REACHABILITY_CHECK_URL", &c.Reachability.CheckURL)
	setString(getenv, "API_JWT_SECRET", &c.Auth.JWTSecret)

	ints := map[string]*int{
		"HTTP_PORT":                &c.HTTPPort,
		"RATE_LIMIT_BURST":         &c.RateLimitBurst,
		"REQUEST_TIMEOUT_SECONDS":  &c.RequestTimeoutSecs,
		"RESOURCE_TIMEOUT_SECONDS": &c.ResourceTimeoutSec,
		"MONITOR_POLL_SECONDS":     &c.Monitor.PollIntervalSecs,
		"MONITOR_CONCURRENCY":      &c.Monitor.Concurrency,
		"LIVE_POSITION_SECONDS":    &c.OpenSky.LivePositionIntervalSec,
		"PURGE_INTERVAL_SECONDS":   &c.Cache.PurgeIntervalSecs,
		"FLIGHT_CACHE_HOURS":       &c.Cache.FlightHours,
		"AIRPORT_CACHE_HOURS":      &c.Cache.AirportHours,
		"MAX_SEARCH_HISTORY":       &c.Cache.MaxSearchHistory,
		"REACHABILITY_INTERVAL":    &c.Reachability.IntervalSecs,
	}
	for key, dst := range ints {
		if v := getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			*dst = n
		}
	}

	if v := getenv("AVIATIONSTACK_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid AVIATIONSTACK_RPS: %w", err)
		}
		c.AviationStack.RequestsPerSecond = rps
	}

	if v := getenv("RATE_LIMIT_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
		}
		c.RateLimitRPS = rps
	}

	if v := getenv("USE_MOCK_DATA"); v != "" {
		mock, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid USE_MOCK_DATA: %w", err)
		}
		c.UseMockData = mock
	}

	return nil
}

func setString(getenv func(string) string, key string, dst *string) {
	if v := getenv(key); v != "" {
		*dst = v
	}
}

// Validate rejects unknown backends and restores defaults for non-positive values.
func (c *Config) Validate() error {
	c.Database.Driver = strings.ToLower(c.Database.Driver)
	if c.Database.Driver != "sqlite" && c.Database.Driver != "postgres" {
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}

	c.Cache.Backend = strings.ToLower(c.Cache.Backend)
	if c.Cache.Backend != "memory" && c.Cache.Backend != "redis" {
		return fmt.Errorf("cache.backend must be memory or redis, got %q", c.Cache.Backend)
	}

	c.Notifier = strings.ToLower(c.Notifier)
	if c.Notifier != "log" && c.Notifier != "redis" {
		return fmt.Errorf("notifier must be log or redis, got %q", c.Notifier)
	}

	d := Default()
	positive(&c.HTTPPort, d.HTTPPort)
	positive(&c.RateLimitBurst, d.RateLimitBurst)
	positive(&c.RequestTimeoutSecs, d.RequestTimeoutSecs)
	positive(&c.ResourceTimeoutSec, d.ResourceTimeoutSec)
	positive(&c.Monitor.PollIntervalSecs, d.Monitor.PollIntervalSecs)
	positive(&c.Monitor.Concurrency, d.Monitor.Concurrency)
	positive(&c.OpenSky.LivePositionIntervalSec, d.OpenSky.LivePositionIntervalSec)
	positive(&c.Cache.PurgeIntervalSecs, d.Cache.PurgeIntervalSecs)
	positive(&c.Cache.FlightHours, d.Cache.FlightHours)
	positive(&c.Cache.AirportHours, d.Cache.AirportHours)
	positive(&c.Cache.MaxSearchHistory, d.Cache.MaxSearchHistory)
	positive(&c.Cache.RecentSearchLimit, d.Cache.RecentSearchLimit)
	positive(&c.Reachability.IntervalSecs, d.Reachability.IntervalSecs)
	if c.RateLimitRPS <= 0 {
		c.RateLimitRPS = d.RateLimitRPS
	}
	if c.AviationStack.RequestsPerSecond <= 0 {
		c.AviationStack.RequestsPerSecond = d.AviationStack.RequestsPerSecond
	}
	if c.ResourceTimeoutSec < c.RequestTimeoutSecs {
		return fmt.Errorf("resource timeout (%ds) must not be shorter than request timeout (%ds)", c.ResourceTimeoutSec, c.RequestTimeoutSecs)
	}
	if c.AviationStack.BaseURL == "" {
		c.AviationStack.BaseURL = d.AviationStack.BaseURL
	}
	if c.OpenSky.BaseURL == "" {
		c.OpenSky.BaseURL = d.OpenSky.BaseURL
	}
	return nil
}

func positive(v *int, fallback int) {
	if *v <= 0 {
		*v = fallback
	}
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSecs) * time.Second
}

func (c *Config) ResourceTimeout() time.Duration {
	return time.Duration(c.ResourceTimeoutSec) * time.Second
}

func (c *Config) MonitorPollInterval() time.Duration {
	return time.Duration(c.Monitor.PollIntervalSecs) * time.Second
}

func (c *Config) LivePositionInterval() time.Duration {
	return time.Duration(c.OpenSky.LivePositionIntervalSec) * time.Second
}

func (c *Config) PurgeInterval() time.Duration {
	return time.Duration(c.Cache.PurgeIntervalSecs) * time.Second
}

func (c *Config) ReachabilityInterval() time.Duration {
	return time.Duration(c.Reachability.IntervalSecs) * time.Second
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}
