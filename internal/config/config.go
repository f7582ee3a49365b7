package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const (
	defaultAPIURL          = "https://api.open-meteo.com/v1/ecmwf"
	defaultForecastDays    = 8
	defaultRefreshInterval = 30 * time.Minute
	defaultCacheTTL        = 10 * time.Minute

	// MinRefreshInterval keeps the refresher from hammering the forecast API
	MinRefreshInterval = time.Minute
)

// Config represents application configuration
type Config struct {
	Location LocationConfig `mapstructure:"location"`
	Weather  WeatherConfig  `mapstructure:"weather"`
	Window   WindowConfig   `mapstructure:"window"`
	Log      LogConfig      `mapstructure:"log"`
}

// LocationConfig is the place the forecast is fetched for
type LocationConfig struct {
	Name      string  `mapstructure:"name"`
	Latitude  float64 `mapstructure:"latitude"`
	Longitude float64 `mapstructure:"longitude"`
}

// WeatherConfig represents forecast API and refresh settings
type WeatherConfig struct {
	APIURL          string  `mapstructure:"api_url"`
	ForecastDays    int     `mapstructure:"forecast_days"`
	RefreshInterval string  `mapstructure:"refresh_interval"`
	JitterPercent   float64 `mapstructure:"jitter_percent"`
	CacheTTL        string  `mapstructure:"cache_ttl"`
}

// WindowConfig represents popup window dimensions
type WindowConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// Loader reads the config file and keeps watching it for changes
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader for the given path. An empty path searches the
// default locations for config.yaml.
func NewLoader(configPath string) *Loader {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.meteobar")
	}

	v.SetEnvPrefix("METEOBAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	return &Loader{v: v}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("location.name", "Braunschweig, DE")
	v.SetDefault("location.latitude", 52.283)
	v.SetDefault("location.longitude", 10.569)

	v.SetDefault("weather.api_url", defaultAPIURL)
	v.SetDefault("weather.forecast_days", defaultForecastDays)
	v.SetDefault("weather.refresh_interval", defaultRefreshInterval.String())
	v.SetDefault("weather.jitter_percent", 5.0)
	v.SetDefault("weather.cache_ttl", defaultCacheTTL.String())

	v.SetDefault("window.width", 360)
	v.SetDefault("window.height", 520)

	v.SetDefault("log.level", "info")
}

// Load reads configuration. A missing config file is not an error: defaults
// and environment variables still apply.
func (l *Loader) Load() (*Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	return l.decode()
}

func (l *Loader) decode() (*Config, error) {
	var config Config
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Watch calls onChange with the re-read configuration every time the config
// file changes. Invalid edits are reported through onError and the previous
// configuration stays in effect.
func (l *Loader) Watch(onChange func(*Config), onError func(error)) {
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := l.decode()
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	l.v.WatchConfig()
}

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	return NewLoader(configPath).Load()
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Location.Latitude < -90 || c.Location.Latitude > 90 {
		return fmt.Errorf("location.latitude must be between -90 and 90")
	}
	if c.Location.Longitude < -180 || c.Location.Longitude > 180 {
		return fmt.Errorf("location.longitude must be between -180 and 180")
	}

	if c.Weather.APIURL == "" {
		return fmt.Errorf("weather.api_url is required")
	}
	if c.Weather.ForecastDays < 1 || c.Weather.ForecastDays > 16 {
		return fmt.Errorf("weather.forecast_days must be between 1 and 16")
	}
	if c.Weather.JitterPercent < 0 || c.Weather.JitterPercent > 100 {
		return fmt.Errorf("weather.jitter_percent must be between 0 and 100")
	}
	if c.Weather.RefreshInterval != "" {
		interval, err := time.ParseDuration(c.Weather.RefreshInterval)
		if err != nil {
			return fmt.Errorf("weather.refresh_interval: %w", err)
		}
		if interval < MinRefreshInterval {
			return fmt.Errorf("weather.refresh_interval must be at least %s", MinRefreshInterval)
		}
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window.width and window.height must be positive")
	}

	return nil
}

// GetRefreshInterval returns the forecast refresh interval, never shorter
// than MinRefreshInterval
func (c *WeatherConfig) GetRefreshInterval() time.Duration {
	if c.RefreshInterval == "" {
		return defaultRefreshInterval
	}
	duration, err := time.ParseDuration(c.RefreshInterval)
	if err != nil || duration <= 0 {
		return defaultRefreshInterval
	}
	if duration < MinRefreshInterval {
		return MinRefreshInterval
	}
	return duration
}

// GetCacheTTL returns cache TTL duration
func (c *WeatherConfig) GetCacheTTL() time.Duration {
	if c.CacheTTL == "" {
		return defaultCacheTTL
	}
	duration, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return defaultCacheTTL
	}
	return duration
}
