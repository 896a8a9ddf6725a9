package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"weathermail.app/pkg/errors"
)

const (
	maxPortNumber = 65535
	maxBurst      = 1000
)

// Config represents the application configuration structure.
// It is built once at startup and treated as read-only afterwards.
type Config struct {
	Server    ServerConfig    `split_words:"true"`
	Weather   WeatherConfig   `split_words:"true"`
	Forecast  ForecastConfig  `split_words:"true"`
	Narrative NarrativeConfig `split_words:"true"`
	Email     EmailConfig     `split_words:"true"`
	Log       LogConfig       `split_words:"true"`
}

type ServerConfig struct {
	Port           int           `envconfig:"PORT" default:"8080"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
}

type WeatherConfig struct {
	APIKey      string        `envconfig:"API_KEY"`
	BaseURL     string        `envconfig:"WEATHER_API_BASE_URL" default:"https://api.openweathermap.org"`
	HTTPTimeout time.Duration `envconfig:"WEATHER_HTTP_TIMEOUT" default:"10s"`
	// RateLimitRPS of 0 leaves outbound calls unthrottled
	RateLimitRPS   float64 `envconfig:"WEATHER_RATE_LIMIT_RPS" default:"0"`
	RateLimitBurst int     `envconfig:"WEATHER_RATE_LIMIT_BURST" default:"5"`
}

// RateLimitEnabled reports whether outbound weather calls are throttled
func (w WeatherConfig) RateLimitEnabled() bool {
	return w.RateLimitRPS > 0
}

type ForecastConfig struct {
	Timezone string `envconfig:"FORECAST_TIMEZONE" default:"UTC"`
}

// Location resolves the configured zone used to split forecast samples into calendar days.
func (f ForecastConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(f.Timezone)
	if err != nil {
		return nil, errors.NewConfigurationError("FORECAST_TIMEZONE is not a known time zone", err)
	}
	return loc, nil
}

type NarrativeConfig struct {
	APIKey  string `envconfig:"GOOGLE_API_KEY"`
	Model   string `envconfig:"GEMINI_MODEL" default:"gemini-2.0-flash"`
	BaseURL string `envconfig:"GEMINI_BASE_URL" default:"https://generativelanguage.googleapis.com/v1beta/openai/"`
}

type EmailConfig struct {
	SMTPHost    string `envconfig:"SMTP_SERVER"`
	SMTPPort    int    `envconfig:"SMTP_PORT" default:"587"`
	FromAddress string `envconfig:"EMAIL_ADDRESS"`
	Password    string `envconfig:"EMAIL_PASSWORD"`
}

type LogConfig struct {
	Level    string `envconfig:"LOG_LEVEL" default:"info"`
	FilePath string `envconfig:"LOG_FILE_PATH"`
}

func LoadConfig() (*Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, errors.NewConfigurationError("error processing config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Weather.Validate(); err != nil {
		return err
	}
	if err := c.Forecast.Validate(); err != nil {
		return err
	}
	if err := c.Narrative.Validate(); err != nil {
		return err
	}
	if err := c.Email.Validate(); err != nil {
		return err
	}
	return nil
}

func (s *ServerConfig) Validate() error {
	if s.Port < 1 || s.Port > maxPortNumber {
		return errors.NewConfigurationError("PORT must be between 1 and 65535", nil)
	}
	if s.RequestTimeout <= 0 {
		return errors.NewConfigurationError("REQUEST_TIMEOUT must be positive", nil)
	}
	return nil
}

func (w *WeatherConfig) Validate() error {
	if w.APIKey == "" {
		return errors.NewConfigurationError("API_KEY must be set", nil)
	}
	if !strings.HasPrefix(w.BaseURL, "http://") && !strings.HasPrefix(w.BaseURL, "https://") {
		return errors.NewConfigurationError("WEATHER_API_BASE_URL must start with http:// or https://", nil)
	}
	if w.HTTPTimeout <= 0 {
		return errors.NewConfigurationError("WEATHER_HTTP_TIMEOUT must be positive", nil)
	}
	if w.RateLimitRPS < 0 {
		return errors.NewConfigurationError("WEATHER_RATE_LIMIT_RPS cannot be negative", nil)
	}
	if w.RateLimitEnabled() && (w.RateLimitBurst < 1 || w.RateLimitBurst > maxBurst) {
		return errors.NewConfigurationError("WEATHER_RATE_LIMIT_BURST must be between 1 and 1000", nil)
	}
	return nil
}

func (f *ForecastConfig) Validate() error {
	_, err := f.Location()
	return err
}

func (n *NarrativeConfig) Validate() error {
	if n.APIKey == "" {
		return errors.NewConfigurationError("GOOGLE_API_KEY must be set", nil)
	}
	if n.Model == "" {
		return errors.NewConfigurationError("GEMINI_MODEL cannot be empty", nil)
	}
	return nil
}

func (e *EmailConfig) Validate() error {
	if e.SMTPHost == "" {
		return errors.NewConfigurationError("SMTP_SERVER must be set", nil)
	}
	if e.SMTPPort < 1 || e.SMTPPort > maxPortNumber {
		return errors.NewConfigurationError("SMTP_PORT must be between 1 and 65535", nil)
	}
	if e.FromAddress == "" {
		return errors.NewConfigurationError("EMAIL_ADDRESS must be set", nil)
	}
	if !strings.Contains(e.FromAddress, "@") {
		return errors.NewConfigurationError("EMAIL_ADDRESS must be a valid email address", nil)
	}
	return nil
}
