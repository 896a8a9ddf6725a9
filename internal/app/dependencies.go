package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"weathermail.app/internal/adapters/external"
	"weathermail.app/internal/adapters/infrastructure"
	"weathermail.app/internal/config"
	"weathermail.app/internal/ports"
)

type DependencyContainer struct {
	config     DependencyConfig
	metrics    *infrastructure.PrometheusMetrics
	fileLogger *infrastructure.FileLoggerAdapter
	ports      *ports.ApplicationPorts
}

type DependencyConfig struct {
	Weather   config.WeatherConfig
	Narrative config.NarrativeConfig
	Email     config.EmailConfig
	Log       config.LogConfig

	// Optional overrides, used by tests to point adapters at fake upstreams
	WeatherHTTPClient   external.HTTPClient
	NarrativeHTTPClient *http.Client
}

func NewDependencyContainer(depConfig DependencyConfig) (*DependencyContainer, error) {
	container := &DependencyContainer{
		config:  depConfig,
		metrics: infrastructure.NewPrometheusMetrics(),
	}

	if err := container.initializePorts(); err != nil {
		_ = container.Cleanup()
		return nil, fmt.Errorf("initialize ports: %w", err)
	}

	return container, nil
}

func (c *DependencyContainer) initializePorts() error {
	slog.Info("Initializing ports...")

	logger := ports.Logger(infrastructure.NewSlogLoggerAdapter(nil))

	// Upstream call log goes to the file as well as stdout when a path is configured
	upstreamLogger := logger
	if c.config.Log.FilePath != "" {
		fileLogger, err := infrastructure.NewFileLoggerAdapter(c.config.Log.FilePath)
		if err != nil {
			slog.Warn("Failed to create file logger, falling back to slog", "error", err)
		} else {
			c.fileLogger = fileLogger
			upstreamLogger = infrastructure.NewTeeLogger(logger, fileLogger)
			slog.Info("File logging enabled", "path", c.config.Log.FilePath)
		}
	}

	// Decorators from the inside out: logging, metrics, then the optional shared rate limiter
	var weatherClient external.NamedWeatherClient = external.NewOpenWeatherMapClient(external.OpenWeatherMapClientParams{
		APIKey:     c.config.Weather.APIKey,
		BaseURL:    c.config.Weather.BaseURL,
		Timeout:    c.config.Weather.HTTPTimeout,
		Logger:     logger,
		HTTPClient: c.config.WeatherHTTPClient,
	})
	weatherClient = external.NewWeatherClientLoggingDecorator(weatherClient, upstreamLogger)
	weatherClient = external.NewInstrumentedWeatherClient(weatherClient, c.metrics)
	if c.config.Weather.RateLimitEnabled() {
		weatherClient = external.NewRateLimitedWeatherClient(weatherClient,
			c.config.Weather.RateLimitRPS, c.config.Weather.RateLimitBurst)
	}

	gemini := external.NewGeminiTextGenerator(external.GeminiTextGeneratorParams{
		APIKey:     c.config.Narrative.APIKey,
		Model:      c.config.Narrative.Model,
		BaseURL:    c.config.Narrative.BaseURL,
		Logger:     logger,
		HTTPClient: c.config.NarrativeHTTPClient,
	})
	textGenerator := external.NewInstrumentedTextGenerator(gemini, gemini.GetProviderName(), c.metrics)

	mailer := external.NewSMTPMailer(external.EmailProviderConfig{
		Host:     c.config.Email.SMTPHost,
		Port:     c.config.Email.SMTPPort,
		Password: c.config.Email.Password,
		FromAddr: c.config.Email.FromAddress,
	}, logger, c.metrics)
	if err := mailer.ValidateConfiguration(); err != nil {
		return fmt.Errorf("validate mailer: %w", err)
	}

	slog.Info("Weather provider initialized",
		"provider", weatherClient.GetProviderName(),
		"rate_limited", c.config.Weather.RateLimitEnabled(),
		"rate_limit_rps", c.config.Weather.RateLimitRPS,
		"rate_limit_burst", c.config.Weather.RateLimitBurst)

	c.ports = &ports.ApplicationPorts{
		WeatherClient: weatherClient,
		TextGenerator: textGenerator,
		Mailer:        mailer,
		Logger:        logger,
		Metrics:       c.metrics,
	}

	slog.Info("Ports initialized successfully")
	return nil
}

func (c *DependencyContainer) ApplicationPorts() *ports.ApplicationPorts {
	return c.ports
}

// Metrics returns the Prometheus registry wrapper shared by the decorators and the HTTP layer
func (c *DependencyContainer) Metrics() *infrastructure.PrometheusMetrics {
	return c.metrics
}

// Cleanup releases resources held by the container
func (c *DependencyContainer) Cleanup() error {
	if c.fileLogger != nil {
		return c.fileLogger.Close()
	}
	return nil
}
