// Package api provides HTTP adapters for the hexagonal architecture
// These adapters handle incoming HTTP requests and translate them to use cases
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"weathermail.app/internal/core/notification"
	"weathermail.app/internal/core/weather"
	"weathermail.app/pkg/errors"
)

const shutdownTimeout = 10 * time.Second

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Port           int
	RequestTimeout time.Duration
}

// HTTPServerAdapter implements HTTP server using Gin framework
type HTTPServerAdapter struct {
	router              *gin.Engine
	config              ServerConfig
	weatherUseCase      WeatherUseCase
	notificationUseCase NotificationUseCase
	metrics             MetricsExporter
}

// Use case interfaces that the HTTP adapter depends on
type WeatherUseCase interface {
	GetForecast(ctx context.Context, request weather.ForecastRequest) (*weather.Forecast, error)
	ReverseGeocode(ctx context.Context, coords weather.Coordinates) (string, error)
}

type NotificationUseCase interface {
	SendWeatherReport(ctx context.Context, request notification.WeatherReportRequest) error
}

// MetricsExporter records per-request metrics and serves the scrape endpoint
type MetricsExporter interface {
	GinMiddleware() gin.HandlerFunc
	Handler() http.Handler
}

// ServerOptions represents options for creating the HTTP server
type ServerOptions struct {
	Config              ServerConfig
	WeatherUseCase      WeatherUseCase
	NotificationUseCase NotificationUseCase
	Metrics             MetricsExporter
}

// NewHTTPServerAdapter creates a new HTTP server adapter
func NewHTTPServerAdapter(opts ServerOptions) (*HTTPServerAdapter, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server options: %w", err)
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	server := &HTTPServerAdapter{
		router:              router,
		config:              opts.Config,
		weatherUseCase:      opts.WeatherUseCase,
		notificationUseCase: opts.NotificationUseCase,
		metrics:             opts.Metrics,
	}

	server.setupMiddleware()
	server.setupRoutes()
	return server, nil
}

// Validate checks if all required dependencies are provided
func (opts *ServerOptions) Validate() error {
	if opts.WeatherUseCase == nil {
		return errors.NewValidationError("weather use case is required")
	}
	if opts.NotificationUseCase == nil {
		return errors.NewValidationError("notification use case is required")
	}
	if opts.Metrics == nil {
		return errors.NewValidationError("metrics exporter is required")
	}
	return nil
}

func (s *HTTPServerAdapter) setupMiddleware() {
	s.router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodOptions},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
		MaxAge:          12 * time.Hour,
	}))
	s.router.Use(s.metrics.GinMiddleware())
	if s.config.RequestTimeout > 0 {
		s.router.Use(requestTimeout(s.config.RequestTimeout))
	}
}

// setupRoutes configures all HTTP routes
func (s *HTTPServerAdapter) setupRoutes() {
	s.router.GET("/weather_mail", s.sendWeatherMail)

	api := s.router.Group("/api")
	{
		api.GET("/weather", s.getForecast)
		api.GET("/reverse-geo", s.reverseGeocode)
	}

	s.router.GET("/healthz", s.healthz)
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
}

// requestTimeout bounds every request context so outbound calls are cancelled with it
func requestTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (s *HTTPServerAdapter) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Start serves HTTP until ctx is cancelled, then shuts down gracefully
func (s *HTTPServerAdapter) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", s.config.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return <-errCh
}

// GetRouter returns the router for testing purposes
func (s *HTTPServerAdapter) GetRouter() *gin.Engine {
	return s.router
}
