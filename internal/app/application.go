package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"weathermail.app/internal/adapters/api"
	"weathermail.app/internal/config"
	"weathermail.app/internal/core/notification"
	"weathermail.app/internal/core/weather"
	"weathermail.app/internal/ports"
)

type Application struct {
	config *config.Config

	// Use Cases
	weatherUseCase      *weather.UseCase
	notificationUseCase *notification.UseCase

	// Adapters
	httpAdapter *api.HTTPServerAdapter

	// Infrastructure
	deps  *DependencyContainer
	ports *ports.ApplicationPorts
}

// NewApplication wires the application from an already loaded configuration
func NewApplication(cfg *config.Config) (*Application, error) {
	deps, err := NewDependencyContainer(DependencyConfig{
		Weather:   cfg.Weather,
		Narrative: cfg.Narrative,
		Email:     cfg.Email,
		Log:       cfg.Log,
	})
	if err != nil {
		return nil, fmt.Errorf("create dependency container: %w", err)
	}

	app, err := NewApplicationWithDependencies(cfg, deps)
	if err != nil {
		_ = deps.Cleanup()
		return nil, err
	}
	return app, nil
}

// NewApplicationWithDependencies creates an application with provided dependencies (for testing)
func NewApplicationWithDependencies(cfg *config.Config, deps *DependencyContainer) (*Application, error) {
	app := &Application{
		config: cfg,
		deps:   deps,
		ports:  deps.ApplicationPorts(),
	}

	if err := app.initializeUseCases(); err != nil {
		return nil, fmt.Errorf("initialize use cases: %w", err)
	}

	if err := app.initializeAdapters(); err != nil {
		return nil, fmt.Errorf("initialize adapters: %w", err)
	}

	return app, nil
}

func (a *Application) initializeUseCases() error {
	slog.Info("Initializing use cases...")

	location, err := a.config.Forecast.Location()
	if err != nil {
		return fmt.Errorf("resolve forecast time zone: %w", err)
	}

	weatherUseCase, err := weather.NewUseCase(weather.UseCaseDependencies{
		WeatherClient: a.ports.WeatherClient,
		Logger:        a.ports.Logger,
		Location:      location,
	})
	if err != nil {
		return fmt.Errorf("create weather use case: %w", err)
	}
	a.weatherUseCase = weatherUseCase

	notificationUseCase, err := notification.NewUseCase(notification.UseCaseDependencies{
		WeatherUseCase: a.weatherUseCase,
		TextGenerator:  a.ports.TextGenerator,
		Mailer:         a.ports.Mailer,
		Logger:         a.ports.Logger,
		Sender:         a.config.Email.FromAddress,
	})
	if err != nil {
		return fmt.Errorf("create notification use case: %w", err)
	}
	a.notificationUseCase = notificationUseCase

	slog.Info("Use cases initialized successfully", "forecast_timezone", location.String())
	return nil
}

func (a *Application) initializeAdapters() error {
	slog.Info("Initializing adapters...")

	httpAdapter, err := api.NewHTTPServerAdapter(api.ServerOptions{
		Config: api.ServerConfig{
			Port:           a.config.Server.Port,
			RequestTimeout: a.config.Server.RequestTimeout,
		},
		WeatherUseCase:      a.weatherUseCase,
		NotificationUseCase: a.notificationUseCase,
		Metrics:             a.deps.Metrics(),
	})
	if err != nil {
		return fmt.Errorf("create HTTP adapter: %w", err)
	}
	a.httpAdapter = httpAdapter

	slog.Info("Adapters initialized successfully")
	return nil
}

// Start serves HTTP until ctx is cancelled and then releases held resources
func (a *Application) Start(ctx context.Context) error {
	slog.Info("Starting application...")

	serveErr := a.httpAdapter.Start(ctx)
	if err := a.Shutdown(); err != nil {
		slog.Warn("Error releasing resources", "error", err)
	}

	if serveErr != nil {
		return fmt.Errorf("HTTP server error: %w", serveErr)
	}
	return nil
}

// Shutdown closes resources owned by the dependency container
func (a *Application) Shutdown() error {
	slog.Info("Shutting down application...")

	if err := a.deps.Cleanup(); err != nil {
		return fmt.Errorf("cleanup dependencies: %w", err)
	}

	slog.Info("Application shutdown complete")
	return nil
}

// GetRouter returns the Gin router for testing
func (a *Application) GetRouter() *gin.Engine {
	return a.httpAdapter.GetRouter()
}
