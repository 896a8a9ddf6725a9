package external

import (
	"context"
	"time"

	"weathermail.app/internal/ports"
)

// WeatherClientLoggingDecorator decorates a weather client with structured request/response logging
type WeatherClientLoggingDecorator struct {
	client NamedWeatherClient
	logger ports.Logger
}

// NewWeatherClientLoggingDecorator creates a new logging decorator for a weather client
func NewWeatherClientLoggingDecorator(client NamedWeatherClient, logger ports.Logger) *WeatherClientLoggingDecorator {
	return &WeatherClientLoggingDecorator{
		client: client,
		logger: logger,
	}
}

func (d *WeatherClientLoggingDecorator) started(operation string, fields ...ports.Field) time.Time {
	base := []ports.Field{
		ports.F("provider", d.client.GetProviderName()),
		ports.F("operation", operation),
		ports.F("event", "request"),
	}
	d.logger.Info("Weather API request started", append(base, fields...)...)
	return time.Now()
}

func (d *WeatherClientLoggingDecorator) finished(operation string, start time.Time, err error, fields ...ports.Field) {
	base := []ports.Field{
		ports.F("provider", d.client.GetProviderName()),
		ports.F("operation", operation),
		ports.F("duration_ms", time.Since(start).Milliseconds()),
	}

	if err != nil {
		base = append(base, ports.F("event", "error"), ports.F("error", err.Error()))
		d.logger.Error("Weather API request failed", append(base, fields...)...)
		return
	}

	base = append(base, ports.F("event", "response"))
	d.logger.Info("Weather API request completed", append(base, fields...)...)
}

// FetchCurrentWeather wraps the client call with structured logging
func (d *WeatherClientLoggingDecorator) FetchCurrentWeather(ctx context.Context, city string) (*ports.CurrentWeatherData, error) {
	start := d.started("current_weather", ports.F("city", city))

	data, err := d.client.FetchCurrentWeather(ctx, city)
	if err != nil {
		d.finished("current_weather", start, err, ports.F("city", city))
		return nil, err
	}

	d.finished("current_weather", start, nil,
		ports.F("city", city),
		ports.F("temperature", data.Temperature),
		ports.F("wind_speed", data.WindSpeed),
		ports.F("humidity", data.Humidity))
	return data, nil
}

// FetchForecast wraps the client call with structured logging
func (d *WeatherClientLoggingDecorator) FetchForecast(ctx context.Context, lat, lon float64) ([]ports.ForecastEntry, error) {
	start := d.started("forecast", ports.F("lat", lat), ports.F("lon", lon))

	entries, err := d.client.FetchForecast(ctx, lat, lon)
	d.finished("forecast", start, err, ports.F("lat", lat), ports.F("lon", lon), ports.F("entries", len(entries)))
	return entries, err
}

// GeocodeCity wraps the client call with structured logging
func (d *WeatherClientLoggingDecorator) GeocodeCity(ctx context.Context, city string) (*ports.LocationData, error) {
	start := d.started("geocode", ports.F("city", city))

	location, err := d.client.GeocodeCity(ctx, city)
	if err != nil {
		d.finished("geocode", start, err, ports.F("city", city))
		return nil, err
	}

	d.finished("geocode", start, nil,
		ports.F("city", city),
		ports.F("lat", location.Latitude),
		ports.F("lon", location.Longitude))
	return location, nil
}

// ReverseGeocode wraps the client call with structured logging
func (d *WeatherClientLoggingDecorator) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	start := d.started("reverse_geocode", ports.F("lat", lat), ports.F("lon", lon))

	name, err := d.client.ReverseGeocode(ctx, lat, lon)
	d.finished("reverse_geocode", start, err, ports.F("lat", lat), ports.F("lon", lon), ports.F("name", name))
	return name, err
}

// GetProviderName returns the wrapped provider name
func (d *WeatherClientLoggingDecorator) GetProviderName() string {
	return d.client.GetProviderName()
}
