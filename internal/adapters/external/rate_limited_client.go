package external

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
	"weathermail.app/internal/ports"
	"weathermail.app/pkg/errors"
)

// NamedWeatherClient is a WeatherClient that can report which provider it talks to
type NamedWeatherClient interface {
	ports.WeatherClient
	GetProviderName() string
}

// RateLimitedWeatherClient throttles outbound calls with a shared token bucket.
// Calls wait for a token; they are never retried or dropped.
type RateLimitedWeatherClient struct {
	client  NamedWeatherClient
	limiter *rate.Limiter
}

// NewRateLimitedWeatherClient wraps client with a limiter of rps requests per second.
// rps can be fractional for less than one request per second; zero or less means no limit.
func NewRateLimitedWeatherClient(client NamedWeatherClient, rps float64, burst int) *RateLimitedWeatherClient {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &RateLimitedWeatherClient{
		client:  client,
		limiter: rate.NewLimiter(limit, burst),
	}
}

func (r *RateLimitedWeatherClient) wait(ctx context.Context) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return errors.NewUpstreamError("weather provider rate limit wait canceled", fmt.Errorf("rate limit wait: %w", err))
	}
	return nil
}

func (r *RateLimitedWeatherClient) FetchCurrentWeather(ctx context.Context, city string) (*ports.CurrentWeatherData, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.client.FetchCurrentWeather(ctx, city)
}

func (r *RateLimitedWeatherClient) FetchForecast(ctx context.Context, lat, lon float64) ([]ports.ForecastEntry, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.client.FetchForecast(ctx, lat, lon)
}

func (r *RateLimitedWeatherClient) GeocodeCity(ctx context.Context, city string) (*ports.LocationData, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.client.GeocodeCity(ctx, city)
}

func (r *RateLimitedWeatherClient) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	if err := r.wait(ctx); err != nil {
		return "", err
	}
	return r.client.ReverseGeocode(ctx, lat, lon)
}

// GetProviderName returns the wrapped provider name
func (r *RateLimitedWeatherClient) GetProviderName() string {
	return r.client.GetProviderName()
}

var (
	_ NamedWeatherClient = (*OpenWeatherMapClient)(nil)
	_ NamedWeatherClient = (*RateLimitedWeatherClient)(nil)
)
