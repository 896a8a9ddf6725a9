package external

import (
	"context"
	"time"

	"weathermail.app/internal/ports"
)

// InstrumentedWeatherClient records call outcome and latency for every provider operation
type InstrumentedWeatherClient struct {
	client  NamedWeatherClient
	metrics ports.MetricsRecorder
}

func NewInstrumentedWeatherClient(client NamedWeatherClient, metrics ports.MetricsRecorder) *InstrumentedWeatherClient {
	return &InstrumentedWeatherClient{client: client, metrics: metrics}
}

func (i *InstrumentedWeatherClient) observe(operation string, start time.Time, err error) {
	i.metrics.RecordUpstreamCall(i.client.GetProviderName(), operation, err == nil, time.Since(start))
}

func (i *InstrumentedWeatherClient) FetchCurrentWeather(ctx context.Context, city string) (*ports.CurrentWeatherData, error) {
	start := time.Now()
	data, err := i.client.FetchCurrentWeather(ctx, city)
	i.observe("current_weather", start, err)
	return data, err
}

func (i *InstrumentedWeatherClient) FetchForecast(ctx context.Context, lat, lon float64) ([]ports.ForecastEntry, error) {
	start := time.Now()
	entries, err := i.client.FetchForecast(ctx, lat, lon)
	i.observe("forecast", start, err)
	return entries, err
}

func (i *InstrumentedWeatherClient) GeocodeCity(ctx context.Context, city string) (*ports.LocationData, error) {
	start := time.Now()
	location, err := i.client.GeocodeCity(ctx, city)
	i.observe("geocode", start, err)
	return location, err
}

func (i *InstrumentedWeatherClient) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	start := time.Now()
	name, err := i.client.ReverseGeocode(ctx, lat, lon)
	i.observe("reverse_geocode", start, err)
	return name, err
}

func (i *InstrumentedWeatherClient) GetProviderName() string {
	return i.client.GetProviderName()
}

// InstrumentedTextGenerator records call outcome and latency for the text generator
type InstrumentedTextGenerator struct {
	generator ports.TextGenerator
	provider  string
	metrics   ports.MetricsRecorder
}

func NewInstrumentedTextGenerator(generator ports.TextGenerator, provider string, metrics ports.MetricsRecorder) *InstrumentedTextGenerator {
	return &InstrumentedTextGenerator{generator: generator, provider: provider, metrics: metrics}
}

func (i *InstrumentedTextGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	text, err := i.generator.GenerateText(ctx, prompt)
	i.metrics.RecordUpstreamCall(i.provider, "generate_text", err == nil, time.Since(start))
	return text, err
}
