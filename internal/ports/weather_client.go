package ports

import (
	"context"
	"encoding/json"
)

// CurrentWeatherData represents current conditions for a city
type CurrentWeatherData struct {
	Temperature float64
	WindSpeed   float64
	Humidity    int
}

// LocationData represents a resolved geocoding result
type LocationData struct {
	Name      string
	Latitude  float64
	Longitude float64
}

// ForecastEntry is one element of the provider forecast feed.
// Raw holds the element exactly as received; Timestamp is its "dt" field.
type ForecastEntry struct {
	Timestamp int64
	Raw       json.RawMessage
}

// WeatherClient defines the contract for the weather and geocoding provider
type WeatherClient interface {
	FetchCurrentWeather(ctx context.Context, city string) (*CurrentWeatherData, error)
	FetchForecast(ctx context.Context, lat, lon float64) ([]ForecastEntry, error)
	GeocodeCity(ctx context.Context, city string) (*LocationData, error)
	ReverseGeocode(ctx context.Context, lat, lon float64) (string, error)
}
