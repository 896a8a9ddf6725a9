package external

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"weathermail.app/internal/ports"
	"weathermail.app/pkg/errors"
)

const (
	defaultOpenWeatherMapBaseURL = "https://api.openweathermap.org"
	defaultHTTPTimeout           = 10 * time.Second

	currentWeatherPath = "/data/2.5/weather"
	forecastPath       = "/data/2.5/forecast"
	directGeocodePath  = "/geo/1.0/direct"
	reverseGeocodePath = "/geo/1.0/reverse"
)

// OpenWeatherMapClient implements the WeatherClient port for OpenWeatherMap
type OpenWeatherMapClient struct {
	apiKey  string
	baseURL string
	client  HTTPClient
	logger  ports.Logger
}

// OpenWeatherMapClientParams holds parameters for creating the OpenWeatherMap client
type OpenWeatherMapClientParams struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Logger  ports.Logger
	// HTTPClient overrides the default client built from Timeout
	HTTPClient HTTPClient
}

type currentWeatherResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

type forecastResponse struct {
	List []json.RawMessage `json:"list"`
}

type forecastEntryHeader struct {
	Dt int64 `json:"dt"`
}

type geocodeResult struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// NewOpenWeatherMapClient creates a new OpenWeatherMap client
func NewOpenWeatherMapClient(params OpenWeatherMapClientParams) *OpenWeatherMapClient {
	baseURL := strings.TrimRight(params.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultOpenWeatherMapBaseURL
	}

	client := params.HTTPClient
	if client == nil {
		timeout := params.Timeout
		if timeout <= 0 {
			timeout = defaultHTTPTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	return &OpenWeatherMapClient{
		apiKey:  params.APIKey,
		baseURL: baseURL,
		client:  client,
		logger:  params.Logger,
	}
}

// FetchCurrentWeather retrieves current conditions for a city in metric units
func (c *OpenWeatherMapClient) FetchCurrentWeather(ctx context.Context, city string) (*ports.CurrentWeatherData, error) {
	query := url.Values{}
	query.Set("q", city)
	query.Set("appid", c.apiKey)
	query.Set("units", "metric")

	var resp currentWeatherResponse
	if err := getJSON(ctx, c.client, c.logger, c.baseURL+currentWeatherPath, query, "current weather request failed", &resp); err != nil {
		return nil, err
	}

	return &ports.CurrentWeatherData{
		Temperature: resp.Main.Temp,
		WindSpeed:   resp.Wind.Speed,
		Humidity:    resp.Main.Humidity,
	}, nil
}

// FetchForecast retrieves the 3-hourly forecast feed. Entries are kept as received.
func (c *OpenWeatherMapClient) FetchForecast(ctx context.Context, lat, lon float64) ([]ports.ForecastEntry, error) {
	query := url.Values{}
	query.Set("lat", formatCoordinate(lat))
	query.Set("lon", formatCoordinate(lon))
	query.Set("appid", c.apiKey)

	var resp forecastResponse
	if err := getJSON(ctx, c.client, c.logger, c.baseURL+forecastPath, query, "forecast request failed", &resp); err != nil {
		return nil, err
	}

	entries := make([]ports.ForecastEntry, 0, len(resp.List))
	for _, raw := range resp.List {
		var header forecastEntryHeader
		if err := json.Unmarshal(raw, &header); err != nil {
			return nil, errors.NewUpstreamError("forecast request failed", err)
		}
		entries = append(entries, ports.ForecastEntry{Timestamp: header.Dt, Raw: raw})
	}

	return entries, nil
}

// GeocodeCity resolves a city name to its first geocoding match
func (c *OpenWeatherMapClient) GeocodeCity(ctx context.Context, city string) (*ports.LocationData, error) {
	query := url.Values{}
	query.Set("q", city)
	query.Set("limit", "1")
	query.Set("appid", c.apiKey)

	var results []geocodeResult
	if err := getJSON(ctx, c.client, c.logger, c.baseURL+directGeocodePath, query, "geocoding request failed", &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, errors.NewNotFoundError("City not found")
	}

	return &ports.LocationData{
		Name:      results[0].Name,
		Latitude:  results[0].Lat,
		Longitude: results[0].Lon,
	}, nil
}

// ReverseGeocode returns the name of the place nearest to the coordinates
func (c *OpenWeatherMapClient) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	query := url.Values{}
	query.Set("lat", formatCoordinate(lat))
	query.Set("lon", formatCoordinate(lon))
	query.Set("limit", "1")
	query.Set("appid", c.apiKey)

	var results []geocodeResult
	if err := getJSON(ctx, c.client, c.logger, c.baseURL+reverseGeocodePath, query, "reverse geocoding request failed", &results); err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", errors.NewNotFoundError("Location not found")
	}

	return results[0].Name, nil
}

// GetProviderName returns the name of this weather provider
func (c *OpenWeatherMapClient) GetProviderName() string {
	return "openweathermap"
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
