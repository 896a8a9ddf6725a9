package weather

import (
	"context"
	"fmt"
	"time"

	"weathermail.app/internal/ports"
	"weathermail.app/pkg/errors"
)

// Public messages returned to API callers when the provider fails
const (
	msgCoordinatesFailed = "Failed to fetch coordinates"
	msgForecastFailed    = "Failed to fetch weather data"
	msgCityNameFailed    = "Failed to fetch city name"
	msgCurrentFailed     = "Failed to retrieve weather data"
)

type UseCase struct {
	client   ports.WeatherClient
	logger   ports.Logger
	location *time.Location
	now      func() time.Time
}

type UseCaseDependencies struct {
	WeatherClient ports.WeatherClient
	Logger        ports.Logger
	// Location is the zone used to split forecast samples into days. Defaults to UTC.
	Location *time.Location
	// Now is the clock used for response timestamps. Defaults to time.Now.
	Now func() time.Time
}

func NewUseCase(deps UseCaseDependencies) (*UseCase, error) {
	if deps.WeatherClient == nil {
		return nil, errors.NewValidationError("weather client is required")
	}
	if deps.Logger == nil {
		return nil, errors.NewValidationError("logger is required")
	}

	location := deps.Location
	if location == nil {
		location = time.UTC
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	return &UseCase{
		client:   deps.WeatherClient,
		logger:   deps.Logger,
		location: location,
		now:      now,
	}, nil
}

// GetForecast resolves the location if needed and returns at most five daily samples
func (uc *UseCase) GetForecast(ctx context.Context, request ForecastRequest) (*Forecast, error) {
	if err := request.IsValid(); err != nil {
		return nil, errors.NewValidationError("invalid forecast request: " + err.Error())
	}
	request.NormalizeCity()

	var cityName *string
	if request.City != "" {
		city := request.City
		cityName = &city
	}

	coords := request.Coordinates
	if coords == nil {
		location, err := uc.geocode(ctx, request.City)
		if err != nil {
			return nil, err
		}
		coords = &Coordinates{Latitude: location.Latitude, Longitude: location.Longitude}
		cityName = &location.Name
	}

	uc.logger.Debug("Fetching forecast",
		ports.F("lat", coords.Latitude),
		ports.F("lon", coords.Longitude))

	entries, err := uc.client.FetchForecast(ctx, coords.Latitude, coords.Longitude)
	if err != nil {
		uc.logger.Error("Failed to fetch forecast",
			ports.F("lat", coords.Latitude),
			ports.F("lon", coords.Longitude),
			ports.F("error", err))
		return nil, errors.NewUpstreamError(msgForecastFailed, err)
	}

	samples := make([]ForecastSample, 0, len(entries))
	for _, entry := range entries {
		samples = append(samples, ForecastSample{Timestamp: entry.Timestamp, Raw: entry.Raw})
	}

	return &Forecast{
		CityName:  cityName,
		Samples:   SelectFiveDays(samples, uc.location),
		Timestamp: uc.now(),
	}, nil
}

func (uc *UseCase) geocode(ctx context.Context, city string) (*GeoLocation, error) {
	location, err := uc.client.GeocodeCity(ctx, city)
	if err != nil {
		uc.logger.Warn("Failed to geocode city",
			ports.F("city", city),
			ports.F("error", err))
		if errors.IsNotFoundError(err) {
			return nil, err
		}
		return nil, errors.NewUpstreamError(msgCoordinatesFailed, err)
	}

	return &GeoLocation{
		Name:      location.Name,
		Latitude:  location.Latitude,
		Longitude: location.Longitude,
	}, nil
}

// ReverseGeocode returns the name of the place at the given coordinates
func (uc *UseCase) ReverseGeocode(ctx context.Context, coords Coordinates) (string, error) {
	if err := coords.IsValid(); err != nil {
		return "", errors.NewValidationError("invalid coordinates: " + err.Error())
	}

	name, err := uc.client.ReverseGeocode(ctx, coords.Latitude, coords.Longitude)
	if err != nil {
		uc.logger.Warn("Failed to reverse geocode",
			ports.F("lat", coords.Latitude),
			ports.F("lon", coords.Longitude),
			ports.F("error", err))
		if errors.IsNotFoundError(err) {
			return "", err
		}
		return "", errors.NewUpstreamError(msgCityNameFailed, err)
	}

	return name, nil
}

// GetCurrentWeather returns the current conditions for a city
func (uc *UseCase) GetCurrentWeather(ctx context.Context, city string) (*Snapshot, error) {
	data, err := uc.client.FetchCurrentWeather(ctx, city)
	if err != nil {
		uc.logger.Error("Failed to retrieve current weather",
			ports.F("city", city),
			ports.F("error", err))
		return nil, errors.NewUpstreamError(msgCurrentFailed, fmt.Errorf("current weather for %s: %w", city, err))
	}

	return &Snapshot{
		AverageTemperature: RoundTemperature(data.Temperature),
		WindSpeed:          data.WindSpeed,
		Humidity:           data.Humidity,
	}, nil
}
