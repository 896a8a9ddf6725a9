package weather

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"weathermail.app/pkg/validation"
)

// Snapshot represents current conditions for a city
type Snapshot struct {
	AverageTemperature float64
	WindSpeed          float64
	Humidity           int
}

// ForecastSample is a single provider forecast entry passed through verbatim
type ForecastSample struct {
	Timestamp int64
	Raw       json.RawMessage
}

// MarshalJSON emits the sample exactly as the provider sent it
func (s ForecastSample) MarshalJSON() ([]byte, error) {
	if len(s.Raw) == 0 {
		return []byte("null"), nil
	}
	return s.Raw, nil
}

// Date returns the calendar day of the sample in loc, with time of day dropped
func (s ForecastSample) Date(loc *time.Location) time.Time {
	t := time.Unix(s.Timestamp, 0).In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// GeoLocation represents a named point on the map
type GeoLocation struct {
	Name      string
	Latitude  float64
	Longitude float64
}

// Coordinates is a latitude/longitude pair supplied by the caller
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// IsValid checks the coordinates are within WGS84 bounds
func (c Coordinates) IsValid() error {
	if !validation.IsValidLatitude(c.Latitude) {
		return fmt.Errorf("latitude must be between -90 and 90")
	}
	if !validation.IsValidLongitude(c.Longitude) {
		return fmt.Errorf("longitude must be between -180 and 180")
	}
	return nil
}

// ForecastRequest represents a request for the five-day forecast.
// Coordinates take precedence over City when both are present.
type ForecastRequest struct {
	City        string
	Coordinates *Coordinates
}

// IsValid validates forecast request
func (r *ForecastRequest) IsValid() error {
	if r.Coordinates == nil && strings.TrimSpace(r.City) == "" {
		return fmt.Errorf("either city or coordinates must be provided")
	}
	if r.Coordinates != nil {
		return r.Coordinates.IsValid()
	}
	return nil
}

// NormalizeCity trims the city name for consistent processing
func (r *ForecastRequest) NormalizeCity() {
	r.City = strings.TrimSpace(r.City)
}

// Forecast is the deduplicated forecast for a location.
// CityName is nil when the caller asked by coordinates only.
type Forecast struct {
	CityName  *string
	Samples   []ForecastSample
	Timestamp time.Time
}

// RoundTemperature rounds a temperature to two decimal places
func RoundTemperature(celsius float64) float64 {
	return math.Round(celsius*100) / 100
}

// String returns a string representation of the snapshot
func (s *Snapshot) String() string {
	return fmt.Sprintf("%.2f°C, wind %.2f m/s, %d%% humidity",
		s.AverageTemperature, s.WindSpeed, s.Humidity)
}
