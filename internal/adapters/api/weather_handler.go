package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"log/slog"

	"github.com/gin-gonic/gin"
	"weathermail.app/internal/core/weather"
	"weathermail.app/pkg/errors"
	"weathermail.app/pkg/validation"
)

const (
	msgCityOrCoordinates  = "Please provide either city name or latitude and longitude"
	msgBothCoordinates    = "Please provide both latitude and longitude"
	msgInvalidCoordinates = "Latitude and longitude must be valid numbers"
)

// ForecastQuery represents the query string of GET /api/weather
type ForecastQuery struct {
	City string `form:"city"`
	Lat  string `form:"lat"`
	Lon  string `form:"lon"`
}

// CoordinatesQuery represents the query string of GET /api/reverse-geo
type CoordinatesQuery struct {
	Lat string `form:"lat"`
	Lon string `form:"lon"`
}

// ForecastResponse represents the HTTP response for the five-day forecast
type ForecastResponse struct {
	CityName  *string                  `json:"cityName"`
	Forecast  []weather.ForecastSample `json:"forecast"`
	Timestamp string                   `json:"timestamp"`
}

// ReverseGeoResponse represents the HTTP response for reverse geocoding
type ReverseGeoResponse struct {
	Name string `json:"name"`
}

// getForecast handles GET /api/weather requests
func (s *HTTPServerAdapter) getForecast(c *gin.Context) {
	var query ForecastQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		s.handleError(c, errors.NewValidationError(msgCityOrCoordinates))
		return
	}

	city, hasCity := validation.TrimAndValidate(query.City)
	hasCoordinates := query.Lat != "" && query.Lon != ""
	if !hasCity && !hasCoordinates {
		s.handleError(c, errors.NewValidationError(msgCityOrCoordinates))
		return
	}

	request := weather.ForecastRequest{City: city}
	if hasCoordinates {
		coords, err := parseCoordinates(query.Lat, query.Lon)
		if err != nil {
			s.handleError(c, err)
			return
		}
		request.Coordinates = coords
	}

	slog.Debug("Getting forecast", "city", city, "lat", query.Lat, "lon", query.Lon)

	forecast, err := s.weatherUseCase.GetForecast(c.Request.Context(), request)
	if err != nil {
		slog.Error("Forecast use case error", "error", err, "city", city)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ForecastResponse{
		CityName:  forecast.CityName,
		Forecast:  forecast.Samples,
		Timestamp: forecast.Timestamp.Format(time.RFC3339),
	})
}

// reverseGeocode handles GET /api/reverse-geo requests
func (s *HTTPServerAdapter) reverseGeocode(c *gin.Context) {
	var query CoordinatesQuery
	if err := c.ShouldBindQuery(&query); err != nil || query.Lat == "" || query.Lon == "" {
		s.handleError(c, errors.NewValidationError(msgBothCoordinates))
		return
	}

	coords, err := parseCoordinates(query.Lat, query.Lon)
	if err != nil {
		s.handleError(c, err)
		return
	}

	name, err := s.weatherUseCase.ReverseGeocode(c.Request.Context(), *coords)
	if err != nil {
		slog.Error("Reverse geocode use case error", "error", err, "lat", coords.Latitude, "lon", coords.Longitude)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ReverseGeoResponse{Name: name})
}

func parseCoordinates(lat, lon string) (*weather.Coordinates, error) {
	latitude, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return nil, errors.NewValidationError(msgInvalidCoordinates)
	}
	longitude, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err != nil {
		return nil, errors.NewValidationError(msgInvalidCoordinates)
	}
	return &weather.Coordinates{Latitude: latitude, Longitude: longitude}, nil
}
