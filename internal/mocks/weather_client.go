// Package mocks provides testify mocks for the ports interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"weathermail.app/internal/ports"
)

// WeatherClient is a mock implementation of ports.WeatherClient
type WeatherClient struct {
	mock.Mock
}

// NewWeatherClient creates a mock that asserts its expectations on test cleanup
func NewWeatherClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *WeatherClient {
	m := &WeatherClient{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *WeatherClient) FetchCurrentWeather(ctx context.Context, city string) (*ports.CurrentWeatherData, error) {
	args := m.Called(ctx, city)
	data, _ := args.Get(0).(*ports.CurrentWeatherData)
	return data, args.Error(1)
}

func (m *WeatherClient) FetchForecast(ctx context.Context, lat, lon float64) ([]ports.ForecastEntry, error) {
	args := m.Called(ctx, lat, lon)
	entries, _ := args.Get(0).([]ports.ForecastEntry)
	return entries, args.Error(1)
}

func (m *WeatherClient) GeocodeCity(ctx context.Context, city string) (*ports.LocationData, error) {
	args := m.Called(ctx, city)
	location, _ := args.Get(0).(*ports.LocationData)
	return location, args.Error(1)
}

func (m *WeatherClient) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	args := m.Called(ctx, lat, lon)
	return args.String(0), args.Error(1)
}
