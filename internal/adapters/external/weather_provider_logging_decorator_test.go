package external

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"weathermail.app/internal/mocks"
	"weathermail.app/internal/ports"
)

// Simple test using concrete implementations instead of mocks
func TestWeatherClientLoggingDecorator_BasicFunctionality(t *testing.T) {
	client := &testWeatherClient{
		name:    "test-provider",
		current: &ports.CurrentWeatherData{Temperature: 22.0, WindSpeed: 3.0, Humidity: 55},
	}
	logger := &testLogger{}

	decorator := NewWeatherClientLoggingDecorator(client, logger)

	result, err := decorator.FetchCurrentWeather(context.Background(), "TestCity")

	require.NoError(t, err)
	assert.Equal(t, 22.0, result.Temperature)

	require.Len(t, logger.entries, 2)

	requestLog := logger.entries[0]
	assert.Equal(t, "INFO", requestLog.level)
	assert.Equal(t, "Weather API request started", requestLog.message)
	assert.Equal(t, "test-provider", requestLog.fields["provider"])
	assert.Equal(t, "current_weather", requestLog.fields["operation"])
	assert.Equal(t, "TestCity", requestLog.fields["city"])
	assert.Equal(t, "request", requestLog.fields["event"])

	responseLog := logger.entries[1]
	assert.Equal(t, "INFO", responseLog.level)
	assert.Equal(t, "Weather API request completed", responseLog.message)
	assert.Equal(t, "response", responseLog.fields["event"])
	assert.Equal(t, 22.0, responseLog.fields["temperature"])
	assert.Equal(t, 55, responseLog.fields["humidity"])
	assert.Contains(t, responseLog.fields, "duration_ms")

	assert.Equal(t, "test-provider", decorator.GetProviderName())
}

func TestWeatherClientLoggingDecorator_ErrorHandling(t *testing.T) {
	client := &testWeatherClient{name: "error-provider", err: errors.New("API rate limit exceeded")}
	logger := &testLogger{}

	decorator := NewWeatherClientLoggingDecorator(client, logger)

	result, err := decorator.GeocodeCity(context.Background(), "InvalidCity")

	assert.Error(t, err)
	assert.Nil(t, result)
	require.Len(t, logger.entries, 2)

	errorLog := logger.entries[1]
	assert.Equal(t, "ERROR", errorLog.level)
	assert.Equal(t, "Weather API request failed", errorLog.message)
	assert.Equal(t, "error", errorLog.fields["event"])
	assert.Equal(t, "geocode", errorLog.fields["operation"])
	assert.Equal(t, "API rate limit exceeded", errorLog.fields["error"])
}

func TestWeatherClientLoggingDecorator_ForecastAndReverse(t *testing.T) {
	client := &testWeatherClient{
		name:     "p",
		forecast: []ports.ForecastEntry{{Timestamp: 1}, {Timestamp: 2}},
		place:    "Kyiv",
	}
	logger := &testLogger{}
	decorator := NewWeatherClientLoggingDecorator(client, logger)

	entries, err := decorator.FetchForecast(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	name, err := decorator.ReverseGeocode(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "Kyiv", name)

	require.Len(t, logger.entries, 4)
	assert.Equal(t, 2, logger.entries[1].fields["entries"])
	assert.Equal(t, "Kyiv", logger.entries[3].fields["name"])
}

func TestWeatherClientLoggingDecorator_DurationTracking(t *testing.T) {
	client := &testWeatherClient{
		name:    "slow-provider",
		current: &ports.CurrentWeatherData{Temperature: 1},
		delay:   50 * time.Millisecond,
	}
	logger := &testLogger{}
	decorator := NewWeatherClientLoggingDecorator(client, logger)

	_, err := decorator.FetchCurrentWeather(context.Background(), "SlowCity")
	require.NoError(t, err)

	duration, ok := logger.entries[1].fields["duration_ms"].(int64)
	require.True(t, ok)
	assert.GreaterOrEqual(t, duration, int64(50))
}

func TestInstrumentedWeatherClient_RecordsOutcome(t *testing.T) {
	metrics := mocks.NewMetricsRecorder()
	ok := NewInstrumentedWeatherClient(&testWeatherClient{name: "owm", place: "Oslo"}, metrics)
	failing := NewInstrumentedWeatherClient(&testWeatherClient{name: "owm", err: errors.New("boom")}, metrics)

	_, _ = ok.ReverseGeocode(context.Background(), 1, 1)
	_, _ = failing.FetchForecast(context.Background(), 1, 1)

	require.Len(t, metrics.Calls, 2)
	assert.Equal(t, mocks.UpstreamCall{Provider: "owm", Operation: "reverse_geocode", Success: true}, metrics.Calls[0])
	assert.Equal(t, mocks.UpstreamCall{Provider: "owm", Operation: "forecast", Success: false}, metrics.Calls[1])
}

func TestInstrumentedTextGenerator_RecordsOutcome(t *testing.T) {
	metrics := mocks.NewMetricsRecorder()
	generator := mocks.NewTextGenerator(t)
	generator.On("GenerateText", context.Background(), "prompt").Return("text", nil).Once()

	text, err := NewInstrumentedTextGenerator(generator, "gemini", metrics).GenerateText(context.Background(), "prompt")

	require.NoError(t, err)
	assert.Equal(t, "text", text)
	assert.Equal(t, []mocks.UpstreamCall{{Provider: "gemini", Operation: "generate_text", Success: true}}, metrics.Calls)
}

type testWeatherClient struct {
	name     string
	current  *ports.CurrentWeatherData
	forecast []ports.ForecastEntry
	location *ports.LocationData
	place    string
	err      error
	delay    time.Duration
	calls    int
}

func (c *testWeatherClient) pause(ctx context.Context) error {
	c.calls++
	if c.delay > 0 {
		select {
		case <-time.After(c.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return c.err
}

func (c *testWeatherClient) FetchCurrentWeather(ctx context.Context, city string) (*ports.CurrentWeatherData, error) {
	if err := c.pause(ctx); err != nil {
		return nil, err
	}
	return c.current, nil
}

func (c *testWeatherClient) FetchForecast(ctx context.Context, lat, lon float64) ([]ports.ForecastEntry, error) {
	if err := c.pause(ctx); err != nil {
		return nil, err
	}
	return c.forecast, nil
}

func (c *testWeatherClient) GeocodeCity(ctx context.Context, city string) (*ports.LocationData, error) {
	if err := c.pause(ctx); err != nil {
		return nil, err
	}
	return c.location, nil
}

func (c *testWeatherClient) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	if err := c.pause(ctx); err != nil {
		return "", err
	}
	return c.place, nil
}

func (c *testWeatherClient) GetProviderName() string {
	return c.name
}

type logEntry struct {
	level   string
	message string
	fields  map[string]interface{}
}

type testLogger struct {
	entries []logEntry
}

func (l *testLogger) Debug(msg string, fields ...ports.Field) { l.addEntry("DEBUG", msg, fields...) }
func (l *testLogger) Info(msg string, fields ...ports.Field)  { l.addEntry("INFO", msg, fields...) }
func (l *testLogger) Warn(msg string, fields ...ports.Field)  { l.addEntry("WARN", msg, fields...) }
func (l *testLogger) Error(msg string, fields ...ports.Field) { l.addEntry("ERROR", msg, fields...) }

func (l *testLogger) addEntry(level, message string, fields ...ports.Field) {
	fieldMap := make(map[string]interface{})
	for _, field := range fields {
		fieldMap[field.Key] = field.Value
	}
	l.entries = append(l.entries, logEntry{level: level, message: message, fields: fieldMap})
}
