package infrastructure

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *PrometheusMetrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestPrometheusMetrics_RecordUpstreamCall(t *testing.T) {
	m := NewPrometheusMetrics()

	m.RecordUpstreamCall("openweathermap", "forecast", true, 120*time.Millisecond)
	m.RecordUpstreamCall("openweathermap", "forecast", false, 30*time.Millisecond)
	m.RecordUpstreamCall("gemini", "generate_text", true, time.Second)

	body := scrape(t, m)
	assert.Contains(t, body, `weathermail_upstream_calls_total{operation="forecast",outcome="success",provider="openweathermap"} 1`)
	assert.Contains(t, body, `weathermail_upstream_calls_total{operation="forecast",outcome="failure",provider="openweathermap"} 1`)
	assert.Contains(t, body, `weathermail_upstream_calls_total{operation="generate_text",outcome="success",provider="gemini"} 1`)
	assert.Contains(t, body, `weathermail_upstream_call_duration_seconds_count{operation="forecast",provider="openweathermap"} 2`)
}

func TestPrometheusMetrics_RecordEmail(t *testing.T) {
	m := NewPrometheusMetrics()

	m.RecordEmail(true)
	m.RecordEmail(true)
	m.RecordEmail(false)

	body := scrape(t, m)
	assert.Contains(t, body, `weathermail_emails_total{outcome="success"} 2`)
	assert.Contains(t, body, `weathermail_emails_total{outcome="failure"} 1`)
}

func TestPrometheusMetrics_GinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewPrometheusMetrics()

	router := gin.New()
	router.Use(m.GinMiddleware())
	router.GET("/api/weather", func(c *gin.Context) { c.Status(http.StatusBadRequest) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/weather?city=x", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	body := scrape(t, m)
	assert.Contains(t, body, `weathermail_http_requests_total{method="GET",route="/api/weather",status="400"} 1`)
	assert.Contains(t, body, `weathermail_http_requests_total{method="GET",route="unmatched",status="404"} 1`)
}

func TestPrometheusMetrics_IndependentRegistries(t *testing.T) {
	first := NewPrometheusMetrics()
	second := NewPrometheusMetrics()

	first.RecordEmail(true)

	assert.Contains(t, scrape(t, first), `weathermail_emails_total{outcome="success"} 1`)
	assert.NotContains(t, scrape(t, second), `weathermail_emails_total{outcome="success"}`)
	assert.Contains(t, scrape(t, second), "go_goroutines")
}
