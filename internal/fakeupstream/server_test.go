package fakeupstream

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := NewRouter(Options{ForecastStart: time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), Narrative: "Sunny."})

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestFakeUpstream_RequiresAPIKey(t *testing.T) {
	rec := serve(t, http.MethodGet, "/data/2.5/weather?q=London", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFakeUpstream_CurrentWeather(t *testing.T) {
	tests := []struct {
		city   string
		status int
	}{
		{city: "London", status: http.StatusOK},
		{city: "servererror", status: http.StatusInternalServerError},
		{city: "timeout", status: http.StatusRequestTimeout},
		{city: "Atlantis", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.city, func(t *testing.T) {
			rec := serve(t, http.MethodGet, "/data/2.5/weather?appid=k&units=metric&q="+tt.city, "")
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestFakeUpstream_Forecast(t *testing.T) {
	rec := serve(t, http.MethodGet, "/data/2.5/forecast?appid=k&lat=51.5&lon=-0.12", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		List []struct {
			Dt int64 `json:"dt"`
		} `json:"list"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.List, forecastSamples)
	assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC).Unix(), body.List[0].Dt)
	assert.Equal(t, int64(3*3600), body.List[1].Dt-body.List[0].Dt)
}

func TestFakeUpstream_Geocoding(t *testing.T) {
	rec := serve(t, http.MethodGet, "/geo/1.0/direct?appid=k&limit=1&q=paris", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Paris"`)

	rec = serve(t, http.MethodGet, "/geo/1.0/direct?appid=k&limit=1&q=Atlantis", "")
	assert.Equal(t, "[]", rec.Body.String())

	rec = serve(t, http.MethodGet, "/geo/1.0/reverse?appid=k&limit=1&lat=52.5&lon=13.4", "")
	assert.Contains(t, rec.Body.String(), `"name":"Berlin"`)

	rec = serve(t, http.MethodGet, "/geo/1.0/reverse?appid=k&limit=1&lat=0&lon=0", "")
	assert.Equal(t, "[]", rec.Body.String())
}

func TestFakeUpstream_ChatCompletion(t *testing.T) {
	rec := serve(t, http.MethodPost, "/v1beta/openai/chat/completions",
		`{"model":"gemini-2.0-flash","messages":[{"role":"user","content":"hi"}]}`,
		"Authorization", "Bearer key", "Content-Type", "application/json")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"content":"Sunny."`)
	assert.Contains(t, rec.Body.String(), `"model":"gemini-2.0-flash"`)

	rec = serve(t, http.MethodPost, "/v1beta/openai/chat/completions", `{}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
