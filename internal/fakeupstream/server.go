// Package fakeupstream serves canned OpenWeatherMap and Gemini responses for local runs and tests.
package fakeupstream

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	forecastSamples = 40
	forecastStep    = 3 * time.Hour
	// maxReverseDistance is how far (in degrees) a reverse lookup may be from a known city
	maxReverseDistance = 1.0
)

// City is one fixture location
type City struct {
	Name      string
	Country   string
	Latitude  float64
	Longitude float64
	TempC     float64
	Humidity  int
	WindSpeed float64
}

var cities = map[string]City{
	"london": {Name: "London", Country: "GB", Latitude: 51.5073, Longitude: -0.1276, TempC: 15.0, Humidity: 76, WindSpeed: 4.1},
	"paris":  {Name: "Paris", Country: "FR", Latitude: 48.8589, Longitude: 2.3200, TempC: 18.0, Humidity: 68, WindSpeed: 2.6},
	"berlin": {Name: "Berlin", Country: "DE", Latitude: 52.5170, Longitude: 13.3889, TempC: 12.0, Humidity: 82, WindSpeed: 5.3},
}

// Options tune the fake responses
type Options struct {
	// ForecastStart is the dt of the first forecast sample. Defaults to now truncated to three hours.
	ForecastStart time.Time
	// Narrative is returned as the single chat completion choice
	Narrative string
}

// NewRouter builds the fake upstream router.
// City "servererror" answers 500 and "timeout" answers 408 on the current weather endpoint.
func NewRouter(opts Options) *gin.Engine {
	if opts.Narrative == "" {
		opts.Narrative = "Expect a calm day with mild temperatures."
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	owm := r.Group("/", requireAPIKey)
	owm.GET("/data/2.5/weather", currentWeather)
	owm.GET("/data/2.5/forecast", forecast(opts.ForecastStart))
	owm.GET("/geo/1.0/direct", geocode)
	owm.GET("/geo/1.0/reverse", reverseGeocode)

	r.POST("/v1beta/openai/chat/completions", chatCompletion(opts.Narrative))

	return r
}

func requireAPIKey(c *gin.Context) {
	if c.Query("appid") == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"cod":     401,
			"message": "Invalid API key. Please see https://openweathermap.org/faq#error401 for more info.",
		})
		return
	}
	c.Next()
}

func currentWeather(c *gin.Context) {
	city := strings.ToLower(strings.TrimSpace(c.Query("q")))

	switch city {
	case "":
		c.JSON(http.StatusBadRequest, gin.H{"cod": "400", "message": "Nothing to geocode"})
		return
	case "servererror":
		c.JSON(http.StatusInternalServerError, gin.H{"cod": "500", "message": "Internal server error"})
		return
	case "timeout":
		c.Header("Connection", "close")
		c.AbortWithStatus(http.StatusRequestTimeout)
		return
	}

	fixture, ok := cities[city]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"cod": "404", "message": "city not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name": fixture.Name,
		"main": gin.H{"temp": fixture.TempC, "humidity": fixture.Humidity},
		"wind": gin.H{"speed": fixture.WindSpeed},
	})
}

func forecast(start time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, _, ok := parseCoordinates(c); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"cod": "400", "message": "wrong latitude or longitude"})
			return
		}

		first := start
		if first.IsZero() {
			first = time.Now().UTC().Truncate(forecastStep)
		}

		list := make([]gin.H, 0, forecastSamples)
		for i := 0; i < forecastSamples; i++ {
			at := first.Add(time.Duration(i) * forecastStep)
			list = append(list, gin.H{
				"dt":      at.Unix(),
				"main":    gin.H{"temp": 283.15 + float64(i%8), "humidity": 70},
				"weather": []gin.H{{"main": "Clouds", "description": "scattered clouds"}},
				"dt_txt":  at.Format("2006-01-02 15:04:05"),
			})
		}

		c.JSON(http.StatusOK, gin.H{"cod": "200", "cnt": len(list), "list": list})
	}
}

func geocode(c *gin.Context) {
	fixture, ok := cities[strings.ToLower(strings.TrimSpace(c.Query("q")))]
	if !ok {
		c.JSON(http.StatusOK, []gin.H{})
		return
	}
	c.JSON(http.StatusOK, []gin.H{locationJSON(fixture)})
}

func reverseGeocode(c *gin.Context) {
	lat, lon, ok := parseCoordinates(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"cod": "400", "message": "wrong latitude or longitude"})
		return
	}

	for _, fixture := range cities {
		if math.Abs(fixture.Latitude-lat) <= maxReverseDistance && math.Abs(fixture.Longitude-lon) <= maxReverseDistance {
			c.JSON(http.StatusOK, []gin.H{locationJSON(fixture)})
			return
		}
	}
	c.JSON(http.StatusOK, []gin.H{})
}

func chatCompletion(narrative string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.HasPrefix(c.GetHeader("Authorization"), "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "API key not valid", "code": 401}})
			return
		}

		var body struct {
			Model string `json:"model"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": err.Error(), "code": 400}})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":      "chatcmpl-fake",
			"object":  "chat.completion",
			"created": time.Now().Unix(),
			"model":   body.Model,
			"choices": []gin.H{{
				"index":         0,
				"message":       gin.H{"role": "assistant", "content": narrative},
				"finish_reason": "stop",
			}},
		})
	}
}

func locationJSON(city City) gin.H {
	return gin.H{"name": city.Name, "lat": city.Latitude, "lon": city.Longitude, "country": city.Country}
}

func parseCoordinates(c *gin.Context) (float64, float64, bool) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		return 0, 0, false
	}
	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lon, true
}
