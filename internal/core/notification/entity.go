package notification

import (
	"fmt"
	"strconv"

	"weathermail.app/internal/core/weather"
	"weathermail.app/pkg/validation"
)

const weatherPromptTemplate = `
    You are a weather assistant. Your task is to write a detailed and friendly weather update email based on the provided weather data.

    Here is the weather data for %s:

    Today's Weather:
    - Average Temperature: %s°C
    - Wind Speed: %s m/s
    - Humidity: %d%%

    Please provide a detailed and friendly email based on the above data.
    `

// WeatherReportRequest represents a request to email a weather report
type WeatherReportRequest struct {
	City  string
	Email string
}

// EmailMessage is a plain-text message built for a single request
type EmailMessage struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Normalize trims surrounding whitespace from the request fields
// and reports whether both are still present.
func (r *WeatherReportRequest) Normalize() bool {
	var hasCity, hasEmail bool
	r.City, hasCity = validation.TrimAndValidate(r.City)
	r.Email, hasEmail = validation.TrimAndValidate(r.Email)
	return hasCity && hasEmail
}

// ReportSubject returns the subject line of the weather report email
func ReportSubject(city string) string {
	return fmt.Sprintf("Weather Report for %s", city)
}

// BuildWeatherPrompt renders the fixed narrative prompt for a city and its snapshot
func BuildWeatherPrompt(city string, snapshot *weather.Snapshot) string {
	return fmt.Sprintf(weatherPromptTemplate,
		city,
		formatNumber(snapshot.AverageTemperature),
		formatNumber(snapshot.WindSpeed),
		snapshot.Humidity)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
