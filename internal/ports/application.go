package ports

// ApplicationPorts aggregates all ports for dependency injection
type ApplicationPorts struct {
	// Weather
	WeatherClient WeatherClient

	// Narrative
	TextGenerator TextGenerator

	// Communication
	Mailer Mailer

	// Infrastructure
	Logger  Logger
	Metrics MetricsRecorder
}
