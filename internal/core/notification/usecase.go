package notification

import (
	"context"
	"fmt"

	"weathermail.app/internal/core/weather"
	"weathermail.app/internal/ports"
	"weathermail.app/pkg/errors"
	"weathermail.app/pkg/validation"
)

const (
	msgRequiredFields  = "City name and email are required"
	msgInvalidEmail    = "Invalid email address"
	msgNarrativeFailed = "Failed to generate weather report"
	msgCityLineBreaks  = "City name must be a single line"
)

type UseCase struct {
	weatherUseCase *weather.UseCase
	textGenerator  ports.TextGenerator
	mailer         ports.Mailer
	logger         ports.Logger
	sender         string
}

type UseCaseDependencies struct {
	WeatherUseCase *weather.UseCase
	TextGenerator  ports.TextGenerator
	Mailer         ports.Mailer
	Logger         ports.Logger
	// Sender is the From address recorded on outgoing messages
	Sender string
}

func NewUseCase(deps UseCaseDependencies) (*UseCase, error) {
	if deps.WeatherUseCase == nil {
		return nil, errors.NewValidationError("weather use case is required")
	}
	if deps.TextGenerator == nil {
		return nil, errors.NewValidationError("text generator is required")
	}
	if deps.Mailer == nil {
		return nil, errors.NewValidationError("mailer is required")
	}
	if deps.Logger == nil {
		return nil, errors.NewValidationError("logger is required")
	}

	return &UseCase{
		weatherUseCase: deps.WeatherUseCase,
		textGenerator:  deps.TextGenerator,
		mailer:         deps.Mailer,
		logger:         deps.Logger,
		sender:         deps.Sender,
	}, nil
}

// SendWeatherReport fetches current weather, has it narrated and emails the result.
// Delivery failures are absorbed by the mailer, so a nil error means the email was handed off.
func (uc *UseCase) SendWeatherReport(ctx context.Context, request WeatherReportRequest) error {
	if !request.Normalize() {
		return errors.NewValidationError(msgRequiredFields)
	}
	if err := uc.validate(request); err != nil {
		return err
	}

	snapshot, err := uc.weatherUseCase.GetCurrentWeather(ctx, request.City)
	if err != nil {
		return err
	}

	narrative, err := uc.ComposeWeatherNarrative(ctx, request.City, snapshot)
	if err != nil {
		return err
	}

	message := EmailMessage{
		From:    uc.sender,
		To:      request.Email,
		Subject: ReportSubject(request.City),
		Body:    narrative,
	}

	uc.mailer.SendEmail(ctx, ports.EmailParams{
		To:      message.To,
		Subject: message.Subject,
		Body:    message.Body,
	})

	uc.logger.Info("Weather report handed to mailer",
		ports.F("city", request.City),
		ports.F("to", message.To))
	return nil
}

// ComposeWeatherNarrative asks the text generator for an email body describing the snapshot
func (uc *UseCase) ComposeWeatherNarrative(ctx context.Context, city string, snapshot *weather.Snapshot) (string, error) {
	prompt := BuildWeatherPrompt(city, snapshot)
	uc.logger.Debug("Requesting weather narrative",
		ports.F("city", city),
		ports.F("conditions", snapshot.String()))

	text, err := uc.textGenerator.GenerateText(ctx, prompt)
	if err != nil {
		uc.logger.Error("Failed to generate weather narrative",
			ports.F("city", city),
			ports.F("error", err))
		return "", errors.NewUpstreamError(msgNarrativeFailed, fmt.Errorf("narrative for %s: %w", city, err))
	}

	return text, nil
}

func (uc *UseCase) validate(request WeatherReportRequest) error {
	if !validation.IsValidEmail(request.Email) {
		return errors.NewValidationError(msgInvalidEmail)
	}
	if validation.ContainsLineBreak(request.City) {
		return errors.NewValidationError(msgCityLineBreaks)
	}
	return nil
}
