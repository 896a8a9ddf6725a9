package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"weathermail.app/internal/core/notification"
)

// SuccessResponse represents a successful HTTP response
type SuccessResponse struct {
	Message string `json:"message"`
}

// sendWeatherMail handles GET /weather_mail requests
func (s *HTTPServerAdapter) sendWeatherMail(c *gin.Context) {
	request := notification.WeatherReportRequest{
		City:  c.Query("city"),
		Email: c.Query("email"),
	}

	slog.Debug("Weather mail request received", "city", request.City, "email", request.Email)

	err := s.notificationUseCase.SendWeatherReport(c.Request.Context(), request)
	if err != nil {
		slog.Error("Weather mail error", "error", err, "city", request.City)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Email sent successfully"})
}
