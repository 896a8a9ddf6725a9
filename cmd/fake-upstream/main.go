package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/kelseyhightower/envconfig"
	"weathermail.app/internal/fakeupstream"
	"weathermail.app/pkg/logger"
)

// Point WEATHER_API_BASE_URL at http://localhost:8081 and
// GEMINI_BASE_URL at http://localhost:8081/v1beta/openai/ to run the service offline.
type settings struct {
	Port      int    `envconfig:"FAKE_UPSTREAM_PORT" default:"8081"`
	Narrative string `envconfig:"FAKE_UPSTREAM_NARRATIVE"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
}

func main() {
	var s settings
	if err := envconfig.Process("", &s); err != nil {
		slog.Error("Failed to load settings", "error", err)
		os.Exit(1)
	}
	log := logger.SetupDefault(s.LogLevel).WithField("component", "fake-upstream")

	gin.SetMode(gin.ReleaseMode)
	router := fakeupstream.NewRouter(fakeupstream.Options{Narrative: s.Narrative})

	addr := fmt.Sprintf(":%d", s.Port)
	log.Info("Fake upstream server starting", "addr", addr)
	if err := router.Run(addr); err != nil {
		log.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}
