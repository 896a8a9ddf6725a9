package ports

import "time"

// Logger defines the contract for structured logging
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Field represents a log field
type Field struct {
	Key   string
	Value interface{}
}

// F creates a log field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// MetricsRecorder defines the contract for recording outbound call metrics
type MetricsRecorder interface {
	RecordUpstreamCall(provider, operation string, success bool, duration time.Duration)
	RecordEmail(success bool)
}
