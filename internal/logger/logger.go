package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// FieldUserID is the structured log field key for the caller identifier.
	FieldUserID = "user_id"
	// FieldProvider is the structured log field key for the LLM provider name.
	FieldProvider = "llm_provider"
	// FieldModel is the structured log field key for the model identifier.
	FieldModel = "llm_model"
)

func New(json bool, debug bool) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	encoding := "console"

	if json {
		encoding = "json"
	}

	if debug {
		level = zapcore.DebugLevel
	}

	cfg := zap.Config{
		Encoding:         encoding,
		Level:            zap.NewAtomicLevelAt(level),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey: "msg",

			LevelKey:    "level",
			EncodeLevel: zapcore.LowercaseLevelEncoder,

			TimeKey:    "time",
			EncodeTime: zapcore.RFC3339TimeEncoder,

			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,
		},
	}

	return cfg.Build()
}

// OrNop returns log, or a no-op logger when log is nil.
func OrNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}

// ForUser attaches the caller identifier to the logger.
func ForUser(log *zap.Logger, userID string) *zap.Logger {
	return OrNop(log).With(zap.String(FieldUserID, userID))
}

// LLMFields returns fields describing the provider and model. Empty values are skipped.
func LLMFields(provider, model string) []zap.Field {
	fields := make([]zap.Field, 0, 2)
	if provider = strings.TrimSpace(provider); provider != "" {
		fields = append(fields, zap.String(FieldProvider, provider))
	}
	if model = strings.TrimSpace(model); model != "" {
		fields = append(fields, zap.String(FieldModel, model))
	}
	return fields
}

// Truncate shortens s to limit runes, appending an ellipsis when truncated.
func Truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
