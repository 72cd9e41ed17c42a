package logger

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"alfredoptarigan/resume-analyzer/internal/config"
)

// RequestIDKey is the fiber locals key the requestid middleware stores the id under.
const RequestIDKey = "requestid"

const serviceName = "resume-analyzer"

// New builds the process logger from the server section of the config.
// JSON output is meant for deployed environments; development gets a colored console.
func New(cfg config.ServerConfig) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.LogDebug {
		level = zapcore.DebugLevel
	}

	encoding := "console"
	encodeLevel := zapcore.CapitalColorLevelEncoder
	if cfg.LogJSON {
		encoding = "json"
		encodeLevel = zapcore.LowercaseLevelEncoder
	}

	zcfg := zap.Config{
		Encoding:          encoding,
		Level:             zap.NewAtomicLevelAt(level),
		DisableStacktrace: !cfg.LogDebug,
		OutputPaths:       []string{"stdout"},
		ErrorOutputPaths:  []string{"stderr"},
		InitialFields: map[string]interface{}{
			"service": serviceName,
			"env":     cfg.Env,
		},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:   "msg",
			LevelKey:     "level",
			EncodeLevel:  encodeLevel,
			TimeKey:      "time",
			EncodeTime:   zapcore.RFC3339TimeEncoder,
			CallerKey:    "caller",
			EncodeCaller: zapcore.ShortCallerEncoder,
		},
	}

	return zcfg.Build()
}

// ForRequest tags base with the request id set by the requestid middleware.
func ForRequest(base *zap.Logger, c *fiber.Ctx) *zap.Logger {
	id, ok := c.Locals(RequestIDKey).(string)
	if !ok || id == "" {
		return base
	}
	return base.With(zap.String("request_id", id))
}

// TruncateForLog keeps at most limit runes of s and marks the cut with "...".
func TruncateForLog(s string, limit int) string {
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
