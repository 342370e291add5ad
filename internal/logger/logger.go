package logger

import (
	"fmt"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"musicsales/internal/config"
)

// New builds the process logger. JSON output in production or when
// logging.format is json, colored console output otherwise. Every entry
// carries the app name, environment and dataset path.
func New(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("logging.level: %w", err)
	}

	var zapCfg zap.Config
	if cfg.Logging.Format == "json" || cfg.App.Environment == "production" {
		zapCfg = zap.NewProductionConfig()
		// Every render logs a load; keep them all.
		zapCfg.Sampling = nil
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.InitialFields = map[string]interface{}{
		"app":         cfg.App.Name,
		"environment": cfg.App.Environment,
		"dataset":     cfg.Data.Path,
	}

	log, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return log, nil
}

// ForRequest tags log with the method, path and request id of c.
func ForRequest(log *zap.Logger, c echo.Context) *zap.Logger {
	return log.With(
		zap.String("method", c.Request().Method),
		zap.String("path", c.Request().URL.Path),
		zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
	)
}
