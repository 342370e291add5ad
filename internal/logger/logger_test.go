package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"musicsales/internal/config"
)

func testConfig(level, format string) *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "musicsales"
	cfg.App.Environment = "development"
	cfg.Data.Path = "data/music_sales_clean.csv"
	cfg.Logging.Level = level
	cfg.Logging.Format = format
	return cfg
}

func TestNew_Level(t *testing.T) {
	log, err := New(testConfig("warn", "json"))
	require.NoError(t, err)

	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
}

func TestNew_Console(t *testing.T) {
	log, err := New(testConfig("debug", "console"))
	require.NoError(t, err)

	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_UnknownLevel(t *testing.T) {
	_, err := New(testConfig("chatty", "console"))

	assert.ErrorContains(t, err, "logging.level")
}

func TestForRequest(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	e := echo.New()
	rec := httptest.NewRecorder()
	rec.Header().Set(echo.HeaderXRequestID, "req-1")
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/charts/units.svg", nil), rec)

	ForRequest(zap.New(core), c).Info("rendered")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/charts/units.svg", fields["path"])
	assert.Equal(t, "req-1", fields["request_id"])
}
