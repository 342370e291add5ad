package api

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"musicsales/internal/engine"
	"musicsales/internal/logger"
	"musicsales/internal/web"
)

// NewServer builds the echo instance with middleware, renderer and routes.
func NewServer(h *Handler, log *zap.Logger, allowedOrigins []string) (*echo.Echo, error) {
	if log == nil {
		log = zap.NewNop()
	}
	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = JSONSerializer{}
	e.Validator = &Validator{validate: validator.New()}
	e.Renderer = &TemplateRenderer{templates: tmpl}
	e.HTTPErrorHandler = ErrorHandler(log)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(RequestLogger(log))
	if len(allowedOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: allowedOrigins}))
	} else {
		e.Use(middleware.CORS())
	}

	h.RegisterRoutes(e)
	return e, nil
}

// JSONSerializer plugs goccy/go-json into echo.
type JSONSerializer struct{}

func (JSONSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := json.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (JSONSerializer) Deserialize(c echo.Context, i interface{}) error {
	if err := json.NewDecoder(c.Request().Body).Decode(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}
	return nil
}

type Validator struct {
	validate *validator.Validate
}

func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

type TemplateRenderer struct {
	templates *template.Template
}

func (t *TemplateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return t.templates.ExecuteTemplate(w, name, data)
}

// RequestLogger logs one line per request through zap.
func RequestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("request_id", v.RequestID),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status_code", v.Status),
				zap.Duration("duration", v.Latency),
			}
			msg := fmt.Sprintf("%s %-30s -> %3d (%s)", v.Method, v.URI, v.Status, v.Latency.Truncate(time.Microsecond))
			if v.Error != nil {
				log.Warn(msg, append(fields, zap.Error(v.Error))...)
				return nil
			}
			log.Info(msg, fields...)
			return nil
		},
	})
}

// ErrorHandler maps DataUnavailable to 503, echo HTTP errors to their code and
// everything else to 500. /api routes get JSON, pages get the error template.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := http.StatusText(code)
		var he *echo.HTTPError
		switch {
		case errors.Is(err, engine.ErrDataUnavailable):
			code = http.StatusServiceUnavailable
			msg = "The sales dataset could not be loaded: " + err.Error()
		case errors.As(err, &he):
			code = he.Code
			msg = fmt.Sprint(he.Message)
		}

		reqLog := logger.ForRequest(log, c)
		if code >= http.StatusInternalServerError {
			reqLog.Error("request failed", zap.Int("status_code", code), zap.Error(err))
		}

		var werr error
		switch {
		case c.Request().Method == http.MethodHead:
			werr = c.NoContent(code)
		case wantsJSON(c):
			werr = c.JSON(code, map[string]string{"error": msg})
		default:
			werr = c.Render(code, "error.html", map[string]string{"Status": http.StatusText(code), "Message": msg})
		}
		if werr != nil {
			reqLog.Error("write error response", zap.Error(werr))
		}
	}
}

func wantsJSON(c echo.Context) bool {
	return strings.HasPrefix(c.Request().URL.Path, "/api/") ||
		strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}
