package api

import (
	"bytes"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"musicsales/internal/charts"
	"musicsales/internal/dashboard"
	"musicsales/internal/engine"
	"musicsales/internal/export"
	"musicsales/internal/metrics"
	"musicsales/internal/models"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	svc     *dashboard.Service
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewHandler(svc *dashboard.Service, m *metrics.Metrics, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, metrics: m, log: log}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.GetPage)
	e.GET("/charts/:file", h.GetChart)
	e.GET("/metrics", echo.WrapHandler(h.metrics.Handler()))

	api := e.Group("/api")
	api.GET("/records", h.GetRecords)
	api.GET("/views/:view", h.GetView)
	api.GET("/series/:chart", h.GetSeries)
	api.GET("/export.xlsx", h.GetExport)
	api.GET("/health", h.GetHealth)
}

// --- HANDLERS ---
func getPaginationParams(c echo.Context, defaultLimit int) (int, int) {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

func paginate(c echo.Context, t *engine.Table) error {
	records := t.Records()
	total := len(records)
	limit, offset := getPaginationParams(c, total)

	page := models.RecordPage{Data: []models.SalesRecord{}, Total: total, Limit: limit, Offset: offset}
	if offset < total {
		end := offset + limit
		if end > total {
			end = total
		}
		page.Data = records[offset:end]
	}
	return c.JSON(http.StatusOK, page)
}

// GetPage renders the dashboard. Query: tab=units|revenue, raw=true.
func (h *Handler) GetPage(c echo.Context) error {
	var req dashboard.PageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "tab must be one of: units, revenue")
	}

	d, err := h.svc.Render(c.Request().Context())
	if err != nil {
		return err
	}
	h.metrics.ObserveRender("page")
	noStore(c)
	return c.Render(http.StatusOK, "dashboard.html", dashboard.BuildPage(d, req))
}

// GetChart serves /charts/{units,revenue,digital}.{svg,png}
func (h *Handler) GetChart(c echo.Context) error {
	file := c.Param("file")
	ext := path.Ext(file)
	format, ok := charts.ParseFormat(strings.TrimPrefix(ext, "."))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown chart format")
	}
	name := strings.TrimSuffix(file, ext)
	if !dashboard.HasChart(name) {
		return echo.NewHTTPError(http.StatusNotFound, "unknown chart "+name)
	}

	d, err := h.svc.Render(c.Request().Context())
	if err != nil {
		return err
	}
	def, series, ok := h.svc.Chart(d, name)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown chart "+name)
	}

	var buf bytes.Buffer
	if err := charts.Render(&buf, def, series, format); err != nil {
		return err
	}
	h.metrics.ObserveRender("chart")
	noStore(c)
	return c.Blob(http.StatusOK, format.ContentType(), buf.Bytes())
}

// GetRecords returns the raw record set, paginated.
func (h *Handler) GetRecords(c echo.Context) error {
	d, err := h.svc.Render(c.Request().Context())
	if err != nil {
		return err
	}
	h.metrics.ObserveRender("api")
	return paginate(c, d.Raw)
}

// GetView returns a derived view: filtered, units, value or digital.
func (h *Handler) GetView(c echo.Context) error {
	d, err := h.svc.Render(c.Request().Context())
	if err != nil {
		return err
	}
	view, ok := d.View(c.Param("view"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown view "+c.Param("view"))
	}
	h.metrics.ObserveRender("api")
	return paginate(c, view)
}

// GetSeries returns the lines of a chart as JSON.
func (h *Handler) GetSeries(c echo.Context) error {
	if !dashboard.HasChart(c.Param("chart")) {
		return echo.NewHTTPError(http.StatusNotFound, "unknown chart "+c.Param("chart"))
	}
	d, err := h.svc.Render(c.Request().Context())
	if err != nil {
		return err
	}
	data, ok := h.svc.ChartData(d, c.Param("chart"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown chart "+c.Param("chart"))
	}
	h.metrics.ObserveRender("api")
	return c.JSON(http.StatusOK, data)
}

func (h *Handler) GetExport(c echo.Context) error {
	d, err := h.svc.Render(c.Request().Context())
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, dashboard.ExportSheets(d)...); err != nil {
		return err
	}
	h.metrics.ObserveRender("export")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="music_sales.xlsx"`)
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

// GetHealth reports whether the startup preflight load succeeded.
func (h *Handler) GetHealth(c echo.Context) error {
	if !h.svc.Ready() {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Every render re-reads the dataset, so responses must not be cached.
func noStore(c echo.Context) {
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
}
