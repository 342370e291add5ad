package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"musicsales/internal/dashboard"
	"musicsales/internal/metrics"
	"musicsales/internal/models"
)

const sampleCSV = `Year,Format,Metric,Value (Actual)
1990,CD,Units,286.5
1990,CD,Value,3451.6
1990,Cassette,Units,442.2
1990,LaserDisc,Units,2
2005,Download Single,Units,366.9
2015,On-Demand Streaming,Value,1000
2016,On-Demand Streaming,Value,3900.5
`

type testServer struct {
	e        *echo.Echo
	svc      *dashboard.Service
	dataPath string
}

func newTestServer(t *testing.T, content string) testServer {
	t.Helper()
	path := filepath.Join(t.TempDir(), "music_sales_clean.csv")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	m := metrics.New()
	svc := dashboard.NewService(dashboard.Options{DataPath: path, ChartWidth: 640, ChartHeight: 320}, m, nil)
	e, err := NewServer(NewHandler(svc, m, nil), nil, nil)
	require.NoError(t, err)
	return testServer{e: e, svc: svc, dataPath: path}
}

func (s testServer) get(target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestGetPage(t *testing.T) {
	s := newTestServer(t, sampleCSV)

	rec := s.get("/")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Music Industry Trends in Sales by Format and Year (1973 - 2019)")
	assert.Contains(t, body, "Trend of Music Sales by Format Over Time (Units Sold)")
	assert.Contains(t, body, `/charts/units.svg`)
	assert.Contains(t, body, `/charts/digital.svg`)
	assert.NotContains(t, body, `<table class="raw">`)
	assert.Equal(t, "no-store", rec.Header().Get(echo.HeaderCacheControl))
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestGetPage_RevenueTabWithRawData(t *testing.T) {
	s := newTestServer(t, sampleCSV)

	rec := s.get("/?tab=revenue&raw=true")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Trend of Music Sales by Format Over Time (Revenue)")
	assert.Contains(t, body, `/charts/revenue.svg`)
	assert.Contains(t, body, `<table class="raw">`)
	assert.Contains(t, body, "LaserDisc")
	assert.Contains(t, body, "3,451.6")
}

func TestGetPage_InvalidTab(t *testing.T) {
	s := newTestServer(t, sampleCSV)

	rec := s.get("/?tab=charts")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPage_DataUnavailable(t *testing.T) {
	s := newTestServer(t, "")

	rec := s.get("/")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "Dashboard unavailable")
	assert.Contains(t, rec.Body.String(), "could not be loaded")
}

func TestGetChart(t *testing.T) {
	s := newTestServer(t, sampleCSV)

	for _, name := range dashboard.ChartNames {
		rec := s.get("/charts/" + name + ".svg")
		require.Equal(t, http.StatusOK, rec.Code, name)
		assert.Equal(t, "image/svg+xml", rec.Header().Get(echo.HeaderContentType), name)
		assert.Contains(t, rec.Body.String(), "<svg", name)
	}

	rec := s.get("/charts/digital.png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get(echo.HeaderContentType))
}

func TestGetChart_NotFound(t *testing.T) {
	s := newTestServer(t, sampleCSV)

	assert.Equal(t, http.StatusNotFound, s.get("/charts/pie.svg").Code)
	assert.Equal(t, http.StatusNotFound, s.get("/charts/units.gif").Code)
}

func TestGetChart_UnknownNameWithoutData(t *testing.T) {
	s := newTestServer(t, "")

	assert.Equal(t, http.StatusNotFound, s.get("/charts/bogus.svg").Code)
	assert.Equal(t, http.StatusNotFound, s.get("/api/series/bogus").Code)
	assert.Equal(t, http.StatusServiceUnavailable, s.get("/charts/units.svg").Code)
}

func TestGetChart_EmptyView(t *testing.T) {
	// Only physical formats: the digital chart has no lines but still renders.
	s := newTestServer(t, "Year,Format,Metric,Value (Actual)\n1990,CD,Value,3451.6\n")

	rec := s.get("/charts/digital.svg")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No data for this view")
}

func TestGetView(t *testing.T) {
	s := newTestServer(t, sampleCSV)

	rec := s.get("/api/views/units?limit=2&offset=1")

	require.Equal(t, http.StatusOK, rec.Code)
	var page models.RecordPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.Limit)
	assert.Equal(t, 1, page.Offset)
	require.Len(t, page.Data, 2)
	assert.Equal(t, models.SalesRecord{Year: 1990, Format: "Cassette", Metric: models.MetricUnits, Value: 442.2}, page.Data[0])
}

func TestGetView_OffsetPastEnd(t *testing.T) {
	s := newTestServer(t, sampleCSV)

	rec := s.get("/api/views/digital?offset=50")

	require.Equal(t, http.StatusOK, rec.Code)
	var page models.RecordPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 3, page.Total)
	assert.Empty(t, page.Data)
}

func TestGetView_Unknown(t *testing.T) {
	s := newTestServer(t, sampleCSV)

	rec := s.get("/api/views/everything")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
}

func TestGetRecords(t *testing.T) {
	s := newTestServer(t, sampleCSV)

	rec := s.get("/api/records")

	require.Equal(t, http.StatusOK, rec.Code)
	var page models.RecordPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 7, page.Total)
	assert.Len(t, page.Data, 7)
}

func TestGetRecords_DataUnavailable(t *testing.T) {
	s := newTestServer(t, "Year,Format,Value (Actual)\n1990,CD,1\n")

	rec := s.get("/api/records")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "missing column Metric")
}

func TestGetSeries(t *testing.T) {
	s := newTestServer(t, sampleCSV)

	rec := s.get("/api/series/digital")

	require.Equal(t, http.StatusOK, rec.Code)
	var data models.ChartData
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &data))
	assert.Equal(t, "The Rise of Digital Formats (Revenue)", data.Title)
	require.Len(t, data.Series, 1)
	assert.Equal(t, []models.Point{{Year: 2015, Value: 1000}, {Year: 2016, Value: 3900.5}}, data.Series[0].Points)

	assert.Equal(t, http.StatusNotFound, s.get("/api/series/pie").Code)
}

func TestGetExport(t *testing.T) {
	s := newTestServer(t, sampleCSV)

	rec := s.get("/api/export.xlsx")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "music_sales.xlsx")
	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Raw", "Filtered", "Units", "Value", "Digital"}, f.GetSheetList())
}

func TestGetHealth(t *testing.T) {
	s := newTestServer(t, sampleCSV)

	assert.Equal(t, http.StatusServiceUnavailable, s.get("/api/health").Code)

	s.svc.Warmup(context.Background())

	assert.Equal(t, http.StatusOK, s.get("/api/health").Code)
}

func TestGetHealth_FollowsDataset(t *testing.T) {
	s := newTestServer(t, "")
	s.svc.Warmup(context.Background())
	require.Equal(t, http.StatusServiceUnavailable, s.get("/api/health").Code)

	require.NoError(t, os.WriteFile(s.dataPath, []byte(sampleCSV), 0o644))
	require.Equal(t, http.StatusOK, s.get("/").Code)

	assert.Equal(t, http.StatusOK, s.get("/api/health").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, sampleCSV)
	s.get("/")

	rec := s.get("/metrics")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `musicsales_renders_total{artifact="page"} 1`)
}
