package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ObserveRender("page")
	m.ObserveRender("page")
	m.ObserveLoad(time.Millisecond, nil)
	m.ObserveLoad(time.Millisecond, errors.New("boom"))
	m.SetViewRows("units", 42)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.renders.WithLabelValues("page")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.loads.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.loads.WithLabelValues("error")))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.viewRows.WithLabelValues("units")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveRender("chart")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `musicsales_renders_total{artifact="chart"} 1`)
}
