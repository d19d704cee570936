package telemetry

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_CountsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/v1/projects/:project_id/summary", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, id := range []string{"a", "b"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/projects/"+id+"/summary", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	got := testutil.ToFloat64(m.httpRequests.WithLabelValues(http.MethodGet, "/v1/projects/:project_id/summary", "200"))
	assert.Equal(t, 2.0, got)
}

func TestReportAndCacheMetrics(t *testing.T) {
	m := New()
	m.ObserveReport("summary", 20*time.Millisecond)
	m.CacheLookup("summary", true)
	m.CacheLookup("summary", false)
	m.CacheLookup("summary", false)
	m.ImportedRows("calls", 3, 1)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.reportCache.WithLabelValues("summary", "hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.reportCache.WithLabelValues("summary", "miss")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.importedRows.WithLabelValues("calls", "inserted")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.reportDuration))
}

func TestHandler_ExposesRegistry(t *testing.T) {
	m := New()
	m.CacheLookup("abc", true)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "callcenter_report_cache_lookups_total"))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveReport("x", time.Second)
	m.CacheLookup("x", true)
	m.ImportedRows("x", 1, 1)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
