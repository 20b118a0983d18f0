package monitoring

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend/internal/models"
)

func TestService_ObserveLoad(t *testing.T) {
	s := NewService()

	s.ObserveLoad([]models.SourceReport{
		{Location: "eu.json", Continent: "europe", Records: 10},
		{Location: "na.json", Continent: "north america", Error: "not found"},
	}, 10, 250*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(s.sourceLoads.WithLabelValues("europe", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.sourceLoads.WithLabelValues("north america", "failed")))
	assert.Equal(t, 10.0, testutil.ToFloat64(s.recordsLoaded))
}

func TestService_Middleware(t *testing.T) {
	s := NewService()
	e := echo.New()
	e.Use(s.Middleware())
	e.GET("/api/ok", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/api/busy", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "loading")
	})
	e.GET("/metrics", echo.WrapHandler(s.Handler()))

	for _, target := range []string{"/api/ok", "/api/ok", "/api/busy"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, target, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(s.requests.WithLabelValues("/api/ok", http.MethodGet, "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.requests.WithLabelValues("/api/busy", http.MethodGet, "503")))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "survey_http_requests_total"))
	assert.True(t, strings.Contains(body, "survey_records_loaded"))
}
