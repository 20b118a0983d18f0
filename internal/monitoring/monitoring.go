package monitoring

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"backend/internal/models"
)

const namespace = "survey"

// Service owns the Prometheus registry for the dashboard server.
type Service struct {
	registry        *prometheus.Registry
	sourceLoads     *prometheus.CounterVec
	recordsLoaded   prometheus.Gauge
	loadDuration    prometheus.Histogram
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

func NewService() *Service {
	s := &Service{
		registry: prometheus.NewRegistry(),
		sourceLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_loads_total",
			Help:      "Record sources fetched, by continent and outcome.",
		}, []string{"continent", "outcome"}),
		recordsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "records_loaded",
			Help:      "Survey records currently held in memory.",
		}),
		loadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      "Time spent loading every record source.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by route, method and status.",
		}, []string{"route", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
	s.registry.MustRegister(
		s.sourceLoads,
		s.recordsLoaded,
		s.loadDuration,
		s.requests,
		s.requestDuration,
	)
	return s
}

// ObserveLoad records the outcome of one LoadSources run.
func (s *Service) ObserveLoad(reports []models.SourceReport, records int, elapsed time.Duration) {
	for _, r := range reports {
		outcome := "ok"
		if r.Error != "" {
			outcome = "failed"
		}
		s.sourceLoads.WithLabelValues(r.Continent, outcome).Inc()
	}
	s.recordsLoaded.Set(float64(records))
	s.loadDuration.Observe(elapsed.Seconds())
}

// Middleware counts requests per registered route. Unmatched paths are
// grouped under "unmatched" to keep label cardinality bounded.
func (s *Service) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			var he *echo.HTTPError
			if errors.As(err, &he) {
				status = he.Code
			} else if err != nil {
				status = http.StatusInternalServerError
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			s.requests.WithLabelValues(route, c.Request().Method, strconv.Itoa(status)).Inc()
			s.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// Handler exposes the registry in the Prometheus text format.
func (s *Service) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}
