package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "organizer", Name: "http_requests_total", Help: "Processed HTTP requests",
	}, []string{"method", "route", "status"})
	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "organizer", Name: "http_request_duration_seconds", Help: "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
	Exports = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "organizer", Name: "exports_total", Help: "Rendered exports by format and result",
	}, []string{"format", "result"})
	RenderDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "organizer", Name: "render_duration_seconds", Help: "Export rendering latency",
		Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20},
	}, []string{"format"})
	EntrySaves = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "organizer", Name: "daily_entry_saves_total", Help: "Daily entry saves by outcome",
	}, []string{"outcome"})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "organizer", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPDuration, Exports, RenderDuration, EntrySaves, DBPing)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }

// ObserveExport 记录一次导出的结果与耗时
func ObserveExport(format string, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	Exports.WithLabelValues(format, result).Inc()
	RenderDuration.WithLabelValues(format).Observe(d.Seconds())
}
