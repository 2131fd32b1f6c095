package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics はサービスの Prometheus コレクター一式を保持します。
type Metrics struct {
	registry          *prometheus.Registry
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	clusteringRuns    prometheus.Counter
	clusteringErrors  prometheus.Counter
	clusteringTime    prometheus.Histogram
	cohortSize        prometheus.Gauge
	modelAccuracy     prometheus.Gauge
}

// NewMetrics はコレクターを登録済みの Metrics を生成します。
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		clusteringRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clustering_runs_total",
			Help: "Total clustering analyses performed.",
		}),
		clusteringErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clustering_errors_total",
			Help: "Total clustering analyses that failed.",
		}),
		clusteringTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "clustering_duration_seconds",
			Help:    "Histogram of clustering analysis durations.",
			Buckets: prometheus.DefBuckets,
		}),
		cohortSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "clustering_cohort_size",
			Help: "Cohort size of the most recent clustering analysis.",
		}),
		modelAccuracy: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "clustering_model_accuracy",
			Help: "Silhouette score of the most recent clustering model.",
		}),
	}

	m.registry.MustRegister(
		m.httpRequestsTotal,
		m.httpDuration,
		m.clusteringRuns,
		m.clusteringErrors,
		m.clusteringTime,
		m.cohortSize,
		m.modelAccuracy,
	)

	return m
}

// Handler は /metrics 用の HTTP ハンドラーを返します。
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveClusteringRun は 1 回のクラスタリング実行結果を記録します。
func (m *Metrics) ObserveClusteringRun(duration time.Duration, cohortSize int, accuracy float64) {
	m.clusteringRuns.Inc()
	m.clusteringTime.Observe(duration.Seconds())
	m.cohortSize.Set(float64(cohortSize))
	m.modelAccuracy.Set(accuracy)
}

// ObserveClusteringError は失敗したクラスタリング実行を記録します。
func (m *Metrics) ObserveClusteringError() {
	m.clusteringErrors.Inc()
}

// Middleware はルート単位でリクエスト数と所要時間を記録する mux ミドルウェアです。
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}

		m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
