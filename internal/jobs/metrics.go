// Package jobmetrics instruments the catalog background jobs.
package jobmetrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	statusSuccess = "success"
	statusFailure = "failure"
)

// Metrics holds the job collectors.
type Metrics struct {
	runs        *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	lastSuccess *prometheus.GaugeVec
	warmed      prometheus.Counter
}

var (
	processOnce    sync.Once
	processMetrics *Metrics
)

// NewMetrics registers the job collectors on registerer. A nil registerer
// shares one set registered on the default Prometheus registry.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer != nil {
		return register(registerer)
	}
	processOnce.Do(func() {
		processMetrics = register(prometheus.DefaultRegisterer)
	})
	return processMetrics
}

func register(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalogo_jobs_total",
			Help: "Job runs by task type and status.",
		}, []string{"job", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "catalogo_job_duration_seconds",
			Help:    "Job run duration by task type.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"job"}),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "catalogo_job_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run by task type.",
		}, []string{"job"}),
		warmed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalogo_warmup_items_total",
			Help: "Catalog items loaded into the search cache by warmup runs.",
		}),
	}
	registerer.MustRegister(m.runs, m.duration, m.lastSuccess, m.warmed)
	return m
}

// Tracker times one job run.
type Tracker struct {
	metrics *Metrics
	job     string
	start   time.Time
	now     func() time.Time
}

// Track starts timing a run of job.
func (m *Metrics) Track(job string) *Tracker {
	return &Tracker{metrics: m, job: job, start: time.Now(), now: time.Now}
}

// End records the outcome of the run and returns err unchanged.
func (t *Tracker) End(err error) error {
	if t == nil || t.metrics == nil {
		return err
	}
	now := t.now()
	status := statusSuccess
	if err != nil {
		status = statusFailure
	} else {
		t.metrics.lastSuccess.WithLabelValues(t.job).Set(float64(now.Unix()))
	}
	t.metrics.runs.WithLabelValues(t.job, status).Inc()
	t.metrics.duration.WithLabelValues(t.job).Observe(now.Sub(t.start).Seconds())
	return err
}

// AddWarmedItems counts items a warmup run loaded into the cache.
func (m *Metrics) AddWarmedItems(count int) {
	if m == nil || count <= 0 {
		return
	}
	m.warmed.Add(float64(count))
}
