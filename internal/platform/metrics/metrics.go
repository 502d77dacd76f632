package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "kpiboard"

// Collector holds the service's Prometheus collectors.
type Collector struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	submissions     *prometheus.CounterVec
	queueSize       *prometheus.GaugeVec
}

// New registers the collectors on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route pattern, method and status code.",
		}, []string{"route", "method", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "evaluation",
			Name:      "submissions_total",
			Help:      "Evaluation submissions by stage and outcome.",
		}, []string{"type", "outcome"}),
		queueSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "queue_tasks",
			Help:      "Task count per dashboard queue in the most recently built dashboard.",
		}, []string{"queue"}),
	}
	reg.MustRegister(c.requests, c.requestDuration, c.submissions, c.queueSize)
	return c
}

func (c *Collector) Record(route, method string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	c.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

func (c *Collector) EvaluationSubmitted(evalType, outcome string) {
	c.submissions.WithLabelValues(evalType, outcome).Inc()
}

func (c *Collector) DashboardBuilt(queueSizes map[string]int) {
	for queue, n := range queueSizes {
		c.queueSize.WithLabelValues(queue).Set(float64(n))
	}
}
