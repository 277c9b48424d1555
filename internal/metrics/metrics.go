package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rcdyn_http_requests_total",
			Help: "HTTP requests served, by route and status code.",
		},
		[]string{"route", "status"},
	)
	analysisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rcdyn_analysis_duration_seconds",
			Help:    "Wall time of one analysis call, by kind.",
			Buckets: prometheus.ExponentialBuckets(1e-5, 4, 10),
		},
		[]string{"kind"},
	)
	breathingZetaGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rcdyn_breathing_mode_zeta",
			Help: "Net damping ratio of the breathing mode in the most recent analysis, by environment.",
		},
		[]string{"environment"},
	)
	sweepCrossingsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "rcdyn_sweep_boundary_crossings",
		Help: "Stability boundary crossings found by the most recent sweep.",
	})
)

func init() {
	prometheus.MustRegister(requestsTotal, analysisDuration, breathingZetaGauge, sweepCrossingsGauge)
}

func ObserveRequest(route string, status int) {
	requestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

func ObserveAnalysis(kind string, elapsed time.Duration) {
	analysisDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

func SetBreathingZeta(environment string, zeta float64) {
	breathingZetaGauge.WithLabelValues(environment).Set(zeta)
}

func SetSweepCrossings(n int) {
	sweepCrossingsGauge.Set(float64(n))
}
