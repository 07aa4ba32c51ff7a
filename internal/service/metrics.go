package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// estimatesTotal counts estimation runs.
	// Labels: network, status (ok, invalid, error)
	estimatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "currency",
		Subsystem: "estimate",
		Name:      "runs_total",
		Help:      "Total estimation runs",
	}, []string{"network", "status"})

	// estimateDuration measures network construction plus the run.
	estimateDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "currency",
		Subsystem: "estimate",
		Name:      "duration_seconds",
		Help:      "Estimation run latency in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 9),
	}, []string{"network"})

	// estimateSteps tracks the length of the time axis per run.
	estimateSteps = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "currency",
		Subsystem: "estimate",
		Name:      "time_steps",
		Help:      "Time steps per estimation run",
		Buckets:   prometheus.ExponentialBuckets(1, 10, 7),
	})
)
