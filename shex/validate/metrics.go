package validate

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mStepsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shex_validate_steps_total",
		Help: "Number of obligation-resolution steps taken across all validation runs.",
	})

	mObligationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shex_validate_obligations_total",
		Help: "Number of (node, shape) obligations resolved, by outcome.",
	}, []string{"status"})

	mQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "shex_validate_queue_depth",
		Help: "Number of obligations currently in progress on the resolution stack.",
	})

	mBloomHit = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shex_obligation_bloom_hits_total",
		Help: "Number of times the obligation bloom filter ruled out a re-check before the exact result map lookup.",
	})
	mBloomMiss = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shex_obligation_bloom_miss_total",
		Help: "Number of times the obligation bloom filter could not rule out a re-check.",
	})

	mSourceCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shex_rdf_source_calls_total",
		Help: "Number of calls made to the rdf.Source, by method.",
	}, []string{"method"})
)

func recordStatus(s Status) {
	mObligationsTotal.WithLabelValues(s.String()).Inc()
}
