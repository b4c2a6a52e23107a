package tree

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("fabric.tree")

var (
	// commitTotal counts commits by outcome: committed, noop, not_found,
	// error or conflict.
	commitTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fabric_tree_commit_total",
		Help: "Total shadow tree commits by result",
	}, []string{"result"})

	// commitRetries counts lost compare-and-swap rounds.
	commitRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fabric_tree_commit_retries_total",
		Help: "Commit attempts retried after a concurrent commit won",
	})

	layoutDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fabric_tree_layout_duration_seconds",
		Help:    "Layout pass duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.00001, 2, 14), // 10us to ~80ms
	})

	affectedNodes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fabric_tree_affected_nodes",
		Help:    "Nodes with new layout metrics per commit",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100, 500},
	})
)
