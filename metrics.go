package lamportmt

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collectors for the expensive and the security relevant operations.
type collectors struct {
	treeBuilds       *prometheus.CounterVec
	treeBuildSeconds prometheus.Histogram
	signatures       *prometheus.CounterVec
	verifications    *prometheus.CounterVec
}

var metrics = newCollectors()

func newCollectors() *collectors {
	return &collectors{
		treeBuilds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lamportmt_tree_builds_total",
				Help: "Number of Merkle trees generated from a private key",
			},
			[]string{"type"},
		),
		treeBuildSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "lamportmt_tree_build_seconds",
				Help:    "Time spent generating a Merkle tree",
				Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
			},
		),
		signatures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lamportmt_signatures_total",
				Help: "Number of signatures created",
			},
			[]string{"type"},
		),
		verifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lamportmt_verifications_total",
				Help: "Number of signatures verified, by result",
			},
			[]string{"result"},
		),
	}
}

// Registers the collectors of this package with the given registry.
func RegisterMetrics(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		metrics.treeBuilds,
		metrics.treeBuildSeconds,
		metrics.signatures,
		metrics.verifications,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Records the outcome of a verification.
func observeVerification(ok bool) {
	if ok {
		metrics.verifications.WithLabelValues("valid").Inc()
	} else {
		metrics.verifications.WithLabelValues("invalid").Inc()
	}
}
