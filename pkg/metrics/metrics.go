// Package metrics instruments the address-space mutation core with
// Prometheus counters/gauges/histograms, grounded on the teacher's
// pkg/metrics/init_storage.go (one promauto.With(registry) gauge/counter
// family per storage concern) — generalized from "graph nodes/edges" to
// "address-space nodes/references".
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry bundles every metric the core reports, bound to its own
// prometheus.Registerer so multiple AddressSpace instances in a process
// (e.g. in tests) never collide on metric names.
type Registry struct {
	registry prometheus.Registerer

	NodesTotal              prometheus.Gauge
	ReferencesTotal         prometheus.Gauge
	MutationsTotal          *prometheus.CounterVec
	MutationDuration        *prometheus.HistogramVec
	InstantiationChildren   prometheus.Histogram
}

// NewRegistry creates a Registry bound to the given Registerer (pass
// prometheus.NewRegistry() in tests to avoid the global default registry).
func NewRegistry(reg prometheus.Registerer) *Registry {
	r := &Registry{registry: reg}
	r.init()
	return r
}

func (r *Registry) init() {
	r.NodesTotal = promauto.With(r.registry).NewGauge(prometheus.GaugeOpts{
		Name: "addrspace_nodes_total",
		Help: "Total number of nodes in the address space.",
	})

	r.ReferencesTotal = promauto.With(r.registry).NewGauge(prometheus.GaugeOpts{
		Name: "addrspace_references_total",
		Help: "Total number of reference entries across all nodes.",
	})

	r.MutationsTotal = promauto.With(r.registry).NewCounterVec(prometheus.CounterOpts{
		Name: "addrspace_mutations_total",
		Help: "Total number of address-space mutation calls.",
	}, []string{"operation", "status"})

	r.MutationDuration = promauto.With(r.registry).NewHistogramVec(prometheus.HistogramOpts{
		Name:    "addrspace_mutation_duration_seconds",
		Help:    "Address-space mutation duration in seconds.",
		Buckets: []float64{0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	}, []string{"operation"})

	r.InstantiationChildren = promauto.With(r.registry).NewHistogram(prometheus.HistogramOpts{
		Name:    "addrspace_instantiation_children_copied",
		Help:    "Number of aggregated children copied per instantiation.",
		Buckets: prometheus.LinearBuckets(0, 2, 10),
	})
}
