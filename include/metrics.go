package include

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/signadot/tony-include/doc"
)

const (
	outcomeHit      = "hit"
	outcomeResolved = "resolved"
	outcomeDetached = "detached"
)

var (
	resolutions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tinc",
		Subsystem: "include",
		Name:      "resolutions_total",
		Help:      "Original lookups by proxies, by outcome (hit, resolved, detached).",
	}, []string{"outcome"})

	created = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tinc",
		Subsystem: "include",
		Name:      "proxies_total",
		Help:      "Proxies created, by node kind.",
	}, []string{"kind"})
)

// RegisterMetrics registers the package's collectors with reg.
func RegisterMetrics(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{resolutions, created} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func countResolution(outcome string) {
	resolutions.WithLabelValues(outcome).Inc()
}

func countCreated(k doc.Kind) {
	created.WithLabelValues(k.String()).Inc()
}
