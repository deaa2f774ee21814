package directory

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// The fail-open listing policy means "could not load clients" and "no clients
// yet" render identically; these counters are where the difference survives.
var (
	listFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "paneld_directory_list_failures_total",
		Help: "Client listing failures degraded to an empty result, by cause.",
	}, []string{"cause"})

	createFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "paneld_directory_create_failures_total",
		Help: "Client creation failures other than validation and auth.",
	})
)
