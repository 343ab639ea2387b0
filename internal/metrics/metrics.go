// Package metrics exposes Prometheus counters for the portal workflow.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// AuthorizationsTotal counts authorization attempts by role and final
	// outcome (success, soft_success, validation_failed, storage_failed).
	AuthorizationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_authorizations_total",
		Help: "Portal authorization attempts by role and outcome.",
	}, []string{"role", "outcome"})

	// ControllerErrorsTotal counts wireless-controller failures by kind
	// (auth, command, unreachable).
	ControllerErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_controller_errors_total",
		Help: "Wireless controller failures by kind.",
	}, []string{"kind"})
)

// Handler serves the default Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
