// Package metrics holds the Prometheus collectors of the client.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

var collectors = []prometheus.Collector{
	RequestCount,
	RequestDuration,
	FetchAttempts,
	FetchFailures,
	ResourceStates,
	PushedTransactions,
}

// Register registers all collectors with the default registry.
func Register() error {
	for _, c := range collectors {
		if err := prometheus.Register(c); err != nil {
			return fmt.Errorf("could not register %s with Prometheus: %w", c, err)
		}
	}

	return nil
}

// Unregister unregisters all collectors.
//
// This is needed to cleanly exit and to register again in tests.
func Unregister() bool {
	for _, c := range collectors {
		if ok := prometheus.Unregister(c); !ok {
			return false
		}
	}

	return true
}

var RequestCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "requests_total",
		Help: "How many HTTP requests the local API processed, partitioned by status code and HTTP method.",
	},
	[]string{"code", "method", "url"},
)

var RequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name: "request_duration_seconds",
		Help: "The local API HTTP request latencies in seconds.",
	},
	[]string{"code", "method", "url"},
)

var FetchAttempts = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "remote_attempts_total",
		Help: "How many times a remote operation was attempted, partitioned by operation and whether it was a retry.",
	},
	[]string{"operation", "retry"},
)

var FetchFailures = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "remote_failures_total",
		Help: "How many remote operations finally failed, partitioned by operation and failure kind.",
	},
	[]string{"operation", "kind"},
)

var ResourceStates = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "resource_states_total",
		Help: "How many resource states were emitted to subscribers, partitioned by resource and state.",
	},
	[]string{"resource", "state"},
)

var PushedTransactions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "pushed_transactions_total",
		Help: "How many unsynced transactions a push pass handled, partitioned by outcome.",
	},
	[]string{"outcome"},
)
