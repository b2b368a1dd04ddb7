// Package metrics defines and registers all custom Prometheus metrics for the
// fasttrack auth service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics registered through promauto attach to the default registry, which
// the /metrics endpoint serves.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fasttrack"

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok" or "fail"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, labelled by result.",
	},
	[]string{"result"},
)

// SecretPhraseUpdatesTotal counts secret-phrase update attempts.
// Labels:
//   - channel: "rest" or "realtime"
//   - result: "ok" or "error"
var SecretPhraseUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "secret_phrase_updates_total",
		Help:      "Total number of secret-phrase update attempts, by channel and result.",
	},
	[]string{"channel", "result"},
)

// RealtimeClients tracks the number of currently connected realtime clients.
var RealtimeClients = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "realtime_clients",
		Help:      "Number of currently connected realtime clients.",
	},
)

// BroadcastsTotal counts messages fanned out to every connected client.
// Label:
//   - event: the broadcast event name (e.g. "secret-phrase-updated")
var BroadcastsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "broadcasts_total",
		Help:      "Total number of events broadcast to all connected clients.",
	},
	[]string{"event"},
)
