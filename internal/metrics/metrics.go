// Package metrics provides Prometheus instrumentation for the bot. It
// exposes counters for matches and relayed messages, gauges for queue depth
// and active chats, and a histogram for relay latency.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// MatchesTotal counts successful pairings.
	MatchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "randompartner_matches_total",
		Help: "Total number of successful pairings",
	})

	// RelaysTotal counts relay outcomes, labeled by result: "sent",
	// "blocked" (content policy), or "failed" (delivery error).
	RelaysTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "randompartner_relays_total",
		Help: "Total number of relay attempts by outcome",
	}, []string{"result"})

	// RelayLatency records end-to-end relay processing latency in seconds.
	RelayLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "randompartner_relay_latency_seconds",
		Help:    "Relay processing latency in seconds",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	})

	// WaitingQueueSize tracks the current waiting-queue depth.
	WaitingQueueSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "randompartner_waiting_queue_size",
		Help: "Current number of users in the waiting queue",
	})

	// ActiveChats tracks the current number of active pairs.
	ActiveChats = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "randompartner_active_chats",
		Help: "Current number of active chat pairs",
	})

	// GlobalBansTotal counts bans applied through any path (admin command
	// or the operator moderation feed).
	GlobalBansTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "randompartner_global_bans_total",
		Help: "Total number of global bans applied",
	})
)

func init() {
	prometheus.MustRegister(
		MatchesTotal,
		RelaysTotal,
		RelayLatency,
		WaitingQueueSize,
		ActiveChats,
		GlobalBansTotal,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
