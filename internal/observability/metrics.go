package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SwipesTotal counts swipes by action (like, pass).
	SwipesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clique_swipes_total",
		Help: "Total number of swipes by action",
	}, []string{"action"})

	// MatchesTotal counts newly created matches.
	MatchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clique_matches_total",
		Help: "Total number of mutual matches created",
	})

	// SlotSelectionsTotal counts slot picks by outcome (selected, cleared).
	SlotSelectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clique_slot_selections_total",
		Help: "Total number of slot selections by outcome",
	}, []string{"outcome"})

	// AppointmentsConfirmedTotal counts selections that produced a confirmed appointment.
	AppointmentsConfirmedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clique_appointments_confirmed_total",
		Help: "Total number of selections that confirmed an appointment",
	})

	// MessagesTotal counts chat messages sent.
	MessagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clique_messages_total",
		Help: "Total number of chat messages sent",
	})

	// StoreOperations counts store operations by operation and result.
	StoreOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clique_store_operations_total",
		Help: "Total document store operations by operation and result",
	}, []string{"operation", "result"})

	// StoreLoadFallbacks counts loads that fell back to the default document.
	StoreLoadFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clique_store_load_fallbacks_total",
		Help: "Total number of loads that replaced an unreadable document with defaults",
	}, []string{"reason"})

	// RankingLatency records how long a discovery ranking takes.
	RankingLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "clique_ranking_latency_seconds",
		Help:    "Discovery ranking latency in seconds",
		Buckets: prometheus.DefBuckets,
	})

	// RedisErrors counts Redis errors by command.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "clique_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})
)

// RecordStoreOperation increments the store counter for op with the result
// derived from err.
func RecordStoreOperation(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	StoreOperations.WithLabelValues(operation, result).Inc()
}

// TrackRanking returns a function that records ranking latency when called (e.g. defer).
func TrackRanking() func() {
	start := time.Now()
	return func() {
		RankingLatency.Observe(time.Since(start).Seconds())
	}
}
