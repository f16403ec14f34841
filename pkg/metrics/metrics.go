package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/blastarena/server/pkg/log"
)

// Bounded cardinality only: no per-room or per-player labels.
var (
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "game_tick_duration_seconds",
		Help:    "Time spent in one game loop tick across all rooms",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.033, 0.05, 0.1},
	})

	roomCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "game_room_count",
		Help: "Current number of rooms",
	})

	playerCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "game_player_count",
		Help: "Current number of players across all rooms",
	})

	intentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "game_intents_total",
		Help: "Intents processed by the game loop",
	}, []string{"type"}) // bounded: one value per message type

	intentsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "game_intents_rejected_total",
		Help: "Intents rejected by validation",
	}, []string{"type"})

	wsConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "websocket_connections_active",
		Help: "Currently active WebSocket connections",
	})

	snapshotsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "game_snapshots_sent_total",
		Help: "Full state snapshots sent to clients",
	})
)

// RecordTick records tick timing.
func RecordTick(duration time.Duration) {
	tickDuration.Observe(duration.Seconds())
}

// UpdateRoomCount updates the room gauge.
func UpdateRoomCount(count int) {
	roomCount.Set(float64(count))
}

// UpdatePlayerCount updates the player gauge.
func UpdatePlayerCount(count int) {
	playerCount.Set(float64(count))
}

// RecordIntent counts one processed intent.
func RecordIntent(msgType string) {
	intentsTotal.WithLabelValues(msgType).Inc()
}

// RecordIntentRejected counts one rejected intent.
func RecordIntentRejected(msgType string) {
	intentsRejected.WithLabelValues(msgType).Inc()
}

// UpdateWSConnections updates the connection gauge.
func UpdateWSConnections(count int) {
	wsConnectionsActive.Set(float64(count))
}

// RecordSnapshot counts one snapshot delivery.
func RecordSnapshot() {
	snapshotsTotal.Inc()
}

// StartDebugServer serves /metrics and pprof on a localhost-only
// listener. It must never be exposed externally.
func StartDebugServer(ctx context.Context, addr string) {
	mux := http.NewServeMux()

	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		server.Shutdown(ctx)
	}()

	log.Info("Debug server listening on %s", addr)
	if err := server.ListenAndServe(); err != nil {
		if errors.Is(err, http.ErrServerClosed) {
			return
		}
		log.Error("Debug server error: %v", err)
	}
}
