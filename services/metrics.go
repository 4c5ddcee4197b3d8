// services/metrics.go - Prometheus instrumentation for the event service
package services

import (
	"github.com/prometheus/client_golang/prometheus"

	"triotag/models"
)

// Metrics groups the collectors updated by EventService. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	rosterUploads   prometheus.Counter
	generations     *prometheus.CounterVec
	timesRecorded   prometheus.Counter
	rejected        *prometheus.CounterVec
	leaderboardRead prometheus.Counter
	participants    prometheus.Gauge
	teams           prometheus.Gauge
	splitTimes      prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		rosterUploads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "triotag",
			Name:      "roster_uploads_total",
			Help:      "Accepted roster uploads.",
		}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "triotag",
			Name:      "team_generations_total",
			Help:      "Team generation runs by mode.",
		}, []string{"mode"}),
		timesRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "triotag",
			Name:      "split_times_recorded_total",
			Help:      "Split times written to the ledger, overwrites included.",
		}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "triotag",
			Name:      "operations_rejected_total",
			Help:      "Mutating operations rejected, by operation and error kind.",
		}, []string{"operation", "kind"}),
		leaderboardRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "triotag",
			Name:      "leaderboard_reads_total",
			Help:      "Leaderboard computations served.",
		}),
		participants: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "triotag",
			Name:      "participants",
			Help:      "Participants in the current roster.",
		}),
		teams: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "triotag",
			Name:      "teams",
			Help:      "Teams in the current generation.",
		}),
		splitTimes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "triotag",
			Name:      "split_times",
			Help:      "Split times currently held in the ledger.",
		}),
	}
	reg.MustRegister(
		m.rosterUploads, m.generations, m.timesRecorded, m.rejected,
		m.leaderboardRead, m.participants, m.teams, m.splitTimes,
	)
	return m
}

func (m *Metrics) observeState(s *EventState) {
	if m == nil {
		return
	}
	m.participants.Set(float64(len(s.Roster)))
	m.teams.Set(float64(models.CountTeams(s.Waves)))
	m.splitTimes.Set(float64(s.Ledger.Count()))
}

func (m *Metrics) rosterUploaded() {
	if m != nil {
		m.rosterUploads.Inc()
	}
}

func (m *Metrics) generated(mode GenerationMode) {
	if m != nil {
		m.generations.WithLabelValues(string(mode)).Inc()
	}
}

func (m *Metrics) timeRecorded() {
	if m != nil {
		m.timesRecorded.Inc()
	}
}

func (m *Metrics) leaderboardServed() {
	if m != nil {
		m.leaderboardRead.Inc()
	}
}

func (m *Metrics) rejectedOp(op string, err error) {
	if m == nil {
		return
	}
	kind := kindOf(err)
	label := "internal"
	if kind != 0 {
		label = kind.String()
	}
	m.rejected.WithLabelValues(op, label).Inc()
}
