package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the game's Prometheus collectors.
type Metrics struct {
	TurnsResolved      prometheus.Counter
	Actions            *prometheus.CounterVec
	DiceChecks         *prometheus.CounterVec
	NarrationFallbacks prometheus.Counter
	SessionsActive     prometheus.Gauge
	GamesFinished      *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// NewMetrics registers the game collectors, plus Go runtime and process
// collectors, on a fresh registry.
//
// Postcondition: Returns Metrics whose Handler exposes every collector.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return newMetrics(reg, reg)
}

func newMetrics(reg prometheus.Registerer, g prometheus.Gatherer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		TurnsResolved: f.NewCounter(prometheus.CounterOpts{
			Name: "mazmorra_turns_resolved_total",
			Help: "Total number of resolved turns.",
		}),
		Actions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mazmorra_actions_total",
			Help: "Total number of processed player actions by intent.",
		}, []string{"intent"}),
		DiceChecks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mazmorra_dice_checks_total",
			Help: "Total number of dice checks by result.",
		}, []string{"result"}),
		NarrationFallbacks: f.NewCounter(prometheus.CounterOpts{
			Name: "mazmorra_narration_fallbacks_total",
			Help: "Total number of turns narrated with raw fact lines after a narrator failure.",
		}),
		SessionsActive: f.NewGauge(prometheus.GaugeOpts{
			Name: "mazmorra_sessions_active",
			Help: "Number of sessions currently held in memory.",
		}),
		GamesFinished: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mazmorra_games_finished_total",
			Help: "Total number of finished games by terminal status.",
		}, []string{"status"}),
		gatherer: g,
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveDiceCheck counts one check as "success" or "failure".
func (m *Metrics) ObserveDiceCheck(success bool) {
	if success {
		m.DiceChecks.WithLabelValues("success").Inc()
		return
	}
	m.DiceChecks.WithLabelValues("failure").Inc()
}
