package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/abhisek/metrofocus/internal/game"
)

// Recorder holds the session and ledger collectors. It satisfies both
// session.Metrics and ledger.Metrics.
type Recorder struct {
	sessionsStarted   *prometheus.CounterVec
	sessionsCompleted *prometheus.CounterVec
	sessionsAbandoned *prometheus.CounterVec
	currencyEarned    prometheus.Counter
	purchases         *prometheus.CounterVec
	balance           prometheus.Gauge
	focusMinutes      prometheus.Gauge
}

// NewRecorder creates the collectors and registers them with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		sessionsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "metrofocus_sessions_started_total",
			Help: "Sessions started, by kind. Each case stage counts once.",
		}, []string{"kind"}),
		sessionsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "metrofocus_sessions_completed_total",
			Help: "Sessions whose countdown reached zero, by kind.",
		}, []string{"kind"}),
		sessionsAbandoned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "metrofocus_sessions_abandoned_total",
			Help: "Sessions abandoned or replaced before completion, by kind.",
		}, []string{"kind"}),
		currencyEarned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "metrofocus_currency_earned_total",
			Help: "Currency credited to the player.",
		}),
		purchases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "metrofocus_purchases_total",
			Help: "Furniture purchases, by item.",
		}, []string{"item"}),
		balance: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "metrofocus_currency_balance",
			Help: "Current currency balance.",
		}),
		focusMinutes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "metrofocus_total_focus_minutes",
			Help: "Lifetime focus minutes.",
		}),
	}
	reg.MustRegister(
		r.sessionsStarted,
		r.sessionsCompleted,
		r.sessionsAbandoned,
		r.currencyEarned,
		r.purchases,
		r.balance,
		r.focusMinutes,
	)
	return r
}

func (r *Recorder) SessionStarted(kind game.Kind) {
	r.sessionsStarted.WithLabelValues(string(kind)).Inc()
}

func (r *Recorder) SessionCompleted(kind game.Kind) {
	r.sessionsCompleted.WithLabelValues(string(kind)).Inc()
}

func (r *Recorder) SessionAbandoned(kind game.Kind) {
	r.sessionsAbandoned.WithLabelValues(string(kind)).Inc()
}

func (r *Recorder) CurrencyEarned(amount int) {
	r.currencyEarned.Add(float64(amount))
}

func (r *Recorder) ItemPurchased(item game.ItemID) {
	r.purchases.WithLabelValues(string(item)).Inc()
}

func (r *Recorder) PlayerUpdated(state game.PlayerState) {
	r.balance.Set(float64(state.Currency))
	r.focusMinutes.Set(float64(state.TotalFocusMinutes))
}
