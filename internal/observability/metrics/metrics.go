package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// AgendaMetrics counts integration actions and outbound messages.
type AgendaMetrics struct {
	actionsTotal  *prometheus.CounterVec
	messagesTotal *prometheus.CounterVec
	actionLatency *prometheus.HistogramVec
}

func NewAgendaMetrics(reg prometheus.Registerer) *AgendaMetrics {
	m := &AgendaMetrics{
		actionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agenda",
			Name:      "actions_total",
			Help:      "Integration actions by outcome",
		}, []string{"action", "outcome"}),
		messagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agenda",
			Name:      "messages_total",
			Help:      "Outbound WhatsApp messages by kind and outcome",
		}, []string{"kind", "outcome"}),
		actionLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "agenda",
			Name:      "action_duration_seconds",
			Help:      "Latency of integration actions",
			Buckets:   prometheus.DefBuckets,
		}, []string{"action"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.actionsTotal, m.messagesTotal, m.actionLatency)
	return m
}

func (m *AgendaMetrics) ObserveAction(action, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.actionsTotal.WithLabelValues(action, outcome).Inc()
	m.actionLatency.WithLabelValues(action).Observe(seconds)
}

func (m *AgendaMetrics) ObserveMessage(kind, outcome string) {
	if m == nil {
		return
	}
	m.messagesTotal.WithLabelValues(kind, outcome).Inc()
}

// OutcomeForStatus buckets an HTTP status into an outcome label.
func OutcomeForStatus(status int) string {
	switch {
	case status >= 500:
		return OutcomeError
	case status >= 400:
		return OutcomeRejected
	default:
		return OutcomeOK
	}
}
