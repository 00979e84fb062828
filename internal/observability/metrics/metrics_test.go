package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestAgendaMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAgendaMetrics(reg)

	m.ObserveAction("create", OutcomeOK, 0.02)
	m.ObserveAction("create", OutcomeOK, 0.03)
	m.ObserveAction("cancel", OutcomeRejected, 0.01)
	m.ObserveMessage("confirmation", OutcomeError)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.actionsTotal.WithLabelValues("create", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.actionsTotal.WithLabelValues("cancel", OutcomeRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.messagesTotal.WithLabelValues("confirmation", OutcomeError)))
}

func TestAgendaMetricsNilSafe(t *testing.T) {
	var m *AgendaMetrics
	m.ObserveAction("check", OutcomeOK, 0.1)
	m.ObserveMessage("reminder", OutcomeOK)
}

func TestOutcomeForStatus(t *testing.T) {
	assert.Equal(t, OutcomeOK, OutcomeForStatus(200))
	assert.Equal(t, OutcomeRejected, OutcomeForStatus(409))
	assert.Equal(t, OutcomeError, OutcomeForStatus(500))
}
