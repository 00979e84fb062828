package whatsapp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/agenda-api/internal/logging"
	"github.com/BruksfildServices01/agenda-api/internal/models"
	"github.com/BruksfildServices01/agenda-api/internal/observability/metrics"
)

func TestClient_SendText(t *testing.T) {
	var got sendTextRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/message/sendText/barbearia-centro", r.URL.Path)
		assert.Equal(t, "secret-key", r.Header.Get("apikey"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	err = c.SendText(context.Background(), "barbearia-centro", "secret-key", "5565999891722", "Olá")
	require.NoError(t, err)
	assert.Equal(t, "5565999891722", got.Number)
	assert.Equal(t, "Olá", got.Text)
}

func TestClient_SendText_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid apikey"}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	err = c.SendText(context.Background(), "inst", "bad", "5565999891722", "Olá")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
	assert.Contains(t, se.Body, "invalid apikey")
}

func TestClient_RequiresCredentials(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)

	c, err := NewClient(Config{BaseURL: "http://localhost"})
	require.NoError(t, err)
	assert.Error(t, c.SendText(context.Background(), "", "key", "55", "x"))
	assert.Error(t, c.SendText(context.Background(), "inst", "key", "", "x"))
}

type recordingSender struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (s *recordingSender) SendText(_ context.Context, _, _, number, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, number)
	return s.err
}

func TestDispatcher_DeliversQueuedMessages(t *testing.T) {
	sender := &recordingSender{}
	d := NewDispatcher(sender, logging.Discard(), metrics.NewAgendaMetrics(prometheus.NewRegistry()), DispatcherConfig{Workers: 3})

	for i := 0; i < 10; i++ {
		assert.True(t, d.Notify(Message{Kind: KindConfirmation, Number: "5565999891722"}))
	}
	d.Close()

	assert.Len(t, sender.sent, 10)
}

func TestDispatcher_FailuresAreSwallowed(t *testing.T) {
	sender := &recordingSender{err: errors.New("gateway down")}
	d := NewDispatcher(sender, logging.Discard(), nil, DispatcherConfig{Workers: 1})

	assert.True(t, d.Notify(Message{Kind: KindReminder, AppointmentID: uuid.New(), Number: "1"}))
	d.Close()

	assert.Len(t, sender.sent, 1)
}

type blockingSender struct{ release chan struct{} }

func (s *blockingSender) SendText(context.Context, string, string, string, string) error {
	<-s.release
	return nil
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	sender := &blockingSender{release: make(chan struct{})}
	d := NewDispatcher(sender, logging.Discard(), nil, DispatcherConfig{Workers: 1, QueueSize: 1})

	dropped := 0
	for i := 0; i < 5; i++ {
		if !d.Notify(Message{Kind: KindConfirmation}) {
			dropped++
		}
	}
	assert.GreaterOrEqual(t, dropped, 3)

	close(sender.release)
	d.Close()
}

func TestConfirmationText(t *testing.T) {
	start := time.Date(2025, 6, 10, 17, 0, 0, 0, time.UTC)
	text := ConfirmationText("João", start, "America/Sao_Paulo", "Corte", "Carlos", 45)

	assert.Contains(t, text, "Olá João!")
	assert.Contains(t, text, "10/06/2025 14:00")
	assert.Contains(t, text, "*Serviço:* Corte")
	assert.Contains(t, text, "*Profissional:* Carlos")
	assert.Contains(t, text, "R$ 45.00")
}

func TestReminderText(t *testing.T) {
	ap := &models.Appointment{
		ClientName: "Maria",
		StartTime:  time.Date(2025, 6, 10, 13, 30, 0, 0, time.UTC),
		Service:    models.Service{Name: "Barba"},
		Barber:     models.Barber{Name: "Ana"},
	}

	custom := ReminderText("{nome}, {servico} com {profissional} em {data} às {hora}", ap, "America/Manaus")
	assert.Equal(t, "Maria, Barba com Ana em 10/06/2025 às 09:30", custom)

	def := ReminderText("", ap, "America/Sao_Paulo")
	assert.Contains(t, def, "Olá Maria!")
	assert.Contains(t, def, "10:30")
	assert.Contains(t, def, "SIM")
}
