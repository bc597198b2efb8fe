package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsBuiltins(t *testing.T) {
	m := NewMetrics(Config{
		Address:     ":0",
		ServiceName: "payments-consumer",
	})

	m.IncrementMessages("payments", "success")
	m.IncrementMessages("payments", "success")
	m.IncrementMessages("payments", "error")
	m.RecordDeserializeDuration(time.Now().Add(-10*time.Millisecond), "payments")
	m.SetSchemaCacheSize(42, "value")

	recorder := httptest.NewRecorder()
	m.Server.Handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	body := recorder.Body.String()
	assert.Contains(t, body, `messages_deserialized_total{service="payments-consumer",status="success",topic="payments"} 2`)
	assert.Contains(t, body, `messages_deserialized_total{service="payments-consumer",status="error",topic="payments"} 1`)
	assert.Contains(t, body, `schema_cache_entries{cache="value",service="payments-consumer"} 42`)
	assert.Contains(t, body, "deserialize_duration_seconds_count")
}

func TestNewMetricsDefaultCollectors(t *testing.T) {
	m := NewMetrics(Config{
		Address:                 ":0",
		ServiceName:             "payments-consumer",
		EnableDefaultCollectors: true,
	})

	families, err := m.Registry.Gather()
	require.NoError(t, err)

	var haveGoInfo bool
	for _, family := range families {
		if family.GetName() == "go_info" {
			haveGoInfo = true
		}
	}
	assert.True(t, haveGoInfo, "default collectors should expose go_info")
}

func TestCreateCustomMetrics(t *testing.T) {
	m := NewMetrics(Config{Address: ":0", ServiceName: "svc"})

	counter := m.CreateCounter("custom_events_total", "Custom events", []string{"kind"})
	counter.WithLabelValues("replay").Inc()

	hist := m.CreateHistogram("custom_latency_seconds", "Custom latency", []string{"kind"}, prometheus.DefBuckets)
	hist.WithLabelValues("replay").Observe(0.05)

	gauge := m.CreateGauge("custom_backlog", "Custom backlog", []string{"kind"})
	gauge.WithLabelValues("replay").Set(3)

	families, err := m.Registry.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, family := range families {
		names[family.GetName()] = true
	}
	assert.True(t, names["custom_events_total"])
	assert.True(t, names["custom_latency_seconds"])
	assert.True(t, names["custom_backlog"])
}
