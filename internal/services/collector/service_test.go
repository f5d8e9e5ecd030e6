package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dhieaaldin/backend/internal/agro"
	"github.com/Dhieaaldin/backend/internal/model/entities"
	"github.com/Dhieaaldin/backend/pkg/mqttbus"
)

type fakeMessage struct {
	topic   string
	payload []byte
}

func (m *fakeMessage) Duplicate() bool   { return false }
func (m *fakeMessage) Qos() byte         { return 0 }
func (m *fakeMessage) Retained() bool    { return false }
func (m *fakeMessage) Topic() string     { return m.topic }
func (m *fakeMessage) MessageID() uint16 { return 0 }
func (m *fakeMessage) Payload() []byte   { return m.payload }
func (m *fakeMessage) Ack()              {}

var _ mqtt.Message = (*fakeMessage)(nil)

type fakeConsumer struct {
	handler mqttbus.Handler
}

func (c *fakeConsumer) ConsumeMessage(_ context.Context) {}
func (c *fakeConsumer) SetHandler(h mqttbus.Handler)     { c.handler = h }

type fakePublisher struct {
	mu   sync.Mutex
	sent map[string][]string // topic -> payloads
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{sent: make(map[string][]string)}
}

func (p *fakePublisher) Publish(payload string) error {
	return p.PublishToQos("", 0, false, payload)
}

func (p *fakePublisher) PublishToQos(topic string, _ byte, _ bool, payload string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent[topic] = append(p.sent[topic], payload)
	return nil
}

func (p *fakePublisher) Close() {}

func rawWeatherJSON(plotID string, day time.Time, tmin, tmax, rain float64) []byte {
	return []byte(fmt.Sprintf(
		`{"plot_id":%q,"timestamp":%q,"temp_min":%g,"temp_max":%g,"humidity":60,"wind_speed":3,"wind_height_m":10,"solar_radiation":20,"precipitation":%g}`,
		plotID, day.Format(time.RFC3339), tmin, tmax, rain))
}

func newTestService(t *testing.T) (*Service, *fakePublisher) {
	t.Helper()
	pub := newFakePublisher()
	metrics := NewMetrics(prometheus.NewRegistry())
	svc := NewService(&fakeConsumer{}, pub, agro.DefaultConfig(), metrics, time.Minute)
	return svc, pub
}

func TestCollectorRollup(t *testing.T) {
	svc, pub := newTestService(t)
	day := time.Date(2026, 6, 21, 0, 0, 0, 0, time.UTC)

	for i, tc := range []struct{ tmin, tmax, rain float64 }{
		{16, 24, 1},
		{14, 29, 0},
		{15, 27, 2},
	} {
		msg := &fakeMessage{
			topic:   "sensor/weather/plot-1",
			payload: rawWeatherJSON("plot-1", day.Add(time.Duration(i)*time.Hour), tc.tmin, tc.tmax, tc.rain),
		}
		require.NoError(t, svc.handleReading(msg.topic, msg))
	}

	ndviPayload := []byte(`{"plot_id":"plot-1","timestamp":"2026-06-21T10:00:00Z","ndvi":0.6}`)
	require.NoError(t, svc.handleReading("sensor/ndvi/plot-1", &fakeMessage{topic: "sensor/ndvi/plot-1", payload: ndviPayload}))

	svc.flush()

	t.Run("weather aggregate", func(t *testing.T) {
		payloads := pub.sent["sensor/aggregated/plot-1"]
		require.Len(t, payloads, 1)
		var daily entities.WeatherObservation
		require.NoError(t, json.Unmarshal([]byte(payloads[0]), &daily))
		assert.True(t, daily.Aggregated)
		assert.Equal(t, 14.0, daily.TempMinC)
		assert.Equal(t, 29.0, daily.TempMaxC)
		assert.InDelta(t, 3.0, daily.PrecipitationMM, 1e-9)
	})

	t.Run("ndvi daily mean", func(t *testing.T) {
		payloads := pub.sent["sensor/ndvi-daily/plot-1"]
		require.Len(t, payloads, 1)
		var daily entities.NDVIObservation
		require.NoError(t, json.Unmarshal([]byte(payloads[0]), &daily))
		assert.InDelta(t, 0.6, daily.Value, 1e-9)
	})

	t.Run("buffers reset after the flush", func(t *testing.T) {
		svc.flush()
		assert.Len(t, pub.sent["sensor/aggregated/plot-1"], 1)
	})
}

func TestCollectorRejectsInvalidReadings(t *testing.T) {
	svc, pub := newTestService(t)
	day := time.Date(2026, 6, 21, 0, 0, 0, 0, time.UTC)

	// temp_max below temp_min never reaches the buffer.
	bad := &fakeMessage{topic: "sensor/weather/plot-1", payload: rawWeatherJSON("plot-1", day, 25, 10, 0)}
	require.NoError(t, svc.handleReading(bad.topic, bad))

	// NDVI out of range.
	require.NoError(t, svc.handleReading("sensor/ndvi/plot-1",
		&fakeMessage{topic: "sensor/ndvi/plot-1", payload: []byte(`{"plot_id":"plot-1","timestamp":"2026-06-21T10:00:00Z","ndvi":1.7}`)}))

	svc.flush()
	assert.Empty(t, pub.sent)
}
