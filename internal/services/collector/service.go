// Package collector turns raw sensor readings into canonical daily
// observations: every reading is validated on receipt, buffered per
// plot, and rolled up on the aggregation tick.
package collector

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/Dhieaaldin/backend/internal/agro"
	"github.com/Dhieaaldin/backend/internal/model"
	"github.com/Dhieaaldin/backend/internal/model/entities"
	"github.com/Dhieaaldin/backend/pkg/mqttbus"
)

const (
	aggregatedTopicTmpl = "sensor/aggregated/{plot}"
	ndviDailyTopicTmpl  = "sensor/ndvi-daily/{plot}"
)

type Service struct {
	consumer  mqttbus.IConsumer[model.RawWeatherReading]
	publisher mqttbus.IPublisher
	weather   *agro.WeatherAggregator
	ndvi      *agro.NDVIProcessor
	metrics   *Metrics
	interval  time.Duration

	mu         sync.Mutex
	weatherBuf map[string][]entities.WeatherObservation
	ndviBuf    map[string][]entities.NDVIObservation
}

func NewService(
	consumer mqttbus.IConsumer[model.RawWeatherReading],
	publisher mqttbus.IPublisher,
	cfg agro.Config,
	metrics *Metrics,
	interval time.Duration,
) *Service {
	s := &Service{
		consumer:   consumer,
		publisher:  publisher,
		weather:    agro.NewWeatherAggregator(),
		ndvi:       agro.NewNDVIProcessor(cfg),
		metrics:    metrics,
		interval:   interval,
		weatherBuf: make(map[string][]entities.WeatherObservation),
		ndviBuf:    make(map[string][]entities.NDVIObservation),
	}
	consumer.SetHandler(s.handleReading)
	return s
}

func (s *Service) Start(ctx context.Context) {
	go s.consumer.ConsumeMessage(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.publisher.Close()
			return
		case <-ticker.C:
			s.flush()
		}
	}
}

// handleReading validates a raw reading and buffers it. Invalid input
// is counted and logged, never forwarded; a bad reading must not poison
// the daily aggregate.
func (s *Service) handleReading(topic string, msg mqtt.Message) error {
	switch {
	case strings.HasPrefix(topic, "sensor/weather/"):
		return s.handleWeather(msg.Payload())
	case strings.HasPrefix(topic, "sensor/ndvi/"):
		return s.handleNDVI(msg.Payload())
	default:
		return nil
	}
}

func (s *Service) handleWeather(payload []byte) error {
	s.metrics.ReadingsConsumed.WithLabelValues("weather").Inc()

	var raw model.RawWeatherReading
	if err := json.Unmarshal(payload, &raw); err != nil {
		s.metrics.ReadingsRejected.WithLabelValues("weather", "payload").Inc()
		log.Printf("collector: bad weather payload: %v", err)
		return nil
	}

	obs, err := s.weather.Normalize(raw)
	if err != nil {
		s.reject("weather", err)
		return nil
	}

	s.mu.Lock()
	s.weatherBuf[obs.PlotID] = append(s.weatherBuf[obs.PlotID], obs)
	s.mu.Unlock()
	return nil
}

func (s *Service) handleNDVI(payload []byte) error {
	s.metrics.ReadingsConsumed.WithLabelValues("ndvi").Inc()

	var raw model.RawNDVIReading
	if err := json.Unmarshal(payload, &raw); err != nil {
		s.metrics.ReadingsRejected.WithLabelValues("ndvi", "payload").Inc()
		log.Printf("collector: bad ndvi payload: %v", err)
		return nil
	}

	obs, err := s.ndvi.Normalize(raw)
	if err != nil {
		s.reject("ndvi", err)
		return nil
	}

	s.mu.Lock()
	s.ndviBuf[obs.PlotID] = append(s.ndviBuf[obs.PlotID], obs)
	s.mu.Unlock()
	return nil
}

func (s *Service) reject(kind string, err error) {
	field := "unknown"
	var verr *agro.ValidationError
	if errors.As(err, &verr) {
		field = verr.Field
	}
	s.metrics.ReadingsRejected.WithLabelValues(kind, field).Inc()
	log.Printf("collector: rejected %s reading: %v", kind, err)
}

// flush publishes one daily aggregate per buffered plot and resets the
// buffers.
func (s *Service) flush() {
	s.mu.Lock()
	weather := s.weatherBuf
	ndvi := s.ndviBuf
	s.weatherBuf = make(map[string][]entities.WeatherObservation)
	s.ndviBuf = make(map[string][]entities.NDVIObservation)
	s.mu.Unlock()

	for plotID, obs := range weather {
		daily, err := s.weather.Daily(obs)
		if err != nil {
			log.Printf("collector: daily rollup for %s: %v", plotID, err)
			continue
		}
		s.publish(topicFor(aggregatedTopicTmpl, plotID), daily)
	}

	for plotID, obs := range ndvi {
		mean := meanNDVI(obs)
		s.publish(topicFor(ndviDailyTopicTmpl, plotID), mean)
	}
}

func meanNDVI(obs []entities.NDVIObservation) entities.NDVIObservation {
	out := obs[0]
	sum := 0.0
	for _, o := range obs {
		sum += o.Value
		if o.Date.After(out.Date) {
			out.Date = o.Date
		}
	}
	out.Value = sum / float64(len(obs))
	return out
}

func (s *Service) publish(topic string, payload any) {
	b, err := json.Marshal(payload)
	if err != nil {
		log.Printf("collector: marshal for %s: %v", topic, err)
		return
	}
	if err := s.publisher.PublishToQos(topic, 1, false, string(b)); err != nil {
		log.Printf("collector: publish to %s: %v", topic, err)
		return
	}
	s.metrics.BatchesPublished.Inc()
}

func topicFor(tmpl, plotID string) string {
	return strings.ReplaceAll(tmpl, "{plot}", plotID)
}
