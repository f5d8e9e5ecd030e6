// Package persistence stores observations and recommendation events in
// InfluxDB and serves the latest of both over HTTP to the gateway.
package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/Dhieaaldin/backend/internal/model"
	"github.com/Dhieaaldin/backend/pkg/mqttbus"
)

// InfluxConfig carries the storage settings.
type InfluxConfig struct {
	URL    string
	Token  string
	Org    string
	Bucket string
}

const recentEventsCap = 256

type Service struct {
	consumer mqttbus.IConsumer[model.WeatherObservation]
	writeAPI api.WriteAPIBlocking

	mu           sync.RWMutex
	latestObs    map[string]model.WeatherObservation // plot -> newest aggregate
	recentEvents []model.RecommendationEvent         // ring, newest last
}

func NewService(consumer mqttbus.IConsumer[model.WeatherObservation], cfg InfluxConfig) (*Service, error) {
	if cfg.URL == "" || cfg.Token == "" || cfg.Org == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("influx config incomplete")
	}
	client := influxdb2.NewClient(cfg.URL, cfg.Token)

	s := &Service{
		consumer:  consumer,
		writeAPI:  client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		latestObs: make(map[string]model.WeatherObservation),
	}
	consumer.SetHandler(s.handleMessage)
	return s, nil
}

func (s *Service) Start(ctx context.Context) {
	s.consumer.ConsumeMessage(ctx)
}

func (s *Service) handleMessage(topic string, msg mqtt.Message) error {
	switch {
	case strings.HasPrefix(topic, "sensor/aggregated/"):
		return s.storeObservation(msg.Payload())
	case strings.HasPrefix(topic, "event/recommendation/"):
		return s.storeEvent(msg.Payload())
	default:
		return nil
	}
}

func (s *Service) storeObservation(payload []byte) error {
	var obs model.WeatherObservation
	if err := json.Unmarshal(payload, &obs); err != nil {
		log.Printf("persistence: invalid observation JSON: %v", err)
		return nil // do not block the stream
	}

	s.mu.Lock()
	if prev, ok := s.latestObs[obs.PlotID]; !ok || obs.Date.After(prev.Date) {
		s.latestObs[obs.PlotID] = obs
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.writeAPI.WritePoint(ctx, observationPoint(obs)); err != nil {
		log.Printf("persistence: observation write error: %v", err)
		return err
	}
	log.Printf("persistence: wrote observation plot=%s date=%s", obs.PlotID, obs.Date.Format("2006-01-02"))
	return nil
}

func (s *Service) storeEvent(payload []byte) error {
	var evt model.RecommendationEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		log.Printf("persistence: invalid event JSON: %v", err)
		return nil
	}

	s.mu.Lock()
	s.recentEvents = append(s.recentEvents, evt)
	if len(s.recentEvents) > recentEventsCap {
		s.recentEvents = s.recentEvents[len(s.recentEvents)-recentEventsCap:]
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.writeAPI.WritePoint(ctx, recommendationPoint(evt)); err != nil {
		log.Printf("persistence: event write error: %v", err)
		return err
	}
	log.Printf("persistence: wrote recommendation plot=%s net=%.2fmm", evt.Recommendation.PlotID, evt.Recommendation.NetRequirementMM)
	return nil
}

// LatestObservations returns the newest aggregate per plot.
func (s *Service) LatestObservations() []model.WeatherObservation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.WeatherObservation, 0, len(s.latestObs))
	for _, o := range s.latestObs {
		out = append(out, o)
	}
	return out
}

// RecentEvents returns up to limit recommendation events, newest last,
// optionally filtered by plot.
func (s *Service) RecentEvents(plotID string, limit int) []model.RecommendationEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.RecommendationEvent, 0, limit)
	for _, e := range s.recentEvents {
		if plotID != "" && e.Recommendation.PlotID != plotID {
			continue
		}
		out = append(out, e)
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}
