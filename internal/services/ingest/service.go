// Package ingest feeds the pipeline: on every tick it pulls raw weather
// and NDVI records for each registered plot from the configured data
// source and publishes them to the bus.
package ingest

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/Dhieaaldin/backend/internal/datasource"
	"github.com/Dhieaaldin/backend/internal/model/entities"
	"github.com/Dhieaaldin/backend/pkg/mqttbus"
)

const (
	weatherTopicTmpl = "sensor/weather/{plot}"
	ndviTopicTmpl    = "sensor/ndvi/{plot}"
)

type Service struct {
	source    datasource.DataSource
	publisher mqttbus.IPublisher
	plots     map[string]entities.CropPlot
	interval  time.Duration
	lookback  time.Duration
}

func NewService(source datasource.DataSource, publisher mqttbus.IPublisher, plots map[string]entities.CropPlot, interval, lookback time.Duration) *Service {
	if lookback <= 0 {
		lookback = 24 * time.Hour
	}
	return &Service{
		source:    source,
		publisher: publisher,
		plots:     plots,
		interval:  interval,
		lookback:  lookback,
	}
}

// Start polls immediately and then on every tick until ctx is done.
func (s *Service) Start(ctx context.Context) {
	s.pollAll(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.publisher.Close()
			return
		case <-ticker.C:
			s.pollAll(ctx)
		}
	}
}

func (s *Service) pollAll(ctx context.Context) {
	now := time.Now().UTC()
	from := now.Add(-s.lookback)

	for _, plot := range s.plots {
		fctx, cancel := context.WithTimeout(ctx, 15*time.Second)

		weather, err := s.source.FetchWeather(fctx, plot, from, now)
		if err != nil {
			log.Printf("ingest: weather fetch for %s: %v", plot.ID, err)
		}
		for _, r := range weather {
			s.publish(topicFor(weatherTopicTmpl, plot.ID), r)
		}

		ndvi, err := s.source.FetchNDVI(fctx, plot, from, now)
		if err != nil {
			log.Printf("ingest: ndvi fetch for %s: %v", plot.ID, err)
		}
		for _, r := range ndvi {
			s.publish(topicFor(ndviTopicTmpl, plot.ID), r)
		}

		cancel()
	}
}

func (s *Service) publish(topic string, payload any) {
	b, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ingest: marshal for %s: %v", topic, err)
		return
	}
	if err := s.publisher.PublishToQos(topic, 0, false, string(b)); err != nil {
		log.Printf("ingest: publish to %s: %v", topic, err)
	}
}

func topicFor(tmpl, plotID string) string {
	return strings.ReplaceAll(tmpl, "{plot}", plotID)
}
