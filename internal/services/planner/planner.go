// Package planner runs the recommendation pipeline: it consumes the
// daily aggregates, pairs them with the freshest vegetation data, and
// publishes one irrigation recommendation per plot per day.
package planner

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/Dhieaaldin/backend/internal/agro"
	"github.com/Dhieaaldin/backend/internal/model"
	"github.com/Dhieaaldin/backend/internal/model/entities"
	"github.com/Dhieaaldin/backend/internal/model/messages"
	"github.com/Dhieaaldin/backend/pkg/dedup"
	"github.com/Dhieaaldin/backend/pkg/mqttbus"
)

const (
	defaultDecisionTopicTmpl = "event/recommendation/{plot}"
	defaultNDVIMaxAge        = 10 * 24 * time.Hour
)

type Planner struct {
	consumer     mqttbus.IConsumer[model.WeatherObservation]
	publisher    mqttbus.IPublisher
	orchestrator *agro.IrrigationOrchestrator
	ndviProc     *agro.NDVIProcessor
	plots        map[string]entities.CropPlot
	clock        clockwork.Clock
	deduper      *dedup.Deduper

	decisionTopicTmpl string
	ndviMaxAge        time.Duration

	// freshest NDVI per plot, fed by the ndvi-daily subscription
	ndviMu     sync.RWMutex
	latestNDVI map[string]entities.NDVIObservation

	// one recommendation per plot per day
	dailyMu   sync.Mutex
	plannedOn map[string]time.Time // plot -> evaluation date already served
}

type Option func(*Planner)

func WithClock(c clockwork.Clock) Option {
	return func(p *Planner) { p.clock = c }
}

func WithDecisionTopic(tmpl string) Option {
	return func(p *Planner) { p.decisionTopicTmpl = tmpl }
}

func WithNDVIMaxAge(d time.Duration) Option {
	return func(p *Planner) { p.ndviMaxAge = d }
}

func New(
	consumer mqttbus.IConsumer[model.WeatherObservation],
	publisher mqttbus.IPublisher,
	cfg agro.Config,
	kc *agro.CropCoefficientResolver,
	plots map[string]entities.CropPlot,
	opts ...Option,
) (*Planner, error) {
	if len(plots) == 0 {
		return nil, errors.New("planner: empty plot registry")
	}

	p := &Planner{
		consumer:          consumer,
		publisher:         publisher,
		orchestrator:      agro.NewIrrigationOrchestrator(cfg, kc),
		ndviProc:          agro.NewNDVIProcessor(cfg),
		plots:             plots,
		clock:             clockwork.NewRealClock(),
		deduper:           dedup.New(10*time.Minute, 20000),
		decisionTopicTmpl: defaultDecisionTopicTmpl,
		ndviMaxAge:        defaultNDVIMaxAge,
		latestNDVI:        make(map[string]entities.NDVIObservation),
		plannedOn:         make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(p)
	}
	consumer.SetHandler(p.handleMessage)
	return p, nil
}

func (p *Planner) Start(ctx context.Context) {
	go p.consumer.ConsumeMessage(ctx)
	<-ctx.Done()
}

// handleMessage routes both subscriptions. Dedup runs before unmarshal
// so identical QoS-1 redeliveries are dropped cheaply.
func (p *Planner) handleMessage(topic string, msg mqtt.Message) error {
	h := sha256.Sum256(msg.Payload())
	if !p.deduper.ShouldProcess(hex.EncodeToString(h[:])) {
		return nil
	}

	switch {
	case strings.HasPrefix(topic, "sensor/ndvi-daily/"):
		return p.handleNDVI(msg.Payload())
	case strings.HasPrefix(topic, "sensor/aggregated/"):
		return p.handleAggregated(msg.Payload())
	default:
		return nil
	}
}

func (p *Planner) handleNDVI(payload []byte) error {
	var obs entities.NDVIObservation
	if err := json.Unmarshal(payload, &obs); err != nil {
		log.Printf("planner: bad ndvi payload: %v", err)
		return nil
	}
	if obs.PlotID == "" {
		return nil
	}
	p.ndviMu.Lock()
	if prev, ok := p.latestNDVI[obs.PlotID]; !ok || obs.Date.After(prev.Date) {
		p.latestNDVI[obs.PlotID] = obs
	}
	p.ndviMu.Unlock()
	return nil
}

func (p *Planner) handleAggregated(payload []byte) error {
	var weather entities.WeatherObservation
	if err := json.Unmarshal(payload, &weather); err != nil {
		log.Printf("planner: bad aggregate payload: %v", err)
		return nil
	}
	if !weather.Aggregated {
		return nil
	}

	plot, ok := p.plots[weather.PlotID]
	if !ok {
		log.Printf("planner: unknown plot %s", weather.PlotID)
		return nil
	}

	today := p.clock.Now().UTC().Truncate(24 * time.Hour)
	if !p.claimDay(plot.ID, today) {
		log.Printf("planner: skip %s, already planned for %s", plot.ID, today.Format("2006-01-02"))
		return nil
	}

	ndvi := p.freshNDVI(plot.ID, today)
	rec, err := p.orchestrator.Recommend(plot, weather, ndvi, today)
	if err != nil {
		// Release the day so a corrected aggregate can retry.
		p.releaseDay(plot.ID)
		log.Printf("planner: recommend %s: %v", plot.ID, err)
		return err
	}

	health := entities.HealthStatus("")
	if ndvi != nil {
		health = p.ndviProc.HealthStatus(ndvi.Value)
	}

	log.Printf("planner: %s stage=%s et0=%.2fmm kc=%.2f etc=%.2fmm rain=%.2fmm net=%.2fmm vol=%.0fL",
		plot.ID, rec.Stage, rec.ET0MM, rec.Kc, rec.ETcMM, rec.EffectiveRainMM, rec.NetRequirementMM, rec.VolumeL)

	return p.publishRecommendation(rec, health)
}

// freshNDVI returns the plot's latest NDVI unless it has gone stale.
// No observation means no adjustment, never a failure.
func (p *Planner) freshNDVI(plotID string, today time.Time) *entities.NDVIObservation {
	p.ndviMu.RLock()
	obs, ok := p.latestNDVI[plotID]
	p.ndviMu.RUnlock()
	if !ok || today.Sub(obs.Date) > p.ndviMaxAge {
		return nil
	}
	return &obs
}

func (p *Planner) claimDay(plotID string, day time.Time) bool {
	p.dailyMu.Lock()
	defer p.dailyMu.Unlock()
	if prev, ok := p.plannedOn[plotID]; ok && prev.Equal(day) {
		return false
	}
	p.plannedOn[plotID] = day
	return true
}

func (p *Planner) releaseDay(plotID string) {
	p.dailyMu.Lock()
	delete(p.plannedOn, plotID)
	p.dailyMu.Unlock()
}

func (p *Planner) publishRecommendation(rec entities.IrrigationRecommendation, health entities.HealthStatus) error {
	evt := messages.RecommendationEvent{
		EventID:        uuid.NewString(),
		Recommendation: rec,
		Health:         health,
		PublishedAt:    p.clock.Now().UTC(),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	topic := strings.ReplaceAll(p.decisionTopicTmpl, "{plot}", rec.PlotID)
	if err := p.publisher.PublishToQos(topic, 1, false, string(b)); err != nil {
		log.Printf("planner: publish recommendation: %v", err)
		return err
	}
	return nil
}
