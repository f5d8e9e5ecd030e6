package agro

import (
	"math"
	"time"

	"github.com/Dhieaaldin/backend/internal/model/entities"
	"github.com/Dhieaaldin/backend/internal/model/messages"
)

// NDVIProcessor validates vegetation-index readings and derives the
// multiplicative crop-coefficient adjustment. Vegetation data is an
// enhancement, not a hard dependency: the orchestrator uses factor 1.0
// whenever no observation is available.
type NDVIProcessor struct {
	cfg Config
}

func NewNDVIProcessor(cfg Config) *NDVIProcessor { return &NDVIProcessor{cfg: cfg} }

// Normalize rejects values outside [-1,1]; it never clamps.
func (p *NDVIProcessor) Normalize(raw messages.RawNDVIReading) (entities.NDVIObservation, error) {
	var zero entities.NDVIObservation
	if raw.PlotID == "" {
		return zero, &ValidationError{Field: "plot_id", Reason: "missing"}
	}
	if raw.Timestamp.IsZero() {
		return zero, &ValidationError{Field: "timestamp", Reason: "missing"}
	}
	if raw.Value == nil {
		return zero, &ValidationError{Field: "ndvi", Reason: "missing"}
	}
	v := *raw.Value
	if math.IsNaN(v) || v < -1 || v > 1 {
		return zero, &ValidationError{Field: "ndvi", Reason: "outside [-1,1]"}
	}
	return entities.NDVIObservation{
		PlotID: raw.PlotID,
		Date:   raw.Timestamp.UTC().Truncate(24 * time.Hour),
		Value:  v,
	}, nil
}

// HealthFactor maps NDVI to the Kc adjustment: FactorStressed at or
// below the stressed breakpoint, 1.0 at the midpoint, FactorHealthy at
// or above the healthy breakpoint, linear in between.
func (p *NDVIProcessor) HealthFactor(obs entities.NDVIObservation) float64 {
	c := p.cfg
	v := obs.Value
	switch {
	case v <= c.NDVIStressed:
		return c.FactorStressed
	case v >= c.NDVIHealthy:
		return c.FactorHealthy
	case v <= c.NDVIMidpoint:
		return lerp(v, c.NDVIStressed, c.NDVIMidpoint, c.FactorStressed, 1.0)
	default:
		return lerp(v, c.NDVIMidpoint, c.NDVIHealthy, 1.0, c.FactorHealthy)
	}
}

// HealthStatus classifies an NDVI value for presentation. Bands follow
// the grower-facing report: <0.3 critical, <0.5 stressed, <0.7 healthy.
func (p *NDVIProcessor) HealthStatus(value float64) entities.HealthStatus {
	switch {
	case value < 0.3:
		return entities.HealthCritical
	case value < 0.5:
		return entities.HealthStressed
	case value < 0.7:
		return entities.HealthHealthy
	default:
		return entities.HealthExcellent
	}
}

func lerp(x, x0, x1, y0, y1 float64) float64 {
	return y0 + (x-x0)/(x1-x0)*(y1-y0)
}
