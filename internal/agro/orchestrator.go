package agro

import (
	"fmt"
	"math"
	"time"

	"github.com/Dhieaaldin/backend/internal/model/entities"
)

// IrrigationOrchestrator composes ET0, Kc and effective-rainfall
// accounting into a per-plot recommendation. Failure of any stage
// propagates tagged with the stage name; no defaults are substituted
// for a failed stage; a visible failure beats a wrong number.
type IrrigationOrchestrator struct {
	cfg  Config
	et0  *ET0Calculator
	ndvi *NDVIProcessor
	kc   *CropCoefficientResolver
}

func NewIrrigationOrchestrator(cfg Config, kc *CropCoefficientResolver) *IrrigationOrchestrator {
	return &IrrigationOrchestrator{
		cfg:  cfg,
		et0:  NewET0Calculator(),
		ndvi: NewNDVIProcessor(cfg),
		kc:   kc,
	}
}

// Recommend produces the irrigation recommendation for one plot on one
// evaluation date. ndvi may be nil, in which case the health factor is
// exactly 1.0.
func (o *IrrigationOrchestrator) Recommend(
	plot entities.CropPlot,
	weather entities.WeatherObservation,
	ndvi *entities.NDVIObservation,
	date time.Time,
) (entities.IrrigationRecommendation, error) {
	var zero entities.IrrigationRecommendation

	if weather.PlotID != plot.ID {
		return zero, fmt.Errorf("weather: %w", &ValidationError{Field: "plot_id", Reason: "observation is for a different plot"})
	}

	stage, err := StageFor(plot, date)
	if err != nil {
		return zero, fmt.Errorf("kc: %w", err)
	}

	et0, err := o.et0.Compute(weather, plot.ElevationM, plot.Latitude, date.YearDay())
	if err != nil {
		return zero, fmt.Errorf("et0: %w", err)
	}

	factor := 1.0
	if ndvi != nil {
		factor = o.ndvi.HealthFactor(*ndvi)
	}

	kc, err := o.kc.Resolve(plot.Crop, stage, factor)
	if err != nil {
		return zero, fmt.Errorf("kc: %w", err)
	}

	etc := et0 * kc
	effRain := math.Min(weather.PrecipitationMM, o.cfg.RainSaturationMM)
	net := math.Max(0, etc-effRain)
	volumeL := net * plot.AreaM2 // 1 mm over 1 m² is 1 L

	rec := entities.IrrigationRecommendation{
		PlotID:           plot.ID,
		Date:             date.UTC().Truncate(24 * time.Hour),
		Stage:            stage,
		ET0MM:            et0,
		NDVIFactor:       factor,
		Kc:               kc,
		ETcMM:            etc,
		EffectiveRainMM:  effRain,
		NetRequirementMM: net,
		VolumeL:          volumeL,
	}
	if plot.TreeCount > 0 {
		rec.LitersPerTree = volumeL / float64(plot.TreeCount)
		if o.cfg.DripLitersPerHour > 0 {
			rec.DurationHours = rec.LitersPerTree / o.cfg.DripLitersPerHour
		}
	}
	return rec, nil
}
