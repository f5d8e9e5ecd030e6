package agro

import (
	"github.com/Dhieaaldin/backend/internal/model/entities"
)

// SavingsCalculator compares a run of recommendations against the
// plot's baseline usage pattern.
type SavingsCalculator struct {
	cfg Config
}

func NewSavingsCalculator(cfg Config) *SavingsCalculator { return &SavingsCalculator{cfg: cfg} }

// Summarize sums recommended volumes over the period covered by the
// recommendations and compares them with baseline × days. Savings may
// be negative: exceeding the baseline is a signal worth surfacing, not
// an error. The percentage is nil when the baseline total is zero.
func (s *SavingsCalculator) Summarize(recs []entities.IrrigationRecommendation, plot entities.CropPlot) (entities.SavingsReport, error) {
	var zero entities.SavingsReport
	if len(recs) == 0 {
		return zero, &ValidationError{Field: "recommendations", Reason: "empty"}
	}

	start, end := recs[0].Date, recs[0].Date
	var recommendedL float64
	for _, r := range recs {
		if r.PlotID != plot.ID {
			return zero, &ValidationError{Field: "plot_id", Reason: "recommendation for a different plot"}
		}
		recommendedL += r.VolumeL
		if r.Date.Before(start) {
			start = r.Date
		}
		if r.Date.After(end) {
			end = r.Date
		}
	}

	days := int(end.Sub(start).Hours()/24) + 1
	baselineL := plot.BaselineDailyMM * plot.AreaM2 * float64(days)

	savedL := baselineL - recommendedL
	savedM3 := savedL / 1000

	report := entities.SavingsReport{
		PlotID:       plot.ID,
		PeriodStart:  start,
		PeriodEnd:    end,
		Days:         days,
		BaselineL:    baselineL,
		RecommendedL: recommendedL,
		SavedL:       savedL,
		SavedM3:      savedM3,
		CostSavedTND: savedM3 * s.cfg.TariffTNDPerM3,
	}
	report.CostSavedUSD = report.CostSavedTND * s.cfg.USDPerTND

	if baselineL > 0 {
		pct := savedL / baselineL * 100
		report.SavedPct = &pct
	}
	return report, nil
}
