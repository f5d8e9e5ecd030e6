package agro

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dhieaaldin/backend/internal/model/entities"
)

func TestSavingsSummarize(t *testing.T) {
	calc := NewSavingsCalculator(DefaultConfig())
	plot := testPlot() // 20000 m², 6 mm/day baseline
	day := func(d int) time.Time {
		return time.Date(2026, 6, 1+d, 0, 0, 0, 0, time.UTC)
	}
	rec := func(d int, volumeL float64) entities.IrrigationRecommendation {
		return entities.IrrigationRecommendation{PlotID: plot.ID, Date: day(d), VolumeL: volumeL}
	}

	t.Run("week below baseline", func(t *testing.T) {
		recs := make([]entities.IrrigationRecommendation, 0, 7)
		for d := 0; d < 7; d++ {
			recs = append(recs, rec(d, 80000)) // 4 mm/day over 20000 m²
		}
		report, err := calc.Summarize(recs, plot)
		require.NoError(t, err)

		assert.Equal(t, 7, report.Days)
		assert.InDelta(t, 6*20000*7, report.BaselineL, 1e-6)   // 840 m³
		assert.InDelta(t, 80000*7, report.RecommendedL, 1e-6)  // 560 m³
		assert.InDelta(t, 280000, report.SavedL, 1e-6)
		assert.InDelta(t, 280, report.SavedM3, 1e-6)
		require.NotNil(t, report.SavedPct)
		assert.InDelta(t, 100.0/3, *report.SavedPct, 1e-6)
		assert.InDelta(t, 140, report.CostSavedTND, 1e-6)
		assert.InDelta(t, 44.8, report.CostSavedUSD, 1e-6)
	})

	t.Run("days span is inclusive despite gaps", func(t *testing.T) {
		report, err := calc.Summarize([]entities.IrrigationRecommendation{rec(0, 1000), rec(9, 1000)}, plot)
		require.NoError(t, err)
		assert.Equal(t, 10, report.Days)
		assert.Equal(t, day(0), report.PeriodStart)
		assert.Equal(t, day(9), report.PeriodEnd)
	})

	t.Run("exceeding the baseline reports negative savings", func(t *testing.T) {
		report, err := calc.Summarize([]entities.IrrigationRecommendation{rec(0, 200000)}, plot)
		require.NoError(t, err)
		assert.Negative(t, report.SavedL)
		require.NotNil(t, report.SavedPct)
		assert.Negative(t, *report.SavedPct)
	})

	t.Run("zero baseline yields nil percentage", func(t *testing.T) {
		rainfed := plot
		rainfed.BaselineDailyMM = 0
		report, err := calc.Summarize([]entities.IrrigationRecommendation{rec(0, 1000)}, rainfed)
		require.NoError(t, err)
		assert.Nil(t, report.SavedPct)
		assert.Negative(t, report.SavedL)
	})

	t.Run("empty period rejected", func(t *testing.T) {
		_, err := calc.Summarize(nil, plot)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "recommendations", verr.Field)
	})

	t.Run("foreign recommendation rejected", func(t *testing.T) {
		stray := rec(0, 1000)
		stray.PlotID = "plot-9"
		_, err := calc.Summarize([]entities.IrrigationRecommendation{stray}, plot)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "plot_id", verr.Field)
	})
}
