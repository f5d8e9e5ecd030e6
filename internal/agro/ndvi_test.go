package agro

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dhieaaldin/backend/internal/model/entities"
	"github.com/Dhieaaldin/backend/internal/model/messages"
)

func f64(v float64) *float64 { return &v }

func TestNDVINormalize(t *testing.T) {
	proc := NewNDVIProcessor(DefaultConfig())
	ts := time.Date(2026, 6, 21, 14, 30, 0, 0, time.UTC)

	t.Run("valid reading", func(t *testing.T) {
		obs, err := proc.Normalize(messages.RawNDVIReading{PlotID: "plot-1", Timestamp: ts, Value: f64(0.62)})
		require.NoError(t, err)
		assert.Equal(t, "plot-1", obs.PlotID)
		assert.Equal(t, 0.62, obs.Value)
		assert.Equal(t, time.Date(2026, 6, 21, 0, 0, 0, 0, time.UTC), obs.Date)
	})

	t.Run("rejects out of range", func(t *testing.T) {
		for _, v := range []float64{1.5, -1.2, math.NaN()} {
			_, err := proc.Normalize(messages.RawNDVIReading{PlotID: "plot-1", Timestamp: ts, Value: f64(v)})
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "ndvi", verr.Field)
		}
	})

	t.Run("boundary values pass", func(t *testing.T) {
		for _, v := range []float64{-1, 1} {
			_, err := proc.Normalize(messages.RawNDVIReading{PlotID: "plot-1", Timestamp: ts, Value: f64(v)})
			require.NoError(t, err)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := proc.Normalize(messages.RawNDVIReading{Timestamp: ts, Value: f64(0.5)})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "plot_id", verr.Field)

		_, err = proc.Normalize(messages.RawNDVIReading{PlotID: "plot-1", Timestamp: ts})
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "ndvi", verr.Field)
	})
}

func TestNDVIHealthFactor(t *testing.T) {
	proc := NewNDVIProcessor(DefaultConfig())

	cases := []struct {
		ndvi float64
		want float64
	}{
		{0.05, 0.85}, // floor below the stressed breakpoint
		{0.2, 0.85},
		{0.35, 0.925}, // linear between stressed and midpoint
		{0.5, 1.0},
		{0.65, 1.05}, // linear between midpoint and healthy
		{0.8, 1.10},
		{0.95, 1.10}, // ceiling above the healthy breakpoint
	}
	for _, tc := range cases {
		got := proc.HealthFactor(entities.NDVIObservation{PlotID: "p", Value: tc.ndvi})
		assert.InDelta(t, tc.want, got, 1e-9, "ndvi=%.2f", tc.ndvi)
	}
}

func TestNDVIHealthStatus(t *testing.T) {
	proc := NewNDVIProcessor(DefaultConfig())

	assert.Equal(t, entities.HealthCritical, proc.HealthStatus(0.1))
	assert.Equal(t, entities.HealthCritical, proc.HealthStatus(0.29))
	assert.Equal(t, entities.HealthStressed, proc.HealthStatus(0.3))
	assert.Equal(t, entities.HealthHealthy, proc.HealthStatus(0.5))
	assert.Equal(t, entities.HealthExcellent, proc.HealthStatus(0.7))
	assert.Equal(t, entities.HealthExcellent, proc.HealthStatus(0.9))
}
