package datasource

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dhieaaldin/backend/internal/agro"
	"github.com/Dhieaaldin/backend/internal/model/entities"
)

func mockPlot() entities.CropPlot {
	return entities.CropPlot{
		ID:           "plot-sousse-01",
		Crop:         entities.CropOlive,
		PlantingDate: time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC),
		AreaM2:       20000,
		Latitude:     35.8,
		Longitude:    10.6,
		ElevationM:   25,
	}
}

func TestMockWeather(t *testing.T) {
	src := NewMock()
	plot := mockPlot()
	from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 6)

	readings, err := src.FetchWeather(context.Background(), plot, from, to)
	require.NoError(t, err)
	require.Len(t, readings, 7)

	t.Run("every reading passes validation", func(t *testing.T) {
		agg := agro.NewWeatherAggregator()
		for _, r := range readings {
			obs, err := agg.Normalize(r)
			require.NoError(t, err, "day %s", r.Timestamp.Format("2006-01-02"))
			assert.Equal(t, plot.ID, obs.PlotID)
			assert.GreaterOrEqual(t, obs.TempMaxC, obs.TempMinC)
		}
	})

	t.Run("deterministic per plot and day", func(t *testing.T) {
		again, err := src.FetchWeather(context.Background(), plot, from, to)
		require.NoError(t, err)
		require.Len(t, again, len(readings))
		for i := range readings {
			assert.Equal(t, *readings[i].TempMinC, *again[i].TempMinC)
			assert.Equal(t, *readings[i].PrecipitationMM, *again[i].PrecipitationMM)
		}
	})

	t.Run("different plots diverge", func(t *testing.T) {
		other := plot
		other.ID = "plot-mahdia-01"
		theirs, err := src.FetchWeather(context.Background(), other, from, from)
		require.NoError(t, err)
		require.Len(t, theirs, 1)
		assert.NotEqual(t, *readings[0].TempMinC, *theirs[0].TempMinC)
	})
}

func TestMockNDVI(t *testing.T) {
	src := NewMock()
	plot := mockPlot()
	from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	readings, err := src.FetchNDVI(context.Background(), plot, from, from.AddDate(0, 0, 9))
	require.NoError(t, err)
	require.Len(t, readings, 10)

	proc := agro.NewNDVIProcessor(agro.DefaultConfig())
	for _, r := range readings {
		obs, err := proc.Normalize(r)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, obs.Value, -1.0)
		assert.LessOrEqual(t, obs.Value, 1.0)
	}
}
