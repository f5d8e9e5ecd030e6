package agro

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dhieaaldin/backend/internal/model/entities"
)

func TestStageFor(t *testing.T) {
	planted := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	plot := entities.CropPlot{ID: "plot-1", Crop: entities.CropOlive, PlantingDate: planted}

	cases := []struct {
		name string
		days int
		want entities.GrowthStage
	}{
		{"planting day", 0, entities.StageInitial},
		{"late initial", 29, entities.StageInitial},
		{"development", 30, entities.StageDevelopment},
		{"mid-season", 120, entities.StageMidSeason},
		{"late-season", 180, entities.StageLateSeason},
		{"past season stays late", 400, entities.StageLateSeason},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := StageFor(plot, planted.AddDate(0, 0, tc.days))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("before planting counts as initial", func(t *testing.T) {
		got, err := StageFor(plot, planted.AddDate(0, 0, -10))
		require.NoError(t, err)
		assert.Equal(t, entities.StageInitial, got)
	})

	t.Run("unknown crop", func(t *testing.T) {
		bad := plot
		bad.Crop = "banana"
		_, err := StageFor(bad, planted)
		var uerr *UnknownCropError
		require.ErrorAs(t, err, &uerr)
	})
}
