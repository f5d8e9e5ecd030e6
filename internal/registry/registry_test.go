package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dhieaaldin/backend/internal/model/entities"
)

func writeRegistry(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plots.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("valid registry", func(t *testing.T) {
		path := writeRegistry(t, `[
			{"id":"p1","name":"Grove","crop_type":"olive","planting_date":"2025-11-01T00:00:00Z",
			 "area_m2":20000,"baseline_daily_mm":6,"latitude":35.8,"longitude":10.6,"elevation_m":25}
		]`)
		plots, err := Load(path)
		require.NoError(t, err)
		require.Len(t, plots, 1)
		assert.Equal(t, entities.CropOlive, plots["p1"].Crop)
		assert.Equal(t, 20000.0, plots["p1"].AreaM2)
	})

	t.Run("duplicate id rejected", func(t *testing.T) {
		path := writeRegistry(t, `[
			{"id":"p1","crop_type":"olive","planting_date":"2025-11-01T00:00:00Z","area_m2":1,"latitude":0,"longitude":0},
			{"id":"p1","crop_type":"olive","planting_date":"2025-11-01T00:00:00Z","area_m2":1,"latitude":0,"longitude":0}
		]`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate")
	})

	t.Run("field validation", func(t *testing.T) {
		cases := []struct {
			name string
			json string
		}{
			{"missing id", `[{"crop_type":"olive","planting_date":"2025-11-01T00:00:00Z","area_m2":1}]`},
			{"missing crop", `[{"id":"p1","planting_date":"2025-11-01T00:00:00Z","area_m2":1}]`},
			{"missing planting date", `[{"id":"p1","crop_type":"olive","area_m2":1}]`},
			{"zero area", `[{"id":"p1","crop_type":"olive","planting_date":"2025-11-01T00:00:00Z","area_m2":0}]`},
			{"latitude out of range", `[{"id":"p1","crop_type":"olive","planting_date":"2025-11-01T00:00:00Z","area_m2":1,"latitude":120}]`},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := Load(writeRegistry(t, tc.json))
				require.Error(t, err)
			})
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
		require.Error(t, err)
	})
}
