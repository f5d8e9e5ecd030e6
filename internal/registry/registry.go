// Package registry loads the static plot reference data shared by the
// services: which plots exist, where they are, what grows on them and
// what their baseline usage is.
package registry

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/Dhieaaldin/backend/internal/model/entities"
)

// Load reads the plot registry JSON file and validates each record.
func Load(path string) (map[string]entities.CropPlot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var plots []entities.CropPlot
	if err := json.Unmarshal(raw, &plots); err != nil {
		return nil, fmt.Errorf("plot registry %s: %w", path, err)
	}

	out := make(map[string]entities.CropPlot, len(plots))
	for _, p := range plots {
		if err := validate(p); err != nil {
			return nil, fmt.Errorf("plot registry %s: %w", path, err)
		}
		if _, dup := out[p.ID]; dup {
			return nil, fmt.Errorf("plot registry %s: duplicate plot id %q", path, p.ID)
		}
		out[p.ID] = p
	}
	return out, nil
}

func validate(p entities.CropPlot) error {
	switch {
	case p.ID == "":
		return fmt.Errorf("plot without id")
	case p.Crop == "":
		return fmt.Errorf("plot %s: missing crop_type", p.ID)
	case p.PlantingDate.IsZero():
		return fmt.Errorf("plot %s: missing planting_date", p.ID)
	case p.AreaM2 <= 0:
		return fmt.Errorf("plot %s: area_m2 must be positive", p.ID)
	case p.BaselineDailyMM < 0:
		return fmt.Errorf("plot %s: negative baseline_daily_mm", p.ID)
	case math.Abs(p.Latitude) > 90:
		return fmt.Errorf("plot %s: latitude outside [-90,90]", p.ID)
	case math.Abs(p.Longitude) > 180:
		return fmt.Errorf("plot %s: longitude outside [-180,180]", p.ID)
	}
	return nil
}
