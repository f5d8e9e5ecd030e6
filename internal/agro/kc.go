package agro

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/Dhieaaldin/backend/internal/model/entities"
)

// DefaultKcTable returns the built-in base coefficients, after FAO-56
// table 12. The olive row matches the grove values the baseline figures
// were collected with.
func DefaultKcTable() entities.KcTable {
	return entities.KcTable{
		entities.CropOlive:  {Initial: 0.50, Development: 0.55, MidSeason: 0.65, LateSeason: 0.60},
		entities.CropCorn:   {Initial: 0.30, Development: 0.70, MidSeason: 1.20, LateSeason: 0.60},
		entities.CropWheat:  {Initial: 0.30, Development: 0.75, MidSeason: 1.15, LateSeason: 0.40},
		entities.CropTomato: {Initial: 0.60, Development: 0.85, MidSeason: 1.15, LateSeason: 0.80},
	}
}

// LoadKcTable reads a coefficient table from a JSON file keyed by crop
// type. The file replaces the built-in table entirely.
func LoadKcTable(path string) (entities.KcTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var table entities.KcTable
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("kc table %s: %w", path, err)
	}
	return table, nil
}

// CropCoefficientResolver resolves the final Kc for a crop and stage,
// blended with the NDVI health factor and clamped to the configured
// plausible range.
type CropCoefficientResolver struct {
	table entities.KcTable
	cfg   Config
}

// NewCropCoefficientResolver validates the table shape: per crop the
// base Kc must be non-decreasing from Initial to MidSeason and
// non-increasing from MidSeason to LateSeason.
func NewCropCoefficientResolver(table entities.KcTable, cfg Config) (*CropCoefficientResolver, error) {
	for crop, row := range table {
		if row.Development < row.Initial || row.MidSeason < row.Development {
			return nil, fmt.Errorf("kc table for %q: not non-decreasing up to mid-season", crop)
		}
		if row.LateSeason > row.MidSeason {
			return nil, fmt.Errorf("kc table for %q: late-season above mid-season", crop)
		}
	}
	return &CropCoefficientResolver{table: table, cfg: cfg}, nil
}

// Resolve returns baseKc(crop, stage) × ndviFactor clamped to
// [KcMin, KcMax]. Callers without vegetation data pass factor 1.0.
func (r *CropCoefficientResolver) Resolve(crop entities.CropType, stage entities.GrowthStage, ndviFactor float64) (float64, error) {
	row, ok := r.table[crop]
	if !ok {
		return 0, &UnknownCropError{Crop: crop}
	}
	kc := row.Kc(stage) * ndviFactor
	return math.Min(r.cfg.KcMax, math.Max(r.cfg.KcMin, kc)), nil
}
