package entities

import "time"

// CropPlot is a tract of land growing a single crop. Static reference
// data loaded from the plot registry, read-only to the pipeline.
type CropPlot struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Owner            string    `json:"owner,omitempty"`
	Crop             CropType  `json:"crop_type"`
	PlantingDate     time.Time `json:"planting_date"`
	AreaM2           float64   `json:"area_m2"`
	BaselineDailyMM  float64   `json:"baseline_daily_mm"` // naive usage the savings report compares against
	Latitude         float64   `json:"latitude"`
	Longitude        float64   `json:"longitude"`
	ElevationM       float64   `json:"elevation_m"`
	TreeCount        int       `json:"tree_count,omitempty"`
	IrrigationSystem string    `json:"irrigation_system,omitempty"` // e.g. "drip", "sprinkler"
	SoilType         string    `json:"soil_type,omitempty"`
}
