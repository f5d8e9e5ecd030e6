package entities

import "time"

// IrrigationRecommendation is the per-plot, per-day output of the
// orchestrator. Immutable result value.
type IrrigationRecommendation struct {
	PlotID           string      `json:"plot_id"`
	Date             time.Time   `json:"date"`
	Stage            GrowthStage `json:"stage"`
	ET0MM            float64     `json:"et0_mm"`
	NDVIFactor       float64     `json:"ndvi_factor"`
	Kc               float64     `json:"kc"`
	ETcMM            float64     `json:"etc_mm"`
	EffectiveRainMM  float64     `json:"effective_rain_mm"`
	NetRequirementMM float64     `json:"net_requirement_mm"`
	VolumeL          float64     `json:"volume_l"`

	// Drip-system figures, derived when the plot declares a tree count.
	LitersPerTree float64 `json:"liters_per_tree,omitempty"`
	DurationHours float64 `json:"duration_hours,omitempty"`
}

// SavingsReport compares recommended usage against the plot's baseline
// over a period. SavedPct is nil when the baseline total is zero.
type SavingsReport struct {
	PlotID       string    `json:"plot_id"`
	PeriodStart  time.Time `json:"period_start"`
	PeriodEnd    time.Time `json:"period_end"`
	Days         int       `json:"days"`
	BaselineL    float64   `json:"baseline_l"`
	RecommendedL float64   `json:"recommended_l"`
	SavedL       float64   `json:"saved_l"`
	SavedM3      float64   `json:"saved_m3"`
	SavedPct     *float64  `json:"saved_pct"`
	CostSavedTND float64   `json:"cost_saved_tnd"`
	CostSavedUSD float64   `json:"cost_saved_usd"`
}
