package entities

import "time"

// WeatherObservation is the canonical daily weather record for a plot.
// Wind speed is always at the 2 m reference height; the aggregator
// applies the height correction during normalization.
type WeatherObservation struct {
	PlotID           string    `json:"plot_id"`
	Date             time.Time `json:"date"`
	TempMinC         float64   `json:"temp_min_c"`
	TempMaxC         float64   `json:"temp_max_c"`
	HumidityPct      float64   `json:"humidity_pct"`
	WindSpeed2mMS    float64   `json:"wind_speed_2m_ms"`
	SolarRadiationMJ float64   `json:"solar_radiation_mj"` // MJ/m²/day
	PrecipitationMM  float64   `json:"precipitation_mm"`
	Aggregated       bool      `json:"aggregated"`
}

// NDVIObservation is a validated vegetation-index reading for a plot.
type NDVIObservation struct {
	PlotID string    `json:"plot_id"`
	Date   time.Time `json:"date"`
	Value  float64   `json:"value"` // in [-1, 1]
}
