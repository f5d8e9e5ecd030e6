package persistence

import (
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/Dhieaaldin/backend/internal/model"
)

// observationPoint normalizes a daily aggregate into an InfluxDB point.
func observationPoint(obs model.WeatherObservation) *write.Point {
	tags := map[string]string{
		"plot_id": obs.PlotID,
	}
	fields := map[string]interface{}{
		"temp_min_c":         obs.TempMinC,
		"temp_max_c":         obs.TempMaxC,
		"humidity_pct":       obs.HumidityPct,
		"wind_speed_2m_ms":   obs.WindSpeed2mMS,
		"solar_radiation_mj": obs.SolarRadiationMJ,
		"precipitation_mm":   obs.PrecipitationMM,
	}
	return influxdb2.NewPoint("weather_daily", tags, fields, obs.Date)
}

// recommendationPoint normalizes a recommendation event into a point.
func recommendationPoint(evt model.RecommendationEvent) *write.Point {
	rec := evt.Recommendation
	tags := map[string]string{
		"plot_id": rec.PlotID,
		"stage":   string(rec.Stage),
	}
	if evt.Health != "" {
		tags["health"] = string(evt.Health)
	}
	fields := map[string]interface{}{
		"et0_mm":             rec.ET0MM,
		"kc":                 rec.Kc,
		"ndvi_factor":        rec.NDVIFactor,
		"etc_mm":             rec.ETcMM,
		"effective_rain_mm":  rec.EffectiveRainMM,
		"net_requirement_mm": rec.NetRequirementMM,
		"volume_l":           rec.VolumeL,
	}
	return influxdb2.NewPoint("irrigation_recommendation", tags, fields, rec.Date)
}
