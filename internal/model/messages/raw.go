package messages

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// RawWeatherReading is a weather record as published by a data source,
// before validation. Numeric fields are pointers so a missing field can
// be told apart from a zero.
type RawWeatherReading struct {
	PlotID           string    `json:"plot_id"`
	Timestamp        time.Time `json:"timestamp"`
	TempMinC         *float64  `json:"temp_min"`
	TempMaxC         *float64  `json:"temp_max"`
	HumidityPct      *float64  `json:"humidity"`
	WindSpeedMS      *float64  `json:"wind_speed"`
	WindHeightM      *float64  `json:"wind_height_m,omitempty"` // measurement height, defaults to 10 m
	SolarRadiationMJ *float64  `json:"solar_radiation"`
	PrecipitationMM  *float64  `json:"precipitation"`
}

// UnmarshalJSON accepts numbers either as JSON numbers or as strings,
// since upstream providers are not consistent about it.
func (r *RawWeatherReading) UnmarshalJSON(b []byte) error {
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	if v, ok := m["plot_id"].(string); ok {
		r.PlotID = v
	}
	if v, ok := m["timestamp"].(string); ok {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			r.Timestamp = t
		}
	}
	r.TempMinC = numPtr(m, "temp_min")
	r.TempMaxC = numPtr(m, "temp_max")
	r.HumidityPct = numPtr(m, "humidity")
	r.WindSpeedMS = numPtr(m, "wind_speed")
	r.WindHeightM = numPtr(m, "wind_height_m")
	r.SolarRadiationMJ = numPtr(m, "solar_radiation")
	r.PrecipitationMM = numPtr(m, "precipitation")
	return nil
}

// RawNDVIReading is an unvalidated vegetation-index record.
type RawNDVIReading struct {
	PlotID    string    `json:"plot_id"`
	Timestamp time.Time `json:"timestamp"`
	Value     *float64  `json:"ndvi"`
}

func (r *RawNDVIReading) UnmarshalJSON(b []byte) error {
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	if v, ok := m["plot_id"].(string); ok {
		r.PlotID = v
	}
	if v, ok := m["timestamp"].(string); ok {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			r.Timestamp = t
		}
	}
	r.Value = numPtr(m, "ndvi")
	return nil
}

func numPtr(m map[string]any, key string) *float64 {
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	switch x := v.(type) {
	case float64:
		return &x
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(x), ",", ".")
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return &f
		}
	}
	return nil
}
