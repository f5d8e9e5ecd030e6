package agro

import (
	"math"
	"time"

	"github.com/Dhieaaldin/backend/internal/model/entities"
	"github.com/Dhieaaldin/backend/internal/model/messages"
)

const defaultWindHeightM = 10.0

// WeatherAggregator validates raw weather readings and normalizes them
// into canonical WeatherObservations. Pure, no side effects.
type WeatherAggregator struct{}

func NewWeatherAggregator() *WeatherAggregator { return &WeatherAggregator{} }

// Normalize checks a raw reading against the invariants and returns the
// canonical observation. On violation it fails with a ValidationError
// naming the offending field; it never returns a best-effort object.
func (a *WeatherAggregator) Normalize(raw messages.RawWeatherReading) (entities.WeatherObservation, error) {
	var zero entities.WeatherObservation

	if raw.PlotID == "" {
		return zero, &ValidationError{Field: "plot_id", Reason: "missing"}
	}
	if raw.Timestamp.IsZero() {
		return zero, &ValidationError{Field: "timestamp", Reason: "missing"}
	}
	for _, f := range []struct {
		name string
		val  *float64
	}{
		{"temp_min", raw.TempMinC},
		{"temp_max", raw.TempMaxC},
		{"humidity", raw.HumidityPct},
		{"wind_speed", raw.WindSpeedMS},
		{"solar_radiation", raw.SolarRadiationMJ},
		{"precipitation", raw.PrecipitationMM},
	} {
		if f.val == nil {
			return zero, &ValidationError{Field: f.name, Reason: "missing"}
		}
		if math.IsNaN(*f.val) || math.IsInf(*f.val, 0) {
			return zero, &ValidationError{Field: f.name, Reason: "not a finite number"}
		}
	}

	if *raw.TempMaxC < *raw.TempMinC {
		return zero, &ValidationError{Field: "temp_max", Reason: "below temp_min"}
	}
	if *raw.HumidityPct < 0 || *raw.HumidityPct > 100 {
		return zero, &ValidationError{Field: "humidity", Reason: "outside [0,100]"}
	}
	if *raw.WindSpeedMS < 0 {
		return zero, &ValidationError{Field: "wind_speed", Reason: "negative"}
	}
	if *raw.SolarRadiationMJ < 0 {
		return zero, &ValidationError{Field: "solar_radiation", Reason: "negative"}
	}
	if *raw.PrecipitationMM < 0 {
		return zero, &ValidationError{Field: "precipitation", Reason: "negative"}
	}

	height := defaultWindHeightM
	if raw.WindHeightM != nil {
		if *raw.WindHeightM <= 0 {
			return zero, &ValidationError{Field: "wind_height_m", Reason: "not positive"}
		}
		height = *raw.WindHeightM
	}

	return entities.WeatherObservation{
		PlotID:           raw.PlotID,
		Date:             raw.Timestamp.UTC().Truncate(24 * time.Hour),
		TempMinC:         *raw.TempMinC,
		TempMaxC:         *raw.TempMaxC,
		HumidityPct:      *raw.HumidityPct,
		WindSpeed2mMS:    windAt2m(*raw.WindSpeedMS, height),
		SolarRadiationMJ: *raw.SolarRadiationMJ,
		PrecipitationMM:  *raw.PrecipitationMM,
	}, nil
}

// Daily rolls a set of same-day observations for one plot into a single
// aggregated record: extreme temperatures, mean humidity/wind/radiation,
// summed precipitation.
func (a *WeatherAggregator) Daily(obs []entities.WeatherObservation) (entities.WeatherObservation, error) {
	var zero entities.WeatherObservation
	if len(obs) == 0 {
		return zero, &ValidationError{Field: "observations", Reason: "empty"}
	}

	out := obs[0]
	var humSum, windSum, radSum, rainSum float64
	for _, o := range obs {
		if o.PlotID != out.PlotID {
			return zero, &ValidationError{Field: "plot_id", Reason: "mixed plots in one batch"}
		}
		out.TempMinC = math.Min(out.TempMinC, o.TempMinC)
		out.TempMaxC = math.Max(out.TempMaxC, o.TempMaxC)
		humSum += o.HumidityPct
		windSum += o.WindSpeed2mMS
		radSum += o.SolarRadiationMJ
		rainSum += o.PrecipitationMM
		if o.Date.After(out.Date) {
			out.Date = o.Date
		}
	}
	n := float64(len(obs))
	out.HumidityPct = humSum / n
	out.WindSpeed2mMS = windSum / n
	out.SolarRadiationMJ = radSum / n
	out.PrecipitationMM = rainSum
	out.Aggregated = true
	return out, nil
}

// windAt2m corrects wind measured at height z to the FAO-56 2 m
// reference using the logarithmic wind profile (eq. 47).
func windAt2m(speed, heightM float64) float64 {
	if heightM == 2 {
		return speed
	}
	return speed * 4.87 / math.Log(67.8*heightM-5.42)
}
