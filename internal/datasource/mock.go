package datasource

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/Dhieaaldin/backend/internal/agro"
	"github.com/Dhieaaldin/backend/internal/model"
	"github.com/Dhieaaldin/backend/internal/model/messages"
)

// Mock synthesizes plausible weather and NDVI series for development.
// Output is deterministic per (plot, day) so repeated fetches agree and
// the downstream pipeline behaves reproducibly.
type Mock struct {
	mu sync.Mutex
}

func NewMock() *Mock { return &Mock{} }

func (m *Mock) FetchWeather(_ context.Context, plot model.CropPlot, from, to time.Time) ([]model.RawWeatherReading, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	height := 2.0
	var readings []model.RawWeatherReading
	for day := from.UTC().Truncate(24 * time.Hour); !day.After(to); day = day.AddDate(0, 0, 1) {
		rng := rand.New(rand.NewSource(daySeed(plot.ID, day)))
		doy := day.YearDay()

		// Seasonal mean temperature: warm mid-year in the northern
		// hemisphere, phase-shifted south of the equator.
		phase := 2 * math.Pi * float64(doy-15) / 365
		if plot.Latitude < 0 {
			phase += math.Pi
		}
		tMean := 18 - plot.Latitude/10 + 10*math.Sin(phase-math.Pi/2) + rng.Float64()*4 - 2
		tSpread := 5 + rng.Float64()*5
		tMin := tMean - tSpread/2
		tMax := tMean + tSpread/2

		humidity := clamp(55+rng.Float64()*30-15, 10, 100)
		wind := 1 + rng.Float64()*3

		sunFraction := 0.4 + rng.Float64()*0.6
		rs := (0.25 + 0.5*sunFraction) * agro.ExtraterrestrialRadiation(plot.Latitude, doy)

		// Rain on roughly one day in four, occasionally heavy.
		precip := 0.0
		if rng.Float64() < 0.25 {
			precip = rng.Float64() * 12
		}

		readings = append(readings, messages.RawWeatherReading{
			PlotID:           plot.ID,
			Timestamp:        day,
			TempMinC:         &tMin,
			TempMaxC:         &tMax,
			HumidityPct:      &humidity,
			WindSpeedMS:      &wind,
			WindHeightM:      &height,
			SolarRadiationMJ: &rs,
			PrecipitationMM:  &precip,
		})
	}
	return readings, nil
}

func (m *Mock) FetchNDVI(_ context.Context, plot model.CropPlot, from, to time.Time) ([]model.RawNDVIReading, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var readings []model.RawNDVIReading
	for day := from.UTC().Truncate(24 * time.Hour); !day.After(to); day = day.AddDate(0, 0, 1) {
		rng := rand.New(rand.NewSource(daySeed(plot.ID, day)))

		// Each plot keeps a characteristic vigor; day-to-day wobble is
		// small, the growth-stage arc dominates.
		base := 0.35 + float64(plotSeed(plot.ID)%40)/100 // 0.35..0.74
		days := day.Sub(plot.PlantingDate).Hours() / 24
		arc := 0.15 * math.Sin(math.Min(math.Pi, math.Max(0, days/240*math.Pi)))
		v := clamp(base+arc+rng.Float64()*0.06-0.03, -1, 1)

		readings = append(readings, messages.RawNDVIReading{
			PlotID:    plot.ID,
			Timestamp: day,
			Value:     &v,
		})
	}
	return readings, nil
}

func plotSeed(plotID string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(plotID))
	return int64(h.Sum64() & math.MaxInt64)
}

func daySeed(plotID string, day time.Time) int64 {
	return plotSeed(plotID) ^ day.Unix()
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
