package agro

import (
	"math"

	"github.com/Dhieaaldin/backend/internal/model/entities"
)

// FAO-56 constants. Downstream recommendations are sensitive to small
// coefficient drift, so these must match the reference exactly.
const (
	solarConstant   = 0.0820   // MJ/m²/min
	stefanBoltzmann = 4.903e-9 // MJ/K⁴/m²/day
	albedo          = 0.23     // grass reference surface
	windCoefficient = 900.0
	windResistance  = 0.34
)

// ET0Calculator computes reference evapotranspiration with the full
// FAO-56 Penman-Monteith formulation for the grass reference surface.
type ET0Calculator struct{}

func NewET0Calculator() *ET0Calculator { return &ET0Calculator{} }

// Compute returns ET0 in mm/day, never negative. The observation is
// assumed already validated; only the site parameters are checked here.
func (c *ET0Calculator) Compute(obs entities.WeatherObservation, elevationM, latitudeDeg float64, dayOfYear int) (float64, error) {
	if math.IsNaN(latitudeDeg) || latitudeDeg < -90 || latitudeDeg > 90 {
		return 0, &ComputationError{Param: "latitude", Reason: "missing or outside [-90,90]"}
	}
	if math.IsNaN(elevationM) || elevationM < -450 {
		return 0, &ComputationError{Param: "elevation", Reason: "missing or below sea-floor"}
	}
	if dayOfYear < 1 || dayOfYear > 366 {
		return 0, &ComputationError{Param: "day_of_year", Reason: "outside [1,366]"}
	}

	tMean := (obs.TempMaxC + obs.TempMinC) / 2

	// Atmospheric pressure (eq. 7) and psychrometric constant (eq. 8).
	pressure := 101.3 * math.Pow((293-0.0065*elevationM)/293, 5.26)
	gamma := 0.000665 * pressure

	// Vapour pressure: saturation (eq. 11/12), actual from mean RH, and
	// slope of the saturation curve (eq. 13).
	es := (satVapour(obs.TempMaxC) + satVapour(obs.TempMinC)) / 2
	ea := es * obs.HumidityPct / 100
	delta := 4098 * satVapour(tMean) / math.Pow(tMean+237.3, 2)

	// Radiation terms (eq. 21-40).
	ra := ExtraterrestrialRadiation(latitudeDeg, dayOfYear)
	rso := (0.75 + 2e-5*elevationM) * ra
	rns := (1 - albedo) * obs.SolarRadiationMJ
	rnl := netLongwave(obs.TempMaxC, obs.TempMinC, ea, obs.SolarRadiationMJ, rso)
	rn := rns - rnl

	// Combination equation (eq. 6), soil heat flux G = 0 at daily scale.
	u2 := obs.WindSpeed2mMS
	num := 0.408*delta*rn + gamma*windCoefficient/(tMean+273)*u2*(es-ea)
	den := delta + gamma*(1+windResistance*u2)
	et0 := num / den

	// Negative evapotranspiration is physically meaningless here.
	return math.Max(0, et0), nil
}

// satVapour is the Magnus form e°(T) in kPa (eq. 11).
func satVapour(tempC float64) float64 {
	return 0.6108 * math.Exp(17.27*tempC/(tempC+237.3))
}

// ExtraterrestrialRadiation computes Ra in MJ/m²/day (eq. 21). Exported
// because the live data source estimates solar radiation from it when a
// provider reports cloud cover instead of radiation.
func ExtraterrestrialRadiation(latitudeDeg float64, dayOfYear int) float64 {
	phi := latitudeDeg * math.Pi / 180
	j := float64(dayOfYear)

	dr := 1 + 0.033*math.Cos(2*math.Pi/365*j)
	decl := 0.409 * math.Sin(2*math.Pi/365*j-1.39)

	// Sunset hour angle; the clamp keeps polar day/night inside acos's
	// domain.
	x := -math.Tan(phi) * math.Tan(decl)
	ws := math.Acos(math.Min(1, math.Max(-1, x)))

	return 24 * 60 / math.Pi * solarConstant * dr *
		(ws*math.Sin(phi)*math.Sin(decl) + math.Cos(phi)*math.Cos(decl)*math.Sin(ws))
}

// netLongwave computes Rnl in MJ/m²/day (eq. 39).
func netLongwave(tMaxC, tMinC, ea, rs, rso float64) float64 {
	tMaxK4 := math.Pow(tMaxC+273.16, 4)
	tMinK4 := math.Pow(tMinC+273.16, 4)
	cloudiness := 1.35*math.Min(rs/rso, 1) - 0.35
	return stefanBoltzmann * (tMaxK4 + tMinK4) / 2 * (0.34 - 0.14*math.Sqrt(ea)) * cloudiness
}
