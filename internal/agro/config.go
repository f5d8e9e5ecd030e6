package agro

// Config carries every tunable the pipeline depends on. It is passed
// explicitly into each component so the pipeline stays pure and
// independently testable; nothing reads ambient state.
type Config struct {
	// Effective-rainfall policy: precipitation counts in full up to this
	// threshold, any excess is assumed to run off.
	RainSaturationMM float64

	// Clamp range for the final crop coefficient.
	KcMin float64
	KcMax float64

	// NDVI health-factor interpolation breakpoints.
	NDVIStressed   float64 // at or below: factor = FactorStressed
	NDVIMidpoint   float64 // factor = 1.0 (identity)
	NDVIHealthy    float64 // at or above: factor = FactorHealthy
	FactorStressed float64
	FactorHealthy  float64

	// Drip emitter throughput used for per-tree duration figures.
	DripLitersPerHour float64

	// Water tariff for the savings report.
	TariffTNDPerM3 float64
	USDPerTND      float64
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		RainSaturationMM:  5.0,
		KcMin:             0.10,
		KcMax:             1.30,
		NDVIStressed:      0.2,
		NDVIMidpoint:      0.5,
		NDVIHealthy:       0.8,
		FactorStressed:    0.85,
		FactorHealthy:     1.10,
		DripLitersPerHour: 4.0,
		TariffTNDPerM3:    0.5,
		USDPerTND:         0.32,
	}
}
