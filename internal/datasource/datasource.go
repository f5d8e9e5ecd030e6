// Package datasource supplies raw weather and NDVI records to the
// ingest service. The pipeline is agnostic to which variant is active;
// Live talks to real providers, Mock synthesizes plausible data for
// development.
package datasource

import (
	"context"
	"time"

	"github.com/Dhieaaldin/backend/internal/model"
)

// DataSource produces raw records for a plot over a date range.
type DataSource interface {
	FetchWeather(ctx context.Context, plot model.CropPlot, from, to time.Time) ([]model.RawWeatherReading, error)
	FetchNDVI(ctx context.Context, plot model.CropPlot, from, to time.Time) ([]model.RawNDVIReading, error)
}
