package agro

import (
	"time"

	"github.com/Dhieaaldin/backend/internal/model/entities"
)

// stageLengths holds the per-crop stage durations in days since
// planting, after FAO-56 table 11. Olives carry a long evergreen season.
var stageLengths = map[entities.CropType]entities.StageLengths{
	entities.CropOlive:  {Initial: 30, Development: 90, MidSeason: 60, LateSeason: 90},
	entities.CropCorn:   {Initial: 30, Development: 40, MidSeason: 50, LateSeason: 30},
	entities.CropWheat:  {Initial: 20, Development: 25, MidSeason: 60, LateSeason: 30},
	entities.CropTomato: {Initial: 30, Development: 40, MidSeason: 40, LateSeason: 25},
}

// StageFor derives the growth stage of a plot at a date. Dates before
// planting count as Initial; dates past the season stay LateSeason.
func StageFor(plot entities.CropPlot, date time.Time) (entities.GrowthStage, error) {
	lengths, ok := stageLengths[plot.Crop]
	if !ok {
		return "", &UnknownCropError{Crop: plot.Crop}
	}

	days := int(date.Sub(plot.PlantingDate).Hours() / 24)
	if days < 0 {
		days = 0
	}

	switch {
	case days < lengths.Initial:
		return entities.StageInitial, nil
	case days < lengths.Initial+lengths.Development:
		return entities.StageDevelopment, nil
	case days < lengths.Initial+lengths.Development+lengths.MidSeason:
		return entities.StageMidSeason, nil
	default:
		return entities.StageLateSeason, nil
	}
}
