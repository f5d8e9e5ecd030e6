package model

import (
	"github.com/Dhieaaldin/backend/internal/model/entities"
	"github.com/Dhieaaldin/backend/internal/model/messages"
)

// Aliases exposing the common types to the services.

type (
	CropPlot                 = entities.CropPlot
	WeatherObservation       = entities.WeatherObservation
	NDVIObservation          = entities.NDVIObservation
	IrrigationRecommendation = entities.IrrigationRecommendation
	SavingsReport            = entities.SavingsReport
	RawWeatherReading        = messages.RawWeatherReading
	RawNDVIReading           = messages.RawNDVIReading
	RecommendationEvent      = messages.RecommendationEvent
)
