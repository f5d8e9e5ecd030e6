package messages

import (
	"time"

	"github.com/Dhieaaldin/backend/internal/model/entities"
)

// RecommendationEvent is published by the planner to record WHAT was
// recommended and WHY. EventID doubles as the downstream dedup key.
type RecommendationEvent struct {
	EventID        string                            `json:"event_id"`
	Recommendation entities.IrrigationRecommendation `json:"recommendation"`
	Health         entities.HealthStatus             `json:"health"`
	PublishedAt    time.Time                         `json:"published_at"`
}
