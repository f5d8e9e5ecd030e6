package entities

// CropType enumerates the crops the coefficient table knows about.
type CropType string

const (
	CropOlive  CropType = "olive"
	CropCorn   CropType = "corn"
	CropWheat  CropType = "wheat"
	CropTomato CropType = "tomato"
)

// GrowthStage is a phase of crop development. It is derived from the
// planting date, never stored.
type GrowthStage string

const (
	StageInitial     GrowthStage = "initial"
	StageDevelopment GrowthStage = "development"
	StageMidSeason   GrowthStage = "mid_season"
	StageLateSeason  GrowthStage = "late_season"
)

// Stages in chronological order, used for table validation and iteration.
var StageOrder = []GrowthStage{StageInitial, StageDevelopment, StageMidSeason, StageLateSeason}

// KcRow holds the base crop coefficient per growth stage.
type KcRow struct {
	Initial     float64 `json:"initial"`
	Development float64 `json:"development"`
	MidSeason   float64 `json:"mid_season"`
	LateSeason  float64 `json:"late_season"`
}

// Kc returns the base coefficient for a stage.
func (r KcRow) Kc(s GrowthStage) float64 {
	switch s {
	case StageInitial:
		return r.Initial
	case StageDevelopment:
		return r.Development
	case StageMidSeason:
		return r.MidSeason
	default:
		return r.LateSeason
	}
}

// KcTable maps crop type to its stage coefficients. Reference data,
// supplied as configuration and read-only afterwards.
type KcTable map[CropType]KcRow

// StageLengths holds the duration of each stage in days since planting.
type StageLengths struct {
	Initial     int `json:"initial_days"`
	Development int `json:"development_days"`
	MidSeason   int `json:"mid_season_days"`
	LateSeason  int `json:"late_season_days"`
}
