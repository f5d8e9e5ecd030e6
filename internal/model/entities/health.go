package entities

// HealthStatus classifies vegetation condition from NDVI for presentation.
type HealthStatus string

const (
	HealthCritical  HealthStatus = "critical"
	HealthStressed  HealthStatus = "stressed"
	HealthHealthy   HealthStatus = "healthy"
	HealthExcellent HealthStatus = "excellent"
)
