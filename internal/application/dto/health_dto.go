package dto

// Valores de HealthResponse.Status y de cada chequeo.
const (
	HealthOK       = "ok"
	HealthDegraded = "degraded"
)

// HealthResponse cuerpo de GET /health.
type HealthResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Checks  map[string]string `json:"checks"`
}
