package models

// HealthData mirrors the payload the about screen renders.
type HealthData struct {
	ApplicationName string `json:"applicationName"`
	Version         string `json:"version"`
	Status          string `json:"status"`
	DatabaseStatus  string `json:"databaseStatus"`
	TotalMemory     string `json:"totalMemory"`
	FreeMemory      string `json:"freeMemory"`
	MaxMemory       string `json:"maxMemory"`
	Uptime          string `json:"uptime"`
	Timestamp       string `json:"timestamp"`
}
