package models

import "time"

// SystemMetrics is the aggregated runtime snapshot served to admins.
type SystemMetrics struct {
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	StateHits                uint64    `json:"state_hits"`
	StateMisses              uint64    `json:"state_misses"`
	StateHitRatio            float64   `json:"state_hit_ratio"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
