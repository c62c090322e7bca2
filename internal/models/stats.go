package models

import "time"

// HourlyStats represents usage statistics grouped by hour.
type HourlyStats struct {
	Hour         time.Time `json:"hour"`
	TotalCalls   int       `json:"totalCalls"`
	TotalTokens  int64     `json:"totalTokens"`
	CostUSD      float64   `json:"estimatedCostUsd"`
	AvgLatencyMs float64   `json:"averageLatencyMs"`
	FailedCalls  int       `json:"failedCalls"`
}

// TotalStats represents overall aggregated statistics.
type TotalStats struct {
	TotalCalls        int
	TotalInputTokens  int64
	TotalOutputTokens int64
	CostUSD           float64
	AvgLatencyMs      float64
	FailedCalls       int
	UniqueModels      int
}
