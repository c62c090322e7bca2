package models

import "time"

// InferenceCall is one telemetry record flattened into a database row.
type InferenceCall struct {
	Timestamp    time.Time
	ID           string
	ModelID      string
	ModelLabel   string
	ModelType    string
	InputType    string
	Error        string
	InputTokens  int
	OutputTokens int
	TotalTokens  int
	LatencyMs    int64
	CostUSD      float64
	Success      bool
}
