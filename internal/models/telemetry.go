package models

// TelemetryRecord pairs an input with the outcome of its inference.
// Records are immutable once created.
type TelemetryRecord struct {
	ID        string           `json:"id"`
	Timestamp string           `json:"timestamp"`
	Input     InputDescriptor  `json:"input"`
	Result    InferenceOutcome `json:"result"`
}

// Totals summarizes every record in the store.
type Totals struct {
	TotalRequests      int            `json:"totalRequests"`
	SuccessfulRequests int            `json:"successfulRequests"`
	FailedRequests     int            `json:"failedRequests"`
	Usage              InferenceUsage `json:"totals"`
}

// ModelRollup aggregates records sharing a model id.
type ModelRollup struct {
	ModelID          string    `json:"modelId"`
	ModelLabel       string    `json:"modelLabel"`
	ModelType        ModelType `json:"modelType"`
	Count            int       `json:"count"`
	SuccessCount     int       `json:"successCount"`
	TotalTokens      int       `json:"totalTokens"`
	EstimatedCostUSD float64   `json:"estimatedCostUsd"`
	AverageLatencyMs int64     `json:"averageLatencyMs"`
}

// InputTypeRollup aggregates records sharing an input type.
type InputTypeRollup struct {
	InputType        InputType `json:"inputType"`
	InputTypeLabel   string    `json:"inputTypeLabel"`
	Count            int       `json:"count"`
	SuccessCount     int       `json:"successCount"`
	TotalTokens      int       `json:"totalTokens"`
	EstimatedCostUSD float64   `json:"estimatedCostUsd"`
	AverageLatencyMs int64     `json:"averageLatencyMs"`
}

// Snapshot is the dashboard view over the telemetry store.
type Snapshot struct {
	Totals
	ByModel     []ModelRollup     `json:"byModel"`
	ByInputType []InputTypeRollup `json:"byInputType"`
	Recent      []TelemetryRecord `json:"recent"`
}

// SuccessRate returns the percentage of successful requests, or 100 when empty.
func (t Totals) SuccessRate() float64 {
	if t.TotalRequests == 0 {
		return 100
	}
	return float64(t.SuccessfulRequests) / float64(t.TotalRequests) * 100
}
