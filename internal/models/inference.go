package models

// InferenceUsage is the token usage and estimated cost of one inference.
// EstimatedCostUSD is kept unrounded; rounding happens at display time.
type InferenceUsage struct {
	InputTokens      int     `json:"inputTokens"`
	OutputTokens     int     `json:"outputTokens"`
	TotalTokens      int     `json:"totalTokens"`
	EstimatedCostUSD float64 `json:"estimatedCostUsd"`
}

// Add accumulates other into u.
func (u *InferenceUsage) Add(other InferenceUsage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.TotalTokens += other.TotalTokens
	u.EstimatedCostUSD += other.EstimatedCostUSD
}

// InferenceOutcome is the result of one completed call to the model provider.
type InferenceOutcome struct {
	ModelID    string         `json:"modelId"`
	ModelLabel string         `json:"modelLabel"`
	ModelType  ModelType      `json:"modelType"`
	Text       string         `json:"text"`
	Usage      InferenceUsage `json:"usage"`
	LatencyMs  int64          `json:"latencyMs"`
	Success    bool           `json:"success"`
	Error      string         `json:"error,omitempty"`
}

// FailedOutcome builds a failed outcome for model with zero usage.
func FailedOutcome(model ModelDescriptor, latencyMs int64, message string) InferenceOutcome {
	return InferenceOutcome{
		ModelID:    model.ID,
		ModelLabel: model.Label,
		ModelType:  model.Type,
		LatencyMs:  latencyMs,
		Success:    false,
		Error:      message,
	}
}
