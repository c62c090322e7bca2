// Package models defines data structures and domain types.
package models

// ModelType is the modality of a hosted model.
type ModelType string

const (
	// ModelTypeText is a text generation model.
	ModelTypeText ModelType = "text"
	// ModelTypeNativeAudio is a model that consumes audio natively.
	ModelTypeNativeAudio ModelType = "native-audio"
)

// Valid reports whether t is a known modality.
func (t ModelType) Valid() bool {
	return t == ModelTypeText || t == ModelTypeNativeAudio
}

// ModelDescriptor describes a model and its per-token pricing.
type ModelDescriptor struct {
	ID                   string    `json:"id" yaml:"id"`
	Label                string    `json:"label" yaml:"label"`
	Type                 ModelType `json:"type" yaml:"type"`
	InputCostPerMillion  float64   `json:"inputCostPer1MTokens" yaml:"input_cost_per_1m"`
	OutputCostPerMillion float64   `json:"outputCostPer1MTokens" yaml:"output_cost_per_1m"`
}
