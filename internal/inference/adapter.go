// Package inference runs product descriptions against hosted models and
// turns every attempt into an InferenceOutcome.
package inference

import (
	"context"

	"github.com/j-veylop/uranus/internal/prompt"
)

// Payload is the material sent with a request. Exactly one of audio, text
// or URL is set.
type Payload struct {
	Audio    []byte
	MimeType string
	Text     string
	URL      string
}

// Request is one call to a model provider.
type Request struct {
	ModelID      string
	SystemPrompt string
	UserMessage  string
	Payload      Payload
}

// Response is the provider's answer. Usage fields may be missing.
type Response struct {
	Text  string
	Usage prompt.RawUsage
}

// Adapter submits a request to a model provider. It makes a single
// blocking call; retries are the caller's concern.
type Adapter interface {
	Invoke(ctx context.Context, req Request) (Response, error)
}

// AdapterFunc adapts a function to the Adapter interface.
type AdapterFunc func(ctx context.Context, req Request) (Response, error)

// Invoke calls f.
func (f AdapterFunc) Invoke(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}
