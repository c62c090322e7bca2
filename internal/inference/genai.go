package inference

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"google.golang.org/genai"

	"github.com/j-veylop/uranus/internal/prompt"
)

// GenAIConfig selects the backend. A project selects Vertex AI; otherwise
// the API key is used in Vertex AI express mode.
type GenAIConfig struct {
	Project  string
	Location string
	APIKey   string
}

// GenAIAdapter calls Gemini models through google.golang.org/genai.
type GenAIAdapter struct {
	client *genai.Client
}

// NewGenAIAdapter creates the client. It does not contact the provider.
func NewGenAIAdapter(ctx context.Context, cfg GenAIConfig) (*GenAIAdapter, error) {
	cc := &genai.ClientConfig{}
	switch {
	case cfg.Project != "":
		cc.Backend = genai.BackendVertexAI
		cc.Project = cfg.Project
		cc.Location = cfg.Location
	case cfg.APIKey != "":
		cc.Backend = genai.BackendVertexAI
		cc.APIKey = cfg.APIKey
	default:
		return nil, errors.New("GenAI project or API key is required")
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GenAIAdapter{client: client}, nil
}

// generationConfig is shared by every flow. URL requests add the
// URL-context tool so the model can fetch the page.
func generationConfig(req Request) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.2),
		SafetySettings: []*genai.SafetySetting{
			{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockLowAndAbove},
			{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockLowAndAbove},
			{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
		},
	}
	if req.SystemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}
	if req.Payload.URL != "" {
		cfg.Tools = []*genai.Tool{{URLContext: &genai.URLContext{}}}
	}
	return cfg
}

// contents builds the user turn.
func contents(req Request) []*genai.Content {
	parts := []*genai.Part{genai.NewPartFromText(req.UserMessage)}
	if len(req.Payload.Audio) > 0 {
		parts = append(parts, genai.NewPartFromBytes(req.Payload.Audio, req.Payload.MimeType))
	}
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
}

// Invoke implements Adapter. A blocked prompt or a candidate stopped by a
// safety or blocklist filter is returned as an ErrBlocked error.
func (a *GenAIAdapter) Invoke(ctx context.Context, req Request) (Response, error) {
	resp, err := a.client.Models.GenerateContent(ctx, req.ModelID, contents(req), generationConfig(req))
	if err != nil {
		return Response{}, fmt.Errorf("GenAI generate failed: %w", err)
	}
	if err := checkBlocked(resp); err != nil {
		return Response{}, err
	}

	out := Response{Text: resp.Text()}
	if md := resp.UsageMetadata; md != nil {
		in := int(md.PromptTokenCount)
		cand := int(md.CandidatesTokenCount)
		out.Usage = prompt.RawUsage{InputTokens: &in, OutputTokens: &cand}
		// An absent total is recomputed by FormatUsage.
		if md.TotalTokenCount > 0 {
			total := int(md.TotalTokenCount)
			out.Usage.TotalTokens = &total
		}
	}
	return out, nil
}

var blockingFinishReasons = []genai.FinishReason{
	genai.FinishReasonSafety,
	genai.FinishReasonProhibitedContent,
	genai.FinishReasonBlocklist,
	genai.FinishReasonSPII,
}

func checkBlocked(resp *genai.GenerateContentResponse) error {
	if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return fmt.Errorf("%w: prompt %s", ErrBlocked, fb.BlockReason)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return fmt.Errorf("%w: no candidates", ErrBlocked)
	}
	if reason := resp.Candidates[0].FinishReason; slices.Contains(blockingFinishReasons, reason) {
		return fmt.Errorf("%w: finish reason %s", ErrBlocked, reason)
	}
	return nil
}
