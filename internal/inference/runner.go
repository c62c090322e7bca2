package inference

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/j-veylop/uranus/internal/logger"
	"github.com/j-veylop/uranus/internal/models"
	"github.com/j-veylop/uranus/internal/prompt"
)


// Catalog resolves model ids.
type Catalog interface {
	Lookup(id string) (models.ModelDescriptor, bool)
}

// RunRequest is an audio or OCR inference. AudioBase64 is ignored when
// InputText is set.
type RunRequest struct {
	ModelID     string
	AudioBase64 string
	MimeType    string
	InputText   string
	Options     prompt.Options
}

// URLRequest is a URL-context inference. A non-empty Prompt replaces the
// default instruction.
type URLRequest struct {
	ModelID string
	URL     string
	Prompt  string
	Options prompt.Options
}

// Runner resolves models, builds prompts and measures calls.
type Runner struct {
	catalog Catalog
	adapter Adapter
	now     func() time.Time
}

// NewRunner creates a runner.
func NewRunner(catalog Catalog, adapter Adapter) *Runner {
	return &Runner{catalog: catalog, adapter: adapter, now: time.Now}
}

// Run performs an audio or OCR inference. Provider failures are reported in
// the outcome with a nil error; a non-nil error means validation failed.
func (r *Runner) Run(ctx context.Context, req RunRequest) (models.InferenceOutcome, error) {
	model, ok := r.catalog.Lookup(req.ModelID)
	if !ok {
		return unknownModel(req.ModelID), ErrUnknownModel
	}
	if req.AudioBase64 == "" && req.InputText == "" {
		return models.FailedOutcome(model, 0, Message(ErrNoInput)), ErrNoInput
	}

	p := prompt.BuildAudioPrompt(req.Options)
	call := Request{ModelID: model.ID, SystemPrompt: p.SystemPrompt, UserMessage: p.UserMessage}

	started := r.now()
	if req.InputText != "" {
		call.UserMessage += "\n" + req.InputText
		call.Payload = Payload{Text: req.InputText}
	} else {
		audio, err := base64.StdEncoding.DecodeString(req.AudioBase64)
		if err != nil {
			return models.FailedOutcome(model, r.since(started), fmt.Sprintf("invalid base64 audio: %v", err)), nil
		}
		call.Payload = Payload{Audio: audio, MimeType: req.MimeType}
	}

	return r.invoke(ctx, model, call, started), nil
}

// RunURL performs a URL-context inference.
func (r *Runner) RunURL(ctx context.Context, req URLRequest) (models.InferenceOutcome, error) {
	model, ok := r.catalog.Lookup(req.ModelID)
	if !ok {
		return unknownModel(req.ModelID), ErrUnknownModel
	}
	if req.URL == "" {
		return models.FailedOutcome(model, 0, Message(ErrNoURL)), ErrNoURL
	}

	p := prompt.BuildURLPrompt(req.URL, req.Prompt, req.Options)
	call := Request{
		ModelID:      model.ID,
		SystemPrompt: p.SystemPrompt,
		UserMessage:  p.FinalPrompt,
		Payload:      Payload{URL: req.URL},
	}
	return r.invoke(ctx, model, call, r.now()), nil
}

// Result pairs an outcome with its validation error.
type Result struct {
	Outcome models.InferenceOutcome
	Err     error
}

// RunAll runs every request concurrently and waits for all of them.
// Results are in request order.
func (r *Runner) RunAll(ctx context.Context, reqs []RunRequest) []Result {
	results := make([]Result, len(reqs))

	var g errgroup.Group
	for i, req := range reqs {
		g.Go(func() error {
			out, err := r.Run(ctx, req)
			results[i] = Result{Outcome: out, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (r *Runner) invoke(ctx context.Context, model models.ModelDescriptor, call Request, started time.Time) models.InferenceOutcome {
	resp, err := r.adapter.Invoke(ctx, call)
	latency := r.since(started)
	if err != nil {
		logger.Warn("inference failed", "model", model.ID, "latency_ms", latency, "error", err)
		return models.FailedOutcome(model, latency, err.Error())
	}

	logger.Debug("inference completed", "model", model.ID, "latency_ms", latency)
	return models.InferenceOutcome{
		ModelID:    model.ID,
		ModelLabel: model.Label,
		ModelType:  model.Type,
		Text:       strings.TrimSpace(resp.Text),
		Usage:      prompt.FormatUsage(resp.Usage, model),
		LatencyMs:  latency,
		Success:    true,
	}
}

func (r *Runner) since(t time.Time) int64 {
	return r.now().Sub(t).Milliseconds()
}

func unknownModel(id string) models.InferenceOutcome {
	return models.InferenceOutcome{
		ModelID:    id,
		ModelLabel: id,
		ModelType:  models.ModelTypeText,
		Success:    false,
		Error:      Message(ErrUnknownModel),
	}
}
