package server

import (
	"errors"
	"net/http"

	"github.com/j-veylop/uranus/internal/audio"
	"github.com/j-veylop/uranus/internal/catalog"
	"github.com/j-veylop/uranus/internal/inference"
	"github.com/j-veylop/uranus/internal/logger"
	"github.com/j-veylop/uranus/internal/models"
	"github.com/j-veylop/uranus/internal/prompt"
	"github.com/j-veylop/uranus/internal/telemetry"
)

const (
	defaultAudioMime = "audio/webm"
	previewAudioData = "[binary audio omitted in preview]"
)

type describeRequest struct {
	AudioBase64 string   `json:"audioBase64"`
	MimeType    string   `json:"mimeType"`
	ModelID     string   `json:"modelId"`
	ModelIDs    []string `json:"modelIds"`
	RunAll      bool     `json:"runAll"`
	prompt.Options
}

type urlDescribeRequest struct {
	URL     string `json:"url"`
	ModelID string `json:"modelId"`
	Prompt  string `json:"prompt"`
	prompt.Options
}

type ocrDescribeRequest struct {
	ImageBase64 string `json:"imageBase64"`
	ModelID     string `json:"modelId"`
	prompt.Options
}

type saveAudioRequest struct {
	Name        string `json:"name"`
	AudioBase64 string `json:"audioBase64"`
	MimeType    string `json:"mimeType"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"timestamp": s.now().UTC().Format(telemetry.TimestampLayout),
	})
}

func (s *Server) handleModels(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"models": s.deps.Models.All()})
}

func (s *Server) handleTelemetry(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := telemetry.Filter{
		ModelLabel: q.Get("modelName"),
		ModelType:  models.ModelType(q.Get("modelType")),
	}
	writeJSON(w, http.StatusOK, s.deps.Telemetry.Snapshot(filter))
}

func (s *Server) handleHourly(w http.ResponseWriter, r *http.Request) {
	hours := intFromQuery(r, "hours", 24)
	if s.deps.Hourly == nil {
		writeJSON(w, http.StatusOK, map[string]any{"hours": hours, "buckets": []models.HourlyStats{}})
		return
	}

	stats, err := s.deps.Hourly.GetHourlyStats(hours)
	if err != nil {
		logger.Error("failed to query hourly stats", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to query hourly stats")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"hours": hours, "buckets": stats})
}

// providerReady writes a 500 and returns false when no model provider is
// configured.
func (s *Server) providerReady(w http.ResponseWriter) bool {
	if err := s.deps.CheckProvider(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return false
	}
	return true
}

// record stores an outcome and reports whether it reached the log.
func (s *Server) record(r *http.Request, input models.InputDescriptor, outcome models.InferenceOutcome) bool {
	if _, err := s.deps.Telemetry.Record(r.Context(), input, outcome); err != nil {
		logger.Error("failed to record telemetry", "model", outcome.ModelID, "error", err)
		return false
	}
	return true
}

func (s *Server) handleDescribe(w http.ResponseWriter, r *http.Request) {
	if !s.providerReady(w) {
		return
	}

	var req describeRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.AudioBase64 == "" || req.MimeType == "" {
		writeError(w, http.StatusBadRequest, "audioBase64 and mimeType are required")
		return
	}

	var ids []string
	switch {
	case req.RunAll:
		ids = s.deps.Models.IDs()
	case len(req.ModelIDs) > 0:
		ids = req.ModelIDs
	case req.ModelID != "":
		ids = []string{req.ModelID}
	}
	if len(ids) == 0 {
		writeError(w, http.StatusBadRequest, "Provide modelId, modelIds, or runAll=true")
		return
	}

	opts := req.Options.WithDefaults()
	runs := make([]inference.RunRequest, len(ids))
	for i, id := range ids {
		runs[i] = inference.RunRequest{
			ModelID:     id,
			AudioBase64: req.AudioBase64,
			MimeType:    req.MimeType,
			Options:     opts,
		}
	}

	results := s.deps.Runner.RunAll(r.Context(), runs)

	input := models.AudioInput(req.MimeType, int64(len(req.AudioBase64))*3/4)
	outcomes := make([]models.InferenceOutcome, len(results))
	persisted := true
	for i, res := range results {
		outcomes[i] = res.Outcome
		if res.Err != nil {
			continue
		}
		if !s.record(r, input, res.Outcome) {
			persisted = false
		}
	}
	if !persisted {
		writeError(w, http.StatusInternalServerError, telemetry.ErrPersist.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"count": len(outcomes), "results": outcomes})
}

func (s *Server) handleURLDescribe(w http.ResponseWriter, r *http.Request) {
	if !s.providerReady(w) {
		return
	}

	var req urlDescribeRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}
	if req.ModelID == "" {
		req.ModelID = catalog.DefaultModelID
	}

	outcome, err := s.deps.Runner.RunURL(r.Context(), inference.URLRequest{
		ModelID: req.ModelID,
		URL:     req.URL,
		Prompt:  req.Prompt,
		Options: req.Options,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, inference.Message(err))
		return
	}

	if !s.record(r, models.URLInput(req.URL), outcome) {
		writeError(w, http.StatusInternalServerError, telemetry.ErrPersist.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"result": outcome})
}

func (s *Server) handleOCRDescribe(w http.ResponseWriter, r *http.Request) {
	if !s.providerReady(w) {
		return
	}

	var req ocrDescribeRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ImageBase64 == "" {
		writeError(w, http.StatusBadRequest, "imageBase64 is required")
		return
	}
	if req.ModelID == "" {
		req.ModelID = catalog.DefaultModelID
	}

	text, ok := s.extractText(w, r, req.ImageBase64)
	if !ok {
		return
	}

	outcome, err := s.deps.Runner.Run(r.Context(), inference.RunRequest{
		ModelID:   req.ModelID,
		MimeType:  "text/plain",
		InputText: text,
		Options:   req.Options.WithDefaults(),
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, inference.Message(err))
		return
	}

	if !s.record(r, models.OCRInput("image", text), outcome) {
		writeError(w, http.StatusInternalServerError, telemetry.ErrPersist.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"result": outcome})
}

// extractText runs OCR and writes the error response when there is nothing
// to describe.
func (s *Server) extractText(w http.ResponseWriter, r *http.Request, imageBase64 string) (string, bool) {
	text, err := s.deps.OCR.ExtractText(r.Context(), imageBase64)
	if err != nil {
		logger.Error("ocr failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return "", false
	}
	if text == "" {
		writeError(w, http.StatusBadRequest, inference.Message(inference.ErrNoText))
		return "", false
	}
	return text, true
}

func (s *Server) handleDescribePreview(w http.ResponseWriter, r *http.Request) {
	var req describeRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	mime := req.MimeType
	if mime == "" {
		mime = defaultAudioMime
	}

	p := prompt.BuildAudioPrompt(req.Options.WithDefaults())
	writeJSON(w, http.StatusOK, map[string]any{
		"mode": "audio",
		"preview": map[string]any{
			"systemPrompt": p.SystemPrompt,
			"userMessage":  p.UserMessage,
			"messageContent": []map[string]string{
				{"type": "text", "text": p.UserMessage},
				{"type": "file", "mediaType": mime, "data": previewAudioData},
			},
		},
	})
}

func (s *Server) handleURLDescribePreview(w http.ResponseWriter, r *http.Request) {
	var req urlDescribeRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	p := prompt.BuildURLPrompt(req.URL, req.Prompt, req.Options)
	writeJSON(w, http.StatusOK, map[string]any{"mode": "url", "preview": p})
}

func (s *Server) handleOCRDescribePreview(w http.ResponseWriter, r *http.Request) {
	var req ocrDescribeRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ImageBase64 == "" {
		writeError(w, http.StatusBadRequest, "imageBase64 is required")
		return
	}

	text, ok := s.extractText(w, r, req.ImageBase64)
	if !ok {
		return
	}

	p := prompt.BuildAudioPrompt(req.Options.WithDefaults())
	writeJSON(w, http.StatusOK, map[string]any{
		"mode": "ocr",
		"preview": map[string]any{
			"systemPrompt":  p.SystemPrompt,
			"userMessage":   p.UserMessage + "\n" + text,
			"extractedText": text,
		},
	})
}

func (s *Server) handleListAudio(w http.ResponseWriter, _ *http.Request) {
	list, err := s.deps.Audio.List()
	if err != nil {
		logger.Error("failed to list saved audio", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list saved audio")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"savedAudio": list})
}

func (s *Server) handleSaveAudio(w http.ResponseWriter, r *http.Request) {
	var req saveAudioRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	info, err := s.deps.Audio.Save(req.Name, req.AudioBase64, req.MimeType)
	if err != nil {
		if errors.Is(err, audio.ErrInvalid) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		logger.Error("failed to save audio", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save audio")
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleGetAudio(w http.ResponseWriter, r *http.Request) {
	rec, err := s.deps.Audio.Get(r.PathValue("id"))
	if err != nil {
		if !errors.Is(err, audio.ErrNotFound) {
			logger.Error("failed to read saved audio", "error", err)
		}
		writeError(w, http.StatusNotFound, audio.ErrNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
