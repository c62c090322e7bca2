package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/j-veylop/uranus/internal/logger"
	"github.com/j-veylop/uranus/internal/models"
)

// LegacyShape is the part of a stored line that decides its input type.
// Older lines carried a top-level "audio" object instead of a tagged input,
// and some tagged inputs predate the "type" field.
type LegacyShape struct {
	HasAudioMarker bool
	HasInput       bool
	Type           string
	URL            string
	ExtractedText  string
}

// ClassifyInputType resolves the input type of a stored line. Rules are
// checked in order and the first match wins:
//
//  1. a legacy audio marker without an input object is audio
//  2. an explicit input.type
//  3. input.url present means url
//  4. input.extractedText present means ocr
//  5. anything else is audio
func ClassifyInputType(s LegacyShape) models.InputType {
	switch {
	case s.HasAudioMarker && !s.HasInput:
		return models.InputAudio
	case s.Type != "":
		return models.InputType(s.Type)
	case s.URL != "":
		return models.InputURL
	case s.ExtractedText != "":
		return models.InputOCR
	default:
		return models.InputAudio
	}
}

type storedInput struct {
	Type             string `json:"type"`
	MimeType         string `json:"mimeType"`
	ApproximateBytes int64  `json:"approximateBytes"`
	ExtractedText    string `json:"extractedText"`
	URL              string `json:"url"`
}

type storedRecord struct {
	ID        string                   `json:"id"`
	Timestamp string                   `json:"timestamp"`
	Input     *storedInput             `json:"input"`
	Audio     json.RawMessage          `json:"audio"`
	Result    *models.InferenceOutcome `json:"result"`
}

var errMissingResult = errors.New("record has no result")

// decodeRecord parses one log line and migrates legacy shapes into a tagged
// InputDescriptor, so aggregation never has to inspect raw JSON again.
func decodeRecord(line []byte) (models.TelemetryRecord, error) {
	var stored storedRecord
	if err := json.Unmarshal(line, &stored); err != nil {
		return models.TelemetryRecord{}, fmt.Errorf("invalid json: %w", err)
	}
	if stored.Result == nil {
		return models.TelemetryRecord{}, errMissingResult
	}

	shape := LegacyShape{
		HasAudioMarker: hasValue(stored.Audio),
		HasInput:       stored.Input != nil,
	}
	in := storedInput{}
	if stored.Input != nil {
		in = *stored.Input
		shape.Type = in.Type
		shape.URL = in.URL
		shape.ExtractedText = in.ExtractedText
	}

	kind := ClassifyInputType(shape)
	if kind == models.InputAudio && shape.HasAudioMarker && !shape.HasInput {
		// Legacy audio objects used the same field names.
		if err := json.Unmarshal(stored.Audio, &in); err != nil {
			logger.Debug("legacy audio object not decoded", "id", stored.ID, "error", err)
		}
	}

	return models.TelemetryRecord{
		ID:        stored.ID,
		Timestamp: stored.Timestamp,
		Input: models.InputDescriptor{
			Type:             kind,
			MimeType:         in.MimeType,
			ApproximateBytes: in.ApproximateBytes,
			ExtractedText:    in.ExtractedText,
			URL:              in.URL,
		},
		Result: *stored.Result,
	}, nil
}

// hasValue reports whether raw holds a truthy JSON value.
func hasValue(raw json.RawMessage) bool {
	v := bytes.TrimSpace(raw)
	if len(v) == 0 {
		return false
	}
	switch string(v) {
	case "null", "false", "0", `""`:
		return false
	}
	return true
}
