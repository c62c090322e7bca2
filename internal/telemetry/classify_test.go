package telemetry

import (
	"strings"
	"testing"

	"github.com/j-veylop/uranus/internal/models"
)

func TestClassifyInputType(t *testing.T) {
	tests := []struct {
		name  string
		shape LegacyShape
		want  models.InputType
	}{
		{"legacy audio marker", LegacyShape{HasAudioMarker: true}, models.InputAudio},
		{"marker ignored when input present", LegacyShape{HasAudioMarker: true, HasInput: true, URL: "https://x"}, models.InputURL},
		{"explicit type wins over url", LegacyShape{HasInput: true, Type: "ocr", URL: "https://x"}, models.InputOCR},
		{"url before extracted text", LegacyShape{HasInput: true, URL: "https://x", ExtractedText: "t"}, models.InputURL},
		{"extracted text", LegacyShape{HasInput: true, ExtractedText: "t"}, models.InputOCR},
		{"empty input", LegacyShape{HasInput: true}, models.InputAudio},
		{"nothing at all", LegacyShape{}, models.InputAudio},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyInputType(tt.shape); got != tt.want {
				t.Errorf("ClassifyInputType(%+v) = %s, want %s", tt.shape, got, tt.want)
			}
		})
	}
}

func TestDecodeRecord(t *testing.T) {
	t.Run("tagged record", func(t *testing.T) {
		r, err := decodeRecord([]byte(`{"id":"x","timestamp":"t","input":{"type":"ocr","mimeType":"image","extractedText":"hi"},"result":{"modelId":"m","success":true}}`))
		if err != nil {
			t.Fatalf("decodeRecord failed: %v", err)
		}
		want := models.OCRInput("image", "hi")
		if r.Input != want || r.ID != "x" || !r.Result.Success {
			t.Errorf("decoded = %+v", r)
		}
	})

	t.Run("null audio marker is not legacy", func(t *testing.T) {
		r, err := decodeRecord([]byte(`{"id":"x","audio":null,"input":{"url":"https://x"},"result":{}}`))
		if err != nil {
			t.Fatalf("decodeRecord failed: %v", err)
		}
		if r.Input.Type != models.InputURL {
			t.Errorf("type = %s, want url", r.Input.Type)
		}
	})

	t.Run("legacy audio object", func(t *testing.T) {
		r, err := decodeRecord([]byte(`{"id":"x","audio":{"mimeType":"audio/webm","approximateBytes":2048},"result":{}}`))
		if err != nil {
			t.Fatalf("decodeRecord failed: %v", err)
		}
		if r.Input != models.AudioInput("audio/webm", 2048) {
			t.Errorf("input = %+v", r.Input)
		}
	})

	t.Run("malformed legacy audio is logged", func(t *testing.T) {
		logs := captureLogs(t)
		r, err := decodeRecord([]byte(`{"id":"old-1","audio":"audio/webm","result":{}}`))
		if err != nil {
			t.Fatalf("decodeRecord failed: %v", err)
		}
		if r.Input.Type != models.InputAudio || r.Input.MimeType != "" {
			t.Errorf("input = %+v", r.Input)
		}
		if out := logs.String(); !strings.Contains(out, "legacy audio object not decoded") || !strings.Contains(out, "old-1") {
			t.Errorf("missing debug log: %q", out)
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		if _, err := decodeRecord([]byte(`{"id":`)); err == nil {
			t.Error("expected error for truncated json")
		}
	})

	t.Run("missing result", func(t *testing.T) {
		if _, err := decodeRecord([]byte(`{"id":"x"}`)); err == nil {
			t.Error("expected error when result is absent")
		}
	})
}
