package models

import "encoding/json"

// InputType tags which kind of raw material produced a request.
type InputType string

const (
	// InputAudio is a recorded product description.
	InputAudio InputType = "audio"
	// InputOCR is text extracted from an image.
	InputOCR InputType = "ocr"
	// InputURL is a product page URL.
	InputURL InputType = "url"
)

// Label returns the display label of the input type.
func (t InputType) Label() string {
	switch t {
	case InputAudio:
		return "Audio"
	case InputOCR:
		return "OCR (Image)"
	case InputURL:
		return "URL Context"
	default:
		return string(t)
	}
}

// InputDescriptor is a tagged union describing the input of a request.
// Only the fields of the variant named by Type are meaningful.
type InputDescriptor struct {
	Type             InputType `json:"type"`
	MimeType         string    `json:"mimeType,omitempty"`
	ApproximateBytes int64     `json:"approximateBytes,omitempty"`
	ExtractedText    string    `json:"extractedText,omitempty"`
	URL              string    `json:"url,omitempty"`
}

// AudioInput describes an audio payload.
func AudioInput(mimeType string, approximateBytes int64) InputDescriptor {
	return InputDescriptor{Type: InputAudio, MimeType: mimeType, ApproximateBytes: approximateBytes}
}

// OCRInput describes text extracted from an image.
func OCRInput(mimeType, extractedText string) InputDescriptor {
	return InputDescriptor{Type: InputOCR, MimeType: mimeType, ExtractedText: extractedText}
}

// URLInput describes a product URL.
func URLInput(url string) InputDescriptor {
	return InputDescriptor{Type: InputURL, URL: url}
}

// MarshalJSON emits only the fields of the active variant.
func (d InputDescriptor) MarshalJSON() ([]byte, error) {
	switch d.Type {
	case InputAudio:
		return json.Marshal(struct {
			Type             InputType `json:"type"`
			MimeType         string    `json:"mimeType"`
			ApproximateBytes int64     `json:"approximateBytes"`
		}{d.Type, d.MimeType, d.ApproximateBytes})
	case InputOCR:
		return json.Marshal(struct {
			Type          InputType `json:"type"`
			MimeType      string    `json:"mimeType"`
			ExtractedText string    `json:"extractedText"`
		}{d.Type, d.MimeType, d.ExtractedText})
	case InputURL:
		return json.Marshal(struct {
			Type InputType `json:"type"`
			URL  string    `json:"url"`
		}{d.Type, d.URL})
	default:
		type plain InputDescriptor
		return json.Marshal(plain(d))
	}
}
