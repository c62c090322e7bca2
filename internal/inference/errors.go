package inference

import "errors"

// Validation errors. Outcomes returned with these errors were never sent to
// a provider and are not telemetry.
var (
	ErrUnknownModel = errors.New("unknown model id")
	ErrNoInput      = errors.New("no audio or text input")
	ErrNoURL        = errors.New("no url")
)

// ErrNoText is returned by callers when OCR found nothing to describe.
var ErrNoText = errors.New("no text found in image")

// ErrBlocked is returned by adapters when the provider refused to answer.
var ErrBlocked = errors.New("response blocked by provider")

// wireMessages are the error texts clients and stored outcomes carry.
var wireMessages = []struct {
	err error
	msg string
}{
	{ErrUnknownModel, "Unknown model id"},
	{ErrNoInput, "No input provided. Provide either base64Audio or inputText."},
	{ErrNoURL, "No input provided. Provide url."},
	{ErrNoText, "No text found in image."},
}

// Message returns the client-facing text for err.
func Message(err error) string {
	for _, m := range wireMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return err.Error()
}
