package inference

import (
	"errors"
	"fmt"
	"testing"
)

func TestMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrUnknownModel, "Unknown model id"},
		{ErrNoInput, "No input provided. Provide either base64Audio or inputText."},
		{ErrNoURL, "No input provided. Provide url."},
		{ErrNoText, "No text found in image."},
		{fmt.Errorf("lookup: %w", ErrUnknownModel), "Unknown model id"},
		{errors.New("upstream timeout"), "upstream timeout"},
	}
	for _, tt := range tests {
		if got := Message(tt.err); got != tt.want {
			t.Errorf("Message(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
