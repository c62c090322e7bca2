package models

// SavedAudio is a named audio recording kept for later reuse.
type SavedAudio struct {
	Name        string `json:"name"`
	AudioBase64 string `json:"audioBase64"`
	MimeType    string `json:"mimeType"`
	CreatedAt   string `json:"createdAt"`
}

// SavedAudioInfo is the listing entry of a saved recording.
type SavedAudioInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	MimeType  string `json:"mimeType,omitempty"`
	CreatedAt string `json:"createdAt"`
}
