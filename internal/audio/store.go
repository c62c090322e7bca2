// Package audio keeps named audio recordings as JSON files so they can be
// replayed into the describe flow later.
package audio

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/j-veylop/uranus/internal/logger"
	"github.com/j-veylop/uranus/internal/models"
)

var (
	// ErrNotFound is returned when no recording has the requested id.
	ErrNotFound = errors.New("Audio not found")
	// ErrInvalid is returned when a recording is missing a required field.
	ErrInvalid = errors.New("name, audioBase64, and mimeType are required")
)

var validID = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Store is a directory of <id>.json recordings.
type Store struct {
	dir string
	now func() time.Time

	mu     sync.Mutex
	lastMs int64
}

// NewStore creates the directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create saved audio directory: %w", err)
	}
	return &Store{dir: dir, now: time.Now}, nil
}

// Dir returns the storage directory.
func (s *Store) Dir() string {
	return s.dir
}

// List returns every recording without its audio, newest first.
// Unreadable files are skipped.
func (s *Store) List() ([]models.SavedAudioInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return make([]models.SavedAudioInfo, 0), nil
		}
		return nil, fmt.Errorf("failed to list saved audio: %w", err)
	}

	infos := make([]models.SavedAudioInfo, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		id := strings.TrimSuffix(name, ".json")

		rec, err := s.read(id)
		if err != nil {
			logger.Warn("skipping unreadable saved audio", "file", name, "error", err)
			continue
		}
		infos = append(infos, models.SavedAudioInfo{
			ID:        id,
			Name:      rec.Name,
			MimeType:  rec.MimeType,
			CreatedAt: rec.CreatedAt,
		})
	}

	sort.SliceStable(infos, func(i, j int) bool {
		return infos[i].CreatedAt > infos[j].CreatedAt
	})
	return infos, nil
}

// Get returns the recording with id.
func (s *Store) Get(id string) (models.SavedAudio, error) {
	if !validID.MatchString(id) {
		return models.SavedAudio{}, ErrNotFound
	}
	rec, err := s.read(id)
	if err != nil {
		if os.IsNotExist(err) {
			return models.SavedAudio{}, ErrNotFound
		}
		return models.SavedAudio{}, err
	}
	return rec, nil
}

// Save stores a new recording and returns its listing entry.
func (s *Store) Save(name, audioBase64, mimeType string) (models.SavedAudioInfo, error) {
	if name == "" || audioBase64 == "" || mimeType == "" {
		return models.SavedAudioInfo{}, ErrInvalid
	}

	now := s.now().UTC()
	id := s.nextID(now)
	rec := models.SavedAudio{
		Name:        name,
		AudioBase64: audioBase64,
		MimeType:    mimeType,
		CreatedAt:   now.Format("2006-01-02T15:04:05.000Z07:00"),
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return models.SavedAudioInfo{}, fmt.Errorf("failed to marshal saved audio: %w", err)
	}

	// Write to temp file first, then rename
	path := s.path(id)
	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0o600); err != nil {
		return models.SavedAudioInfo{}, fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmpFile, path); err != nil {
		if removeErr := os.Remove(tmpFile); removeErr != nil {
			logger.Error("failed to remove temp file", "error", removeErr)
		}
		return models.SavedAudioInfo{}, fmt.Errorf("failed to rename temp file: %w", err)
	}

	return models.SavedAudioInfo{ID: id, Name: name, CreatedAt: rec.CreatedAt}, nil
}

// nextID returns audio-<unix ms>, bumped past the previous id when two saves
// land in the same millisecond.
func (s *Store) nextID(now time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms := now.UnixMilli()
	if ms <= s.lastMs {
		ms = s.lastMs + 1
	}
	s.lastMs = ms
	return fmt.Sprintf("audio-%d", ms)
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

func (s *Store) read(id string) (models.SavedAudio, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		return models.SavedAudio{}, err
	}
	var rec models.SavedAudio
	if err := json.Unmarshal(data, &rec); err != nil {
		return models.SavedAudio{}, fmt.Errorf("failed to parse saved audio: %w", err)
	}
	return rec, nil
}
