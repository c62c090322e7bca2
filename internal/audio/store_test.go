package audio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "saved-audio"))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	return s
}

func TestNewStore_CreatesDirectory(t *testing.T) {
	s := newTestStore(t)
	if info, err := os.Stat(s.Dir()); err != nil || !info.IsDir() {
		t.Errorf("directory was not created: %v", err)
	}
}

func TestSaveAndGet(t *testing.T) {
	s := newTestStore(t)
	s.now = func() time.Time { return time.UnixMilli(1_700_000_000_123) }

	info, err := s.Save("Red shirt", "UklGRg==", "audio/webm")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if info.ID != "audio-1700000000123" {
		t.Errorf("ID = %q", info.ID)
	}
	if info.CreatedAt != "2023-11-14T22:13:20.123Z" {
		t.Errorf("CreatedAt = %q", info.CreatedAt)
	}

	got, err := s.Get(info.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "Red shirt" || got.AudioBase64 != "UklGRg==" || got.MimeType != "audio/webm" {
		t.Errorf("Get() = %+v", got)
	}
}

func TestSave_RequiresFields(t *testing.T) {
	s := newTestStore(t)
	cases := [][3]string{
		{"", "data", "audio/webm"},
		{"name", "", "audio/webm"},
		{"name", "data", ""},
	}
	for _, c := range cases {
		if _, err := s.Save(c[0], c[1], c[2]); !errors.Is(err, ErrInvalid) {
			t.Errorf("Save(%q, %q, %q) err = %v, want ErrInvalid", c[0], c[1], c[2], err)
		}
	}
}

func TestSave_SameMillisecond(t *testing.T) {
	s := newTestStore(t)
	s.now = func() time.Time { return time.UnixMilli(42) }

	a, _ := s.Save("a", "x", "audio/webm")
	b, _ := s.Save("b", "x", "audio/webm")
	if a.ID == b.ID {
		t.Errorf("ids collide: %s", a.ID)
	}
}

func TestGet_NotFound(t *testing.T) {
	s := newTestStore(t)

	for _, id := range []string{"audio-1", "../etc/passwd", "a/b", ""} {
		if _, err := s.Get(id); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(%q) err = %v, want ErrNotFound", id, err)
		}
	}
}

func TestList_NewestFirst(t *testing.T) {
	s := newTestStore(t)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"first", "second", "third"} {
		at := base.Add(time.Duration(i) * time.Minute)
		s.now = func() time.Time { return at }
		if _, err := s.Save(name, "x", "audio/ogg"); err != nil {
			t.Fatal(err)
		}
	}
	// Non-json files and unreadable entries are ignored.
	_ = os.WriteFile(filepath.Join(s.Dir(), "notes.txt"), []byte("hi"), 0o600)
	_ = os.WriteFile(filepath.Join(s.Dir(), "broken.json"), []byte("{"), 0o600)

	list, err := s.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("List() returned %d entries, want 3", len(list))
	}
	want := []string{"third", "second", "first"}
	for i, w := range want {
		if list[i].Name != w {
			t.Errorf("entry %d = %s, want %s", i, list[i].Name, w)
		}
		if list[i].MimeType != "audio/ogg" {
			t.Errorf("entry %d mime = %q", i, list[i].MimeType)
		}
	}
}
