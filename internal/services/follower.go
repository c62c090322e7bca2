package services

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/j-veylop/uranus/internal/logger"
)

const followDebounce = 100 * time.Millisecond

// LogFollower calls onChange when another process writes the telemetry log.
// Bursts of writes are collapsed into one call.
type LogFollower struct {
	path     string
	onChange func()
	onError  func(error)

	watcher  *fsnotify.Watcher
	stopChan chan struct{}
	stopOnce sync.Once

	mu            sync.Mutex
	debounceTimer *time.Timer
	lastSize      int64
	lastModTime   time.Time
}

// NewLogFollower starts watching the directory of path.
func NewLogFollower(path string, onChange func(), onError func(error)) (*LogFollower, error) {
	if onError == nil {
		onError = func(error) {}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create telemetry directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	// Watch the directory so the log can be created after startup.
	if err := watcher.Add(dir); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	f := &LogFollower{
		path:     path,
		onChange: onChange,
		onError:  onError,
		watcher:  watcher,
		stopChan: make(chan struct{}),
	}
	go f.watchLoop()
	return f, nil
}

func (f *LogFollower) watchLoop() {
	for {
		select {
		case event, ok := <-f.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(f.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				f.schedule()
			}

		case err, ok := <-f.watcher.Errors:
			if !ok {
				return
			}
			f.onError(err)

		case <-f.stopChan:
			return
		}
	}
}

func (f *LogFollower) schedule() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.debounceTimer != nil {
		f.debounceTimer.Stop()
	}
	f.debounceTimer = time.AfterFunc(followDebounce, func() {
		select {
		case <-f.stopChan:
		default:
			f.onChange()
		}
	})
}

// Poll stats the log every interval and reports a change when its size or
// modification time moved. It backs up fsnotify on filesystems that do not
// deliver events, such as network mounts.
func (f *LogFollower) Poll(interval time.Duration) {
	if interval <= 0 {
		return
	}
	f.changedOnDisk()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if f.changedOnDisk() {
					f.schedule()
				}
			case <-f.stopChan:
				return
			}
		}
	}()
}

func (f *LogFollower) changedOnDisk() bool {
	info, err := os.Stat(f.path)
	if err != nil {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if info.Size() == f.lastSize && info.ModTime().Equal(f.lastModTime) {
		return false
	}
	f.lastSize = info.Size()
	f.lastModTime = info.ModTime()
	return true
}

// Close stops watching. It is safe to call more than once.
func (f *LogFollower) Close() error {
	var err error
	f.stopOnce.Do(func() {
		close(f.stopChan)

		f.mu.Lock()
		if f.debounceTimer != nil {
			f.debounceTimer.Stop()
		}
		f.mu.Unlock()

		err = f.watcher.Close()
	})
	return err
}
