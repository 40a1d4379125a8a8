package stream

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"argus/internal/logging"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
)

// TranscriptWatcher tails a transcript file and emits messages appended
// after the watcher started. It watches the containing directory so the
// file may be created after Start; rapid writes are debounced before the
// file is re-read.
type TranscriptWatcher struct {
	mu       sync.RWMutex
	watcher  *fsnotify.Watcher
	path     string // Full path to the transcript file
	consumed int    // Messages already delivered downstream
	dirty    bool
	lastSeen time.Time
	debounce time.Duration
	out      chan Message
	stopCh   chan struct{}
	group    *errgroup.Group
	running  bool

	stats WatcherStats
}

// WatcherStats tracks watcher activity for debugging.
type WatcherStats struct {
	EventsSeen      int
	FlushesRun      int
	MessagesEmitted int
	Errors          int
	LastEventTime   time.Time
}

// NewTranscriptWatcher creates a watcher for the given transcript path.
// Messages already present in the file at Start are counted as consumed;
// only appended messages are emitted. Pass replay=true to emit the
// existing conversation as well.
func NewTranscriptWatcher(path string, replay bool) (*TranscriptWatcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &TranscriptWatcher{
		watcher:  fw,
		path:     path,
		debounce: 200 * time.Millisecond,
		out:      make(chan Message, 64),
		stopCh:   make(chan struct{}),
	}

	if !replay {
		existing, err := ReadTranscript(path)
		if err != nil {
			logging.Get(logging.CategoryStream).Warn("watcher: initial read of %s failed: %v", path, err)
		}
		w.consumed = len(existing)
	}

	return w, nil
}

// Messages returns the channel of appended transcript messages. The
// channel is closed when the watcher stops.
func (w *TranscriptWatcher) Messages() <-chan Message {
	return w.out
}

// Start begins watching. Non-blocking; the event loop runs until Stop or
// context cancellation.
func (w *TranscriptWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}
	logging.Stream("watcher: tailing %s", w.path)

	g, ctx := errgroup.WithContext(ctx)
	w.group = g
	g.Go(func() error {
		w.run(ctx)
		return nil
	})

	// Anything already appended between construction and Start.
	w.markDirty()

	return nil
}

// Stop stops the watcher, waits for the event loop, and closes the
// message channel.
func (w *TranscriptWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	_ = w.group.Wait()

	if err := w.watcher.Close(); err != nil {
		logging.Get(logging.CategoryStream).Error("watcher: close failed: %v", err)
	}
	close(w.out)
	logging.Stream("watcher: stopped")
}

// IsWatching reports whether the event loop is running.
func (w *TranscriptWatcher) IsWatching() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

// Stats returns a snapshot of watcher statistics.
func (w *TranscriptWatcher) Stats() WatcherStats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

func (w *TranscriptWatcher) run(ctx context.Context) {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Get(logging.CategoryStream).Error("watcher: %v", err)
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-ticker.C:
			w.flushSettled()
		}
	}
}

func (w *TranscriptWatcher) handleEvent(event fsnotify.Event) {
	if event.Name != w.path {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}
	logging.StreamDebug("watcher: %s event for %s", event.Op, event.Name)
	w.markDirty()
}

func (w *TranscriptWatcher) markDirty() {
	w.mu.Lock()
	w.dirty = true
	w.lastSeen = time.Now()
	w.stats.EventsSeen++
	w.stats.LastEventTime = w.lastSeen
	w.mu.Unlock()
}

// flushSettled re-reads the transcript once writes have been quiet for
// the debounce window.
func (w *TranscriptWatcher) flushSettled() {
	w.mu.Lock()
	ready := w.dirty && time.Since(w.lastSeen) >= w.debounce
	if ready {
		w.dirty = false
	}
	w.mu.Unlock()

	if ready {
		w.flush()
	}
}

func (w *TranscriptWatcher) flush() {
	timer := logging.StartTimer(logging.CategoryStream, "transcript re-read")
	msgs, err := ReadTranscript(w.path)
	timer.Stop()
	if err != nil {
		logging.Get(logging.CategoryStream).Error("watcher: re-read of %s failed: %v", w.path, err)
		w.mu.Lock()
		w.stats.Errors++
		w.mu.Unlock()
		return
	}

	w.mu.Lock()
	start := w.consumed
	if start > len(msgs) {
		// Transcript was truncated or rewritten; start over from the top.
		logging.Get(logging.CategoryStream).Warn("watcher: transcript shrank from %d to %d messages, resetting", start, len(msgs))
		start = 0
	}
	pending := msgs[start:]
	w.consumed = start + len(pending)
	w.stats.FlushesRun++
	w.stats.MessagesEmitted += len(pending)
	w.mu.Unlock()

	for _, m := range pending {
		select {
		case w.out <- m:
		case <-w.stopCh:
			return
		}
	}
}
