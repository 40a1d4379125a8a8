package stream

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func appendLine(t *testing.T, path, line string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	require.NoError(t, err)
	defer f.Close()
	_, err = f.WriteString(line + "\n")
	require.NoError(t, err)
}

func collect(t *testing.T, ch <-chan Message, n int) []Message {
	t.Helper()
	var got []Message
	deadline := time.After(5 * time.Second)
	for len(got) < n {
		select {
		case m, ok := <-ch:
			if !ok {
				t.Fatalf("channel closed after %d of %d messages", len(got), n)
			}
			got = append(got, m)
		case <-deadline:
			t.Fatalf("timed out waiting for messages, got %d of %d", len(got), n)
		}
	}
	return got
}

func TestWatcherEmitsAppendedMessages(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "transcript.jsonl")

	w, err := NewTranscriptWatcher(path, false)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	appendLine(t, path, `{"id":"m1","role":"assistant","content":"first"}`)
	appendLine(t, path, `{"id":"m2","role":"user","content":"second"}`)

	got := collect(t, w.Messages(), 2)
	require.Equal(t, "m1", got[0].ID)
	require.Equal(t, "m2", got[1].ID)
}

func TestWatcherSkipsPreexistingUnlessReplay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "transcript.jsonl")
	appendLine(t, path, `{"id":"old","role":"user","content":"earlier session"}`)

	w, err := NewTranscriptWatcher(path, false)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	appendLine(t, path, `{"id":"new","role":"assistant","content":"fresh"}`)

	got := collect(t, w.Messages(), 1)
	require.Equal(t, "new", got[0].ID)
}

func TestWatcherReplayEmitsExistingConversation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "transcript.jsonl")
	appendLine(t, path, `{"id":"m1","role":"user","content":"hello"}`)
	appendLine(t, path, `{"id":"m2","role":"assistant","content":"hi"}`)

	w, err := NewTranscriptWatcher(path, true)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	got := collect(t, w.Messages(), 2)
	require.Equal(t, "m1", got[0].ID)
	require.Equal(t, "m2", got[1].ID)
}

func TestWatcherHandlesFileCreatedAfterStart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "transcript.jsonl")

	w, err := NewTranscriptWatcher(path, false)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	// File does not exist yet; create it after the watcher is running.
	time.Sleep(50 * time.Millisecond)
	appendLine(t, path, `{"id":"m1","role":"assistant","content":"created late"}`)

	got := collect(t, w.Messages(), 1)
	require.Equal(t, "m1", got[0].ID)
}

func TestWatcherStopClosesChannel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "transcript.jsonl")

	w, err := NewTranscriptWatcher(path, false)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	require.True(t, w.IsWatching())

	w.Stop()
	require.False(t, w.IsWatching())

	select {
	case _, ok := <-w.Messages():
		require.False(t, ok, "channel should be closed after Stop")
	case <-time.After(time.Second):
		t.Fatal("channel not closed after Stop")
	}

	// Stop is idempotent.
	w.Stop()
}

func TestWatcherStatsAccumulate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "transcript.jsonl")

	w, err := NewTranscriptWatcher(path, false)
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	for i := 0; i < 3; i++ {
		appendLine(t, path, fmt.Sprintf(`{"id":"m%d","role":"user","content":"x"}`, i))
	}
	collect(t, w.Messages(), 3)

	stats := w.Stats()
	require.GreaterOrEqual(t, stats.EventsSeen, 1)
	require.GreaterOrEqual(t, stats.FlushesRun, 1)
	require.Equal(t, 3, stats.MessagesEmitted)
	require.False(t, stats.LastEventTime.IsZero())
}
