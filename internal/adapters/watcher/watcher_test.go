package watcher_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.trai.ch/keep/internal/adapters/watcher"
	"go.trai.ch/keep/internal/core/ports"
	"go.trai.ch/keep/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// startWatcher spins up a watcher on a fresh script file and drains its
// iterator into a channel.
func startWatcher(t *testing.T) (string, <-chan ports.WatchEvent) {
	t.Helper()

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	dir := t.TempDir()
	script := filepath.Join(dir, "script.py")
	require.NoError(t, os.WriteFile(script, []byte("print()\n"), 0o644))

	w, err := watcher.NewWatcher(log)
	require.NoError(t, err)
	require.NoError(t, w.Start(t.Context(), script))
	t.Cleanup(func() { _ = w.Stop() })

	events := make(chan ports.WatchEvent, 10)
	go func() {
		defer close(events)
		for event := range w.Events() {
			events <- event
		}
	}()

	return script, events
}

func awaitEvent(t *testing.T, events <-chan ports.WatchEvent) ports.WatchEvent {
	t.Helper()

	select {
	case event := <-events:
		return event
	case <-time.After(5 * time.Second):
		t.Fatal("no event delivered")
		return ports.WatchEvent{}
	}
}

func TestWatcher_DeliversWrites(t *testing.T) {
	t.Parallel()

	script, events := startWatcher(t)

	require.NoError(t, os.WriteFile(script, []byte("print(1)\n"), 0o644))

	event := awaitEvent(t, events)
	require.Equal(t, script, event.Path)
	require.Equal(t, ports.OpWrite, event.Operation)
}

func TestWatcher_CoalescesEditorBurst(t *testing.T) {
	t.Parallel()

	script, events := startWatcher(t)

	for i := range 3 {
		require.NoError(t, os.WriteFile(script, []byte{byte('0' + i), '\n'}, 0o644))
	}

	awaitEvent(t, events)

	select {
	case event := <-events:
		t.Fatalf("burst delivered twice: %v", event)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_AtomicReplaceDeliversCreate(t *testing.T) {
	t.Parallel()

	script, events := startWatcher(t)

	tmp := script + ".tmp"
	require.NoError(t, os.WriteFile(tmp, []byte("print(2)\n"), 0o644))
	require.NoError(t, os.Rename(tmp, script))

	event := awaitEvent(t, events)
	require.Equal(t, script, event.Path)
	require.Equal(t, ports.OpCreate, event.Operation)
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	t.Parallel()

	script, events := startWatcher(t)

	sibling := filepath.Join(filepath.Dir(script), "other.py")
	require.NoError(t, os.WriteFile(sibling, []byte("print(3)\n"), 0o644))

	select {
	case event := <-events:
		t.Fatalf("sibling write delivered: %v", event)
	case <-time.After(300 * time.Millisecond):
	}

	// The watch is still live for the target.
	require.NoError(t, os.WriteFile(script, []byte("print(4)\n"), 0o644))
	event := awaitEvent(t, events)
	require.Equal(t, script, event.Path)
}

func TestWatcher_DeliversRemove(t *testing.T) {
	t.Parallel()

	script, events := startWatcher(t)

	require.NoError(t, os.Remove(script))

	event := awaitEvent(t, events)
	require.Equal(t, ports.OpRemove, event.Operation)
}

func TestWatcher_StopTerminatesIterator(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	dir := t.TempDir()
	script := filepath.Join(dir, "script.py")
	require.NoError(t, os.WriteFile(script, []byte("print()\n"), 0o644))

	w, err := watcher.NewWatcher(log)
	require.NoError(t, err)
	require.NoError(t, w.Start(t.Context(), script))

	done := make(chan struct{})
	go func() {
		for range w.Events() {
		}
		close(done)
	}()

	require.NoError(t, w.Stop())

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("iterator did not terminate after Stop")
	}

	require.NoError(t, w.Stop())
}

func TestWatcher_StopWithoutStart(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	w, err := watcher.NewWatcher(log)
	require.NoError(t, err)
	require.NoError(t, w.Stop())
}
