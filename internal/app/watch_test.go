package app_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.trai.ch/keep/internal/adapters/flock"
	"go.trai.ch/keep/internal/adapters/store"
	"go.trai.ch/keep/internal/adapters/telemetry"
	"go.trai.ch/keep/internal/adapters/watcher"
	"go.trai.ch/keep/internal/app"
	"go.trai.ch/keep/internal/core/domain"
	"go.trai.ch/keep/internal/core/ports"
	"go.trai.ch/keep/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// watchHarness runs Watch against a real file watcher, store and lock so the
// loop sees genuine filesystem events. Only the executor and the script
// metadata are mocked.
type watchHarness struct {
	app    *app.App
	script string
	infos  chan string
	warns  chan string
}

func newWatchHarness(t *testing.T) *watchHarness {
	t.Helper()

	ctrl := gomock.NewController(t)
	tmp := t.TempDir()
	script := filepath.Join(tmp, "job.py")
	require.NoError(t, os.WriteFile(script, []byte("print('hi')\n"), 0o644))

	infos := make(chan string, 64)
	warns := make(chan string, 64)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).Do(func(msg string) {
		select {
		case infos <- msg:
		default:
		}
	}).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).Do(func(msg string) {
		select {
		case warns <- msg:
		default:
		}
	}).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	specReader := mocks.NewMockSpecReader(ctrl)
	specReader.EXPECT().Read(script).DoAndReturn(func(string) (*domain.Spec, error) {
		return domain.NewSpec(">=3.12", nil, "", nil)
	}).AnyTimes()

	lockStore := mocks.NewMockLockStore(ctrl)
	lockStore.EXPECT().Read(script).Return("", "", nil).AnyTimes()

	executor := mocks.NewMockExecutor(ctrl)
	executor.EXPECT().
		Stream(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd ports.Command, _ io.Reader, _, _ io.Writer) error {
			return createInterpreter(cmd.Args[len(cmd.Args)-1])
		}).AnyTimes()
	executor.EXPECT().Capture(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd ports.Command) (string, error) {
			if cmd.Args[0] == "pip" {
				return "", nil
			}
			return "Python 3.12.4\n", nil
		}).AnyTimes()

	fileWatcher, err := watcher.NewWatcher(log)
	require.NoError(t, err)

	cfg := testConfig(tmp)
	catStore := store.NewStore(domain.CataloguePath(cfg.DataDir), log)

	a := app.New(
		specReader, lockStore, catStore, flock.NewLocker(), executor, fileWatcher,
		log, telemetry.NewNoOpTracer(), cfg,
		app.WithStreams(strings.NewReader(""), io.Discard, io.Discard),
	)

	return &watchHarness{app: a, script: script, infos: infos, warns: warns}
}

// awaitLog waits for a log line containing want, discarding others.
func awaitLog(t *testing.T, ch chan string, want string) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case msg := <-ch:
			if strings.Contains(msg, want) {
				return
			}
		case <-deadline:
			t.Fatalf("no log line containing %q", want)
		}
	}
}

func TestApp_Watch_RebuildsOnScriptChange(t *testing.T) {
	t.Parallel()
	h := newWatchHarness(t)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- h.app.Watch(ctx, h.script, app.RunOptions{}) }()

	awaitLog(t, h.infos, "(built)")
	awaitLog(t, h.infos, "watching")

	require.NoError(t, os.WriteFile(h.script, []byte("print('hi')\n# edited\n"), 0o644))
	awaitLog(t, h.infos, "(reused)")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancellation")
	}
}

func TestApp_Watch_StopsWhenScriptRemoved(t *testing.T) {
	t.Parallel()
	h := newWatchHarness(t)

	ctx := t.Context()
	done := make(chan error, 1)
	go func() { done <- h.app.Watch(ctx, h.script, app.RunOptions{}) }()

	awaitLog(t, h.infos, "watching")
	require.NoError(t, os.Remove(h.script))

	awaitLog(t, h.warns, "gone")
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after script removal")
	}
}
