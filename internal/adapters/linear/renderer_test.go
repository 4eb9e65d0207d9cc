package linear_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/keep/internal/adapters/linear"
)

var buildStart = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newRenderer(t *testing.T) (*linear.Renderer, *bytes.Buffer) {
	t.Helper()

	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	return linear.NewRenderer(&buf), &buf
}

func TestRenderer_BuildLifecycle(t *testing.T) {
	renderer, buf := newRenderer(t)

	require.NoError(t, renderer.Start(t.Context()))

	renderer.OnBuildStart("env_3", "4be71a2f90ab34cd", buildStart)
	renderer.OnBuildPhase("create")
	renderer.OnBuildLog([]byte("Creating virtualenv\n"))
	renderer.OnBuildPhase("install")
	renderer.OnBuildLog([]byte("Installed 2 packages\n"))
	renderer.OnBuildComplete(buildStart.Add(1500*time.Millisecond), nil)

	require.NoError(t, renderer.Stop())
	require.NoError(t, renderer.Wait())

	want := "[env_3] building 4be71a2f90ab\n" +
		"[env_3] → create\n" +
		"[env_3] Creating virtualenv\n" +
		"[env_3] → install\n" +
		"[env_3] Installed 2 packages\n" +
		"[env_3] ✓ ready in 1.5s\n"
	require.Equal(t, want, buf.String())
}

func TestRenderer_FailureLine(t *testing.T) {
	renderer, buf := newRenderer(t)

	renderer.OnBuildStart("env_1", "cafe", buildStart)
	renderer.OnBuildComplete(buildStart.Add(2*time.Second), assert.AnError)

	require.Contains(t, buf.String(), "[env_1] ✗ failed after 2s: "+assert.AnError.Error())
}

func TestRenderer_PartialLinesCoalesce(t *testing.T) {
	renderer, buf := newRenderer(t)

	renderer.OnBuildStart("env_1", "cafe", buildStart)
	renderer.OnBuildLog([]byte("par"))
	renderer.OnBuildLog([]byte("tial\nrest"))
	renderer.OnBuildComplete(buildStart.Add(time.Second), nil)

	want := "[env_1] building cafe\n" +
		"[env_1] partial\n" +
		"[env_1] rest\n" +
		"[env_1] ✓ ready in 1s\n"
	require.Equal(t, want, buf.String())
}

func TestRenderer_StopFlushesPartial(t *testing.T) {
	renderer, buf := newRenderer(t)

	renderer.OnBuildStart("env_1", "cafe", buildStart)
	renderer.OnBuildLog([]byte("no trailing newline"))
	require.NoError(t, renderer.Stop())

	require.Contains(t, buf.String(), "[env_1] no trailing newline\n")
}

func TestRenderer_TrimsCarriageReturns(t *testing.T) {
	renderer, buf := newRenderer(t)

	renderer.OnBuildStart("env_1", "cafe", buildStart)
	renderer.OnBuildLog([]byte("windows line\r\n"))
	renderer.OnBuildComplete(buildStart, nil)

	require.Contains(t, buf.String(), "[env_1] windows line\n")
	require.NotContains(t, buf.String(), "\r")
}

func TestRenderer_SkipsBlankLines(t *testing.T) {
	renderer, buf := newRenderer(t)

	renderer.OnBuildStart("env_1", "cafe", buildStart)
	renderer.OnBuildLog([]byte("\n\nvisible\n\n"))
	renderer.OnBuildComplete(buildStart, nil)

	want := "[env_1] building cafe\n" +
		"[env_1] visible\n" +
		"[env_1] ✓ ready in 0s\n"
	require.Equal(t, want, buf.String())
}

func TestRenderer_EventsOutsideBuildAreDropped(t *testing.T) {
	renderer, buf := newRenderer(t)

	renderer.OnBuildPhase("create")
	renderer.OnBuildLog([]byte("orphan output\n"))
	renderer.OnBuildComplete(buildStart, nil)

	require.Empty(t, buf.String())
}
