package shell

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/keep/internal/core/ports"
)

func TestResolveEnvironment_Hermetic(t *testing.T) {
	t.Parallel()

	sysEnv := []string{
		"HOME=/home/u",
		"PATH=/usr/bin",
		"TERM=xterm",
		"USER=u",
		"AWS_SECRET=nope",
		"malformed-entry",
	}

	got := resolveEnvironment(sysEnv, ports.Command{Hermetic: true})

	assert.ElementsMatch(t, []string{
		"HOME=/home/u",
		"PATH=/usr/bin",
		"TERM=xterm",
		"USER=u",
	}, got)
}

func TestResolveEnvironment_OverlayReplacesAndExtends(t *testing.T) {
	t.Parallel()

	sysEnv := []string{"HOME=/home/u", "PATH=/usr/bin"}
	cmd := ports.Command{
		Hermetic: true,
		Env:      []string{"HOME=/tmp/fake-home", "VIRTUAL_ENV=/data/envs/env_1"},
	}

	got := resolveEnvironment(sysEnv, cmd)

	assert.Contains(t, got, "HOME=/tmp/fake-home")
	assert.Contains(t, got, "VIRTUAL_ENV=/data/envs/env_1")
	assert.Contains(t, got, "PATH=/usr/bin")
}

func TestResolveEnvironment_PathPrepend(t *testing.T) {
	t.Parallel()

	sep := string(os.PathListSeparator)

	t.Run("with existing path", func(t *testing.T) {
		t.Parallel()
		got := resolveEnvironment(
			[]string{"PATH=/usr/bin"},
			ports.Command{Env: []string{"PATH=/data/envs/env_1/bin"}},
		)
		assert.Contains(t, got, "PATH=/data/envs/env_1/bin"+sep+"/usr/bin")
	})

	t.Run("without existing path", func(t *testing.T) {
		t.Parallel()
		got := resolveEnvironment(
			nil,
			ports.Command{Env: []string{"PATH=/data/envs/env_1/bin"}},
		)
		assert.Contains(t, got, "PATH=/data/envs/env_1/bin")
	})
}

func TestTailOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", tailOf("short\n"))
	assert.Empty(t, tailOf("\n\n"))

	long := strings.Repeat("x", stderrTailLimit) + "tail-end"
	got := tailOf(long)
	assert.Len(t, got, stderrTailLimit)
	assert.True(t, strings.HasSuffix(got, "tail-end"))
}
