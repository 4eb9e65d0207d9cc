package scriptfile_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/keep/internal/adapters/scriptfile"
	"go.trai.ch/keep/internal/core/domain"
	"go.trai.ch/keep/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const scriptWithIdentity = `#!/usr/bin/env python3
# /// script
# requires-python = ">=3.11"
# dependencies = [
#   "requests",
#   "rich>=13",
# ]
#
# [tool.keep.app]
# owner = "acme"
# name = "reports"
# version = "1.2.0"
# ///

print("hello")
`

func newReader(t *testing.T) (*scriptfile.Reader, *mocks.MockLogger, string) {
	t.Helper()

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	cacheDir := filepath.Join(t.TempDir(), "speccache")
	return scriptfile.NewReader(scriptfile.NewCache(cacheDir), log), log, cacheDir
}

func writeScript(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "script.py")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReader_Read_ParsesFullBlock(t *testing.T) {
	t.Parallel()

	reader, _, _ := newReader(t)
	path := writeScript(t, scriptWithIdentity)

	spec, err := reader.Read(path)
	require.NoError(t, err)
	require.Equal(t, ">=3.11", spec.RuntimeConstraint)
	require.Equal(t, []string{"requests", "rich>=13"}, spec.Dependencies)
	require.True(t, spec.IsApplication())
	require.Equal(t, "acme", spec.App.Owner)
	require.Equal(t, "reports", spec.App.Name)
	require.Equal(t, "1.2.0", spec.App.Version)
	require.False(t, spec.HasLock())
}

func TestReader_Read_TemporarySpecWithoutIdentity(t *testing.T) {
	t.Parallel()

	reader, _, _ := newReader(t)
	path := writeScript(t, `# /// script
# requires-python = ">=3.12"
# dependencies = ["httpx"]
# ///
`)

	spec, err := reader.Read(path)
	require.NoError(t, err)
	require.False(t, spec.IsApplication())
	require.Nil(t, spec.App)
	require.Equal(t, []string{"httpx"}, spec.Dependencies)
}

func TestReader_Read_BareBlockYieldsEmptySpec(t *testing.T) {
	t.Parallel()

	reader, _, _ := newReader(t)
	path := writeScript(t, "# /// script\n# ///\nprint()\n")

	spec, err := reader.Read(path)
	require.NoError(t, err)
	require.Empty(t, spec.RuntimeConstraint)
	require.Empty(t, spec.Dependencies)
}

func TestReader_Read_MissingBlock(t *testing.T) {
	t.Parallel()

	reader, _, _ := newReader(t)
	path := writeScript(t, "#!/usr/bin/env python3\nprint(\"no metadata\")\n")

	_, err := reader.Read(path)
	require.ErrorIs(t, err, domain.ErrMetadataNotFound)
}

func TestReader_Read_UnterminatedBlock(t *testing.T) {
	t.Parallel()

	reader, _, _ := newReader(t)
	path := writeScript(t, `# /// script
# dependencies = ["requests"]
print("the fence never closes")
`)

	_, err := reader.Read(path)
	require.ErrorIs(t, err, domain.ErrMalformedSpec)
	require.ErrorContains(t, err, "unterminated")
}

func TestReader_Read_MultipleBlocks(t *testing.T) {
	t.Parallel()

	reader, _, _ := newReader(t)
	path := writeScript(t, `# /// script
# ///
# /// script
# ///
`)

	_, err := reader.Read(path)
	require.ErrorIs(t, err, domain.ErrMalformedSpec)
	require.ErrorContains(t, err, "multiple")
}

func TestReader_Read_MalformedToml(t *testing.T) {
	t.Parallel()

	reader, _, _ := newReader(t)
	path := writeScript(t, `# /// script
# dependencies = [
# ///
`)

	_, err := reader.Read(path)
	require.ErrorContains(t, err, domain.ErrMalformedSpec.Error())
}

func TestReader_Read_InvalidAppIdentity(t *testing.T) {
	t.Parallel()

	reader, _, _ := newReader(t)
	path := writeScript(t, `# /// script
# [tool.keep.app]
# name = "reports"
# version = "1.0.0"
# ///
`)

	_, err := reader.Read(path)
	require.ErrorIs(t, err, domain.ErrMalformedSpec)
}

func TestReader_Read_MissingFile(t *testing.T) {
	t.Parallel()

	reader, _, _ := newReader(t)

	_, err := reader.Read(filepath.Join(t.TempDir(), "absent.py"))
	require.ErrorContains(t, err, domain.ErrScriptReadFailed.Error())
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestReader_Read_ServesCachedParse(t *testing.T) {
	t.Parallel()

	reader, _, cacheDir := newReader(t)
	path := writeScript(t, scriptWithIdentity)

	_, err := reader.Read(path)
	require.NoError(t, err)

	entries, err := os.ReadDir(cacheDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// Poison the single cache entry; the second read returning its contents
	// proves the parse was served from the cache.
	poisoned := `{"runtime_constraint":">=3.12","dependencies":["poisoned==1.0"]}`
	entryPath := filepath.Join(cacheDir, entries[0].Name())
	require.NoError(t, os.WriteFile(entryPath, []byte(poisoned), 0o644))

	spec, err := reader.Read(path)
	require.NoError(t, err)
	require.Equal(t, []string{"poisoned==1.0"}, spec.Dependencies)
}

func TestReader_Read_CorruptCacheEntryReparses(t *testing.T) {
	t.Parallel()

	reader, log, cacheDir := newReader(t)
	path := writeScript(t, scriptWithIdentity)

	_, err := reader.Read(path)
	require.NoError(t, err)

	entries, err := os.ReadDir(cacheDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	entryPath := filepath.Join(cacheDir, entries[0].Name())
	require.NoError(t, os.WriteFile(entryPath, []byte("{ not json"), 0o644))

	log.EXPECT().Warn("spec cache read failed, reparsing").Times(1)

	spec, err := reader.Read(path)
	require.NoError(t, err)
	require.Equal(t, []string{"requests", "rich>=13"}, spec.Dependencies)

	// The reparse rewrote the entry, so the third read hits the cache again.
	spec, err = reader.Read(path)
	require.NoError(t, err)
	require.Equal(t, []string{"requests", "rich>=13"}, spec.Dependencies)
}

func TestReader_Read_EditedScriptMissesCache(t *testing.T) {
	t.Parallel()

	reader, _, cacheDir := newReader(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "script.py")

	require.NoError(t, os.WriteFile(path, []byte(scriptWithIdentity), 0o644))
	_, err := reader.Read(path)
	require.NoError(t, err)

	edited := scriptWithIdentity + "\nprint(\"edited\")\n"
	require.NoError(t, os.WriteFile(path, []byte(edited), 0o644))
	_, err = reader.Read(path)
	require.NoError(t, err)

	entries, err := os.ReadDir(cacheDir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}
