package scriptfile_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.trai.ch/keep/internal/adapters/scriptfile"
	"go.trai.ch/keep/internal/core/domain"
)

func newSpec(t *testing.T, app *domain.AppIdentity) *domain.Spec {
	t.Helper()

	spec, err := domain.NewSpec(">=3.11", []string{"requests", "rich>=13"}, "", app)
	require.NoError(t, err)
	return spec
}

func TestCache_MissReturnsNil(t *testing.T) {
	t.Parallel()

	cache := scriptfile.NewCache(filepath.Join(t.TempDir(), "speccache"))

	spec, err := cache.Get(42)
	require.NoError(t, err)
	require.Nil(t, spec)
}

func TestCache_RoundTrip(t *testing.T) {
	t.Parallel()

	cache := scriptfile.NewCache(filepath.Join(t.TempDir(), "speccache"))
	app := &domain.AppIdentity{Owner: "acme", Name: "reports", Version: "1.2.0"}
	stored := newSpec(t, app)

	require.NoError(t, cache.Put(7, stored))

	loaded, err := cache.Get(7)
	require.NoError(t, err)
	require.Equal(t, stored, loaded)
}

func TestCache_RoundTripWithoutIdentity(t *testing.T) {
	t.Parallel()

	cache := scriptfile.NewCache(filepath.Join(t.TempDir(), "speccache"))
	stored := newSpec(t, nil)

	require.NoError(t, cache.Put(7, stored))

	loaded, err := cache.Get(7)
	require.NoError(t, err)
	require.Nil(t, loaded.App)
	require.Equal(t, stored, loaded)
}

func TestCache_PutLeavesOneFilePerKey(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "speccache")
	cache := scriptfile.NewCache(dir)

	require.NoError(t, cache.Put(0xdeadbeef, newSpec(t, nil)))
	require.NoError(t, cache.Put(0xdeadbeef, newSpec(t, nil)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "00000000deadbeef.json", entries[0].Name())
}

func TestCache_CorruptEntryFailsRead(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "speccache")
	cache := scriptfile.NewCache(dir)

	require.NoError(t, cache.Put(3, newSpec(t, nil)))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "0000000000000003.json"), []byte("{ nope"), 0o644))

	_, err := cache.Get(3)
	require.ErrorContains(t, err, domain.ErrSpecCacheReadFailed.Error())
}

func TestCache_InvalidEntryFailsRead(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "speccache")
	cache := scriptfile.NewCache(dir)

	// Valid JSON whose specification would not survive the parser.
	tampered := `{"dependencies":["  "]}`
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "0000000000000009.json"), []byte(tampered), 0o644))

	_, err := cache.Get(9)
	require.ErrorContains(t, err, domain.ErrSpecCacheReadFailed.Error())
}
