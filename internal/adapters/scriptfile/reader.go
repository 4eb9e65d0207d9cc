// Package scriptfile parses the inline metadata block of a script into an
// environment specification.
package scriptfile

import (
	"os"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/pelletier/go-toml/v2"
	"go.trai.ch/keep/internal/core/domain"
	"go.trai.ch/keep/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	blockOpen  = "# /// script"
	blockClose = "# ///"
)

// metadata mirrors the TOML payload of the inline block. The application
// identity lives under [tool.keep.app] so the block stays compatible with
// other tools reading the same format.
type metadata struct {
	RequiresPython string   `toml:"requires-python"`
	Dependencies   []string `toml:"dependencies"`
	Tool           struct {
		Keep struct {
			App *struct {
				Owner   string `toml:"owner"`
				Name    string `toml:"name"`
				Version string `toml:"version"`
			} `toml:"app"`
		} `toml:"keep"`
	} `toml:"tool"`
}

// Reader implements ports.SpecReader. Parses are memoized in a cache keyed
// by the script's content hash; cache trouble degrades to a reparse, never
// to a failed read.
type Reader struct {
	cache  *Cache
	logger ports.Logger
}

// NewReader creates a Reader backed by the given parse cache.
func NewReader(cache *Cache, logger ports.Logger) *Reader {
	return &Reader{cache: cache, logger: logger}
}

// Read parses the script at path into a specification.
func (r *Reader) Read(path string) (*domain.Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrScriptReadFailed.Error()), "script", path)
	}

	key := xxhash.Sum64(data)
	if spec, cacheErr := r.cache.Get(key); cacheErr != nil {
		r.logger.Warn("spec cache read failed, reparsing")
	} else if spec != nil {
		return spec, nil
	}

	spec, err := parse(data)
	if err != nil {
		return nil, zerr.With(err, "script", path)
	}

	if cacheErr := r.cache.Put(key, spec); cacheErr != nil {
		r.logger.Warn("spec cache write failed")
	}
	return spec, nil
}

func parse(source []byte) (*domain.Spec, error) {
	block, err := extractBlock(string(source))
	if err != nil {
		return nil, err
	}

	var meta metadata
	if err := toml.Unmarshal([]byte(block), &meta); err != nil {
		return nil, zerr.Wrap(err, domain.ErrMalformedSpec.Error())
	}

	var app *domain.AppIdentity
	if parsed := meta.Tool.Keep.App; parsed != nil {
		app = &domain.AppIdentity{
			Owner:   parsed.Owner,
			Name:    parsed.Name,
			Version: parsed.Version,
		}
	}

	return domain.NewSpec(meta.RequiresPython, meta.Dependencies, "", app)
}

// extractBlock returns the TOML payload between the "# /// script" and
// "# ///" comment fences. Fence lines and the comment prefix of every
// payload line are stripped.
func extractBlock(source string) (string, error) {
	lines := strings.Split(source, "\n")

	start := -1
	for i, line := range lines {
		if strings.TrimRight(line, " \t\r") != blockOpen {
			continue
		}
		if start != -1 {
			return "", zerr.Wrap(domain.ErrMalformedSpec, "multiple metadata blocks")
		}
		start = i
	}
	if start == -1 {
		return "", domain.ErrMetadataNotFound
	}

	// The block is the run of comment lines after the fence; the last
	// closing fence inside that run terminates it, so payload lines that
	// themselves read "# ///" stay representable.
	end := -1
	for i := start + 1; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], " \t\r")
		if line != "#" && !strings.HasPrefix(line, "# ") {
			break
		}
		if line == blockClose {
			end = i
		}
	}
	if end == -1 {
		return "", zerr.Wrap(domain.ErrMalformedSpec, "unterminated metadata block")
	}

	var payload strings.Builder
	for _, line := range lines[start+1 : end] {
		line = strings.TrimRight(line, " \t\r")
		line = strings.TrimPrefix(line, "#")
		line = strings.TrimPrefix(line, " ")
		payload.WriteString(line)
		payload.WriteString("\n")
	}
	return payload.String(), nil
}
