// Package domain contains the core types of the environment catalogue.
package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// AppIdentity names the application that owns an environment. Presence of an
// identity moves a specification from the temporary pool to the application
// pool.
type AppIdentity struct {
	Owner   string
	Name    string
	Version string
}

// Spec is an immutable description of what a runtime environment must
// satisfy. Values are validated and normalized by NewSpec and never mutated
// afterwards.
type Spec struct {
	// RuntimeConstraint is the interpreter version range, e.g. ">=3.11".
	RuntimeConstraint string

	// Dependencies holds requirement strings. Ordering does not affect
	// equality; the fingerprint sorts a copy before hashing.
	Dependencies []string

	// LockContents holds the resolved package==version listing when the
	// caller supplied or generated a pin. Empty means unlocked.
	LockContents string

	// App is nil for temporary specifications.
	App *AppIdentity
}

// NewSpec validates its inputs and returns a normalized specification.
// Dependency entries are trimmed and empty entries rejected. An application
// identity must carry owner, name and a valid semantic version.
func NewSpec(runtimeConstraint string, dependencies []string, lockContents string, app *AppIdentity) (*Spec, error) {
	deps := make([]string, 0, len(dependencies))
	for i, dep := range dependencies {
		trimmed := strings.TrimSpace(dep)
		if trimmed == "" {
			err := zerr.Wrap(ErrMalformedSpec, "empty dependency entry")
			return nil, zerr.With(err, "index", i)
		}
		deps = append(deps, trimmed)
	}

	if app != nil {
		if app.Owner == "" || app.Name == "" {
			err := zerr.Wrap(ErrMalformedSpec, "application identity requires owner and name")
			err = zerr.With(err, "owner", app.Owner)
			return nil, zerr.With(err, "name", app.Name)
		}
		version, err := ParseVersion(app.Version)
		if err != nil {
			wrapped := zerr.Wrap(err, ErrMalformedSpec.Error())
			return nil, zerr.With(wrapped, "app", app.Owner+"/"+app.Name)
		}
		app = &AppIdentity{Owner: app.Owner, Name: app.Name, Version: version}
	}

	return &Spec{
		RuntimeConstraint: strings.TrimSpace(runtimeConstraint),
		Dependencies:      deps,
		LockContents:      lockContents,
		App:               app,
	}, nil
}

// WithLock returns a copy of the specification carrying the given lock
// contents.
func (s *Spec) WithLock(lockContents string) *Spec {
	clone := *s
	clone.LockContents = lockContents
	return &clone
}

// IsApplication reports whether the specification belongs to the application
// pool.
func (s *Spec) IsApplication() bool {
	return s.App != nil
}

// HasLock reports whether the specification carries pinned lock contents.
func (s *Spec) HasLock() bool {
	return s.LockContents != ""
}
