// Package output constructs termenv outputs with consistent color profile
// and TTY handling across the CLI.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
)

// Profile returns the color profile for interactive output. NO_COLOR
// disables styling entirely, otherwise the terminal decides.
func Profile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.EnvColorProfile()
}

// PlainProfile returns the color profile for non-interactive output. ANSI is
// the safe baseline for CI log collectors.
func PlainProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.ANSI
}

// New creates a termenv output on w using the interactive profile.
func New(w io.Writer, opts ...termenv.OutputOption) *termenv.Output {
	return newOutput(w, Profile(), opts...)
}

// NewPlain creates a termenv output on w using the non-interactive profile.
func NewPlain(w io.Writer, opts ...termenv.OutputOption) *termenv.Output {
	return newOutput(w, PlainProfile(), opts...)
}

func newOutput(w io.Writer, profile termenv.Profile, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}
	opts = append(opts, termenv.WithProfile(profile), termenv.WithTTY(true))
	return termenv.NewOutput(w, opts...)
}
