// Package linear provides a synchronous, line-prefixed renderer for CI and
// other non-interactive environments.
package linear

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/keep/internal/ui/output"
	"go.trai.ch/keep/internal/ui/style"
)

// shortFingerprint is the displayed fingerprint length.
const shortFingerprint = 12

// Renderer implements ports.Renderer with chronological, prefixed lines.
// Everything goes to one stream; stdout stays reserved for the script. One
// build renders at a time, matching the engine's serialization.
type Renderer struct {
	out *termenv.Output

	mu        sync.Mutex
	name      string
	startTime time.Time
	partial   bytes.Buffer
	active    bool
}

// NewRenderer creates a new Renderer writing to w. A nil writer defaults to
// stderr.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{out: output.NewPlain(w)}
}

// Start is a no-op; the renderer is synchronous.
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop flushes a pending partial line.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.flushPartialLocked()
	return nil
}

// Wait is a no-op; the renderer is synchronous.
func (r *Renderer) Wait() error {
	return nil
}

// OnBuildStart prints the build header.
func (r *Renderer) OnBuildStart(name, fingerprint string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.name = name
	r.startTime = startTime
	r.partial.Reset()
	r.active = true

	if len(fingerprint) > shortFingerprint {
		fingerprint = fingerprint[:shortFingerprint]
	}
	_, _ = fmt.Fprintf(r.out, "%s building %s\n", r.prefixLocked(), fingerprint)
}

// OnBuildPhase prints a phase transition line.
func (r *Renderer) OnBuildPhase(phase string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.active {
		return
	}
	_, _ = fmt.Fprintf(r.out, "%s %s %s\n", r.prefixLocked(), style.Arrow, phase)
}

// OnBuildLog buffers builder output and prints complete lines with the
// entry name prefix.
func (r *Renderer) OnBuildLog(data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.active {
		return
	}

	r.partial.Write(data)
	for {
		line, err := r.partial.ReadBytes('\n')
		if err != nil {
			// Incomplete line, keep it for the next call.
			rest := bytes.Clone(line)
			r.partial.Reset()
			r.partial.Write(rest)
			break
		}
		r.printLineLocked(line)
	}
}

// OnBuildComplete flushes buffered output and prints the result line.
func (r *Renderer) OnBuildComplete(endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.active {
		return
	}
	r.flushPartialLocked()

	duration := endTime.Sub(r.startTime)
	if err != nil {
		symbol := r.out.String(style.Cross).Foreground(termenv.RGBColor(string(style.Red))).String()
		_, _ = fmt.Fprintf(r.out, "%s %s failed after %v: %v\n", r.prefixLocked(), symbol, duration, err)
	} else {
		symbol := r.out.String(style.Check).Foreground(termenv.RGBColor(string(style.Green))).String()
		_, _ = fmt.Fprintf(r.out, "%s %s ready in %v\n", r.prefixLocked(), symbol, duration)
	}

	r.active = false
}

func (r *Renderer) prefixLocked() string {
	return r.out.String("[" + r.name + "]").Faint().String()
}

func (r *Renderer) flushPartialLocked() {
	if r.partial.Len() > 0 {
		r.printLineLocked(r.partial.Bytes())
		r.partial.Reset()
	}
}

func (r *Renderer) printLineLocked(line []byte) {
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	if len(line) == 0 {
		return
	}
	_, _ = fmt.Fprintf(r.out, "%s %s\n", r.prefixLocked(), string(line))
}
