package telemetry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/keep/internal/core/ports"
)

// LogProcessor implements sdktrace.SpanProcessor, rendering each completed
// span as one log line with its duration and attributes.
type LogProcessor struct {
	logger ports.Logger
}

// NewLogProcessor returns a new LogProcessor.
func NewLogProcessor(logger ports.Logger) *LogProcessor {
	return &LogProcessor{
		logger: logger,
	}
}

// OnStart is called when a span starts.
func (p *LogProcessor) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd is called when a span ends.
func (p *LogProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	if p.logger == nil {
		return
	}
	if !s.SpanContext().IsValid() {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "span %s %v", s.Name(), s.EndTime().Sub(s.StartTime()).Round(time.Millisecond))
	for _, attr := range s.Attributes() {
		fmt.Fprintf(&b, " %s=%s", attr.Key, attr.Value.Emit())
	}
	if s.Status().Code == codes.Error {
		desc := s.Status().Description
		if desc == "" {
			desc = "operation failed"
		}
		fmt.Fprintf(&b, " error=%q", desc)
	}

	p.logger.Info(b.String())
}

// ForceFlush does nothing; lines are written synchronously on span end.
func (p *LogProcessor) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (p *LogProcessor) Shutdown(_ context.Context) error {
	return nil
}
