package observe

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vango-dev/reactive/pkg/reactive"
)

// SlogObserver writes every event to a slog.Logger. The event kind becomes
// the message; effect, operation and key become attributes.
type SlogObserver struct {
	logger *slog.Logger
	level  slog.Level
}

// NewSlogObserver creates a SlogObserver that logs at debug level.
func NewSlogObserver(logger *slog.Logger) *SlogObserver {
	return &SlogObserver{logger: logger, level: slog.LevelDebug}
}

// WithLevel returns a copy of o that logs at level.
func (o *SlogObserver) WithLevel(level slog.Level) *SlogObserver {
	return &SlogObserver{logger: o.logger, level: level}
}

// OnTrack logs reactive.track.
func (o *SlogObserver) OnTrack(event reactive.DebuggerEvent) {
	o.logger.LogAttrs(context.Background(), o.level, "reactive.track", eventAttrs(event)...)
}

// OnTrigger logs reactive.trigger with the written values.
func (o *SlogObserver) OnTrigger(event reactive.DebuggerEvent) {
	attrs := eventAttrs(event)
	if event.Op == reactive.OpSet || event.Op == reactive.OpAdd {
		attrs = append(attrs, slog.String("new", describe(event.NewValue)))
	}
	if event.Op == reactive.OpSet || event.Op == reactive.OpDelete {
		attrs = append(attrs, slog.String("old", describe(event.OldValue)))
	}
	o.logger.LogAttrs(context.Background(), o.level, "reactive.trigger", attrs...)
}

// OnEffectStart logs reactive.run.start.
func (o *SlogObserver) OnEffectStart(e *reactive.Effect) {
	o.logger.LogAttrs(context.Background(), o.level, "reactive.run.start", effectAttrs(e)...)
}

// OnEffectEnd logs reactive.run.end, at error level after a panic.
func (o *SlogObserver) OnEffectEnd(e *reactive.Effect, elapsed time.Duration, panicked bool) {
	attrs := append(effectAttrs(e),
		slog.Duration("elapsed", elapsed),
		slog.Int("deps", e.DependencyCount()),
	)
	level := o.level
	if panicked {
		attrs = append(attrs, slog.Bool("panicked", true))
		level = slog.LevelError
	}
	o.logger.LogAttrs(context.Background(), level, "reactive.run.end", attrs...)
}

// OnEffectStop logs reactive.stop.
func (o *SlogObserver) OnEffectStop(e *reactive.Effect) {
	o.logger.LogAttrs(context.Background(), o.level, "reactive.stop", effectAttrs(e)...)
}

func effectAttrs(e *reactive.Effect) []slog.Attr {
	attrs := []slog.Attr{slog.Uint64("effect", e.ID())}
	if name := e.Name(); name != "" {
		attrs = append(attrs, slog.String("name", name))
	}
	return attrs
}

func eventAttrs(event reactive.DebuggerEvent) []slog.Attr {
	return append(effectAttrs(event.Effect),
		slog.String("op", event.Op.String()),
		slog.String("target", describe(event.Target)),
		slog.String("key", fmt.Sprint(event.Key)),
	)
}

// describe formats a value for logs and records. Targets are reported by
// type so their contents are never walked.
func describe(v any) string {
	if _, ok := v.(reactive.Target); ok {
		return fmt.Sprintf("%T", v)
	}
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
