package observe

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vango-dev/reactive/pkg/reactive"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for reactive spans.
const defaultTracerName = "reactive"

// TracerConfig configures the OpenTelemetry observer.
type TracerConfig struct {
	// TracerName is the name of the tracer (default: "reactive").
	TracerName string

	// Provider supplies the tracer. If nil, the global provider is used.
	Provider trace.TracerProvider

	// TrackEvents adds a span event for every recorded dependency.
	// Disabled by default; effects that read many keys produce large spans.
	TrackEvents bool
}

// TracerOption configures the OpenTelemetry observer.
type TracerOption func(*TracerConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracerOption {
	return func(c *TracerConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(provider trace.TracerProvider) TracerOption {
	return func(c *TracerConfig) {
		c.Provider = provider
	}
}

// WithTrackEvents enables a span event per recorded dependency.
func WithTrackEvents(enabled bool) TracerOption {
	return func(c *TracerConfig) {
		c.TrackEvents = enabled
	}
}

// Tracer records each effect run as an OpenTelemetry span. A run started
// by another effect becomes a child of that effect's span, and writes made
// during a run are added to its span as events.
type Tracer struct {
	tracer      trace.Tracer
	trackEvents bool

	mu    sync.Mutex
	spans map[*reactive.Effect]runSpan
}

type runSpan struct {
	ctx  context.Context
	span trace.Span
}

// NewTracer creates a Tracer.
//
// The tracer uses the global OpenTelemetry tracer provider unless one is
// given. Configure it in main() before installing the observer:
//
//	otel.SetTracerProvider(tp)
//	reactive.SetObserver(observe.NewTracer())
func NewTracer(opts ...TracerOption) *Tracer {
	config := TracerConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}

	var tracer trace.Tracer
	if config.Provider != nil {
		tracer = config.Provider.Tracer(config.TracerName)
	} else {
		tracer = otel.Tracer(config.TracerName)
	}

	return &Tracer{
		tracer:      tracer,
		trackEvents: config.TrackEvents,
		spans:       make(map[*reactive.Effect]runSpan),
	}
}

// OnEffectStart starts a span for the run, nested under the span of the
// running parent effect.
func (t *Tracer) OnEffectStart(e *reactive.Effect) {
	t.mu.Lock()
	defer t.mu.Unlock()

	parent := context.Background()
	if p := reactive.ActiveEffect(); p != nil {
		if rs, ok := t.spans[p]; ok {
			parent = rs.ctx
		}
	}

	attrs := []attribute.KeyValue{
		attribute.Int64("reactive.effect_id", int64(e.ID())),
	}
	if name := e.Name(); name != "" {
		attrs = append(attrs, attribute.String("reactive.effect_name", name))
	}

	ctx, span := t.tracer.Start(parent, spanName(e),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	t.spans[e] = runSpan{ctx: ctx, span: span}
}

// OnEffectEnd ends the run span with its status.
func (t *Tracer) OnEffectEnd(e *reactive.Effect, elapsed time.Duration, panicked bool) {
	t.mu.Lock()
	rs, ok := t.spans[e]
	delete(t.spans, e)
	t.mu.Unlock()
	if !ok {
		return
	}

	rs.span.SetAttributes(
		attribute.Int("reactive.dependencies", e.DependencyCount()),
		attribute.Int64("reactive.elapsed_us", elapsed.Microseconds()),
	)
	if panicked {
		rs.span.SetStatus(codes.Error, "effect panicked")
	} else {
		rs.span.SetStatus(codes.Ok, "")
	}
	rs.span.End()
}

// OnTrigger adds a trigger event to the active run span.
func (t *Tracer) OnTrigger(event reactive.DebuggerEvent) {
	span := t.activeSpan()
	if span == nil {
		return
	}
	span.AddEvent("reactive.trigger", trace.WithAttributes(
		attribute.String("reactive.op", event.Op.String()),
		attribute.String("reactive.key", fmt.Sprint(event.Key)),
		attribute.String("reactive.target", describe(event.Target)),
		attribute.Int64("reactive.triggered_effect_id", int64(event.Effect.ID())),
	))
}

// OnTrack adds a track event when track events are enabled.
func (t *Tracer) OnTrack(event reactive.DebuggerEvent) {
	if !t.trackEvents {
		return
	}
	span := t.activeSpan()
	if span == nil {
		return
	}
	span.AddEvent("reactive.track", trace.WithAttributes(
		attribute.String("reactive.op", event.Op.String()),
		attribute.String("reactive.key", fmt.Sprint(event.Key)),
		attribute.String("reactive.target", describe(event.Target)),
	))
}

// OnEffectStop does nothing; spans end with their run.
func (t *Tracer) OnEffectStop(e *reactive.Effect) {}

// activeSpan returns the span of the effect running on this goroutine.
func (t *Tracer) activeSpan() trace.Span {
	e := reactive.ActiveEffect()
	if e == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if rs, ok := t.spans[e]; ok {
		return rs.span
	}
	return nil
}

func spanName(e *reactive.Effect) string {
	if name := e.Name(); name != "" {
		return "reactive.run " + name
	}
	return "reactive.run"
}
