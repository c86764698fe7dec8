package observe

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/reactive/pkg/reactive"
)

// install sets obs as the global observer for the test.
func install(t *testing.T, obs reactive.Observer) {
	t.Helper()
	prev := reactive.SetObserver(obs)
	t.Cleanup(func() { reactive.SetObserver(prev) })
}

// workload runs one effect through a track, a trigger and a stop.
func workload() *reactive.Effect {
	state := reactive.Reactive(reactive.NewObject("n", 0))
	e := reactive.Watch(func() { _ = state.Get("n") }, reactive.EffectName("counter"))
	state.Set("n", 1)
	e.Stop()
	return e
}

type countingObserver struct {
	Base
	tracks, ends int
}

func (c *countingObserver) OnTrack(reactive.DebuggerEvent) { c.tracks++ }
func (c *countingObserver) OnEffectEnd(*reactive.Effect, time.Duration, bool) {
	c.ends++
}

func TestMultiFansOut(t *testing.T) {
	a, b := &countingObserver{}, &countingObserver{}
	install(t, NewMulti(a, nil, b))

	workload()

	for i, c := range []*countingObserver{a, b} {
		if c.tracks != 2 || c.ends != 2 {
			t.Errorf("observer %d: tracks=%d ends=%d, want 2 2", i, c.tracks, c.ends)
		}
	}
}

func TestSlogObserver(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	install(t, NewSlogObserver(logger))

	workload()

	out := buf.String()
	for _, want := range []string{
		"msg=reactive.track",
		"msg=reactive.trigger",
		"msg=reactive.run.start",
		"msg=reactive.run.end",
		"msg=reactive.stop",
		"name=counter",
		"key=n",
		"new=1",
		"old=0",
		"target=*reactive.Object",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestSlogObserverLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	install(t, NewSlogObserver(logger))

	workload()
	if buf.Len() != 0 {
		t.Errorf("debug records should be filtered at info level, got %q", buf.String())
	}

	install(t, NewSlogObserver(logger).WithLevel(slog.LevelInfo))
	workload()
	if !strings.Contains(buf.String(), "reactive.track") {
		t.Error("WithLevel should raise the record level")
	}
}

func TestSlogObserverLogsPanicAsError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	install(t, NewSlogObserver(logger))

	func() {
		defer func() { _ = recover() }()
		reactive.Watch(func() { panic("boom") })
	}()

	if !strings.Contains(buf.String(), "level=ERROR") || !strings.Contains(buf.String(), "panicked=true") {
		t.Errorf("panicking run should log an error, got %q", buf.String())
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"int", 42, "42"},
		{"string", "x", "x"},
		{"target", reactive.NewArray(), "*reactive.Array"},
		{"iterate key", reactive.IterateKey, "iterate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describe(tt.in); got != tt.want {
				t.Errorf("describe(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
