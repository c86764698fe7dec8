package observe

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vango-dev/reactive/pkg/reactive"
)

// DefaultRecorderCapacity is the ring size used when NewRecorder is given
// a non-positive capacity.
const DefaultRecorderCapacity = 1024

// Record kinds.
const (
	KindTrack   = "track"
	KindTrigger = "trigger"
	KindStart   = "start"
	KindEnd     = "end"
	KindStop    = "stop"
)

// Record is a serializable snapshot of one reactive event.
type Record struct {
	Seq        uint64        `json:"seq"`
	Kind       string        `json:"kind"`
	EffectID   uint64        `json:"effect_id"`
	EffectName string        `json:"effect_name,omitempty"`
	Target     string        `json:"target,omitempty"`
	Op         string        `json:"op,omitempty"`
	Key        string        `json:"key,omitempty"`
	NewValue   string        `json:"new_value,omitempty"`
	OldValue   string        `json:"old_value,omitempty"`
	Elapsed    time.Duration `json:"elapsed_ns,omitempty"`
	Panicked   bool          `json:"panicked,omitempty"`
	Time       time.Time     `json:"time"`
}

// Stats counts the events a Recorder has seen since its last reset.
type Stats struct {
	RecordingID string `json:"recording_id"`
	Tracks      uint64 `json:"tracks"`
	Triggers    uint64 `json:"triggers"`
	Runs        uint64 `json:"runs"`
	Panics      uint64 `json:"panics"`
	Stops       uint64 `json:"stops"`
	Buffered    int    `json:"buffered"`
	Dropped     uint64 `json:"dropped"`
	Subscribers int    `json:"subscribers"`
}

// Trace is the archived form of a recording.
type Trace struct {
	ID      string   `json:"id"`
	Stats   Stats    `json:"stats"`
	Records []Record `json:"records"`
}

// Recorder keeps the most recent events in a bounded ring and forwards each
// new record to subscribers. It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	id      string
	ring    []Record
	next    int
	full    bool
	seq     uint64
	stats   Stats
	subs    map[int]chan Record
	nextSub int
}

// NewRecorder creates a Recorder holding up to capacity records.
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = DefaultRecorderCapacity
	}
	r := &Recorder{
		ring: make([]Record, capacity),
		subs: make(map[int]chan Record),
	}
	r.resetLocked()
	return r
}

func newRecordingID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// ID returns the current recording ID.
func (r *Recorder) ID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.id
}

// Reset discards all records and starts a new recording.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resetLocked()
}

func (r *Recorder) resetLocked() {
	r.id = newRecordingID()
	clear(r.ring)
	r.next = 0
	r.full = false
	r.stats = Stats{RecordingID: r.id}
}

// Records returns the buffered records, oldest first.
func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recordsLocked()
}

func (r *Recorder) recordsLocked() []Record {
	if !r.full {
		return append([]Record(nil), r.ring[:r.next]...)
	}
	out := make([]Record, 0, len(r.ring))
	out = append(out, r.ring[r.next:]...)
	return append(out, r.ring[:r.next]...)
}

// Stats returns the current counters.
func (r *Recorder) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.statsLocked()
}

func (r *Recorder) statsLocked() Stats {
	s := r.stats
	s.Buffered = r.next
	if r.full {
		s.Buffered = len(r.ring)
	}
	s.Subscribers = len(r.subs)
	return s
}

// Snapshot returns the current recording as a Trace.
func (r *Recorder) Snapshot() Trace {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Trace{ID: r.id, Stats: r.statsLocked(), Records: r.recordsLocked()}
}

// Subscribe returns a channel receiving every new record and a function
// that cancels the subscription. Records are dropped, and counted in
// Stats.Dropped, when the channel buffer is full.
func (r *Recorder) Subscribe(buffer int) (<-chan Record, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch := make(chan Record, buffer)
	id := r.nextSub
	r.nextSub++
	r.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			delete(r.subs, id)
			close(ch)
		})
	}
}

func (r *Recorder) add(rec Record) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	rec.Seq = r.seq
	rec.Time = time.Now()

	r.ring[r.next] = rec
	r.next++
	if r.next == len(r.ring) {
		r.next = 0
		r.full = true
	}

	for _, ch := range r.subs {
		select {
		case ch <- rec:
		default:
			r.stats.Dropped++
		}
	}
}

func (r *Recorder) count(field *uint64) {
	r.mu.Lock()
	*field++
	r.mu.Unlock()
}

func effectRecord(kind string, e *reactive.Effect) Record {
	return Record{Kind: kind, EffectID: e.ID(), EffectName: e.Name()}
}

func eventRecord(kind string, event reactive.DebuggerEvent) Record {
	rec := effectRecord(kind, event.Effect)
	rec.Target = describe(event.Target)
	rec.Op = event.Op.String()
	rec.Key = fmt.Sprint(event.Key)
	rec.NewValue = describe(event.NewValue)
	rec.OldValue = describe(event.OldValue)
	return rec
}

// OnTrack records a track event.
func (r *Recorder) OnTrack(event reactive.DebuggerEvent) {
	r.count(&r.stats.Tracks)
	r.add(eventRecord(KindTrack, event))
}

// OnTrigger records a trigger event.
func (r *Recorder) OnTrigger(event reactive.DebuggerEvent) {
	r.count(&r.stats.Triggers)
	r.add(eventRecord(KindTrigger, event))
}

// OnEffectStart records the start of a run.
func (r *Recorder) OnEffectStart(e *reactive.Effect) {
	r.add(effectRecord(KindStart, e))
}

// OnEffectEnd records the end of a run and counts it.
func (r *Recorder) OnEffectEnd(e *reactive.Effect, elapsed time.Duration, panicked bool) {
	r.count(&r.stats.Runs)
	if panicked {
		r.count(&r.stats.Panics)
	}
	rec := effectRecord(KindEnd, e)
	rec.Elapsed = elapsed
	rec.Panicked = panicked
	r.add(rec)
}

// OnEffectStop records a stopped effect.
func (r *Recorder) OnEffectStop(e *reactive.Effect) {
	r.count(&r.stats.Stops)
	r.add(effectRecord(KindStop, e))
}
