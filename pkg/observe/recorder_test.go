package observe

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/vango-dev/reactive/pkg/reactive"
)

func TestRecorderRecordsWorkload(t *testing.T) {
	rec := NewRecorder(0)
	install(t, rec)

	e := workload()

	records := rec.Records()
	kinds := make([]string, len(records))
	for i, r := range records {
		kinds[i] = r.Kind
		if r.EffectID != e.ID() {
			t.Errorf("record %d effect = %d, want %d", i, r.EffectID, e.ID())
		}
		if i > 0 && r.Seq <= records[i-1].Seq {
			t.Errorf("sequence numbers should increase, got %d after %d", r.Seq, records[i-1].Seq)
		}
	}

	want := []string{
		KindStart, KindTrack, KindEnd,
		KindTrigger,
		KindStart, KindTrack, KindEnd,
		KindStop,
	}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("kinds[%d] = %q, want %q", i, kinds[i], want[i])
		}
	}

	trig := records[3]
	if trig.Op != "set" || trig.Key != "n" || trig.NewValue != "1" || trig.OldValue != "0" {
		t.Errorf("unexpected trigger record %+v", trig)
	}

	stats := rec.Stats()
	if stats.Tracks != 2 || stats.Triggers != 1 || stats.Runs != 2 || stats.Stops != 1 || stats.Buffered != 8 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestRecorderRingKeepsNewest(t *testing.T) {
	rec := NewRecorder(3)
	install(t, rec)

	e := reactive.NewEffect(func() any { return nil }, reactive.Lazy())
	for range 3 {
		e.Run()
	}

	records := rec.Records()
	if len(records) != 3 {
		t.Fatalf("len = %d, want 3", len(records))
	}
	if records[0].Seq != 4 || records[2].Seq != 6 {
		t.Errorf("ring should keep the newest records, got seqs %d..%d", records[0].Seq, records[2].Seq)
	}
	if rec.Stats().Runs != 3 {
		t.Errorf("stats should count every run, got %d", rec.Stats().Runs)
	}
}

func TestRecorderReset(t *testing.T) {
	rec := NewRecorder(8)
	id := rec.ID()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("recording ID %q is not a UUID: %v", id, err)
	}

	install(t, rec)
	workload()
	rec.Reset()

	if rec.ID() == id {
		t.Error("Reset should start a new recording")
	}
	if len(rec.Records()) != 0 || rec.Stats().Runs != 0 {
		t.Error("Reset should discard records and counters")
	}
}

func TestRecorderSubscribe(t *testing.T) {
	rec := NewRecorder(8)
	install(t, rec)

	ch, cancel := rec.Subscribe(16)
	if got := rec.Stats().Subscribers; got != 1 {
		t.Errorf("Subscribers = %d, want 1", got)
	}
	workload()
	cancel()
	cancel()
	if got := rec.Stats().Subscribers; got != 0 {
		t.Errorf("Subscribers after cancel = %d, want 0", got)
	}

	n := 0
	for range ch {
		n++
	}
	if n != 8 {
		t.Errorf("received %d records, want 8", n)
	}
}

func TestRecorderDropsForSlowSubscriber(t *testing.T) {
	rec := NewRecorder(8)
	install(t, rec)

	_, cancel := rec.Subscribe(1)
	defer cancel()
	workload()

	if got := rec.Stats().Dropped; got != 7 {
		t.Errorf("Dropped = %d, want 7", got)
	}
}

func TestSnapshotMarshalsJSON(t *testing.T) {
	rec := NewRecorder(8)
	install(t, rec)
	workload()

	data, err := json.Marshal(rec.Snapshot())
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var decoded struct {
		ID      string           `json:"id"`
		Records []map[string]any `json:"records"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if decoded.ID != rec.ID() || len(decoded.Records) != 8 {
		t.Errorf("unexpected trace id=%q records=%d", decoded.ID, len(decoded.Records))
	}
	if decoded.Records[0]["kind"] != KindStart {
		t.Errorf("first record kind = %v", decoded.Records[0]["kind"])
	}
}
