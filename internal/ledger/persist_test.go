package ledger

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	l, _ := testClock(start)

	l.RecordAttempt("00", true)
	l.RecordAttempt("00", false)
	l.RecordAttempt("37", true)

	if err := l.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded := New(func() time.Time { return start })
	if err := loaded.Load(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Keys()) != 100 {
		t.Fatalf("expected 100 keys after load, got %d", len(loaded.Keys()))
	}
	for _, key := range []string{"00", "37"} {
		want := l.Record(key)
		got := loaded.Record(key)
		if got.Correct != want.Correct || got.Incorrect != want.Incorrect {
			t.Fatalf("counters differ for %s: %+v vs %+v", key, got, want)
		}
		if got.LastTested == nil || !got.LastTested.Equal(*want.LastTested) {
			t.Fatalf("last tested differs for %s: %v vs %v", key, got.LastTested, want.LastTested)
		}
	}
	if rec := loaded.Record("99"); rec.Attempts() != 0 || rec.LastTested != nil {
		t.Fatalf("expected zeroed record for 99, got %+v", rec)
	}
}

func TestLoadMissingFileStartsFresh(t *testing.T) {
	l := New(nil)
	if err := l.Load(filepath.Join(t.TempDir(), "missing.json")); err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if len(l.Keys()) != 100 {
		t.Fatalf("expected 100 zeroed keys, got %d", len(l.Keys()))
	}
}

func TestLoadCorruptFileReportsAndStaysFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}
	l := New(nil)
	if err := l.Load(path); err == nil {
		t.Fatalf("expected error for corrupt file")
	}
	if len(l.Keys()) != 100 {
		t.Fatalf("expected fresh ledger, got %d keys", len(l.Keys()))
	}
	for _, key := range l.Keys() {
		if l.Attempts(key) != 0 {
			t.Fatalf("expected zeroed record for %s", key)
		}
	}
}

func TestLoadPartialFileFillsMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	payload := `{"05": {"correct": 3, "incorrect": 1, "last_tested": "2024-03-01T12:00:00Z"}}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write stats: %v", err)
	}
	l := New(nil)
	if err := l.Load(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	if rec := l.Record("05"); rec.Correct != 3 || rec.Incorrect != 1 {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if len(l.Keys()) != 100 {
		t.Fatalf("expected missing keys synthesized, got %d", len(l.Keys()))
	}
}
