package selection

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/verte-zerg/paomem/internal/ledger"
	"github.com/verte-zerg/paomem/internal/model"
)

// scriptedSource feeds predetermined values to rand.Rand so band draws are
// exact. Float64 consumes one value; Intn consumes one value per call.
type scriptedSource struct {
	values []int64
	idx    int
}

func (s *scriptedSource) Int63() int64 {
	if s.idx >= len(s.values) {
		panic(fmt.Sprintf("scripted source exhausted after %d values", len(s.values)))
	}
	v := s.values[s.idx]
	s.idx++
	return v
}

func (s *scriptedSource) Seed(int64) {}

// floatDraw encodes the value Float64 will return.
func floatDraw(f float64) int64 {
	return int64(f * (1 << 63))
}

// intnDraw encodes the value Intn will return for small arguments.
func intnDraw(n int) int64 {
	return int64(n) << 32
}

func fullData() map[string]model.Association {
	data := map[string]model.Association{}
	for i := 0; i < 100; i++ {
		key := fmt.Sprintf("%02d", i)
		data[key] = model.Association{
			Key:    key,
			Person: "Person" + key,
			Action: "Action" + key,
			Object: "Object" + key,
		}
	}
	return data
}

func testLedger(start time.Time) (*ledger.Ledger, *time.Time) {
	current := start
	return ledger.New(func() time.Time { return current }), &current
}

func scriptedEngine(l *ledger.Ledger, data map[string]model.Association, values ...int64) *Engine {
	rnd := rand.New(&scriptedSource{values: values})
	return New(data, l, rnd, model.Config{})
}

func TestNextFallbackBand(t *testing.T) {
	l, _ := testLedger(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	e := scriptedEngine(l, fullData(), floatDraw(0.9), intnDraw(7))

	item := e.Next()
	if item.Kind != KindSingle || item.Key != "07" || item.Reason != ReasonRandom {
		t.Fatalf("unexpected item: %+v", item)
	}
}

func TestNextWeakBand(t *testing.T) {
	l, _ := testLedger(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	// Fresh ledger: all keys score 0, weak pool is the 15 lowest keys.
	e := scriptedEngine(l, fullData(), floatDraw(0.55), intnDraw(3))

	item := e.Next()
	if item.Kind != KindSingle || item.Key != "03" || item.Reason != ReasonWeak {
		t.Fatalf("unexpected item: %+v", item)
	}
}

func TestNextVeryRecentBand(t *testing.T) {
	l, _ := testLedger(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	l.RecordAttempt("42", true)
	e := scriptedEngine(l, fullData(), floatDraw(0.1), intnDraw(0))

	item := e.Next()
	if item.Key != "42" || item.Reason != ReasonVeryRecent {
		t.Fatalf("unexpected item: %+v", item)
	}
}

func TestNextEmptyBandFallsThrough(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	l, clock := testLedger(start)
	l.RecordAttempt("55", true)
	*clock = start.Add(5 * time.Hour)

	// 55 left the 2h window but stays in the 8h window: a draw inside the
	// very-recent band lands in the recent band instead.
	e := scriptedEngine(l, fullData(), floatDraw(0.1), intnDraw(0))
	item := e.Next()
	if item.Key != "55" || item.Reason != ReasonRecent {
		t.Fatalf("unexpected item: %+v", item)
	}
}

func TestNextFallbackUniformOverAllKeys(t *testing.T) {
	l, _ := testLedger(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	e := New(fullData(), l, rand.New(rand.NewSource(1)), model.Config{})

	counts := map[string]int{}
	const draws = 10000
	for i := 0; i < draws; i++ {
		item := e.Next()
		if item.Kind != KindSingle {
			t.Fatalf("unexpected sequence on untested ledger: %+v", item)
		}
		counts[item.Key]++
	}
	if len(counts) != 100 {
		t.Fatalf("expected all 100 keys visited, got %d", len(counts))
	}
	// Keys 15-99 are only reachable through the uniform fallback
	// (expected ~35 hits each over 10000 draws).
	for i := 15; i < 100; i++ {
		key := fmt.Sprintf("%02d", i)
		if counts[key] < 3 || counts[key] > 150 {
			t.Fatalf("key %s count %d outside uniform tolerance", key, counts[key])
		}
	}
}

func TestSequencesNeedThreeLearnedKeys(t *testing.T) {
	l, _ := testLedger(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	l.RecordAttempt("01", true)
	l.RecordAttempt("02", true)

	e := New(fullData(), l, rand.New(rand.NewSource(1)), model.Config{})
	if seqs := e.Sequences(8); seqs != nil {
		t.Fatalf("expected no sequences with 2 learned keys, got %v", seqs)
	}
}

func TestSequencesDistinctKeysAndUniqueIDs(t *testing.T) {
	l, _ := testLedger(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	learned := map[string]struct{}{"01": {}, "02": {}, "03": {}, "04": {}}
	for key := range learned {
		l.RecordAttempt(key, true)
	}

	e := New(fullData(), l, rand.New(rand.NewSource(7)), model.Config{})
	seqs := e.Sequences(8)
	if len(seqs) == 0 {
		t.Fatalf("expected sequences from 4 learned keys")
	}
	if len(seqs) > 8 {
		t.Fatalf("expected at most 8 sequences, got %d", len(seqs))
	}
	seen := map[string]struct{}{}
	for _, seq := range seqs {
		if _, ok := seen[seq.ID()]; ok {
			t.Fatalf("duplicate sequence %s", seq.ID())
		}
		seen[seq.ID()] = struct{}{}
		if seq.Keys[0] == seq.Keys[1] || seq.Keys[1] == seq.Keys[2] || seq.Keys[0] == seq.Keys[2] {
			t.Fatalf("sequence keys not distinct: %+v", seq)
		}
		for _, key := range seq.Keys {
			if _, ok := learned[key]; !ok {
				t.Fatalf("sequence key %s not recently learned", key)
			}
		}
	}
}

func TestNextProducesSequencesWhenLearned(t *testing.T) {
	l, _ := testLedger(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	for _, key := range []string{"01", "02", "03"} {
		l.RecordAttempt(key, true)
	}

	e := New(fullData(), l, rand.New(rand.NewSource(3)), model.Config{})
	sawSequence := false
	for i := 0; i < 500 && !sawSequence; i++ {
		item := e.Next()
		if item.Kind == KindSequence {
			sawSequence = true
			if item.Reason != ReasonCombination {
				t.Fatalf("unexpected reason for sequence: %v", item.Reason)
			}
			if len(item.Seq.ID()) != 6 {
				t.Fatalf("unexpected sequence id %q", item.Seq.ID())
			}
		}
	}
	if !sawSequence {
		t.Fatalf("expected at least one sequence in 500 draws")
	}
}

func sparseData() map[string]model.Association {
	return map[string]model.Association{
		"01": {Key: "01", Person: "Alice", Action: "Run", Object: "Ball"},
		"02": {Key: "02", Person: "Bob", Action: "Jump", Object: "Car"},
		"03": {Key: "03", Person: "Carl", Action: "Swim", Object: "Desk"},
	}
}

func TestNextWeakBandSparseDataset(t *testing.T) {
	l, _ := testLedger(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	// History for keys with no association: they rank weakest but must not
	// be selectable.
	for _, key := range []string{"40", "41", "42"} {
		l.RecordAttempt(key, false)
	}

	// The weak pool shrinks to the dataset keys, so index 0 is "01".
	e := scriptedEngine(l, sparseData(), floatDraw(0.55), intnDraw(0))
	item := e.Next()
	if item.Kind != KindSingle || item.Key != "01" || item.Reason != ReasonWeak {
		t.Fatalf("unexpected item: %+v", item)
	}
}

func TestSequencesSkipLearnedKeysOutsideDataset(t *testing.T) {
	l, _ := testLedger(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	for _, key := range []string{"40", "41", "42", "43", "44"} {
		l.RecordAttempt(key, true)
	}

	e := New(sparseData(), l, rand.New(rand.NewSource(1)), model.Config{})
	if seqs := e.Sequences(8); seqs != nil {
		t.Fatalf("expected no sequences when learned keys have no associations, got %v", seqs)
	}
}

func TestChallengeKeys(t *testing.T) {
	data := map[string]model.Association{
		"01": {Key: "01", Person: "Alice", Action: "Run", Object: "Ball"},
		"02": {Key: "02", Person: "Bob", Action: "Jump", Object: "Car"},
		"03": {Key: "03", Person: "Alice", Action: "Jump", Object: "Desk"},
		"04": {Key: "04", Person: "Carl", Action: "Swim", Object: "Pen"},
	}
	l, _ := testLedger(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	l.RecordAttempt("01", true)
	l.RecordAttempt("02", true)

	e := New(data, l, rand.New(rand.NewSource(1)), model.Config{})
	challenges := e.ChallengeKeys(20)
	// 03 borrows Alice from 01 and Jump from 02; 04 shares nothing; 01 and
	// 02 were tested within the last day.
	if len(challenges) != 1 || challenges[0] != "03" {
		t.Fatalf("unexpected challenge keys: %v", challenges)
	}

	person, action, object := e.RecentComponents(data["03"])
	if !person || !action || object {
		t.Fatalf("unexpected component flags: %v %v %v", person, action, object)
	}
}

func TestChallengeKeysExcludesRecentlyTested(t *testing.T) {
	data := map[string]model.Association{
		"01": {Key: "01", Person: "Alice", Action: "Run", Object: "Ball"},
		"02": {Key: "02", Person: "Bob", Action: "Jump", Object: "Car"},
		"03": {Key: "03", Person: "Alice", Action: "Jump", Object: "Desk"},
	}
	l, _ := testLedger(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	l.RecordAttempt("01", true)
	l.RecordAttempt("02", true)
	l.RecordAttempt("03", false)

	e := New(data, l, rand.New(rand.NewSource(1)), model.Config{})
	if challenges := e.ChallengeKeys(20); len(challenges) != 0 {
		t.Fatalf("expected no challenges when the key was just tested, got %v", challenges)
	}
}
