// Package ledger tracks per-key answer statistics and persists them as JSON.
package ledger

import (
	"fmt"
	"sort"
	"time"

	"github.com/verte-zerg/paomem/internal/model"
)

const attemptPenalty = 0.1

// Ledger holds mutable per-key counters plus ephemeral session counters.
type Ledger struct {
	records map[string]*model.Record
	session model.SessionCounters
	now     func() time.Time
}

// WeakKey pairs a key with its accuracy for weakness ranking results.
type WeakKey struct {
	Key      string
	Accuracy float64
}

// New returns a ledger with zeroed records for every key 00-99. The now
// function supplies timestamps; pass time.Now outside tests.
func New(now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	l := &Ledger{
		records: map[string]*model.Record{},
		now:     now,
	}
	l.normalize()
	return l
}

// normalize guarantees a record exists for every key 00-99.
func (l *Ledger) normalize() {
	for i := 0; i < 100; i++ {
		key := fmt.Sprintf("%02d", i)
		if _, ok := l.records[key]; !ok {
			l.records[key] = &model.Record{}
		}
	}
}

// Record returns a copy of the record for a key.
func (l *Ledger) Record(key string) model.Record {
	if rec, ok := l.records[key]; ok {
		return *rec
	}
	return model.Record{}
}

// Attempts returns the total graded answers for a key.
func (l *Ledger) Attempts(key string) int {
	return l.Record(key).Attempts()
}

// Accuracy returns the percentage of correct answers for a key, 0 if untested.
func (l *Ledger) Accuracy(key string) float64 {
	rec := l.Record(key)
	total := rec.Attempts()
	if total == 0 {
		return 0
	}
	return float64(rec.Correct) / float64(total) * 100
}

// RecordAttempt bumps the matching counter, stamps the key and updates the
// session counters.
func (l *Ledger) RecordAttempt(key string, correct bool) {
	rec, ok := l.records[key]
	if !ok {
		rec = &model.Record{}
		l.records[key] = rec
	}
	if correct {
		rec.Correct++
		l.session.Correct++
	} else {
		rec.Incorrect++
		l.session.Incorrect++
	}
	now := l.now()
	rec.LastTested = &now
	l.session.Total++
}

// Session returns the counters for the current run.
func (l *Ledger) Session() model.SessionCounters {
	return l.session
}

// Totals sums correct and incorrect answers across all keys.
func (l *Ledger) Totals() (correct, incorrect int) {
	for _, rec := range l.records {
		correct += rec.Correct
		incorrect += rec.Incorrect
	}
	return correct, incorrect
}

// Keys returns all ledger keys in ascending order.
func (l *Ledger) Keys() []string {
	keys := make([]string, 0, len(l.records))
	for key := range l.records {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// RecentKeys returns up to limit keys tested within the window, in key order.
func (l *Ledger) RecentKeys(window time.Duration, limit int) []string {
	if window <= 0 || limit <= 0 {
		return nil
	}
	cutoff := l.now().Add(-window)
	var recent []string
	for _, key := range l.Keys() {
		rec := l.records[key]
		if rec.LastTested == nil || rec.LastTested.Before(cutoff) {
			continue
		}
		recent = append(recent, key)
		if len(recent) == limit {
			break
		}
	}
	return recent
}

// RecentlyLearned returns keys tested within the window with at least
// minCorrect correct answers, in key order.
func (l *Ledger) RecentlyLearned(window time.Duration, minCorrect int) []string {
	if window <= 0 {
		return nil
	}
	cutoff := l.now().Add(-window)
	var learned []string
	for _, key := range l.Keys() {
		rec := l.records[key]
		if rec.LastTested == nil || rec.LastTested.Before(cutoff) {
			continue
		}
		if rec.Correct < minCorrect {
			continue
		}
		learned = append(learned, key)
	}
	return learned
}

// WeakestKeys ranks keys ascending by priority score, where score is
// accuracy minus attempts times 0.1. Low accuracy with many attempts ranks
// first; untested keys score exactly 0.
func (l *Ledger) WeakestKeys(limit int) []WeakKey {
	if limit <= 0 {
		return nil
	}
	type scored struct {
		key      string
		accuracy float64
		score    float64
	}
	ranked := make([]scored, 0, len(l.records))
	for _, key := range l.Keys() {
		acc := l.Accuracy(key)
		ranked = append(ranked, scored{
			key:      key,
			accuracy: acc,
			score:    acc - float64(l.Attempts(key))*attemptPenalty,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score == ranked[j].score {
			return ranked[i].key < ranked[j].key
		}
		return ranked[i].score < ranked[j].score
	})
	if limit > len(ranked) {
		limit = len(ranked)
	}
	out := make([]WeakKey, 0, limit)
	for i := 0; i < limit; i++ {
		out = append(out, WeakKey{Key: ranked[i].key, Accuracy: ranked[i].accuracy})
	}
	return out
}
