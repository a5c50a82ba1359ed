// Package selection picks the next quiz item using a weighted-band mixture
// of recency, weakness and combination pools.
package selection

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/verte-zerg/paomem/internal/ledger"
	"github.com/verte-zerg/paomem/internal/model"
)

// Band widths are cumulative; an empty pool collapses its band and the draw
// falls through to the next one.
const (
	veryRecentCeil  = 0.35
	recentCeil      = 0.50
	weakCeil        = 0.65
	combinationCeil = 0.80
)

const (
	veryRecentWindow = 2 * time.Hour
	veryRecentLimit  = 5
	recentWindow     = 8 * time.Hour
	recentLimit      = 10
	weakLimit        = 15
	comboLimit       = 8
	learnedWindow    = 48 * time.Hour
	retestWindow     = 24 * time.Hour
	retestLimit      = 50
	minLearned       = 1
)

// Kind discriminates single-key items from synthetic sequences.
type Kind int

// Item kinds.
const (
	KindSingle Kind = iota
	KindSequence
)

// Reason records which selection band produced an item.
type Reason int

// Selection reasons.
const (
	ReasonVeryRecent Reason = iota
	ReasonRecent
	ReasonWeak
	ReasonCombination
	ReasonRandom
)

// String describes the reason for user feedback.
func (r Reason) String() string {
	switch r {
	case ReasonVeryRecent:
		return "spaced repetition (very recent)"
	case ReasonRecent:
		return "spaced repetition (recent)"
	case ReasonWeak:
		return "weakness improvement"
	case ReasonCombination:
		return "advanced sequence test"
	default:
		return "random variety"
	}
}

// Item is one selected quiz presentation.
type Item struct {
	Kind   Kind
	Key    string
	Seq    model.Sequence
	Reason Reason
}

// Engine selects quiz items from ledger state.
type Engine struct {
	data   map[string]model.Association
	ledger *ledger.Ledger
	rnd    *rand.Rand

	veryRecentWindow time.Duration
	recentWindow     time.Duration
	weakTop          int
	comboCount       int
}

// New returns an engine drawing from the given random source. Zero-valued
// tuning fields in cfg fall back to the built-in defaults.
func New(data map[string]model.Association, l *ledger.Ledger, rnd *rand.Rand, cfg model.Config) *Engine {
	e := &Engine{
		data:             data,
		ledger:           l,
		rnd:              rnd,
		veryRecentWindow: veryRecentWindow,
		recentWindow:     recentWindow,
		weakTop:          weakLimit,
		comboCount:       comboLimit,
	}
	if cfg.VeryRecentHours > 0 {
		e.veryRecentWindow = time.Duration(cfg.VeryRecentHours) * time.Hour
	}
	if cfg.RecentHours > 0 {
		e.recentWindow = time.Duration(cfg.RecentHours) * time.Hour
	}
	if cfg.WeakTop > 0 {
		e.weakTop = cfg.WeakTop
	}
	if cfg.ComboCount > 0 {
		e.comboCount = cfg.ComboCount
	}
	return e
}

// Next selects the next quiz item with a single uniform draw.
func (e *Engine) Next() Item {
	veryRecent := e.ledger.RecentKeys(e.veryRecentWindow, veryRecentLimit)
	recent := e.ledger.RecentKeys(e.recentWindow, recentLimit)
	weak := e.weakPool()
	combos := e.Sequences(e.comboCount)

	r := e.rnd.Float64()
	switch {
	case r < veryRecentCeil && len(veryRecent) > 0:
		return Item{Kind: KindSingle, Key: veryRecent[e.rnd.Intn(len(veryRecent))], Reason: ReasonVeryRecent}
	case r < recentCeil && len(recent) > 0:
		return Item{Kind: KindSingle, Key: recent[e.rnd.Intn(len(recent))], Reason: ReasonRecent}
	case r < weakCeil && len(weak) > 0:
		return Item{Kind: KindSingle, Key: weak[e.rnd.Intn(len(weak))], Reason: ReasonWeak}
	case r < combinationCeil && len(combos) > 0:
		return Item{Kind: KindSequence, Seq: combos[e.rnd.Intn(len(combos))], Reason: ReasonCombination}
	default:
		return Item{Kind: KindSingle, Key: fmt.Sprintf("%02d", e.rnd.Intn(100)), Reason: ReasonRandom}
	}
}

// weakPool keeps only weak keys present in the dataset, so a sparse table
// degrades to a smaller pool instead of selecting untestable keys.
func (e *Engine) weakPool() []string {
	var pool []string
	for _, weak := range e.ledger.WeakestKeys(e.weakTop) {
		if _, ok := e.data[weak.Key]; ok {
			pool = append(pool, weak.Key)
		}
	}
	return pool
}

// Sequences synthesizes up to count unique 3-key sequences from recently
// learned keys. Fewer than three learned keys yields no sequences.
func (e *Engine) Sequences(count int) []model.Sequence {
	if count <= 0 {
		return nil
	}
	learned := e.eligibleLearned()
	if len(learned) < 3 {
		return nil
	}

	seen := map[string]struct{}{}
	var sequences []model.Sequence
	for attempt := 0; attempt < count*3 && len(sequences) < count; attempt++ {
		seq := e.sampleSequence(learned)
		if _, ok := seen[seq.ID()]; ok {
			continue
		}
		seen[seq.ID()] = struct{}{}
		sequences = append(sequences, seq)
	}
	return sequences
}

// eligibleLearned filters recently learned keys to those in the dataset, so
// a sparse table cannot produce sequences pointing at missing associations.
func (e *Engine) eligibleLearned() []string {
	learned := e.ledger.RecentlyLearned(learnedWindow, minLearned)
	eligible := learned[:0:0]
	for _, key := range learned {
		if _, ok := e.data[key]; ok {
			eligible = append(eligible, key)
		}
	}
	return eligible
}

// sampleSequence picks 3 distinct keys without replacement via a partial
// Fisher-Yates shuffle.
func (e *Engine) sampleSequence(keys []string) model.Sequence {
	pool := make([]string, len(keys))
	copy(pool, keys)
	var seq model.Sequence
	for i := 0; i < 3; i++ {
		j := i + e.rnd.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
		seq.Keys[i] = pool[i]
	}
	return seq
}

// ChallengeKeys flags ordinary keys whose associations draw at least two
// components from recently correct keys and which were not themselves tested
// in the last day. The flag changes presentation only.
func (e *Engine) ChallengeKeys(limit int) []string {
	if limit <= 0 {
		return nil
	}
	persons, actions, objects := e.recentComponents()
	if len(persons) == 0 && len(actions) == 0 && len(objects) == 0 {
		return nil
	}

	retested := map[string]struct{}{}
	for _, key := range e.ledger.RecentKeys(retestWindow, retestLimit) {
		retested[key] = struct{}{}
	}

	var challenges []string
	for _, key := range sortedKeys(e.data) {
		assoc := e.data[key]
		matches := 0
		if _, ok := persons[assoc.Person]; ok {
			matches++
		}
		if _, ok := actions[assoc.Action]; ok {
			matches++
		}
		if _, ok := objects[assoc.Object]; ok {
			matches++
		}
		if matches < 2 {
			continue
		}
		if _, ok := retested[key]; ok {
			continue
		}
		challenges = append(challenges, key)
		if len(challenges) == limit {
			break
		}
	}
	return challenges
}

// RecentComponents reports which of an association's components were
// recently learned, for post-answer review.
func (e *Engine) RecentComponents(assoc model.Association) (person, action, object bool) {
	persons, actions, objects := e.recentComponents()
	_, person = persons[assoc.Person]
	_, action = actions[assoc.Action]
	_, object = objects[assoc.Object]
	return person, action, object
}

func (e *Engine) recentComponents() (persons, actions, objects map[string]struct{}) {
	persons = map[string]struct{}{}
	actions = map[string]struct{}{}
	objects = map[string]struct{}{}
	for _, key := range e.ledger.RecentlyLearned(learnedWindow, minLearned) {
		assoc, ok := e.data[key]
		if !ok {
			continue
		}
		persons[assoc.Person] = struct{}{}
		actions[assoc.Action] = struct{}{}
		objects[assoc.Object] = struct{}{}
	}
	return persons, actions, objects
}

func sortedKeys(data map[string]model.Association) []string {
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
