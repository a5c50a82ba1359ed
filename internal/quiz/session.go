package quiz

import (
	"math/rand"

	"github.com/verte-zerg/paomem/internal/ledger"
	"github.com/verte-zerg/paomem/internal/model"
	"github.com/verte-zerg/paomem/internal/selection"
)

const challengeScanLimit = 20

// Mode is the presentation form of a prompt.
type Mode int

// Prompt modes.
const (
	ModeStudy Mode = iota // first encounter: reveal, then test forward
	ModeForward
	ModeReverse
	ModeSequence
)

// Prompt is one item prepared for presentation.
type Prompt struct {
	Mode      Mode
	Key       string
	Assoc     model.Association
	Seq       model.Sequence
	SeqParts  [3]model.Association
	Challenge bool
	Reason    selection.Reason
}

// Expected returns the answer components the prompt requires.
func (p Prompt) Expected() (person, action, object string) {
	if p.Mode == ModeSequence {
		return p.SeqParts[0].Person, p.SeqParts[1].Action, p.SeqParts[2].Object
	}
	return p.Assoc.Person, p.Assoc.Action, p.Assoc.Object
}

// Session orchestrates one training run.
type Session struct {
	data   map[string]model.Association
	ledger *ledger.Ledger
	engine *selection.Engine
	rnd    *rand.Rand
}

// NewSession wires a session over shared state. The random source decides
// the test direction for familiar keys.
func NewSession(data map[string]model.Association, l *ledger.Ledger, engine *selection.Engine, rnd *rand.Rand) *Session {
	return &Session{data: data, ledger: l, engine: engine, rnd: rnd}
}

// Next selects and prepares the next prompt. Keys missing from the dataset
// are redrawn; a dataset with no testable keys cannot happen because the
// loader rejects empty datasets.
func (s *Session) Next() Prompt {
	for {
		item := s.engine.Next()
		if item.Kind == selection.KindSequence {
			return s.sequencePrompt(item)
		}
		assoc, ok := s.data[item.Key]
		if !ok {
			continue
		}
		return s.singlePrompt(item, assoc)
	}
}

func (s *Session) singlePrompt(item selection.Item, assoc model.Association) Prompt {
	prompt := Prompt{
		Key:    item.Key,
		Assoc:  assoc,
		Reason: item.Reason,
	}
	if s.ledger.Attempts(item.Key) == 0 {
		prompt.Mode = ModeStudy
		return prompt
	}
	prompt.Challenge = s.isChallenge(item.Key)
	if s.rnd.Float64() < 0.5 {
		prompt.Mode = ModeForward
	} else {
		prompt.Mode = ModeReverse
	}
	return prompt
}

func (s *Session) sequencePrompt(item selection.Item) Prompt {
	prompt := Prompt{
		Mode:   ModeSequence,
		Seq:    item.Seq,
		Reason: item.Reason,
	}
	for i, key := range item.Seq.Keys {
		prompt.SeqParts[i] = s.data[key]
	}
	return prompt
}

func (s *Session) isChallenge(key string) bool {
	for _, candidate := range s.engine.ChallengeKeys(challengeScanLimit) {
		if candidate == key {
			return true
		}
	}
	return false
}

// Commit records the graded outcome. Sequence prompts never touch the
// per-key records of their source keys.
func (s *Session) Commit(prompt Prompt, correct bool) {
	if prompt.Mode == ModeSequence {
		return
	}
	s.ledger.RecordAttempt(prompt.Key, correct)
}

// RecentComponents reports which components of the prompt's association were
// recently learned, for challenge review output.
func (s *Session) RecentComponents(assoc model.Association) (person, action, object bool) {
	return s.engine.RecentComponents(assoc)
}
