// Package quiz drives prompt selection and answer grading for training.
package quiz

import (
	"strconv"
	"strings"

	"github.com/verte-zerg/paomem/internal/model"
)

// Answer carries the user's three component responses.
type Answer struct {
	Person string
	Action string
	Object string
}

// Result holds per-component grading flags.
type Result struct {
	Person bool
	Action bool
	Object bool
}

// All reports whether every component matched.
func (r Result) All() bool {
	return r.Person && r.Action && r.Object
}

// MatchComponent compares a response against the expected component,
// ignoring case and surrounding whitespace. Empty input is simply wrong.
func MatchComponent(got, want string) bool {
	return strings.EqualFold(strings.TrimSpace(got), strings.TrimSpace(want))
}

// MatchNumber compares a response against a 2-digit key, accepting the form
// with or without the leading zero.
func MatchNumber(got, key string) bool {
	got = strings.TrimSpace(got)
	if got == key {
		return true
	}
	n, err := strconv.Atoi(key)
	if err != nil {
		return false
	}
	return got == strconv.Itoa(n)
}

// GradeForward grades a number-to-association answer component-wise.
func GradeForward(ans Answer, assoc model.Association) Result {
	return Result{
		Person: MatchComponent(ans.Person, assoc.Person),
		Action: MatchComponent(ans.Action, assoc.Action),
		Object: MatchComponent(ans.Object, assoc.Object),
	}
}

// GradeReverse grades an association-to-number answer.
func GradeReverse(input, key string) bool {
	return MatchNumber(input, key)
}

// GradeSequence grades a 3-key sequence answer against the synthesized
// person, action and object.
func GradeSequence(ans Answer, person, action, object string) Result {
	return Result{
		Person: MatchComponent(ans.Person, person),
		Action: MatchComponent(ans.Action, action),
		Object: MatchComponent(ans.Object, object),
	}
}
