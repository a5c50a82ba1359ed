// Package model defines shared data structures.
package model

import "time"

// Association maps a 2-digit key to its Person-Action-Object story fragment.
type Association struct {
	Key    string
	Person string
	Action string
	Object string
}

// Record tracks per-key answer counters and the last test time.
type Record struct {
	Correct    int        `json:"correct"`
	Incorrect  int        `json:"incorrect"`
	LastTested *time.Time `json:"last_tested"`
}

// Attempts returns the total number of graded answers for the record.
func (r Record) Attempts() int {
	return r.Correct + r.Incorrect
}

// SessionCounters tallies answers for the current run only.
type SessionCounters struct {
	Correct   int
	Incorrect int
	Total     int
}

// Sequence is a synthetic 3-key test: Person from Keys[0], Action from
// Keys[1], Object from Keys[2].
type Sequence struct {
	Keys [3]string
}

// ID returns the 6-character identifier formed by concatenating the keys.
func (s Sequence) ID() string {
	return s.Keys[0] + s.Keys[1] + s.Keys[2]
}

// Config defines training settings.
type Config struct {
	DataPath        string
	VeryRecentHours int
	RecentHours     int
	WeakTop         int
	ComboCount      int
}
