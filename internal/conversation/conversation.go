// Package conversation holds the ordered log of turns exchanged with the user.
package conversation

import (
	"encoding/json"
	"fmt"
	"sync"
)

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Part is one piece of a turn's content.
type Part struct {
	Text string `json:"text"`
}

// Turn is one message in the conversation, tagged with its author role.
type Turn struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// NewTurn builds a single-part turn.
func NewTurn(role, text string) Turn {
	return Turn{Role: role, Parts: []Part{{Text: text}}}
}

// Text returns the concatenated text of all parts.
func (t Turn) Text() string {
	switch len(t.Parts) {
	case 0:
		return ""
	case 1:
		return t.Parts[0].Text
	}
	var s string
	for _, p := range t.Parts {
		s += p.Text
	}
	return s
}

func (t Turn) clone() Turn {
	c := Turn{Role: t.Role}
	if t.Parts != nil {
		c.Parts = make([]Part, len(t.Parts))
		copy(c.Parts, t.Parts)
	}
	return c
}

// Log is an ordered, append-mostly sequence of turns safe for concurrent use.
// Every mutation is applied to the state current at the time of the call.
type Log struct {
	mu    sync.RWMutex
	turns []Turn
}

// NewLog returns a log seeded with a copy of turns.
func NewLog(turns ...Turn) *Log {
	l := &Log{}
	for _, t := range turns {
		l.turns = append(l.turns, t.clone())
	}
	return l
}

// Append adds turn to the end of the log and returns its index.
func (l *Log) Append(turn Turn) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = append(l.turns, turn.clone())
	return len(l.turns) - 1
}

// Update replaces the log with fn applied to a copy of the current turns.
func (l *Log) Update(fn func([]Turn) []Turn) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = fn(cloneTurns(l.turns))
}

// AppendText concatenates fragment onto the first part of the turn at index.
func (l *Log) AppendText(index int, fragment string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if index < 0 || index >= len(l.turns) {
		return fmt.Errorf("turn index %d out of range (len %d)", index, len(l.turns))
	}
	t := &l.turns[index]
	if len(t.Parts) == 0 {
		t.Parts = []Part{{}}
	}
	t.Parts[0].Text += fragment
	return nil
}

// Snapshot returns a deep copy of the turns.
func (l *Log) Snapshot() []Turn {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return cloneTurns(l.turns)
}

// At returns a copy of the turn at index.
func (l *Log) At(index int) (Turn, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if index < 0 || index >= len(l.turns) {
		return Turn{}, false
	}
	return l.turns[index].clone(), true
}

// Last returns a copy of the final turn, if any.
func (l *Log) Last() (Turn, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.turns) == 0 {
		return Turn{}, false
	}
	return l.turns[len(l.turns)-1].clone(), true
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.turns)
}

// Reset empties the log.
func (l *Log) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = nil
}

// MarshalJSON encodes the log as a JSON array of turns. An empty log encodes as [].
func (l *Log) MarshalJSON() ([]byte, error) {
	turns := l.Snapshot()
	if turns == nil {
		turns = []Turn{}
	}
	return json.Marshal(turns)
}

// UnmarshalJSON replaces the log's contents with the decoded turns.
func (l *Log) UnmarshalJSON(data []byte) error {
	var turns []Turn
	if err := json.Unmarshal(data, &turns); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = turns
	return nil
}

func cloneTurns(turns []Turn) []Turn {
	if turns == nil {
		return nil
	}
	out := make([]Turn, len(turns))
	for i, t := range turns {
		out[i] = t.clone()
	}
	return out
}
