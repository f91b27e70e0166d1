// internal/game/session.go
//
// Session narrows one word list across rounds of feedback.
// Each round encodes its own Filter and applies it to the previous
// round's candidates, so the remaining set is the intersection of every
// round's survivors.
//
// State transitions:
//   - All marks hit         → Finished = true, Won = true.
//   - No candidates remain  → Finished = true ("stuck").
//   - Rounds reach s.Rows   → Finished = true (loss).

package game

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
)

var (
	ErrFinished = errors.New("session finished")
	ErrNoAnswer = errors.New("session has no hidden answer")
)

// NewSession starts a session over dict. The session owns dict from here
// on. answer is optional; when set, guesses can be scored server side.
func NewSession(list string, dict *solver.Dictionary, answer string) *Session {
	return &Session{
		ID:        uuid.NewString(),
		List:      list,
		Answer:    strings.ToLower(strings.TrimSpace(answer)),
		Rows:      defaultRows,
		Rounds:    []Round{},
		Remaining: dict,
		CreatedAt: time.Now().UTC(),
	}
}

// ApplyFeedback encodes guess and marks, narrows the candidates and
// records the round. Returns the round and the new state string.
func (s *Session) ApplyFeedback(guess string, marks []Mark) (Round, string, error) {
	if s.Finished {
		return Round{}, s.State(), ErrFinished
	}
	guess = normalizeGuess(guess)
	f, err := Encode(guess, marks)
	if err != nil {
		return Round{}, s.State(), err
	}
	next, err := s.Remaining.Filter(f)
	if err != nil {
		return Round{}, s.State(), err
	}

	r := Round{
		Guess:  guess,
		Marks:  append([]Mark(nil), marks...),
		Before: s.Remaining.Len(),
		After:  next.Len(),
	}
	s.Remaining = next
	s.Rounds = append(s.Rounds, r)

	switch {
	case allHit(marks):
		s.Finished, s.Won = true, true
	case next.IsEmpty():
		s.Finished = true
	case len(s.Rounds) >= s.Rows:
		s.Finished = true
	}
	return r, s.State(), nil
}

// ApplyGuess scores guess against the hidden answer and applies the result.
func (s *Session) ApplyGuess(guess string) (Round, string, error) {
	if s.Answer == "" {
		return Round{}, s.State(), ErrNoAnswer
	}
	guess = normalizeGuess(guess)
	if len(guess) != len(s.Answer) || !isAlpha(guess) {
		return Round{}, s.State(), fmt.Errorf("%w: %q", ErrInvalidGuess, guess)
	}
	return s.ApplyFeedback(guess, Score(s.Answer, guess))
}

// State reports a coarse string representation of the current state.
func (s *Session) State() string {
	if !s.Finished {
		return StatePlaying
	}
	if s.Won {
		return StateWon
	}
	if s.Remaining != nil && s.Remaining.IsEmpty() {
		return StateStuck
	}
	return StateLost
}

// Clone returns a copy of s that shares no mutable state with it.
// Remaining is shared: a Dictionary is never modified once filtered.
func (s *Session) Clone() *Session {
	c := *s
	c.Rounds = append([]Round(nil), s.Rounds...)
	return &c
}

// Snapshot returns the serialisable form of s.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		ID:        s.ID,
		List:      s.List,
		Answer:    s.Answer,
		Rows:      s.Rows,
		Rounds:    append([]Round(nil), s.Rounds...),
		CreatedAt: s.CreatedAt,
	}
}

// Restore rebuilds a Session from snap by replaying its rounds over dict.
func Restore(snap Snapshot, dict *solver.Dictionary) (*Session, error) {
	s := &Session{
		ID:        snap.ID,
		List:      snap.List,
		Answer:    snap.Answer,
		Rows:      snap.Rows,
		Rounds:    make([]Round, 0, len(snap.Rounds)),
		Remaining: dict,
		CreatedAt: snap.CreatedAt,
	}
	if s.Rows <= 0 {
		s.Rows = defaultRows
	}
	for i, r := range snap.Rounds {
		if _, _, err := s.ApplyFeedback(r.Guess, r.Marks); err != nil {
			return nil, fmt.Errorf("replay round %d: %w", i+1, err)
		}
	}
	return s, nil
}
