// internal/game/types.go
//
// Core type definitions for a solving session.
// Defines:
//   - Mark: per-letter feedback for a guess (hit/present/miss).
//   - Round: one guess, its feedback and the candidate counts around it.
//   - Session: the rounds applied so far and the remaining candidates.

package game

import (
	"time"

	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
)

// Mark represents the evaluation result for a single letter in a guess.
// Possible values:
//   - "hit":     letter is correct and in the correct position.
//   - "present": letter exists in the answer but in a different position.
//   - "miss":    no further occurrence of the letter in the answer.
type Mark string

const (
	MarkHit     Mark = "hit"
	MarkPresent Mark = "present"
	MarkMiss    Mark = "miss"
)

// Session state strings.
const (
	StatePlaying = "playing"
	StateWon     = "won"
	StateLost    = "lost"
	StateStuck   = "stuck" // feedback left no candidate in the list
)

// Round is one applied guess.
type Round struct {
	Guess  string `json:"guess"`
	Marks  []Mark `json:"marks"`
	Before int    `json:"before"` // candidates before this round
	After  int    `json:"after"`  // candidates after this round
}

// Session holds the state of a single solving session.
type Session struct {
	ID        string             // Unique session identifier (uuid).
	List      string             // Name of the word list the session narrows.
	Answer    string             // Hidden answer for self-scored sessions; empty when assisting.
	Rows      int                // Maximum number of rounds (typically 6).
	Rounds    []Round            // Rounds applied so far.
	Remaining *solver.Dictionary // Candidates consistent with every round.
	Finished  bool               // True once won, lost or stuck.
	Won       bool               // True if a round was all hits.
	CreatedAt time.Time
}

// Snapshot is the serialisable form of a Session. Remaining is omitted:
// it is recomputed by replaying Rounds over the named list.
type Snapshot struct {
	ID        string    `json:"id"`
	List      string    `json:"list"`
	Answer    string    `json:"answer,omitempty"`
	Rows      int       `json:"rows"`
	Rounds    []Round   `json:"rounds"`
	CreatedAt time.Time `json:"createdAt"`
}
