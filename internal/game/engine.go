// internal/game/engine.go
//
// Feedback plumbing between a Wordle game and the candidate engine.
// Responsibilities:
//   - Score guesses using the classic two‑pass Wordle algorithm.
//   - Parse compact or verbose mark strings typed by a user.
//   - Encode a guess and its marks into a solver.Filter, one verdict per
//     position, left to right.
//
// Package-level defaults are kept here for clarity.
package game

import (
	"errors"
	"fmt"
	"strings"

	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
)

const (
	defaultRows = 6
	defaultCols = solver.WordLen
)

var (
	ErrInvalidGuess = errors.New("invalid guess")
	ErrMarksLength  = errors.New("marks must cover every letter")
	ErrInvalidMark  = errors.New("invalid mark")
)

// Score implements the standard Wordle two‑pass scoring algorithm.
//
// Pass 1:
//   - Mark exact matches as Hit.
//   - Count remaining (non‑hit) answer letters by letter index.
//
// Pass 2:
//   - For each non‑hit guess letter: if there is remaining count for that letter,
//     mark Present and decrement the count; otherwise mark Miss.
//
// This ensures correct behavior with repeated letters in both answer and guess.
func Score(answer, guess string) []Mark {
	n := len(guess)
	res := make([]Mark, n)
	if len(answer) != n {
		for i := range res {
			res[i] = MarkMiss
		}
		return res
	}

	var counts [26]int
	for i := 0; i < n; i++ {
		if guess[i] == answer[i] {
			res[i] = MarkHit
		} else if j := idx(answer[i]); j >= 0 && j < 26 {
			counts[j]++
		}
	}

	for i := 0; i < n; i++ {
		if res[i] == MarkHit {
			continue
		}
		j := idx(guess[i])
		if j >= 0 && j < 26 && counts[j] > 0 {
			res[i] = MarkPresent
			counts[j]--
		} else {
			res[i] = MarkMiss
		}
	}
	return res
}

// ParseMarks reads feedback typed by a person. Either one character per
// letter ("gy..g", "21002", "cm--c") or whitespace/comma separated words
// ("hit present miss miss hit").
func ParseMarks(s string) ([]Mark, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' })
	if len(fields) > 1 {
		out := make([]Mark, 0, len(fields))
		for _, f := range fields {
			m, err := ParseMark(f)
			if err != nil {
				return nil, err
			}
			out = append(out, m)
		}
		return out, nil
	}
	out := make([]Mark, 0, len(s))
	for i := 0; i < len(s); i++ {
		m, err := ParseMark(s[i : i+1])
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// ParseMark reads a single mark name, digit or symbol.
func ParseMark(s string) (Mark, error) {
	switch s {
	case "hit", "correct", "g", "c", "2":
		return MarkHit, nil
	case "present", "misplaced", "y", "m", "1":
		return MarkPresent, nil
	case "miss", "incorrect", ".", "x", "b", "-", "0":
		return MarkMiss, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMark, s)
}

// Encode records one verdict per position of guess into a new Filter.
func Encode(guess string, marks []Mark) (*solver.Filter, error) {
	guess = normalizeGuess(guess)
	if len(guess) != defaultCols || !isAlpha(guess) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidGuess, guess)
	}
	if len(marks) != len(guess) {
		return nil, fmt.Errorf("%w: got %d for %d letters", ErrMarksLength, len(marks), len(guess))
	}
	f := solver.NewFilter()
	for i, m := range marks {
		c := guess[i]
		switch m {
		case MarkHit:
			f.MarkCorrect(c)
		case MarkPresent:
			f.MarkMisplaced(c)
		case MarkMiss:
			f.MarkIncorrect(c)
		default:
			return nil, fmt.Errorf("%w: %q at position %d", ErrInvalidMark, m, i)
		}
	}
	return f, nil
}

// idx maps a lowercase ASCII letter to 0..25.
func idx(c byte) int { return int(c) - 'a' }

// isAlpha checks that a string consists only of lowercase a–z.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

func normalizeGuess(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// allHit returns true if all marks are MarkHit.
func allHit(m []Mark) bool {
	for _, x := range m {
		if x != MarkHit {
			return false
		}
	}
	return len(m) > 0
}
