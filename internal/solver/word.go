// internal/solver/word.go
//
// Word is the leaf type of the candidate engine: five lowercase letters
// plus a cached 26-bit presence bitmap used by the coarse filter pass.
//
// Notes:
//   - Only the length is validated. Bytes outside a–z are a caller
//     contract violation; the words package pre-validates its lists.
//   - Words are plain values and are copied when a Dictionary is filtered.

package solver

import "fmt"

const (
	// WordLen is the fixed number of letters in every word.
	WordLen = 5

	alphabetSize = 26
)

// Word is an immutable five-letter word.
type Word struct {
	letters [WordLen]byte
	bitmap  uint32 // bit i set iff letter 'a'+i occurs at least once
}

// NewWord builds a Word from text, which must be exactly WordLen bytes.
func NewWord(text string) (Word, error) {
	if len(text) != WordLen {
		return Word{}, fmt.Errorf("%w: got %d characters", ErrInvalidLength, len(text))
	}
	var w Word
	for i := 0; i < WordLen; i++ {
		c := text[i]
		w.letters[i] = c
		w.bitmap |= mask(c)
	}
	return w, nil
}

// String renders the letters back as they were given.
func (w Word) String() string { return string(w.letters[:]) }

// Has reports whether c occurs anywhere in w.
func (w Word) Has(c byte) bool { return w.bitmap&mask(c) != 0 }

// Count returns how many times c occurs in w.
func (w Word) Count(c byte) int {
	n := 0
	for _, l := range w.letters {
		if l == c {
			n++
		}
	}
	return n
}

// equal compares raw letters only.
func (w Word) equal(letters [WordLen]byte) bool { return w.letters == letters }

// index maps a lowercase ASCII letter to 0..25.
func index(c byte) int { return int(c - 'a') }

// mask returns the presence bit for c. Out-of-range bytes shift past
// bit 31 and yield 0.
func mask(c byte) uint32 { return 1 << uint32(c-'a') }
