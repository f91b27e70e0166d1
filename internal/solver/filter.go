// internal/solver/filter.go
//
// Filter accumulates the verdicts of a single guess into per-letter
// constraints: a must-have position mask, a must-exclude position mask
// and an occurrence bound (at least n / exactly n).
//
// Verdicts are recorded left to right, one call per position; the
// Filter tracks the position itself. A Filter covers one guess. Callers
// narrowing across several guesses apply one Filter per round to the
// previous round's Dictionary.

package solver

// Limit is the mode of an occurrence bound.
type Limit uint8

const (
	AtLeast Limit = iota
	Exactly
)

func (l Limit) String() string {
	if l == Exactly {
		return "exactly"
	}
	return "at_least"
}

// Bound is the inferred count of a letter in the hidden answer.
type Bound struct {
	N    uint8
	Mode Limit
}

// Check reports whether count satisfies the bound.
func (b Bound) Check(count int) bool {
	if b.Mode == Exactly {
		return count == int(b.N)
	}
	return count >= int(b.N)
}

// informative reports whether the bound says more than "present at
// least once", which the coarse includes test already covers.
func (b Bound) informative() bool {
	return b.Mode == Exactly || b.N > 1
}

// constraint is the per-letter slot. The zero value means no constraint.
type constraint struct {
	mustHave    uint8 // positions the letter is known to occupy
	mustExclude uint8 // positions the letter is known not to occupy
	bound       Bound
}

func (c constraint) isZero() bool { return c == constraint{} }

// matches runs the positional and occurrence checks for letter l.
func (c constraint) matches(w Word, l byte) bool {
	for pos, got := range w.letters {
		bit := uint8(1) << pos
		if got == l {
			if c.mustExclude&bit != 0 {
				return false
			}
		} else if c.mustHave&bit != 0 {
			return false
		}
	}
	if !c.bound.informative() {
		return true
	}
	return c.bound.Check(w.Count(l))
}

// Filter is a single-round verdict accumulator. The zero value is ready
// to use.
type Filter struct {
	slots    [alphabetSize]constraint
	includes uint32 // letters confirmed present
	excludes uint32 // letters marked incorrect at least once, unresolved
	cursor   int
}

// NewFilter returns an empty Filter.
func NewFilter() *Filter { return &Filter{} }

// MarkCorrect records that c occupies the current position.
func (f *Filter) MarkCorrect(c byte) {
	s := &f.slots[index(c)]
	s.bound.N++
	s.mustHave |= f.positionBit()
	f.includes |= mask(c)
	f.cursor++
}

// MarkMisplaced records that c is in the answer but not at the current
// position.
func (f *Filter) MarkMisplaced(c byte) {
	s := &f.slots[index(c)]
	s.bound.N++
	s.mustExclude |= f.positionBit()
	f.includes |= mask(c)
	f.cursor++
}

// MarkIncorrect records that the answer holds no more c than already
// counted for this guess. The bound is capped rather than zeroed, so a
// repeated letter confirmed elsewhere in the guess survives.
func (f *Filter) MarkIncorrect(c byte) {
	s := &f.slots[index(c)]
	s.bound.Mode = Exactly
	s.mustExclude |= f.positionBit()
	f.excludes |= mask(c)
	f.cursor++
}

// Complete reports whether every position received exactly one verdict.
func (f *Filter) Complete() bool { return f.cursor == WordLen }

// Recorded returns the number of verdicts recorded so far.
func (f *Filter) Recorded() int { return f.cursor }

// Bound returns the occurrence bound currently inferred for c.
func (f *Filter) Bound(c byte) Bound { return f.slots[index(c)].bound }

// Includes returns the set of letters confirmed present.
func (f *Filter) Includes() uint32 { return f.includes }

// Excludes returns the letters confirmed wholly absent: marked
// incorrect and never confirmed present.
func (f *Filter) Excludes() uint32 { return f.excludes &^ f.includes }

func (f *Filter) positionBit() uint8 {
	if f.cursor >= WordLen {
		return 0
	}
	return uint8(1) << f.cursor
}

// admits runs the coarse bitmap pass followed by the detailed pass over
// every letter that carries a constraint.
func (f *Filter) admits(w Word) bool {
	if w.bitmap&f.Excludes() != 0 || w.bitmap&f.includes != f.includes {
		return false
	}
	for i := range f.slots {
		c := f.slots[i]
		if c.isZero() {
			continue
		}
		if !c.matches(w, byte('a'+i)) {
			return false
		}
	}
	return true
}
