// internal/solver/dictionary.go
//
// Dictionary is an ordered candidate list. Filtering never mutates the
// receiver; it returns a new Dictionary holding copies of the surviving
// words in their original order, so callers can keep every round.

package solver

import "fmt"

// Dictionary holds candidate words in insertion order. Duplicates are kept.
type Dictionary struct {
	words []Word
}

// NewDictionary returns an empty Dictionary.
func NewDictionary() *Dictionary { return &Dictionary{} }

// FromList builds a Dictionary from list, failing on the first invalid word.
func FromList(list []string) (*Dictionary, error) {
	d := &Dictionary{words: make([]Word, 0, len(list))}
	for i, s := range list {
		if err := d.Add(s); err != nil {
			return nil, fmt.Errorf("word %d %q: %w", i, s, err)
		}
	}
	return d, nil
}

// Add validates text and appends it.
func (d *Dictionary) Add(text string) error {
	w, err := NewWord(text)
	if err != nil {
		return err
	}
	d.words = append(d.words, w)
	return nil
}

// Get returns the word at index i.
func (d *Dictionary) Get(i int) (string, bool) {
	if i < 0 || i >= len(d.words) {
		return "", false
	}
	return d.words[i].String(), true
}

// First returns the first candidate, if any.
func (d *Dictionary) First() (string, bool) { return d.Get(0) }

func (d *Dictionary) Len() int      { return len(d.words) }
func (d *Dictionary) IsEmpty() bool { return len(d.words) == 0 }

// Contains reports whether text is present as an exact letter match.
func (d *Dictionary) Contains(text string) bool {
	if len(text) != WordLen {
		return false
	}
	var letters [WordLen]byte
	copy(letters[:], text)
	for _, w := range d.words {
		if w.equal(letters) {
			return true
		}
	}
	return false
}

// Words returns the candidates as strings, in order.
func (d *Dictionary) Words() []string {
	out := make([]string, len(d.words))
	for i, w := range d.words {
		out[i] = w.String()
	}
	return out
}

// Slice returns up to limit words starting at offset.
func (d *Dictionary) Slice(offset, limit int) []string {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(d.words) {
		return []string{}
	}
	end := len(d.words)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]string, 0, end-offset)
	for _, w := range d.words[offset:end] {
		out = append(out, w.String())
	}
	return out
}

// Filter returns the candidates consistent with every verdict in f.
func (d *Dictionary) Filter(f *Filter) (*Dictionary, error) {
	if !f.Complete() {
		return nil, fmt.Errorf("%w: got %d verdicts", ErrIncompleteFilter, f.Recorded())
	}
	out := &Dictionary{words: make([]Word, 0, len(d.words))}
	for _, w := range d.words {
		if f.admits(w) {
			out.words = append(out.words, w)
		}
	}
	return out, nil
}
