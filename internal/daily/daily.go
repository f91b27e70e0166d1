// Package daily picks the hidden answer for a calendar day. The choice
// is deterministic for a given salt so every player solving "today"
// narrows towards the same word.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// WordIndex returns a deterministic index for a date using HMAC(salt, YYYY-MM-DD) % answersLen.
func WordIndex(date time.Time, salt string, answersLen int) int {
	if answersLen <= 0 {
		return 0
	}
	dk := DateKey(date)
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(dk))
	sum := h.Sum(nil)
	// take first 8 bytes to uint64 for modulus distribution
	n := binary.BigEndian.Uint64(sum[:8])
	return int(n % uint64(answersLen))
}

// Pick is the answer chosen for one day.
type Pick struct {
	Date   string
	Index  int
	Answer string
}

// Answer returns the pick for t from answers. Answer is empty when the
// list is empty.
func Answer(t time.Time, salt string, answers []string) Pick {
	p := Pick{Date: DateKey(t)}
	if len(answers) == 0 {
		return p
	}
	p.Index = WordIndex(t, salt, len(answers))
	p.Answer = answers[p.Index]
	return p
}
