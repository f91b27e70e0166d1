// internal/words/words.go
//
// Provides word list management for the solver.
//
// Responsibilities:
//   - Load answer and allowed guess lists from configured files or fall back to embedded defaults.
//   - Maintain sets for quick lookups (answers only, answers∪guesses).
//   - Build fresh solver dictionaries from the answer list.
//
// Word Lists:
//   - "answers": candidate solutions (exactly 5 lowercase letters).
//   - "allowed": valid guesses (always includes answers).
//
// Initialization behavior (Load):
//   1. If both paths are set, load answers from the first and allowed guesses from the second.
//   2. If only the allowed path is set, use that file for both answers and allowed guesses.
//   3. If only the answers path is set, use it for answers; allowed guesses fall back to embedded extras.
//   4. If neither is set, fall back to the embedded assets.
//
// Init takes the answers and allowed file paths (WORDS_ANSWERS_FILE and
// WORDS_ALLOWED_FILE in config); empty paths use the embedded lists.
//
// Constraints:
//   • Words must be 5 alphabetic letters (a–z); anything else is dropped.
//   • Lists are normalized to lowercase.
//   • Init is run once (sync.Once).

package words

import (
	"bufio"
	"crypto/rand"
	"errors"
	"io"
	"math/big"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/go-solver/assets"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
)

// ErrEmpty is returned when the answers list ends up empty.
var ErrEmpty = errors.New("words: answers list is empty")

// Lists is a loaded pair of answer and allowed lists.
type Lists struct {
	answers    []string            // candidate answers, file order
	answersSet map[string]struct{} // answers only
	allowedSet map[string]struct{} // answers ∪ guesses
}

var (
	initOnce   sync.Once
	current    = &Lists{answersSet: map[string]struct{}{}, allowedSet: map[string]struct{}{}}
	initialErr error
)

// Init loads the process-wide lists exactly once from the given files or
// the embedded defaults. Later calls return the first result.
func Init(answersPath, allowedPath string) error {
	initOnce.Do(func() {
		l, err := Load(answersPath, allowedPath)
		if err != nil {
			initialErr = err
			return
		}
		current = l
		a, g := l.Stats()
		log.Debug().Int("answers", a).Int("allowed", g).Msg("word lists loaded")
	})
	return initialErr
}

// Load reads the lists described in the package comment.
func Load(answersPath, allowedPath string) (*Lists, error) {
	var ansList, allowList []string
	var err error

	switch {
	// Case 1: both lists provided
	case answersPath != "" && allowedPath != "":
		if ansList, err = readWordFile(answersPath); err != nil {
			return nil, err
		}
		if allowList, err = readWordFile(allowedPath); err != nil {
			return nil, err
		}

	// Case 2: only allowed file provided → use for both
	case answersPath == "" && allowedPath != "":
		if allowList, err = readWordFile(allowedPath); err != nil {
			return nil, err
		}
		ansList = allowList

	// Case 3: only answers file provided
	case answersPath != "":
		if ansList, err = readWordFile(answersPath); err != nil {
			return nil, err
		}
		if allowList, err = embedded(assets.AllowedList); err != nil {
			return nil, err
		}

	// Case 4: fallback to embedded defaults
	default:
		if ansList, err = embedded(assets.AnswersList); err != nil {
			return nil, err
		}
		if allowList, err = embedded(assets.AllowedList); err != nil {
			return nil, err
		}
	}
	return New(ansList, allowList)
}

// New builds Lists from already-normalized slices. Answers are always
// allowed.
func New(ansList, allowList []string) (*Lists, error) {
	if len(ansList) == 0 {
		return nil, ErrEmpty
	}
	l := &Lists{
		answers:    ansList,
		answersSet: toSet(ansList),
		allowedSet: toSet(ansList),
	}
	for _, w := range allowList {
		l.allowedSet[w] = struct{}{}
	}
	return l, nil
}

func embedded(read func() ([]string, error)) ([]string, error) {
	lines, err := read()
	if err != nil {
		return nil, err
	}
	return Normalize(lines), nil
}

// readWordFile loads one word per line from a file.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadWords(f)
}

// ReadWords reads one word per line from r, keeping only valid words.
func ReadWords(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return Normalize(lines), sc.Err()
}

// Normalize lowercases and trims lines, dropping comments and anything
// that is not a 5-letter alphabetic word.
func Normalize(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		w := strings.TrimSpace(strings.ToLower(line))
		if strings.HasPrefix(w, "#") {
			continue
		}
		if Valid(w) {
			out = append(out, w)
		}
	}
	return out
}

// Valid reports whether w is exactly 5 lowercase ASCII letters.
func Valid(w string) bool {
	return len(w) == solver.WordLen && isAlpha(w)
}

// toSet converts a list of strings into a lookup set.
func toSet(list []string) map[string]struct{} {
	m := make(map[string]struct{}, len(list))
	for _, w := range list {
		m[w] = struct{}{}
	}
	return m
}

// isAlpha reports whether s is all lowercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// Answers returns the answer list (all lowercase). Callers must not modify it.
func (l *Lists) Answers() []string { return l.answers }

// Dictionary returns a fresh candidate dictionary over the answers.
func (l *Lists) Dictionary() *solver.Dictionary {
	// answers are validated on load, so FromList cannot fail here
	d, err := solver.FromList(l.answers)
	if err != nil {
		return solver.NewDictionary()
	}
	return d
}

// IsAllowed reports whether w is a valid guess (answers ∪ guesses).
func (l *Lists) IsAllowed(w string) bool {
	_, ok := l.allowedSet[strings.ToLower(w)]
	return ok
}

// IsAnswer reports whether w is an answer word.
func (l *Lists) IsAnswer(w string) bool {
	_, ok := l.answersSet[strings.ToLower(w)]
	return ok
}

// RandomAnswer returns a cryptographically random answer.
func (l *Lists) RandomAnswer() string {
	if len(l.answers) == 0 {
		return "crane"
	}
	nBig, _ := rand.Int(rand.Reader, big.NewInt(int64(len(l.answers))))
	return l.answers[nBig.Int64()]
}

// Stats returns counts of loaded words: (answers, allowed).
func (l *Lists) Stats() (answersCount int, allowedCount int) {
	return len(l.answers), len(l.allowedSet)
}

// Default returns the process-wide lists loaded by Init.
func Default() *Lists { return current }
