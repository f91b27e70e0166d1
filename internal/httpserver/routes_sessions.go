// internal/httpserver/routes_sessions.go
//
// HTTP routes for solving sessions and stateless filtering.
//   - POST   /filter                    → narrow a list by one or more rounds, no state kept
//   - POST   /sessions                  → start a session (assist | practice | daily)
//   - GET    /sessions/{id}             → session view
//   - POST   /sessions/{id}/feedback    → apply a guess and the marks the game showed
//   - POST   /sessions/{id}/guess       → score a guess against the hidden answer, then apply it
//   - GET    /sessions/{id}/candidates  → page through remaining candidates
//   - DELETE /sessions/{id}             → drop the session
//
// Every /sessions/{id} route requires the token returned at creation.

package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/wordle/apps/go-solver/internal/daily"
	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
	"github.com/robalobadob/wordle/apps/go-solver/internal/solver"
	"github.com/robalobadob/wordle/apps/go-solver/internal/store"
	"github.com/robalobadob/wordle/apps/go-solver/internal/wordlist"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

const (
	sampleSize    = 10
	defaultLimit  = 50
	maxPageLimit  = 500
	maxFilterSize = 1000
)

// mountSessions registers /sessions routes.
func (s *Server) mountSessions(r chi.Router) {
	r.Post("/sessions", s.handleNewSession)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Use(s.requireSession)
		r.Get("/", s.handleGetSession)
		r.Delete("/", s.handleDeleteSession)
		r.Post("/feedback", s.handleFeedback)
		r.Post("/guess", s.handleSessionGuess)
		r.Get("/candidates", s.handleCandidates)
	})
}

// marksField accepts marks as a compact string ("gy..g"), a list of
// names (["hit","miss",...]) or a list of numbers (0=miss, 1=present, 2=hit).
type marksField []game.Mark

func (m *marksField) UnmarshalJSON(b []byte) error {
	var text string
	if err := json.Unmarshal(b, &text); err == nil {
		marks, err := game.ParseMarks(text)
		if err != nil {
			return err
		}
		*m = marks
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("%w: marks must be a string or an array", game.ErrInvalidMark)
	}
	marks := make([]game.Mark, len(raw))
	for i, item := range raw {
		var (
			text string
			n    int
		)
		if err := json.Unmarshal(item, &n); err == nil {
			text = strconv.Itoa(n)
		} else if err := json.Unmarshal(item, &text); err != nil {
			return fmt.Errorf("%w: element %d", game.ErrInvalidMark, i)
		}
		mark, err := game.ParseMark(strings.ToLower(strings.TrimSpace(text)))
		if err != nil {
			return err
		}
		marks[i] = mark
	}
	*m = marks
	return nil
}

// roundReq is one guess with the marks shown for it.
type roundReq struct {
	Guess string     `json:"guess"`
	Marks marksField `json:"marks"`
}

// sessionView is the JSON shape of a session.
type sessionView struct {
	ID        string       `json:"sessionId"`
	List      string       `json:"list"`
	State     string       `json:"state"`
	Rows      int          `json:"rows"`
	Rounds    []game.Round `json:"rounds"`
	Remaining int          `json:"remaining"`
	Sample    []string     `json:"sample"`
	Answer    string       `json:"answer,omitempty"` // revealed once finished
}

func view(sess *game.Session) sessionView {
	v := sessionView{
		ID:        sess.ID,
		List:      sess.List,
		State:     sess.State(),
		Rows:      sess.Rows,
		Rounds:    sess.Rounds,
		Remaining: sess.Remaining.Len(),
		Sample:    sess.Remaining.Slice(0, sampleSize),
	}
	if sess.Finished {
		v.Answer = sess.Answer
	}
	return v
}

// -----------------------------------------------------------------------------
// POST /filter

type filterReq struct {
	List   string     `json:"list"`   // named list; ignored when Words is set
	Words  []string   `json:"words"`  // inline candidates
	Rounds []roundReq `json:"rounds"` // applied in order
	Limit  int        `json:"limit"`  // max words returned (default 100)
}

type filterRes struct {
	Count     int      `json:"count"`
	Words     []string `json:"words"`
	Truncated bool     `json:"truncated"`
}

// handleFilter narrows a list by the given rounds without creating a session.
func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	var req filterReq
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	var (
		dict *solver.Dictionary
		err  error
	)
	if req.Words != nil {
		dict, err = inlineDictionary(req.Words)
	} else {
		dict, err = s.lists.Dictionary(r.Context(), req.List)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	for i, rr := range req.Rounds {
		f, err := game.Encode(rr.Guess, rr.Marks)
		if err != nil {
			writeError(w, r, fmt.Errorf("round %d: %w", i+1, err))
			return
		}
		if dict, err = dict.Filter(f); err != nil {
			writeError(w, r, err)
			return
		}
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit > maxFilterSize {
		limit = maxFilterSize
	}
	writeJSON(w, http.StatusOK, filterRes{
		Count:     dict.Len(),
		Words:     dict.Slice(0, limit),
		Truncated: dict.Len() > limit,
	})
}

// inlineDictionary lowercases list and rejects anything that is not five
// letters a-z.
func inlineDictionary(list []string) (*solver.Dictionary, error) {
	d := solver.NewDictionary()
	for i, raw := range list {
		w := strings.ToLower(strings.TrimSpace(raw))
		if !words.Valid(w) {
			return nil, fmt.Errorf("%w: word %d %q is not five letters a-z", errBadRequest, i, raw)
		}
		if err := d.Add(w); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// -----------------------------------------------------------------------------
// POST /sessions

type newSessionReq struct {
	List   string `json:"list"`   // default: builtin answers
	Mode   string `json:"mode"`   // "assist" (default) | "practice" | "daily"
	Answer string `json:"answer"` // optional fixed answer for practice (testing)
}

type newSessionRes struct {
	sessionView
	Token string `json:"token"`
	Mode  string `json:"mode"`
}

// handleNewSession creates a session over the requested list.
func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	var req newSessionReq
	if err := decode(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, err)
		return
	}
	if req.List == "" {
		req.List = wordlist.BuiltinList
	}
	if req.Mode == "" {
		req.Mode = "assist"
	}
	if req.Mode == "daily" {
		req.List = wordlist.BuiltinList
	}

	dict, err := s.lists.Dictionary(r.Context(), req.List)
	if err != nil {
		writeError(w, r, err)
		return
	}

	answer := ""
	switch req.Mode {
	case "assist":
	case "daily":
		answer = daily.Answer(s.now(), s.cfg.DailySalt, s.lists.Lists.Answers()).Answer
	case "practice":
		answer = strings.ToLower(strings.TrimSpace(req.Answer))
		if answer == "" {
			answer = pickAnswer(s, req.List, dict)
		}
		if len(answer) != solver.WordLen {
			writeError(w, r, fmt.Errorf("%w: answer %q", solver.ErrInvalidLength, answer))
			return
		}
	default:
		writeError(w, r, fmt.Errorf("%w: unknown mode %q", errBadRequest, req.Mode))
		return
	}

	res, err := s.startSession(r, game.NewSession(req.List, dict, answer), req.Mode)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.setSessionCookie(w, res.Token, s.now().Add(s.cfg.SessionTTL))
	writeJSON(w, http.StatusCreated, res)
}

// startSession stores sess and issues its token.
func (s *Server) startSession(r *http.Request, sess *game.Session, mode string) (newSessionRes, error) {
	if err := s.store.Save(r.Context(), sess); err != nil {
		return newSessionRes{}, fmt.Errorf("save session: %w", err)
	}
	tok, err := s.signSessionToken(sess.ID, s.now().Add(s.cfg.SessionTTL))
	if err != nil {
		return newSessionRes{}, fmt.Errorf("sign token: %w", err)
	}

	hlog.FromRequest(r).Info().
		Str("sessionId", sess.ID).
		Str("list", sess.List).
		Str("mode", mode).
		Int("candidates", sess.Remaining.Len()).
		Msg("session started")

	return newSessionRes{sessionView: view(sess), Token: tok, Mode: mode}, nil
}

// pickAnswer chooses a random practice answer from the session's list.
func pickAnswer(s *Server, list string, dict *solver.Dictionary) string {
	if list == wordlist.BuiltinList {
		return s.lists.Lists.RandomAnswer()
	}
	if dict.IsEmpty() {
		return ""
	}
	w, _ := dict.Get(rand.Intn(dict.Len()))
	return w
}

// -----------------------------------------------------------------------------
// /sessions/{id}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.Context(), sessionID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view(sess))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if err := s.store.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	s.locks.Delete(id)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// roundRes is returned by /feedback and /guess.
type roundRes struct {
	Round     game.Round `json:"round"`
	State     string     `json:"state"`
	Remaining int        `json:"remaining"`
	Sample    []string   `json:"sample"`
	Answer    string     `json:"answer,omitempty"`
}

// handleFeedback applies a guess and the marks reported by the game.
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req roundReq
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	s.applyRound(w, r, func(sess *game.Session) (game.Round, string, error) {
		return sess.ApplyFeedback(req.Guess, req.Marks)
	})
}

type guessReq struct {
	Guess string `json:"guess"`
}

// handleSessionGuess scores a guess server side (practice and daily
// sessions) and applies it.
func (s *Server) handleSessionGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	s.applyRound(w, r, func(sess *game.Session) (game.Round, string, error) {
		guess := strings.ToLower(strings.TrimSpace(req.Guess))
		if sess.List == wordlist.BuiltinList && !s.lists.Lists.IsAllowed(guess) {
			return game.Round{}, sess.State(), fmt.Errorf("%w: %q not in word list", game.ErrInvalidGuess, guess)
		}
		return sess.ApplyGuess(guess)
	})
}

// applyRound loads the session, runs apply under the session lock, and
// persists the result.
func (s *Server) applyRound(w http.ResponseWriter, r *http.Request, apply func(*game.Session) (game.Round, string, error)) {
	id := sessionID(r)
	unlock := s.lock(id)
	defer unlock()

	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.locks.Delete(id)
		}
		writeError(w, r, err)
		return
	}
	round, state, err := apply(sess)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.store.Save(r.Context(), sess); err != nil {
		writeError(w, r, fmt.Errorf("save session: %w", err))
		return
	}

	hlog.FromRequest(r).Info().
		Str("sessionId", id).
		Str("guess", round.Guess).
		Int("before", round.Before).
		Int("after", round.After).
		Str("state", state).
		Msg("round applied")

	res := roundRes{
		Round:     round,
		State:     state,
		Remaining: sess.Remaining.Len(),
		Sample:    sess.Remaining.Slice(0, sampleSize),
	}
	if sess.Finished {
		res.Answer = sess.Answer
	}
	writeJSON(w, http.StatusOK, res)
}

type candidatesRes struct {
	Total  int      `json:"total"`
	Offset int      `json:"offset"`
	Words  []string `json:"words"`
}

// handleCandidates pages through the remaining candidates.
func (s *Server) handleCandidates(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.Context(), sessionID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", defaultLimit)
	if limit <= 0 || limit > maxPageLimit {
		limit = maxPageLimit
	}
	writeJSON(w, http.StatusOK, candidatesRes{
		Total:  sess.Remaining.Len(),
		Offset: offset,
		Words:  sess.Remaining.Slice(offset, limit),
	})
}

func queryInt(r *http.Request, k string, def int) int {
	if v := r.URL.Query().Get(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}
