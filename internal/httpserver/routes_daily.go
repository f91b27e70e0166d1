// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
//   - GET  /daily      → today's date key and the size of the answer pool
//   - POST /daily/new  → start a practice session whose answer is today's word
//
// The word is chosen deterministically from date + salt, so every
// server instance picks the same answer for a given UTC day.

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/wordle/apps/go-solver/internal/daily"
	"github.com/robalobadob/wordle/apps/go-solver/internal/game"
	"github.com/robalobadob/wordle/apps/go-solver/internal/wordlist"
)

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Get("/", s.handleDailyInfo)
		r.Post("/new", s.handleDailyNew)
	})
}

type dailyInfoRes struct {
	Date    string `json:"date"`
	Answers int    `json:"answers"`
}

// handleDailyInfo reports today's date key. The answer itself is never exposed.
func (s *Server) handleDailyInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dailyInfoRes{
		Date:    daily.DateKey(s.now()),
		Answers: len(s.lists.Lists.Answers()),
	})
}

type dailyNewRes struct {
	newSessionRes
	Date string `json:"date"`
}

// handleDailyNew starts a session over the builtin list with today's answer.
func (s *Server) handleDailyNew(w http.ResponseWriter, r *http.Request) {
	pick := daily.Answer(s.now(), s.cfg.DailySalt, s.lists.Lists.Answers())
	if pick.Answer == "" {
		writeError(w, r, wordlist.ErrListNotFound)
		return
	}
	sess := game.NewSession(wordlist.BuiltinList, s.lists.Lists.Dictionary(), pick.Answer)
	res, err := s.startSession(r, sess, "daily")
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.setSessionCookie(w, res.Token, s.now().Add(s.cfg.SessionTTL))
	writeJSON(w, http.StatusCreated, dailyNewRes{newSessionRes: res, Date: pick.Date})
}
