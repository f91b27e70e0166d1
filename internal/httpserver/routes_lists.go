// internal/httpserver/routes_lists.go
//
// Word list management.
//   - GET    /lists         → builtin list plus every stored list
//   - POST   /lists/{name}  → replace list name with the request body (one word per line), admin only
//   - DELETE /lists/{name}  → drop list name, admin only

package httpserver

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

const maxListBody = 1 << 20

// mountLists registers /lists routes.
func (s *Server) mountLists(r chi.Router) {
	r.Get("/lists", s.handleLists)
	r.Group(func(r chi.Router) {
		r.Use(s.requireAdmin)
		r.Post("/lists/{name}", s.handleImportList)
		r.Delete("/lists/{name}", s.handleDeleteList)
	})
}

func (s *Server) handleLists(w http.ResponseWriter, r *http.Request) {
	lists, err := s.lists.All(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"lists": lists})
}

// handleImportList reads a plain text body; lines that are not 5-letter
// words are skipped.
func (s *Server) handleImportList(w http.ResponseWriter, r *http.Request) {
	if s.lists.Store == nil {
		writeError(w, r, errListsDisabled)
		return
	}
	name := chi.URLParam(r, "name")
	list, err := words.ReadWords(http.MaxBytesReader(w, r.Body, maxListBody))
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}
	if len(list) == 0 {
		writeError(w, r, fmt.Errorf("%w: no 5-letter words in body", errBadRequest))
		return
	}
	n, err := s.lists.Store.Import(r.Context(), name, list)
	if err != nil {
		writeError(w, r, err)
		return
	}
	hlog.FromRequest(r).Info().Str("list", name).Int("words", n).Msg("list imported")
	writeJSON(w, http.StatusOK, map[string]any{"name": name, "count": n})
}

func (s *Server) handleDeleteList(w http.ResponseWriter, r *http.Request) {
	if s.lists.Store == nil {
		writeError(w, r, errListsDisabled)
		return
	}
	name := chi.URLParam(r, "name")
	if err := s.lists.Store.Delete(r.Context(), name); err != nil {
		writeError(w, r, err)
		return
	}
	hlog.FromRequest(r).Info().Str("list", name).Msg("list deleted")
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
