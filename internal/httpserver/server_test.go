package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/go-solver/internal/config"
	"github.com/robalobadob/wordle/apps/go-solver/internal/daily"
	"github.com/robalobadob/wordle/apps/go-solver/internal/store"
	"github.com/robalobadob/wordle/apps/go-solver/internal/wordlist"
	"github.com/robalobadob/wordle/apps/go-solver/internal/words"
)

var testAnswers = []string{"least", "leapt", "crane", "trace", "slate", "pleat"}

func newTestServer(t *testing.T, mutate func(*config.Config, *wordlist.Resolver)) *Server {
	t.Helper()
	lists, err := words.New(testAnswers, []string{"zesty"})
	require.NoError(t, err)
	cfg := config.Config{
		JWTSecret:    "test-secret",
		SessionTTL:   time.Hour,
		DailySalt:    "salt",
		ClientOrigin: "http://example.test",
	}
	res := &wordlist.Resolver{Lists: lists}
	if mutate != nil {
		mutate(&cfg, res)
	}
	s := New(Deps{Store: store.NewMemoryStore(time.Hour), Lists: res, Config: cfg})
	s.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

type call struct {
	method, path string
	body         any
	header       map[string]string
}

func do(t *testing.T, s *Server, c call) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	switch b := c.body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(c.method, c.path, &buf)
	for k, v := range c.header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	out := map[string]any{}
	if strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func bearer(tok string) map[string]string { return map[string]string{"Authorization": "Bearer " + tok} }

func strs(v any) []string {
	var out []string
	for _, x := range v.([]any) {
		out = append(out, x.(string))
	}
	return out
}

// newSession starts a session and returns its id and token.
func newSession(t *testing.T, s *Server, body any) (string, string) {
	t.Helper()
	rec, out := do(t, s, call{method: http.MethodPost, path: "/sessions", body: body})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return out["sessionId"].(string), out["token"].(string)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	rec, out := do(t, s, call{method: http.MethodGet, path: "/health"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, out["ok"])
	assert.Equal(t, "http://example.test", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestFilterNarrowsBuiltinList(t *testing.T) {
	s := newTestServer(t, nil)
	rec, out := do(t, s, call{method: http.MethodPost, path: "/filter", body: map[string]any{
		"rounds": []map[string]any{{"guess": "least", "marks": "ggg.g"}},
	}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, float64(1), out["count"])
	assert.Equal(t, []string{"leapt"}, strs(out["words"]))
}

func TestFilterInlineWordsAndNumericMarks(t *testing.T) {
	s := newTestServer(t, nil)
	rec, out := do(t, s, call{method: http.MethodPost, path: "/filter", body: map[string]any{
		"words":  []string{"abcde", "aaaaa", "bcdef"},
		"rounds": []map[string]any{{"guess": "aaaaa", "marks": []int{2, 0, 0, 0, 0}}},
	}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"abcde"}, strs(out["words"]))
}

func TestFilterRejectsBadRounds(t *testing.T) {
	s := newTestServer(t, nil)
	for _, marks := range []any{"ggg", "gg?gg", []string{"hit", "hit"}} {
		rec, out := do(t, s, call{method: http.MethodPost, path: "/filter", body: map[string]any{
			"rounds": []map[string]any{{"guess": "least", "marks": marks}},
		}})
		assert.Equal(t, http.StatusBadRequest, rec.Code, "marks %v", marks)
		assert.Equal(t, "bad_request", out["error"])
	}

	rec, _ := do(t, s, call{method: http.MethodPost, path: "/filter", body: map[string]any{
		"words": []string{"toolong"},
	}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, s, call{method: http.MethodPost, path: "/filter", body: map[string]any{"list": "nope"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionRequiresToken(t *testing.T) {
	s := newTestServer(t, nil)
	id, _ := newSession(t, s, nil)
	_, other := newSession(t, s, nil)

	rec, out := do(t, s, call{method: http.MethodGet, path: "/sessions/" + id})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", out["error"])

	rec, out = do(t, s, call{method: http.MethodGet, path: "/sessions/" + id, header: bearer("garbage")})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_token", out["error"])

	rec, out = do(t, s, call{method: http.MethodGet, path: "/sessions/" + id, header: bearer(other)})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "wrong_session", out["error"])
}

func TestAssistSessionFlow(t *testing.T) {
	s := newTestServer(t, nil)
	id, tok := newSession(t, s, map[string]string{"mode": "assist"})
	path := "/sessions/" + id

	rec, out := do(t, s, call{method: http.MethodGet, path: path, header: bearer(tok)})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(len(testAnswers)), out["remaining"])
	assert.Equal(t, "playing", out["state"])

	rec, out = do(t, s, call{method: http.MethodPost, path: path + "/feedback", header: bearer(tok),
		body: map[string]any{"guess": "least", "marks": "hit hit hit miss hit"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, float64(1), out["remaining"])
	assert.Equal(t, []string{"leapt"}, strs(out["sample"]))
	assert.Nil(t, out["answer"])

	rec, out = do(t, s, call{method: http.MethodGet, path: path + "/candidates?limit=10", header: bearer(tok)})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"leapt"}, strs(out["words"]))

	// bad marks leave the session untouched
	rec, _ = do(t, s, call{method: http.MethodPost, path: path + "/feedback", header: bearer(tok),
		body: map[string]any{"guess": "leapt", "marks": "gggg"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, out = do(t, s, call{method: http.MethodPost, path: path + "/feedback", header: bearer(tok),
		body: map[string]any{"guess": "leapt", "marks": []string{"g", "g", "g", "g", "g"}}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "won", out["state"])

	rec, _ = do(t, s, call{method: http.MethodPost, path: path + "/feedback", header: bearer(tok),
		body: map[string]any{"guess": "leapt", "marks": "ggggg"}})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// assist sessions have no answer to score against
	id2, tok2 := newSession(t, s, nil)
	rec, _ = do(t, s, call{method: http.MethodPost, path: "/sessions/" + id2 + "/guess", header: bearer(tok2),
		body: map[string]string{"guess": "least"}})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPracticeSessionScoresGuesses(t *testing.T) {
	s := newTestServer(t, nil)
	id, tok := newSession(t, s, map[string]string{"mode": "practice", "answer": "leapt"})
	path := "/sessions/" + id

	rec, _ := do(t, s, call{method: http.MethodPost, path: path + "/guess", header: bearer(tok),
		body: map[string]string{"guess": "qqqqq"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, out := do(t, s, call{method: http.MethodPost, path: path + "/guess", header: bearer(tok),
		body: map[string]string{"guess": "least"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	round := out["round"].(map[string]any)
	assert.Equal(t, []string{"hit", "hit", "hit", "miss", "hit"}, strs(round["marks"]))
	assert.Equal(t, float64(1), out["remaining"])

	rec, out = do(t, s, call{method: http.MethodPost, path: path + "/guess", header: bearer(tok),
		body: map[string]string{"guess": "LEAPT"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "won", out["state"])
	assert.Equal(t, "leapt", out["answer"])
}

func TestUnknownModeAndList(t *testing.T) {
	s := newTestServer(t, nil)
	rec, _ := do(t, s, call{method: http.MethodPost, path: "/sessions", body: map[string]string{"mode": "blitz"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, s, call{method: http.MethodPost, path: "/sessions", body: map[string]string{"list": "nope"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteSession(t *testing.T) {
	s := newTestServer(t, nil)
	id, tok := newSession(t, s, nil)

	rec, _ := do(t, s, call{method: http.MethodDelete, path: "/sessions/" + id, header: bearer(tok)})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, out := do(t, s, call{method: http.MethodGet, path: "/sessions/" + id, header: bearer(tok)})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", out["error"])
}

func TestDailySessionUsesTodaysAnswer(t *testing.T) {
	s := newTestServer(t, nil)
	pick := daily.Answer(s.now(), "salt", testAnswers)

	rec, out := do(t, s, call{method: http.MethodGet, path: "/daily"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024-03-01", out["date"])
	assert.Equal(t, float64(len(testAnswers)), out["answers"])

	rec, out = do(t, s, call{method: http.MethodPost, path: "/daily/new"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "daily", out["mode"])
	assert.Equal(t, pick.Date, out["date"])
	assert.Nil(t, out["answer"])

	id, tok := out["sessionId"].(string), out["token"].(string)
	rec, out = do(t, s, call{method: http.MethodPost, path: "/sessions/" + id + "/guess", header: bearer(tok),
		body: map[string]string{"guess": pick.Answer}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "won", out["state"])
	assert.Equal(t, pick.Answer, out["answer"])

	id, tok = newSession(t, s, map[string]string{"mode": "daily", "list": "ignored"})
	rec, out = do(t, s, call{method: http.MethodPost, path: "/sessions/" + id + "/guess", header: bearer(tok),
		body: map[string]string{"guess": pick.Answer}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "won", out["state"])
}

func TestListsReadOnlyWithoutAdminHash(t *testing.T) {
	s := newTestServer(t, nil)
	rec, out := do(t, s, call{method: http.MethodGet, path: "/lists"})
	require.Equal(t, http.StatusOK, rec.Code)
	lists := out["lists"].([]any)
	require.Len(t, lists, 1)
	assert.Equal(t, "answers", lists[0].(map[string]any)["name"])

	rec, out = do(t, s, call{method: http.MethodPost, path: "/lists/mini", body: "crane\n"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "lists_read_only", out["error"])
}

func TestListsImportAndUse(t *testing.T) {
	hash, err := HashKey("sekret")
	require.NoError(t, err)
	db, err := wordlist.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := newTestServer(t, func(c *config.Config, r *wordlist.Resolver) {
		c.AdminKeyHash = hash
		r.Store = wordlist.NewStore(db)
	})
	admin := map[string]string{"X-Admin-Key": "sekret"}

	rec, _ := do(t, s, call{method: http.MethodPost, path: "/lists/mini", body: "crane\n", header: map[string]string{"X-Admin-Key": "wrong"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = do(t, s, call{method: http.MethodPost, path: "/lists/answers", body: "crane\n", header: admin})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, s, call{method: http.MethodPost, path: "/lists/mini", body: "no\nwords\n", header: admin})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, out := do(t, s, call{method: http.MethodPost, path: "/lists/mini", body: "# mine\nabcde\naaaaa\nbcdef\n", header: admin})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, float64(3), out["count"])

	rec, out = do(t, s, call{method: http.MethodPost, path: "/filter", body: map[string]any{
		"list":   "mini",
		"rounds": []map[string]any{{"guess": "aaaaa", "marks": "g...."}},
	}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"abcde"}, strs(out["words"]))

	id, _ := newSession(t, s, map[string]string{"list": "mini"})
	assert.NotEmpty(t, id)

	rec, out = do(t, s, call{method: http.MethodGet, path: "/lists"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, out["lists"].([]any), 2)

	rec, _ = do(t, s, call{method: http.MethodDelete, path: "/lists/mini", header: admin})
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = do(t, s, call{method: http.MethodDelete, path: "/lists/mini", header: admin})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNotFoundIsJSON(t *testing.T) {
	s := newTestServer(t, nil)
	rec, out := do(t, s, call{method: http.MethodGet, path: "/nope"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "/nope", out["path"])
}

func TestFilterRejectsInvalidInlineWords(t *testing.T) {
	s := newTestServer(t, nil)
	rec, out := do(t, s, call{method: http.MethodPost, path: "/filter", body: map[string]any{
		"words":  []string{"CRANE", "cr4ne", "leapt"},
		"rounds": []map[string]any{{"guess": "crane", "marks": "....."}},
	}})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Equal(t, "bad_request", out["error"])

	rec, out = do(t, s, call{method: http.MethodPost, path: "/filter", body: map[string]any{
		"words":  []string{" CRANE ", "Leapt"},
		"rounds": []map[string]any{{"guess": "crane", "marks": "....."}},
	}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Empty(t, out["words"])

	rec, out = do(t, s, call{method: http.MethodPost, path: "/filter", body: map[string]any{
		"words":  []string{"CRANE", "toils"},
		"rounds": []map[string]any{{"guess": "crane", "marks": "....."}},
	}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"toils"}, strs(out["words"]))
}

// status serves one request without touching t, so it is safe to call
// from several goroutines.
func status(s *Server, method, path, body, tok string) int {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec.Code
}

func TestConcurrentReadsAndRounds(t *testing.T) {
	s := newTestServer(t, nil)
	id, tok := newSession(t, s, nil)
	path := "/sessions/" + id
	feedback := `{"guess":"zzzzz","marks":"....."}`

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			code := status(s, http.MethodPost, path+"/feedback", feedback, tok)
			assert.Contains(t, []int{http.StatusOK, http.StatusConflict}, code)
		}()
		go func() {
			defer wg.Done()
			assert.Equal(t, http.StatusOK, status(s, http.MethodGet, path, "", tok))
		}()
		go func() {
			defer wg.Done()
			assert.Equal(t, http.StatusOK, status(s, http.MethodGet, path+"/candidates?limit=3", "", tok))
		}()
	}
	wg.Wait()

	rec, out := do(t, s, call{method: http.MethodGet, path: path, header: bearer(tok)})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "lost", out["state"])
	assert.Len(t, out["rounds"], 6)
}

func TestRoundOnVanishedSessionDropsLock(t *testing.T) {
	s := newTestServer(t, nil)
	id, tok := newSession(t, s, nil)
	path := "/sessions/" + id

	rec, _ := do(t, s, call{method: http.MethodPost, path: path + "/feedback", header: bearer(tok),
		body: map[string]any{"guess": "zzzzz", "marks": "....."}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	_, held := s.locks.Load(id)
	require.True(t, held)

	// expiry removes the session behind the server's back
	require.NoError(t, s.store.Delete(context.Background(), id))

	rec, out := do(t, s, call{method: http.MethodPost, path: path + "/feedback", header: bearer(tok),
		body: map[string]any{"guess": "zzzzz", "marks": "....."}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", out["error"])
	_, held = s.locks.Load(id)
	assert.False(t, held)
}

func TestSessionCookieAttributes(t *testing.T) {
	cookie := func(s *Server) *http.Cookie {
		rec, _ := do(t, s, call{method: http.MethodPost, path: "/sessions"})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		for _, c := range rec.Result().Cookies() {
			if c.Name == sessionCookieName {
				return c
			}
		}
		t.Fatal("no session cookie")
		return nil
	}

	// only config decides
	t.Setenv("NODE_ENV", "production")
	c := cookie(newTestServer(t, nil))
	assert.False(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.True(t, c.HttpOnly)

	c = cookie(newTestServer(t, func(cfg *config.Config, _ *wordlist.Resolver) { cfg.SecureCookies = true }))
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteNoneMode, c.SameSite)
}
