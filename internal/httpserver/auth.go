// internal/httpserver/auth.go
//
// Access control for the solver API.
//   - Session tokens: HS256 JWTs carrying the session id ("sid"), issued
//     when a session is created and required for every call on it.
//     Accepted as "Authorization: Bearer <token>" or the session cookie.
//   - Admin key: word list edits require X-Admin-Key matching the bcrypt
//     hash in ADMIN_KEY_HASH. Without a hash, lists are read only.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const sessionCookieName = "solver_session"

// ctxSessionKey is the context key type for the verified session id.
type ctxSessionKey struct{}

// signSessionToken creates an HS256 JWT for session id expiring at exp.
func (s *Server) signSessionToken(id string, exp time.Time) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": id,
		"exp": exp.Unix(),
		"iat": s.now().Unix(),
	})
	return t.SignedString([]byte(s.cfg.JWTSecret))
}

// parseSessionToken verifies tok and returns its session id.
func (s *Server) parseSessionToken(tok string) (string, error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return "", errors.New("invalid token")
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", errors.New("invalid token")
	}
	return sid, nil
}

// requireSession enforces a valid token whose sid matches the {id} URL
// parameter and injects the id into the request context.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := bearerOrCookie(r)
		if tok == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		sid, err := s.parseSessionToken(tok)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid_token"})
			return
		}
		if sid != chi.URLParam(r, "id") {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "wrong_session"})
			return
		}
		ctx := context.WithValue(r.Context(), ctxSessionKey{}, sid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin checks X-Admin-Key against the configured bcrypt hash.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.AdminKeyHash == "" {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "lists_read_only"})
			return
		}
		key := r.Header.Get("X-Admin-Key")
		if key == "" || !checkKey(s.cfg.AdminKeyHash, key) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkKey is a bcrypt verifier.
func checkKey(hash, key string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(key)) == nil
}

// HashKey returns the bcrypt hash to put in ADMIN_KEY_HASH.
func HashKey(key string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	return string(b), err
}

// setSessionCookie writes the session token cookie. With SecureCookies set
// it is Secure and SameSite=None so a cross-site client can send it.
func (s *Server) setSessionCookie(w http.ResponseWriter, token string, exp time.Time) {
	secure := s.cfg.SecureCookies
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// bearerOrCookie extracts a bearer token from Authorization header or session cookie.
func bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(sessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

// sessionID returns the id verified by requireSession.
func sessionID(r *http.Request) string {
	id, _ := r.Context().Value(ctxSessionKey{}).(string)
	return id
}
