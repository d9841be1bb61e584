// internal/httpserver/cookies.go
//
// Player identity and secret delivery.
//
//   - wordul-session: HS256 JWT whose subject is the player id (uuid).
//     Also accepted as "Authorization: Bearer <token>".
//   - wordul-a: the secret word sealed with secretbox. The server never
//     stores secrets; the client carries its own.

package httpserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	sessionCookie = "wordul-session"
	secretCookie  = "wordul-a"
)

// signPlayer creates an HS256 JWT for player id that expires after the
// session TTL.
func (s *Server) signPlayer(id string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.cfg.SessionTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	ss, err := t.SignedString([]byte(s.cfg.JWTSecret))
	return ss, exp, err
}

// playerID returns the player id carried by a valid session token.
func (s *Server) playerID(r *http.Request) (string, bool) {
	tok := bearerOrCookie(r)
	if tok == "" {
		return "", false
	}
	var claims jwt.RegisteredClaims
	t, err := jwt.ParseWithClaims(tok, &claims,
		func(*jwt.Token) (any, error) { return []byte(s.cfg.JWTSecret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !t.Valid {
		return "", false
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", false
	}
	return claims.Subject, true
}

// ensurePlayer returns the current player id, minting a new one when the
// request carries none. The session cookie is (re)issued either way so
// active players keep a sliding expiry.
func (s *Server) ensurePlayer(w http.ResponseWriter, r *http.Request) (string, error) {
	id, ok := s.playerID(r)
	if !ok {
		id = uuid.NewString()
	}
	tok, exp, err := s.signPlayer(id)
	if err != nil {
		return "", err
	}
	s.setCookie(w, sessionCookie, tok, exp)
	return id, nil
}

// secretFrom opens the sealed secret cookie.
func (s *Server) secretFrom(r *http.Request) (string, bool) {
	c, err := r.Cookie(secretCookie)
	if err != nil || c.Value == "" {
		return "", false
	}
	word, err := s.sealer.Open(c.Value)
	if err != nil {
		return "", false
	}
	return word, true
}

// setSecret seals word into the secret cookie.
func (s *Server) setSecret(w http.ResponseWriter, word string) error {
	tok, err := s.sealer.Seal(word)
	if err != nil {
		return err
	}
	s.setCookie(w, secretCookie, tok, s.now().Add(s.cfg.SessionTTL))
	return nil
}

// setCookie writes an HttpOnly cookie with attributes matching the
// deployment (Secure + SameSite=None in production, Lax otherwise).
func (s *Server) setCookie(w http.ResponseWriter, name, value string, exp time.Time) {
	sameSite := http.SameSiteLaxMode
	if s.cfg.Production {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Production,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// bearerOrCookie extracts a bearer token from the Authorization header or
// the session cookie.
func bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(sessionCookie); err == nil {
		return c.Value
	}
	return ""
}
