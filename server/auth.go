package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// file auth.go implements bearer-token auth for the evaluate endpoint: a
// caller first exchanges a static API key for a short-lived JWT (bcrypt
// verifies the key against a stored hash), then presents that JWT as a
// Bearer token on subsequent requests. A single static key stands in for a
// user/session database, since this engine has no notion of users.

var errBadAPIKey = errors.New("invalid api key")

type claims struct {
	jwt.RegisteredClaims
}

// IssueToken checks candidateKey against the server's stored bcrypt hash and,
// on success, returns a signed JWT valid for one hour.
func (s *Server) IssueToken(candidateKey string) (string, error) {
	if err := bcrypt.CompareHashAndPassword(s.apiKeyHash, []byte(candidateKey)); err != nil {
		return "", errBadAPIKey
	}

	now := time.Now()
	c := claims{jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return tok.SignedString(s.jwtSecret)
}

type contextKey string

const tokenIDContextKey contextKey = "formulaengine-token-id"

// requireAuth wraps next so that it only runs when the request carries a
// valid, unexpired Bearer JWT issued by IssueToken.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		var c claims
		tok, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
			return s.jwtSecret, nil
		})
		if err != nil || !tok.Valid {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), tokenIDContextKey, c.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(h, prefix) {
		return ""
	}
	return strings.TrimPrefix(h, prefix)
}

// HashAPIKey is a setup-time helper for operators provisioning a new API key:
// it returns the bcrypt hash to store in the server's configuration.
func HashAPIKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), 14)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
