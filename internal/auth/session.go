package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fragmede/tagterm/internal/store"
)

// Storage keys in the session table.
const (
	TokenKey        = "auth_token"
	LastUsernameKey = "last_username"
)

// Session tracks the persisted auth token.
type Session struct {
	db       *store.DB
	Token    string
	Username string
	LoggedIn bool
}

// NewSession creates a session backed by db.
func NewSession(db *store.DB) *Session {
	return &Session{db: db}
}

// SaveToken persists token under TokenKey.
func (s *Session) SaveToken(token string) error {
	if err := s.db.Put(TokenKey, token); err != nil {
		return fmt.Errorf("saving session token: %w", err)
	}
	s.Token = token
	s.Username = UsernameFromToken(token)
	s.LoggedIn = true
	return nil
}

// Load restores a previously saved token and reports whether one was
// found. The token is not checked against the server.
func (s *Session) Load() (bool, error) {
	token, ok, err := s.db.Get(TokenKey)
	if err != nil {
		return false, fmt.Errorf("loading session token: %w", err)
	}
	if !ok || token == "" {
		return false, nil
	}
	s.Token = token
	s.Username = UsernameFromToken(token)
	s.LoggedIn = true
	return true, nil
}

// Clear forgets the token, locally and on disk.
func (s *Session) Clear() error {
	s.Token = ""
	s.Username = ""
	s.LoggedIn = false
	if err := s.db.Delete(TokenKey); err != nil {
		return fmt.Errorf("clearing session token: %w", err)
	}
	return nil
}

// RememberUsername stores the last username that signed in successfully.
func (s *Session) RememberUsername(username string) error {
	return s.db.Put(LastUsernameKey, username)
}

// LastUsername returns the remembered username, or "" if there is none.
func (s *Session) LastUsername() (string, error) {
	v, _, err := s.db.Get(LastUsernameKey)
	if err != nil {
		return "", fmt.Errorf("loading last username: %w", err)
	}
	return v, nil
}

type displayClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// UsernameFromToken reads the username claim for display. The signature
// and expiry are not checked; tokens that are not JWTs yield "".
func UsernameFromToken(token string) string {
	claims := &displayClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	if claims.Username != "" {
		return claims.Username
	}
	return claims.Subject
}
