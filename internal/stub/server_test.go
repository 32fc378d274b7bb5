package stub

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fragmede/tagterm/internal/api"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type reply struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Error   string `json:"error"`
}

func post(t *testing.T, h http.Handler, path string, body any) (*httptest.ResponseRecorder, reply) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var r reply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &r))
	return rec, r
}

func TestRegisterThenLogin(t *testing.T) {
	s := New("secret", time.Hour, nil)
	h := s.Router()

	rec, r := post(t, h, api.PathRegister, map[string]any{"username": "alice", "password": "hunter22", "email": nil})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, r.Success)
	assert.NotEmpty(t, r.Token)

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(r.Token, claims, func(*jwt.Token) (any, error) { return []byte("secret"), nil })
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, 1, claims.UserID)

	rec, r = post(t, h, api.PathLogin, map[string]string{"username": "alice", "password": "hunter22"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, r.Success)

	rec, r = post(t, h, api.PathLogin, map[string]string{"username": "alice", "password": "wrong-pass"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, r.Success)
	assert.Equal(t, "Incorrect password", r.Error)
}

func TestRegisterValidation(t *testing.T) {
	h := New("secret", time.Hour, nil).Router()

	tests := []struct {
		name string
		body map[string]any
		want string
	}{
		{"short username", map[string]any{"username": "al", "password": "hunter22"}, "Username must be at least 3 characters"},
		{"short password", map[string]any{"username": "alice", "password": "123"}, "Password must be at least 6 characters"},
		{"long password", map[string]any{"username": "alice", "password": strings.Repeat("p", 73)}, "Password must be at most 72 bytes"},
		{"bad email", map[string]any{"username": "alice", "password": "hunter22", "email": "nope"}, "Invalid email format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, r := post(t, h, api.PathRegister, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, r.Success)
			assert.Equal(t, tt.want, r.Error)
		})
	}
}

func TestRegisterMaxLengthPassword(t *testing.T) {
	h := New("secret", time.Hour, nil).Router()
	rec, r := post(t, h, api.PathRegister, map[string]any{"username": "alice", "password": strings.Repeat("p", 72)})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, r.Success)
}

func TestRegisterDuplicate(t *testing.T) {
	h := New("secret", time.Hour, nil).Router()
	_, r := post(t, h, api.PathRegister, map[string]any{"username": "alice", "password": "hunter22", "email": "a@example.com"})
	require.True(t, r.Success)

	rec, r := post(t, h, api.PathRegister, map[string]any{"username": "bob", "password": "hunter22", "email": "A@example.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Username or email already exists", r.Error)
}

func TestProfileRequiresToken(t *testing.T) {
	s := New("secret", time.Hour, nil)
	h := s.Router()
	_, r := post(t, h, api.PathRegister, map[string]any{"username": "alice", "password": "hunter22"})
	require.True(t, r.Success)

	req := httptest.NewRequest(http.MethodGet, api.PathProfile, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, api.PathProfile, nil)
	req.Header.Set("Authorization", "Bearer "+r.Token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"alice"`)
}

func TestExpiredTokenRejected(t *testing.T) {
	s := New("secret", time.Minute, nil)
	h := s.Router()
	_, r := post(t, h, api.PathRegister, map[string]any{"username": "alice", "password": "hunter22"})
	require.True(t, r.Success)

	s.now = func() time.Time { return time.Now().Add(time.Hour) }
	req := httptest.NewRequest(http.MethodGet, api.PathTags, nil)
	req.Header.Set("Authorization", "Bearer "+r.Token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
