// Package stub is an in-memory implementation of the tag-system auth API,
// used for local development and for exercising the client end to end.
package stub

import (
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/fragmede/tagterm/internal/api"
)

// Claims are the JWT claims issued on login.
type Claims struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type user struct {
	id        int
	username  string
	email     string
	hash      []byte
	createdAt time.Time
	lastLogin time.Time
	tags      map[string][]api.Tag
}

// Server holds the registered users and signs tokens.
type Server struct {
	secret []byte
	ttl    time.Duration
	log    *zap.Logger
	now    func() time.Time

	mu     sync.Mutex
	users  map[string]*user
	nextID int
}

// New creates a stub server signing HS256 tokens with secret.
func New(secret string, ttl time.Duration, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		secret: []byte(secret),
		ttl:    ttl,
		log:    log,
		now:    time.Now,
		users:  make(map[string]*user),
		nextID: 1,
	}
}

// Router returns the gin engine serving the auth endpoints.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.POST(api.PathLogin, s.login)
	r.POST(api.PathRegister, s.register)
	r.POST(api.PathLogout, s.logout)
	r.GET(api.PathProfile, s.requireToken, s.profile)
	r.GET(api.PathTags, s.requireToken, s.tags)
	return r
}

type credentialsBody struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Email    *string `json:"email"`
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": msg})
}

func (s *Server) register(c *gin.Context) {
	var body credentialsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	username := strings.TrimSpace(body.Username)
	var email string
	if body.Email != nil {
		email = strings.TrimSpace(*body.Email)
	}

	if msg := validateRegistration(username, body.Password, email); msg != "" {
		fail(c, http.StatusBadRequest, msg)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		s.log.Error("hashing password", zap.Error(err))
		fail(c, http.StatusInternalServerError, "Registration failed: "+err.Error())
		return
	}

	s.mu.Lock()
	if _, taken := s.users[username]; taken || s.emailTakenLocked(email) {
		s.mu.Unlock()
		fail(c, http.StatusBadRequest, "Username or email already exists")
		return
	}
	u := &user{
		id:        s.nextID,
		username:  username,
		email:     email,
		hash:      hash,
		createdAt: s.now(),
		tags:      make(map[string][]api.Tag),
	}
	s.users[username] = u
	s.nextID++
	s.mu.Unlock()

	s.log.Info("user registered", zap.String("username", username), zap.Int("user_id", u.id))
	// Registration logs the new user straight in.
	s.issue(c, u, "Registration successful")
}

func (s *Server) login(c *gin.Context) {
	var body credentialsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	username := strings.TrimSpace(body.Username)

	s.mu.Lock()
	u, ok := s.users[username]
	s.mu.Unlock()
	if !ok {
		fail(c, http.StatusUnauthorized, "User does not exist")
		return
	}
	if err := bcrypt.CompareHashAndPassword(u.hash, []byte(body.Password)); err != nil {
		fail(c, http.StatusUnauthorized, "Incorrect password")
		return
	}
	s.issue(c, u, "Login successful")
}

func (s *Server) issue(c *gin.Context, u *user, msg string) {
	now := s.now()
	s.mu.Lock()
	u.lastLogin = now
	s.mu.Unlock()

	claims := Claims{
		UserID:   u.id,
		Username: u.username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   u.username,
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		s.log.Error("signing token", zap.Error(err))
		fail(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": msg,
		"user":    gin.H{"id": u.id, "username": u.username},
		"token":   token,
	})
}

func (s *Server) logout(c *gin.Context) {
	// Tokens are stateless; there is nothing to revoke.
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logout successful"})
}

func (s *Server) requireToken(c *gin.Context) {
	header := c.GetHeader("Authorization")
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		fail(c, http.StatusUnauthorized, "Login required")
		return
	}
	claims, err := s.parse(raw)
	if err != nil {
		fail(c, http.StatusUnauthorized, "Login required")
		return
	}
	c.Set("claims", claims)
	c.Next()
}

func (s *Server) parse(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// current returns a snapshot of the user named by the request's claims.
func (s *Server) current(c *gin.Context) (user, bool) {
	claims := c.MustGet("claims").(*Claims)
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[claims.Username]
	if !ok || u.id != claims.UserID {
		return user{}, false
	}
	snap := *u
	snap.tags = make(map[string][]api.Tag, len(u.tags))
	for dim, tags := range u.tags {
		snap.tags[dim] = append([]api.Tag(nil), tags...)
	}
	return snap, true
}

func (s *Server) profile(c *gin.Context) {
	u, ok := s.current(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Login required")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": api.Profile{
			ID:        u.id,
			Username:  u.username,
			Email:     u.email,
			CreatedAt: u.createdAt.UTC().Format(time.RFC3339),
			LastLogin: u.lastLogin.UTC().Format(time.RFC3339),
		},
	})
}

func (s *Server) tags(c *gin.Context) {
	u, ok := s.current(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Login required")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "tags": u.tags})
}

// AddTag attaches a tag to username under dimension.
func (s *Server) AddTag(username, dimension string, tag api.Tag) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return false
	}
	u.tags[dimension] = append(u.tags[dimension], tag)
	return true
}

func (s *Server) emailTakenLocked(email string) bool {
	if email == "" {
		return false
	}
	for _, u := range s.users {
		if strings.EqualFold(u.email, email) {
			return true
		}
	}
	return false
}

// bcrypt only hashes the first 72 bytes and rejects longer input.
const maxPasswordBytes = 72

func validateRegistration(username, password, email string) string {
	switch {
	case len([]rune(username)) < 3:
		return "Username must be at least 3 characters"
	case len(password) < 6:
		return "Password must be at least 6 characters"
	case len(password) > maxPasswordBytes:
		return "Password must be at most 72 bytes"
	case email != "" && !strings.Contains(email, "@"):
		return "Invalid email format"
	}
	return ""
}
