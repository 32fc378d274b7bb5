package api

import "errors"

// Endpoint paths on the tag-system server.
const (
	PathLogin    = "/api/auth/login"
	PathRegister = "/api/auth/register"
	PathLogout   = "/api/auth/logout"
	PathProfile  = "/api/auth/profile"
	PathTags     = "/api/user/tags"
)

// ErrTransport marks failures where no usable JSON answer came back:
// connection errors, timeouts, and bodies that are not JSON.
var ErrTransport = errors.New("transport failure")

// Credentials are read from the form fields for a single submission.
// Email is nil when the field was left blank.
type Credentials struct {
	Username string
	Password string
	Email    *string
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Email    *string `json:"email"`
}

// AuthResult is the response to login and register.
type AuthResult struct {
	Success bool     `json:"success"`
	Token   string   `json:"token,omitempty"`
	Error   string   `json:"error,omitempty"`
	Message string   `json:"message,omitempty"`
	User    *UserRef `json:"user,omitempty"`
}

// UserRef is the short user record returned alongside a token.
type UserRef struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// Profile is the full account record.
type Profile struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
	LastLogin string `json:"last_login"`
	IsAdmin   bool   `json:"is_admin"`
}

// Tag is one extracted user tag.
type Tag struct {
	ID          int     `json:"id"`
	TagName     string  `json:"tag_name"`
	Confidence  float64 `json:"confidence"`
	Evidence    string  `json:"evidence"`
	CreatedAt   string  `json:"created_at"`
	LastUpdated string  `json:"last_updated"`
}

// envelope is the common {success, error} wrapper of the secondary endpoints.
type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

type profileResponse struct {
	envelope
	User *Profile `json:"user"`
}

type tagsResponse struct {
	envelope
	Tags map[string][]Tag `json:"tags"`
}

// ServerError is a failure the server reported with success=false.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}
