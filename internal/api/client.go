package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fragmede/tagterm/internal/render"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 1 << 20
	bodyPreview    = 200
)

// Client talks to the tag-system auth API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the server at baseURL.
// A timeout <= 0 selects the default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the server root the client was configured with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Login posts {username, password}. A nil error means the server answered
// with JSON; check AuthResult.Success for the outcome.
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResult, error) {
	var result AuthResult
	body := loginRequest{Username: creds.Username, Password: creds.Password}
	if _, err := c.do(ctx, http.MethodPost, PathLogin, "", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Register posts {username, password, email}; email is null when unset.
func (c *Client) Register(ctx context.Context, creds Credentials) (*AuthResult, error) {
	var result AuthResult
	body := registerRequest{Username: creds.Username, Password: creds.Password, Email: creds.Email}
	if _, err := c.do(ctx, http.MethodPost, PathRegister, "", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Logout ends the server-side session for token.
func (c *Client) Logout(ctx context.Context, token string) error {
	var env envelope
	status, err := c.do(ctx, http.MethodPost, PathLogout, token, struct{}{}, &env)
	if err != nil {
		return err
	}
	if !env.Success {
		return &ServerError{Status: status, Message: env.Error}
	}
	return nil
}

// Profile fetches the account behind token.
func (c *Client) Profile(ctx context.Context, token string) (*Profile, error) {
	var resp profileResponse
	status, err := c.do(ctx, http.MethodGet, PathProfile, token, nil, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.Success || resp.User == nil {
		return nil, &ServerError{Status: status, Message: resp.Error}
	}
	return resp.User, nil
}

// Tags fetches the user's tags grouped by dimension.
func (c *Client) Tags(ctx context.Context, token string) (map[string][]Tag, error) {
	var resp tagsResponse
	status, err := c.do(ctx, http.MethodGet, PathTags, token, nil, &resp)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &ServerError{Status: status, Message: resp.Error}
	}
	return resp.Tags, nil
}

// do sends a JSON request and decodes the JSON response into dst whatever
// the status code, since failures carry {success:false, error} bodies.
func (c *Client) do(ctx context.Context, method, path, token string, in, dst interface{}) (int, error) {
	url := c.baseURL + path

	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("encoding request for %s: %w", path, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "tagterm/1.0")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %s: %v", ErrTransport, method, url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("%w: reading response from %s: %v", ErrTransport, url, err)
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return resp.StatusCode, fmt.Errorf("%w: HTTP %d from %s is not JSON (%v): %s",
			ErrTransport, resp.StatusCode, url, err, render.PlainText(string(body), bodyPreview))
	}
	return resp.StatusCode, nil
}
