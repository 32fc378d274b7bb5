package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fragmede/tagterm/internal/api"
	"github.com/fragmede/tagterm/internal/stub"
)

func newStub(t *testing.T) (*api.Client, *stub.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	s := stub.New("secret", time.Hour, nil)
	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)
	return api.NewClient(srv.URL+"/", time.Second), s
}

func strPtr(s string) *string { return &s }

func TestRegisterLoginProfileTags(t *testing.T) {
	ctx := context.Background()
	client, s := newStub(t)

	res, err := client.Register(ctx, api.Credentials{Username: "alice", Password: "hunter22", Email: strPtr("alice@example.com")})
	require.NoError(t, err)
	require.True(t, res.Success)
	require.NotNil(t, res.User)
	assert.Equal(t, "alice", res.User.Username)

	res, err = client.Login(ctx, api.Credentials{Username: "alice", Password: "hunter22"})
	require.NoError(t, err)
	require.True(t, res.Success)
	token := res.Token

	require.True(t, s.AddTag("alice", "interests", api.Tag{ID: 1, TagName: "go", Confidence: 0.9}))

	profile, err := client.Profile(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", profile.Email)

	tags, err := client.Tags(ctx, token)
	require.NoError(t, err)
	require.Len(t, tags["interests"], 1)
	assert.Equal(t, "go", tags["interests"][0].TagName)

	assert.NoError(t, client.Logout(ctx, token))
}

func TestLoginServerReportedFailure(t *testing.T) {
	client, _ := newStub(t)

	res, err := client.Login(context.Background(), api.Credentials{Username: "ghost", Password: "whatever"})
	require.NoError(t, err, "a JSON failure body is a result, not an error")
	assert.False(t, res.Success)
	assert.Equal(t, "User does not exist", res.Error)
	assert.Empty(t, res.Token)
}

func TestProfileServerError(t *testing.T) {
	client, _ := newStub(t)

	_, err := client.Profile(context.Background(), "not-a-token")
	var serr *api.ServerError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, http.StatusUnauthorized, serr.Status)
	assert.Equal(t, "Login required", serr.Message)
}

func TestRequestBodies(t *testing.T) {
	var (
		mu  sync.Mutex
		got []map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		data, _ := io.ReadAll(r.Body)
		var body map[string]any
		assert.NoError(t, json.Unmarshal(data, &body))
		mu.Lock()
		got = append(got, body)
		mu.Unlock()
		w.Write([]byte(`{"success":false,"error":"nope"}`))
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, time.Second)
	_, err := client.Login(context.Background(), api.Credentials{Username: "u", Password: "p", Email: strPtr("ignored@x")})
	require.NoError(t, err)
	_, err = client.Register(context.Background(), api.Credentials{Username: "u", Password: "p"})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 2)
	assert.Equal(t, map[string]any{"username": "u", "password": "p"}, got[0])
	email, present := got[1]["email"]
	assert.True(t, present, "email is sent as null when blank")
	assert.Nil(t, email)
}

func TestTransportFailures(t *testing.T) {
	htmlSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html><body><h1>502 Bad Gateway</h1></body></html>"))
	}))
	defer htmlSrv.Close()

	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	tests := []struct {
		name    string
		baseURL string
		want    string
	}{
		{"non-JSON body", htmlSrv.URL, "502 Bad Gateway"},
		{"connection refused", closedURL, "POST"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := api.NewClient(tt.baseURL, time.Second)
			res, err := client.Login(context.Background(), api.Credentials{Username: "u", Password: "p"})
			assert.Nil(t, res)
			require.Error(t, err)
			assert.True(t, errors.Is(err, api.ErrTransport))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
