package http

import (
	"bytes"
	"encoding/json"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/parleychat/parley-server/internal/auth"
	"github.com/parleychat/parley-server/internal/config"
	"github.com/parleychat/parley-server/internal/core"
	"github.com/parleychat/parley-server/internal/store"
	"github.com/parleychat/parley-server/internal/store/sqlite"
)

type testEnv struct {
	server *httptest.Server
	store  store.Store
	auth   *auth.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	logger := zerolog.Nop()
	jwtConfig := &auth.JWTConfig{
		Secret:   []byte("test-secret"),
		Issuer:   "parley-test",
		Audience: "parley-test",
		TTL:      time.Hour,
	}
	authService := auth.NewService(st, jwtConfig)
	hub := core.NewHub(&logger)
	svc := core.NewService(st, hub, &logger)

	cfg := config.Default()
	srv := NewServer(hub, svc, authService, st, &cfg, &logger)

	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)

	return &testEnv{server: ts, store: st, auth: authService}
}

// doJSON performs a JSON request against the test server and decodes the
// response body into out (when out is non-nil).
func (e *testEnv) doJSON(t *testing.T, method, path, token string, body, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := stdhttp.NewRequest(method, e.server.URL+path, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.server.Client().Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp.StatusCode
}

// registerUser creates a user through the public API and returns its
// session token together with the stored record.
func (e *testEnv) registerUser(t *testing.T, username string) (string, UserResponse) {
	t.Helper()

	var resp AuthResponse
	status := e.doJSON(t, stdhttp.MethodPost, "/api/register", "", RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret1",
	}, &resp)
	if status != stdhttp.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d", username, status)
	}
	return resp.Token, resp.User
}
