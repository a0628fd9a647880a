package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lumenstudio/api/internal/security"
)

const (
	testAccessSecret  = "client-access-secret"
	testRefreshSecret = "client-refresh-secret"
)

// fakeServer is a minimal stand-in for the auth endpoints.
type fakeServer struct {
	*httptest.Server

	mu           sync.Mutex
	refreshCalls int
	failRefresh  bool
	accessTTL    time.Duration
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	fs := &fakeServer{accessTTL: 15 * time.Minute}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		if req.Password != "correct" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"success": false, "error": "invalid email or password",
			})
			return
		}

		access, err := security.IssueAccessToken(testAccessSecret, "user-1", "editor", fs.accessTTL)
		require.NoError(t, err)
		refresh, err := security.IssueRefreshToken(testRefreshSecret, "user-1", 168*time.Hour)
		require.NoError(t, err)

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{
				"accessToken":  access,
				"refreshToken": refresh,
				"user":         map[string]any{"id": "user-1", "email": req.Email, "role": "editor"},
			},
		})
	})
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		fs.mu.Lock()
		fs.refreshCalls++
		fail := fs.failRefresh
		fs.mu.Unlock()

		if fail {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"success": false, "error": "invalid refresh token",
			})
			return
		}

		access, err := security.IssueAccessToken(testAccessSecret, "user-1", "editor", fs.accessTTL)
		require.NoError(t, err)
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]any{"accessToken": access},
		})
	})

	fs.Server = httptest.NewServer(mux)
	t.Cleanup(fs.Close)
	return fs
}

func writeJSON(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// capturedTimer records scheduling instead of waiting on real time.
type capturedTimer struct {
	mu     sync.Mutex
	delays []time.Duration
	fns    []func()
}

func (ct *capturedTimer) after(d time.Duration, f func()) *time.Timer {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	ct.delays = append(ct.delays, d)
	ct.fns = append(ct.fns, f)
	// A timer far in the future; tests fire fns manually.
	return time.AfterFunc(time.Hour, func() {})
}

func (ct *capturedTimer) scheduled() int {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	return len(ct.delays)
}

func (ct *capturedTimer) lastDelay() time.Duration {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	return ct.delays[len(ct.delays)-1]
}

func (ct *capturedTimer) fireLast() {
	ct.mu.Lock()
	f := ct.fns[len(ct.fns)-1]
	ct.mu.Unlock()
	f()
}

func newTestSession(t *testing.T, srv *fakeServer, rememberMe bool) (*Session, *capturedTimer, *FileStore, *MemoryStore) {
	t.Helper()

	durable := NewFileStore(filepath.Join(t.TempDir(), "tokens.json"))
	scoped := NewMemoryStore()
	ct := &capturedTimer{}

	s := NewSession(srv.URL, durable, scoped)
	s.after = ct.after

	_, err := s.Login(context.Background(), "editor@lumen.studio", "correct", rememberMe)
	require.NoError(t, err)

	return s, ct, durable, scoped
}

func TestLoginPersistsToSelectedStore(t *testing.T) {
	srv := newFakeServer(t)

	s, _, durable, scoped := newTestSession(t, srv, true)
	assert.Equal(t, StateAuthenticated, s.State())

	_, ok, err := durable.Load()
	require.NoError(t, err)
	assert.True(t, ok, "remember-me login must persist to the durable store")
	_, ok, err = scoped.Load()
	require.NoError(t, err)
	assert.False(t, ok)

	s2, _, durable2, scoped2 := newTestSession(t, srv, false)
	assert.Equal(t, StateAuthenticated, s2.State())
	_, ok, err = durable2.Load()
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = scoped2.Load()
	require.NoError(t, err)
	assert.True(t, ok, "plain login must persist to the session-scoped store")
}

func TestLoginBadCredentials(t *testing.T) {
	srv := newFakeServer(t)
	s := NewSession(srv.URL, NewMemoryStore(), NewMemoryStore())

	_, err := s.Login(context.Background(), "editor@lumen.studio", "wrong", false)
	require.Error(t, err)
	assert.Equal(t, StateUnauthenticated, s.State())
	assert.Empty(t, s.AccessToken())
}

func TestRefreshTimerFiresOneMinuteBeforeExpiry(t *testing.T) {
	srv := newFakeServer(t)
	_, ct, _, _ := newTestSession(t, srv, false)

	require.Equal(t, 1, ct.scheduled())
	// 15-minute token refreshes around the 14-minute mark.
	assert.InDelta(t, (14 * time.Minute).Seconds(), ct.lastDelay().Seconds(), 5)
}

func TestRefreshReplacesAccessTokenAndReschedules(t *testing.T) {
	srv := newFakeServer(t)
	s, ct, _, _ := newTestSession(t, srv, false)

	before := s.AccessToken()
	require.NotEmpty(t, before)

	time.Sleep(1100 * time.Millisecond) // force a different iat second
	ct.fireLast()

	after := s.AccessToken()
	assert.NotEmpty(t, after)
	assert.NotEqual(t, before, after)
	assert.Equal(t, StateAuthenticated, s.State())

	// The refresh rescheduled exactly one new timer.
	assert.Equal(t, 2, ct.scheduled())
}

func TestFailedRefreshForcesLogoutAndClearsBothStores(t *testing.T) {
	srv := newFakeServer(t)
	s, ct, durable, scoped := newTestSession(t, srv, true)

	srv.mu.Lock()
	srv.failRefresh = true
	srv.mu.Unlock()

	ct.fireLast()

	assert.Equal(t, StateUnauthenticated, s.State())
	assert.Empty(t, s.AccessToken())

	_, ok, err := durable.Load()
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = scoped.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLogoutClearsBothStoresUnconditionally(t *testing.T) {
	srv := newFakeServer(t)
	s, _, durable, scoped := newTestSession(t, srv, true)

	// Simulate a leftover from an earlier non-remembered login.
	require.NoError(t, scoped.Save(Credentials{AccessToken: "stale", RefreshToken: "stale"}))

	s.Logout()

	assert.Equal(t, StateUnauthenticated, s.State())
	_, ok, err := durable.Load()
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = scoped.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResumePrefersDurableStore(t *testing.T) {
	srv := newFakeServer(t)

	dir := t.TempDir()
	durable := NewFileStore(filepath.Join(dir, "tokens.json"))

	first := NewSession(srv.URL, durable, NewMemoryStore())
	firstTimers := &capturedTimer{}
	first.after = firstTimers.after
	_, err := first.Login(context.Background(), "editor@lumen.studio", "correct", true)
	require.NoError(t, err)
	creds, ok := first.Credentials()
	require.True(t, ok)

	// A fresh session over the same file restores the tokens.
	second := NewSession(srv.URL, durable, NewMemoryStore())
	secondTimers := &capturedTimer{}
	second.after = secondTimers.after

	resumed, err := second.Resume(context.Background())
	require.NoError(t, err)
	assert.True(t, resumed)
	assert.Equal(t, StateAuthenticated, second.State())
	assert.Equal(t, creds.AccessToken, second.AccessToken())
	assert.Equal(t, 1, secondTimers.scheduled())
}

func TestResumeWithNothingStored(t *testing.T) {
	srv := newFakeServer(t)
	s := NewSession(srv.URL, NewFileStore(filepath.Join(t.TempDir(), "tokens.json")), NewMemoryStore())

	resumed, err := s.Resume(context.Background())
	require.NoError(t, err)
	assert.False(t, resumed)
	assert.Equal(t, StateUnauthenticated, s.State())
}

func TestAuthTransportDecoratesOnlyAPIRequests(t *testing.T) {
	var gotAPI, gotOther string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/blog/posts":
			gotAPI = r.Header.Get("Authorization")
		default:
			gotOther = r.Header.Get("Authorization")
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": map[string]any{}})
	}))
	defer backend.Close()

	srv := newFakeServer(t)
	s, _, _, _ := newTestSession(t, srv, false)
	httpClient := s.HTTPClient()

	resp, err := httpClient.Get(backend.URL + "/api/blog/posts")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Contains(t, gotAPI, "Bearer ")

	resp, err = httpClient.Get(backend.URL + "/about")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, gotOther)
}

func TestFileStoreSurvivesCorruption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	store := NewFileStore(path)

	require.NoError(t, store.Save(Credentials{AccessToken: "a", RefreshToken: "r"}))

	creds, ok, err := store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a", creds.AccessToken)

	// Corrupt file is treated as absent.
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, ok, err = store.Load()
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear(), "clearing an absent file is not an error")
}
