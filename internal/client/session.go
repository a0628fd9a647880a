package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"lumenstudio/api/internal/apperr"
)

// State is the session lifecycle position.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticating
	StateAuthenticated
	StateRefreshing
)

func (s State) String() string {
	switch s {
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateRefreshing:
		return "refreshing"
	default:
		return "unauthenticated"
	}
}

// refreshLead is how long before access-token expiry the proactive refresh
// fires. A 15-minute token refreshes at the 14-minute mark.
const refreshLead = time.Minute

// Session drives the client side of the auth contract: it logs in, persists
// the token pair in the store selected by the remember-me flag, schedules a
// single proactive refresh timer, and clears everything on logout or on a
// failed refresh. All methods are safe for concurrent use.
type Session struct {
	baseURL string
	http    *http.Client
	durable TokenStore
	scoped  TokenStore
	log     zerolog.Logger

	// now and after are swapped out in tests to control time.
	now   func() time.Time
	after func(d time.Duration, f func()) *time.Timer

	mu     sync.Mutex
	state  State
	creds  Credentials
	active TokenStore
	timer  *time.Timer
}

// Option tweaks session construction.
type Option func(*Session)

// WithHTTPClient substitutes the HTTP client used for login and refresh
// calls. The default has a 10 second timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Session) { s.http = hc }
}

// WithLogger attaches a logger; the default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Session) { s.log = log }
}

func NewSession(baseURL string, durable, scoped TokenStore, opts ...Option) *Session {
	s := &Session{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		durable: durable,
		scoped:  scoped,
		log:     zerolog.Nop(),
		now:     time.Now,
		after:   time.AfterFunc,
		state:   StateUnauthenticated,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State reports the current lifecycle position.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Credentials returns the current token pair, if authenticated.
func (s *Session) Credentials() (Credentials, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAuthenticated && s.state != StateRefreshing {
		return Credentials{}, false
	}
	return s.creds, true
}

// AccessToken returns the current access token, or "" when unauthenticated.
func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateAuthenticated && s.state != StateRefreshing {
		return ""
	}
	return s.creds.AccessToken
}

// Resume restores a persisted session, preferring the durable store. It
// schedules a refresh timer for the restored access token; a token already
// within the refresh lead triggers an immediate refresh attempt.
func (s *Session) Resume(ctx context.Context) (bool, error) {
	for _, store := range []TokenStore{s.durable, s.scoped} {
		if store == nil {
			continue
		}
		creds, ok, err := store.Load()
		if err != nil {
			return false, err
		}
		if !ok {
			continue
		}

		s.mu.Lock()
		s.creds = creds
		s.active = store
		s.state = StateAuthenticated
		s.scheduleRefreshLocked()
		s.mu.Unlock()
		return true, nil
	}
	return false, nil
}

type loginResponse struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	User         UserInfo `json:"user"`
}

// Login authenticates against the server. rememberMe selects the durable
// store; otherwise credentials live only as long as the process.
func (s *Session) Login(ctx context.Context, email, password string, rememberMe bool) (UserInfo, error) {
	s.mu.Lock()
	if s.state == StateAuthenticating {
		s.mu.Unlock()
		return UserInfo{}, apperr.Conflict("login already in progress")
	}
	s.state = StateAuthenticating
	s.mu.Unlock()

	var result loginResponse
	err := s.post(ctx, "/api/auth/login", map[string]any{
		"email":      email,
		"password":   password,
		"rememberMe": rememberMe,
	}, &result)
	if err != nil {
		s.forceLogout()
		return UserInfo{}, err
	}

	creds := Credentials{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		User:         result.User,
	}

	store := s.scoped
	if rememberMe {
		store = s.durable
	}
	if store != nil {
		if err := store.Save(creds); err != nil {
			s.log.Warn().Err(err).Msg("credential save failed")
		}
	}

	s.mu.Lock()
	s.creds = creds
	s.active = store
	s.state = StateAuthenticated
	s.scheduleRefreshLocked()
	s.mu.Unlock()

	s.log.Info().Str("user_id", creds.User.ID).Bool("remember", rememberMe).Msg("session established")
	return creds.User, nil
}

// Refresh exchanges the refresh token for a fresh access token and
// reschedules the proactive timer. A failed refresh forces logout.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateAuthenticated && s.state != StateRefreshing {
		s.mu.Unlock()
		return apperr.Authentication("no active session")
	}
	s.state = StateRefreshing
	refreshToken := s.creds.RefreshToken
	s.mu.Unlock()

	var result struct {
		AccessToken string `json:"accessToken"`
	}
	err := s.post(ctx, "/api/auth/refresh", map[string]any{
		"refreshToken": refreshToken,
	}, &result)
	if err != nil {
		s.log.Warn().Err(err).Msg("token refresh failed, forcing logout")
		s.forceLogout()
		return err
	}

	s.mu.Lock()
	s.creds.AccessToken = result.AccessToken
	s.state = StateAuthenticated
	store := s.active
	creds := s.creds
	s.scheduleRefreshLocked()
	s.mu.Unlock()

	if store != nil {
		if err := store.Save(creds); err != nil {
			s.log.Warn().Err(err).Msg("credential save failed")
		}
	}
	return nil
}

// Logout cancels the refresh timer and clears both stores unconditionally.
// Clearing both covers remember-me having varied across past logins.
func (s *Session) Logout() {
	s.forceLogout()
	s.log.Info().Msg("session ended")
}

func (s *Session) forceLogout() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.creds = Credentials{}
	s.active = nil
	s.state = StateUnauthenticated
	s.mu.Unlock()

	for _, store := range []TokenStore{s.durable, s.scoped} {
		if store == nil {
			continue
		}
		if err := store.Clear(); err != nil {
			s.log.Warn().Err(err).Msg("credential clear failed")
		}
	}
}

// scheduleRefreshLocked arms the proactive refresh timer, cancelling any
// previous one first so a single timer is ever outstanding. Callers hold mu.
func (s *Session) scheduleRefreshLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	expiry, err := tokenExpiry(s.creds.AccessToken)
	if err != nil {
		s.log.Warn().Err(err).Msg("access token has no readable expiry, refresh not scheduled")
		return
	}

	delay := expiry.Sub(s.now()) - refreshLead
	if delay < 0 {
		delay = 0
	}

	s.timer = s.after(delay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.Refresh(ctx)
	})
}

// tokenExpiry reads the exp claim without verifying the signature. The client
// never trusts the token's contents for authorization, only for scheduling.
func tokenExpiry(tokenStr string) (time.Time, error) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, &claims); err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("token has no expiry")
	}
	return claims.ExpiresAt.Time, nil
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func (s *Session) post(ctx context.Context, path string, body any, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	var envelope apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if !envelope.Success {
		msg := envelope.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return apperr.Authentication(msg)
		case http.StatusBadRequest:
			return apperr.Validation(msg)
		default:
			return fmt.Errorf("%s: %s", path, msg)
		}
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}
