// Package sessionwatch keeps a client-side view of a Tasket session in sync
// with the server. It asks the API how long the session has left, warns
// shortly before expiry, and logs out on its own clock when the server-issued
// deadline passes. The expiry timer only has to mirror the token's own
// lifetime: a token the server already considers dead is rejected regardless
// of what this watcher believes.
package sessionwatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"sync"
	"time"
)

// DefaultWarningLead is how long before expiry the warning callback fires.
const DefaultWarningLead = 5 * time.Minute

// ErrNoSession is returned by Check when the server reports no active session.
var ErrNoSession = errors.New("no active session")

// Session is the server's description of the current session.
type Session struct {
	UserID    string
	Email     string
	Name      string
	ExpiresAt time.Time
}

type sessionResponse struct {
	User *struct {
		ID    string `json:"_id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	} `json:"user"`
	ExpiresAt *int64 `json:"expiresAt"`
}

// Config configures a Watcher.
type Config struct {
	// BaseURL is the API root, e.g. "http://localhost:8080".
	BaseURL string

	// HTTPClient carries the session cookie. When nil a client with a fresh
	// cookie jar is used.
	HTTPClient *http.Client

	// WarningLead is how long before expiry OnExpiring fires. Zero means
	// DefaultWarningLead.
	WarningLead time.Duration

	// OnExpiring is called once per Check cycle, WarningLead before the
	// deadline, with the time remaining. Skipped entirely when the session
	// has less than WarningLead left at check time.
	OnExpiring func(remaining time.Duration)

	// OnExpired is called at most once per login when the session ends,
	// whether by the deadline passing or an explicit Logout.
	OnExpired func()
}

// Watcher tracks one session. Each Check replaces the previous timers, so
// concurrent or repeated checks never stack callbacks.
type Watcher struct {
	baseURL     string
	client      *http.Client
	warningLead time.Duration
	onExpiring  func(remaining time.Duration)
	onExpired   func()

	mu          sync.Mutex
	warnTimer   *time.Timer
	expireTimer *time.Timer
	loggedOut   bool
}

func New(cfg Config) (*Watcher, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	client := cfg.HTTPClient
	if client == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		client = &http.Client{Jar: jar, Timeout: 10 * time.Second}
	}

	lead := cfg.WarningLead
	if lead <= 0 {
		lead = DefaultWarningLead
	}

	return &Watcher{
		baseURL:     cfg.BaseURL,
		client:      client,
		warningLead: lead,
		onExpiring:  cfg.OnExpiring,
		onExpired:   cfg.OnExpired,
	}, nil
}

// Check asks the server for the session state and reschedules the expiry and
// warning timers from the returned deadline. A deadline already in the past
// logs out immediately.
func (w *Watcher) Check(ctx context.Context) (*Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+"/auth/session", nil)
	if err != nil {
		return nil, fmt.Errorf("create session request: %w", err)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("session request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected session status %d", resp.StatusCode)
	}

	var payload sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode session response: %w", err)
	}

	if payload.User == nil || payload.ExpiresAt == nil {
		w.cancelTimers()
		return nil, ErrNoSession
	}

	session := &Session{
		UserID:    payload.User.ID,
		Email:     payload.User.Email,
		Name:      payload.User.Name,
		ExpiresAt: time.Unix(*payload.ExpiresAt, 0),
	}

	remaining := time.Until(session.ExpiresAt)
	if remaining <= 0 {
		w.logout(context.WithoutCancel(ctx))
		return nil, ErrNoSession
	}

	w.schedule(remaining)
	return session, nil
}

// schedule replaces both timers with fresh ones for the given remaining
// lifetime. The warning timer is only armed when there is more than the lead
// left; a session checked inside the warning window expires without warning.
func (w *Watcher) schedule(remaining time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.stopTimersLocked()
	w.loggedOut = false

	w.expireTimer = time.AfterFunc(remaining, func() {
		w.logout(context.Background())
	})

	if remaining > w.warningLead {
		lead := w.warningLead
		w.warnTimer = time.AfterFunc(remaining-lead, func() {
			if w.onExpiring != nil {
				w.onExpiring(lead)
			}
		})
	}
}

// Logout ends the session on the server and fires OnExpired. Calling it on an
// already-ended session is a no-op.
func (w *Watcher) Logout(ctx context.Context) {
	w.logout(ctx)
}

func (w *Watcher) logout(ctx context.Context) {
	w.mu.Lock()
	if w.loggedOut {
		w.mu.Unlock()
		return
	}
	w.loggedOut = true
	w.stopTimersLocked()
	w.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.baseURL+"/auth/logout", nil)
	if err == nil {
		if resp, err := w.client.Do(req); err == nil {
			resp.Body.Close()
		}
	}

	if w.onExpired != nil {
		w.onExpired()
	}
}

// Stop cancels the timers without ending the session or firing callbacks.
func (w *Watcher) Stop() {
	w.cancelTimers()
}

func (w *Watcher) cancelTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopTimersLocked()
}

func (w *Watcher) stopTimersLocked() {
	if w.warnTimer != nil {
		w.warnTimer.Stop()
		w.warnTimer = nil
	}
	if w.expireTimer != nil {
		w.expireTimer.Stop()
		w.expireTimer = nil
	}
}
