package portal

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ardika/attendman/internal/model"
)

const (
	loginPath = "/index.php/login/validasi"

	// userAgent identifies us to the portal on every request.
	userAgent = "Mozilla/5.0 (compatible; attendman/1.0)"
)

// Session is the credential obtained from a successful login: the portal's
// session cookies flattened into one Cookie header value.
type Session struct {
	Cookie    string
	CreatedAt time.Time
}

// Valid reports whether the session carries a usable credential. Heuristic:
// the portal gives no expiry, so real validity only shows when a fetch comes
// back as a login page.
func (s *Session) Valid() bool {
	return s != nil && s.Cookie != ""
}

// SessionClient authenticates against the portal's login form. The process
// holds exactly one live session at a time; re-authentication replaces it,
// and a detected expiry invalidates it for everyone sharing the client.
type SessionClient struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
	username   string
	password   string

	mu      sync.Mutex
	current *Session
}

// NewSessionClient builds a SessionClient for the given portal base URL and
// login credentials.
func NewSessionClient(httpClient *http.Client, logger *slog.Logger, baseURL, username, password string) *SessionClient {
	return &SessionClient{
		httpClient: httpClient,
		logger:     logger,
		baseURL:    strings.TrimRight(baseURL, "/"),
		username:   username,
		password:   password,
	}
}

// Authenticate submits the login form and harvests the session cookies.
// A successful login answers with a redirect, which is not followed; the
// Set-Cookie headers of the first response are the whole point. The new
// session replaces any previous one. Failures:
//
//   - AuthError{Network}: transport-level error
//   - AuthError{ProtocolMismatch}: the portal answered without any cookie,
//     meaning the login flow no longer looks like what we expect
func (c *SessionClient) Authenticate(ctx context.Context) (*Session, error) {
	form := url.Values{}
	form.Set("username", c.username)
	form.Set("password", c.password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+loginPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &model.AuthError{Kind: model.AuthErrorNetwork, Detail: "building login request", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", userAgent)

	// Shallow copy so the redirect policy does not leak into the shared
	// client used by the extractor.
	client := *c.httpClient
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	resp, err := client.Do(req)
	if err != nil {
		c.logger.Error("portal login request failed",
			slog.String("error", err.Error()),
		)
		return nil, &model.AuthError{Kind: model.AuthErrorNetwork, Err: err}
	}
	defer resp.Body.Close()

	cookies := resp.Cookies()
	if len(cookies) == 0 {
		c.logger.Error("portal login returned no session cookie",
			slog.Int("http_status", resp.StatusCode),
		)
		return nil, &model.AuthError{
			Kind:   model.AuthErrorProtocolMismatch,
			Detail: "no session cookie in login response",
		}
	}

	pairs := make([]string, 0, len(cookies))
	for _, ck := range cookies {
		pairs = append(pairs, ck.Name+"="+ck.Value)
	}

	session := &Session{
		Cookie:    strings.Join(pairs, "; "),
		CreatedAt: time.Now(),
	}

	c.mu.Lock()
	c.current = session
	c.mu.Unlock()

	c.logger.Info("portal login succeeded",
		slog.Int("cookie_count", len(cookies)),
	)

	return session, nil
}

// Current returns the live session, or nil when none exists.
func (c *SessionClient) Current() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Invalidate drops the live session. Called when an extraction detects that
// the portal served its login page, so later fetches in the same run fail
// fast instead of hammering a dead session.
func (c *SessionClient) Invalidate() {
	c.mu.Lock()
	c.current = nil
	c.mu.Unlock()

	c.logger.Warn("portal session invalidated")
}
