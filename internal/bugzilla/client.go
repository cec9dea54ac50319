package bugzilla

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/Afrawles/weekly/internal/report"
)

// Credentials authenticate buglist requests. Either field may be empty.
type Credentials struct {
	Cookie string
	APIKey string
}

// Session supplies credentials for each request.
type Session interface {
	Credentials(ctx context.Context) (Credentials, error)
}

// StaticSession always returns the same credentials.
type StaticSession Credentials

func (s StaticSession) Credentials(context.Context) (Credentials, error) {
	if s.Cookie == "" && s.APIKey == "" {
		return Credentials{}, errors.New("no Bugzilla cookie or API key configured")
	}
	return Credentials(s), nil
}

// Fetcher runs a buglist query URL and returns the raw response body.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

type Client struct {
	session    Session
	httpClient *http.Client
	limiter    *rate.Limiter
	log        zerolog.Logger
}

var _ Fetcher = (*Client)(nil)

// NewClient returns a client allowing at most perSecond requests per second.
// A non-positive perSecond disables pacing.
func NewClient(session Session, perSecond float64, log zerolog.Logger) *Client {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &Client{
		session:    session,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		limiter:    rate.NewLimiter(limit, 1),
		log:        log,
	}
}

func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", report.TransportError("bugzilla", err)
	}

	creds, err := c.session.Credentials(ctx)
	if err != nil {
		return "", report.TransportError("bugzilla session", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", report.TransportError("bugzilla", fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "text/csv")
	if creds.Cookie != "" {
		req.Header.Set("Cookie", creds.Cookie)
	}
	if creds.APIKey != "" {
		req.Header.Set("X-BUGZILLA-API-KEY", creds.APIKey)
	}

	c.log.Debug().Str("url", url).Msg("fetching buglist")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", report.TransportError("bugzilla", fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", report.TransportError("bugzilla", fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return "", report.TransportError("bugzilla", fmt.Errorf("API error (status %d): %s", resp.StatusCode, snippet(body)))
	}
	// An expired session gets the HTML login page with a 200.
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		return "", report.TransportError("bugzilla", errors.New("got an HTML page instead of CSV, is the session still valid?"))
	}

	c.log.Debug().Int("bytes", len(body)).Msg("buglist fetched")
	return string(body), nil
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
