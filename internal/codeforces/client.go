package codeforces

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/thinkscotty/cfdash/internal/cache"
	"github.com/thinkscotty/cfdash/internal/config"
	"github.com/thinkscotty/cfdash/internal/models"
)

// Client talks to the public Codeforces JSON API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	cache       cache.Cache
	cacheTTL    time.Duration
	mu          sync.Mutex
	lastRequest time.Time
	minInterval time.Duration
}

// New creates a client from config. c may be nil, in which case every
// request goes to the network.
func New(cfg config.CodeforcesConfig, c cache.Cache, ttl time.Duration) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: cfg.Timeout()},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:   cfg.UserAgent,
		cache:       c,
		cacheTTL:    ttl,
		minInterval: cfg.MinInterval(),
	}
}

// UserInfo fetches a single user's profile.
func (c *Client) UserInfo(ctx context.Context, handle string) (models.User, error) {
	var users []apiUser
	if err := c.call(ctx, "user.info", url.Values{"handles": {handle}}, false, &users); err != nil {
		return models.User{}, err
	}
	if len(users) == 0 {
		return models.User{}, &APIError{Method: "user.info", StatusCode: http.StatusOK, Comment: fmt.Sprintf("handles: User with handle %s not found", handle)}
	}
	return users[0].toModel(), nil
}

// UserSubmissions fetches every submission of a user, newest first.
func (c *Client) UserSubmissions(ctx context.Context, handle string) ([]models.Submission, error) {
	var subs []apiSubmission
	if err := c.call(ctx, "user.status", url.Values{"handle": {handle}}, false, &subs); err != nil {
		return nil, err
	}
	out := make([]models.Submission, 0, len(subs))
	for _, s := range subs {
		out = append(out, s.toModel())
	}
	return out, nil
}

// UserRating fetches a user's rated contest history in chronological order.
func (c *Client) UserRating(ctx context.Context, handle string) ([]models.PastContest, error) {
	var changes []apiRatingChange
	if err := c.call(ctx, "user.rating", url.Values{"handle": {handle}}, false, &changes); err != nil {
		return nil, err
	}
	out := make([]models.PastContest, 0, len(changes))
	for _, r := range changes {
		out = append(out, r.toModel())
	}
	return out, nil
}

// Problems fetches the full problem catalog with solve counts attached.
func (c *Client) Problems(ctx context.Context) ([]models.Problem, error) {
	var ps apiProblemset
	if err := c.call(ctx, "problemset.problems", nil, true, &ps); err != nil {
		return nil, err
	}
	return ps.toModel(), nil
}

// UpcomingContests fetches contests that have not started, earliest first.
func (c *Client) UpcomingContests(ctx context.Context) ([]models.UpcomingContest, error) {
	var contests []apiContest
	if err := c.call(ctx, "contest.list", url.Values{"gym": {"false"}}, true, &contests); err != nil {
		return nil, err
	}
	return upcoming(contests), nil
}

// call performs one API method and decodes its result into out. Cacheable
// methods read and write the raw result through the configured cache.
func (c *Client) call(ctx context.Context, method string, params url.Values, cacheable bool, out any) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	key := method
	if len(params) > 0 {
		key += "?" + params.Encode()
	}
	useCache := cacheable && c.cache != nil

	if useCache {
		raw, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			slog.Warn("Cache read failed", "key", key, "error", err)
		} else if ok {
			if err := json.Unmarshal(raw, out); err == nil {
				return nil
			}
			slog.Warn("Discarding unreadable cache entry", "key", key)
		}
	}

	raw, err := c.fetch(ctx, method, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse %s result: %w", method, err)
	}

	if useCache {
		if err := c.cache.Set(ctx, key, raw, c.cacheTTL); err != nil {
			slog.Warn("Cache write failed", "key", key, "error", err)
		}
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, method string, params url.Values) (json.RawMessage, error) {
	if err := c.waitForRateLimit(ctx); err != nil {
		return nil, err
	}

	apiURL := c.baseURL + "/" + method
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", method, err)
	}
	slog.Debug("Codeforces request", "method", method, "status", resp.StatusCode, "duration", time.Since(start))

	// Failed calls still carry an envelope with a comment, usually with a 400.
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, &APIError{Method: method, StatusCode: resp.StatusCode, Comment: http.StatusText(resp.StatusCode)}
		}
		return nil, fmt.Errorf("parse %s response: %w", method, err)
	}
	if env.Status != "OK" || resp.StatusCode != http.StatusOK {
		return nil, &APIError{Method: method, StatusCode: resp.StatusCode, Comment: env.Comment}
	}
	return env.Result, nil
}

// waitForRateLimit spaces requests at least minInterval apart.
func (c *Client) waitForRateLimit(ctx context.Context) error {
	if c.minInterval <= 0 {
		return nil
	}
	c.mu.Lock()
	elapsed := time.Since(c.lastRequest)
	wait := c.minInterval - elapsed
	if wait < 0 {
		wait = 0
	}
	c.lastRequest = time.Now().Add(wait)
	c.mu.Unlock()

	if wait == 0 {
		return nil
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
