// Package oddsclient fetches raw market snapshots from the upstream
// sportsbook-odds provider.
package oddsclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/XavierBriggs/fairedge/internal/models"
)

// Client pulls snapshots from the upstream odds feed: HTTPS GET, JSON body,
// auth via query-parameter API key (per spec §6's collaborator contract).
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	retry      *RetryPolicy
}

// Config configures a Client.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration // default 30s, per spec §6 UPSTREAM_TIMEOUT

	// RateLimitPerMinute matches the upstream feed's documented limit
	// (spec §6: "typical rate limit 500 requests/minute").
	RateLimitPerMinute int
}

// New builds a Client wired to its rate limiter and retry policy.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	perMinute := cfg.RateLimitPerMinute
	if perMinute == 0 {
		perMinute = 500
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute),
		retry:      NewRetryPolicy(3, 500*time.Millisecond),
	}
}

// FetchSnapshot pulls the current market snapshot for the given sport keys
// and market kinds. sportKeys and markets are validated against the closed
// sets before any network call is made.
func (c *Client) FetchSnapshot(ctx context.Context, sportKeys []string, markets []string) (Snapshot, error) {
	if err := validateSportKeys(sportKeys); err != nil {
		return Snapshot{}, newFetchError(KindBadResponse, err)
	}
	kinds := make([]models.MarketKind, 0, len(markets))
	for _, m := range markets {
		kinds = append(kinds, models.MarketKind(m))
	}
	if err := validateMarketKinds(kinds); err != nil {
		return Snapshot{}, newFetchError(KindBadResponse, err)
	}

	var snapshot Snapshot
	err := c.retry.Execute(ctx, func() error {
		s, err := c.fetchOnce(ctx, sportKeys, markets)
		if err != nil {
			return err
		}
		snapshot = s
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}

	return snapshot, nil
}

// Ping checks upstream reachability for the /health endpoint without
// consuming a full snapshot request or the rate limiter's budget.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+"/snapshot", nil)
	if err != nil {
		return fmt.Errorf("oddsclient: building ping request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("oddsclient: ping: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("oddsclient: ping: status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) fetchOnce(ctx context.Context, sportKeys []string, markets []string) (Snapshot, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Snapshot{}, newFetchError(KindUpstreamUnavailable, fmt.Errorf("rate limiter wait: %w", err))
	}

	q := url.Values{}
	q.Set("apiKey", c.apiKey)
	if len(sportKeys) > 0 {
		q.Set("sports", strings.Join(sportKeys, ","))
	}
	if len(markets) > 0 {
		q.Set("markets", strings.Join(markets, ","))
	}

	reqURL := c.baseURL + "/snapshot?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Snapshot{}, newFetchError(KindUpstreamUnavailable, fmt.Errorf("building request: %w", err))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Snapshot{}, newFetchError(KindUpstreamUnavailable, fmt.Errorf("request: %w", err))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return Snapshot{}, newFetchError(KindRateLimited, fmt.Errorf("status %d", resp.StatusCode))
	case resp.StatusCode >= 500:
		return Snapshot{}, newFetchError(KindUpstreamUnavailable, fmt.Errorf("status %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return Snapshot{}, newFetchError(KindBadResponse, fmt.Errorf("status %d: %s", resp.StatusCode, string(body)))
	}

	var raw wireSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return Snapshot{}, newFetchError(KindBadResponse, fmt.Errorf("decoding response: %w", err))
	}

	return parseSnapshot(raw), nil
}
