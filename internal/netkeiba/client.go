// Package netkeiba fetches race-card pages and win-odds data from netkeiba
// behind a rate-limited, retrying HTTP client. The site imposes no hard rate
// limit; the limiter is a courtesy throttle matching what a polite scraper
// would do by hand.
package netkeiba

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// ClientConfig holds the scraper endpoints and transport tuning.
type ClientConfig struct {
	RaceCardURL  string        // shutuba_past.html endpoint
	NewspaperURL string        // newspaper.html, recorded as source_url
	OddsAPIURL   string        // win-odds JSON API
	UserAgent    string
	ProxyURL     string // optional authenticated proxy
	Timeout      time.Duration
	MaxRetries   int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	RateLimit    float64 // requests per second
	CacheTTL     time.Duration
	CircuitMax   int // max consecutive failures before circuit break
}

// DefaultClientConfig returns the endpoints and the courtesy throttle the
// site is scraped with (one request per two seconds).
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		RaceCardURL:  "https://race.netkeiba.com/race/shutuba_past.html",
		NewspaperURL: "https://race.netkeiba.com/race/newspaper.html",
		OddsAPIURL:   "https://race.netkeiba.com/api/api_get_jra_odds.html",
		UserAgent: "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
			"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		Timeout:      30 * time.Second,
		MaxRetries:   3,
		RetryWaitMin: 500 * time.Millisecond,
		RetryWaitMax: 10 * time.Second,
		RateLimit:    0.5,
		CacheTTL:     60 * time.Second,
		CircuitMax:   5,
	}
}

// Client wraps retryablehttp.Client with rate limiting, a circuit breaker,
// and a short-TTL response cache for odds polling.
type Client struct {
	cfg               ClientConfig
	client            *retryablehttp.Client
	limiter           *rate.Limiter
	cache             *cache.Cache
	consecutiveErrors int
	isOpen            bool
	lastError         error
	logger            *logrus.Logger
}

// NewClient creates a new netkeiba client.
func NewClient(cfg ClientConfig, logger *logrus.Logger) (*Client, error) {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.CheckRetry = retryPolicy()
	retryClient.Logger = nil

	if cfg.ProxyURL != "" {
		proxy, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy url: %w", err)
		}
		retryClient.HTTPClient.Transport = &http.Transport{Proxy: http.ProxyURL(proxy)}
	}

	rps := cfg.RateLimit
	if rps <= 0 {
		rps = 0.5
	}

	return &Client{
		cfg:     cfg,
		client:  retryClient,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		cache:   cache.New(cfg.CacheTTL, cfg.CacheTTL*2),
		logger:  logger,
	}, nil
}

// get executes a GET request with rate limiting and circuit breaker.
func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	if c.isOpen {
		return nil, fmt.Errorf("circuit breaker open: %v", c.lastError)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ja,en-US;q=0.7,en;q=0.3")

	resp, err := c.client.Do(req)
	if err != nil {
		c.consecutiveErrors++
		c.lastError = err
		if c.consecutiveErrors >= c.cfg.CircuitMax {
			c.isOpen = true
			c.logger.WithError(err).Warnf("circuit breaker opened after %d consecutive errors", c.consecutiveErrors)
		}
		return nil, err
	}

	if resp.StatusCode < 500 {
		c.consecutiveErrors = 0
		c.isOpen = false
	}

	return resp, nil
}

// Close releases idle transport connections.
func (c *Client) Close() error {
	c.client.HTTPClient.CloseIdleConnections()
	return nil
}

// raceCardURL builds the shutuba_past.html URL for a race.
func (c *Client) raceCardURL(raceID string) string {
	params := url.Values{}
	params.Set("race_id", raceID)
	params.Set("rf", "shutuba_submenu")
	return c.cfg.RaceCardURL + "?" + params.Encode()
}

// SourceURL builds the newspaper.html URL recorded in the output document.
func (c *Client) SourceURL(raceID string) string {
	params := url.Values{}
	params.Set("race_id", raceID)
	params.Set("rf", "shutuba_submenu")
	return c.cfg.NewspaperURL + "?" + params.Encode()
}

// oddsURL builds the win-odds API URL (type=1 is the win market).
func (c *Client) oddsURL(raceID string) string {
	params := url.Values{}
	params.Set("race_id", raceID)
	params.Set("type", "1")
	return c.cfg.OddsAPIURL + "?" + params.Encode()
}

// retryPolicy retries network errors, 429 and 5xx responses.
func retryPolicy() retryablehttp.CheckRetry {
	return func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if err != nil {
			return true, err
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return true, nil
		}
		return false, nil
	}
}
