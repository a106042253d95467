// Package client is the Go consumer of the statistics API used by chart
// tooling. It caches query responses for a short window keyed by the
// filter parameters and offers a debounced querier for interactive use.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"roi-report/internal/analysis"
	"roi-report/internal/core/port"
)

// DefaultTTL is how long a cached query response stays valid.
const DefaultTTL = 5 * time.Minute

// Client queries the statistics API, consulting the cache before issuing
// a network request.
type Client struct {
	baseURL string
	http    *http.Client
	cache   Cache
	ttl     time.Duration
	logger  *slog.Logger
}

// Options tunes a Client. Zero values fall back to defaults: a fresh
// in-memory cache, DefaultTTL and http.DefaultClient.
type Options struct {
	Cache      Cache
	TTL        time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// New creates a client for the API at baseURL.
func New(baseURL string, opts Options) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    opts.HTTPClient,
		cache:   opts.Cache,
		ttl:     opts.TTL,
		logger:  opts.Logger,
	}
	if c.http == nil {
		c.http = http.DefaultClient
	}
	if c.cache == nil {
		c.cache = NewMemoryCache()
	}
	if c.ttl <= 0 {
		c.ttl = DefaultTTL
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// cacheKey derives a stable key from the filter parameters. url.Values
// encodes keys in sorted order, so equal filters share a key.
func cacheKey(filter port.StatisticsFilter) string {
	return "query_cache_" + filterQuery(filter).Encode()
}

func filterQuery(filter port.StatisticsFilter) url.Values {
	q := url.Values{}
	if filter.AppName != "" {
		q.Set("appName", filter.AppName)
	}
	if filter.BidType != "" {
		q.Set("bidType", filter.BidType)
	}
	if filter.Country != "" {
		q.Set("country", filter.Country)
	}
	if filter.StartDate != nil {
		q.Set("startDate", filter.StartDate.Format("2006-01-02"))
	}
	if filter.EndDate != nil {
		q.Set("endDate", filter.EndDate.Format("2006-01-02"))
	}
	return q
}

type statisticsEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Data []port.StatisticsRow `json:"data"`
	} `json:"data"`
}

// Statistics returns the rows matching the filter, from cache when a
// fresh enough entry exists. Cache failures are logged and treated as
// misses; the query itself never fails because of the cache.
func (c *Client) Statistics(ctx context.Context, filter port.StatisticsFilter) ([]port.StatisticsRow, error) {
	key := cacheKey(filter)
	if cached, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn("cache read error", slog.Any("error", err))
	} else if cached != nil {
		var env statisticsEnvelope
		if err = json.Unmarshal(cached, &env); err == nil {
			return env.Data.Data, nil
		}
		c.logger.Warn("cache decode error", slog.Any("error", err))
	}

	body, err := c.get(ctx, "/api/v1/statistics", filterQuery(filter))
	if err != nil {
		return nil, err
	}

	var env statisticsEnvelope
	if err = json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode statistics response: %w", err)
	}
	if !env.Success {
		return nil, fmt.Errorf("statistics query failed: %s", env.Message)
	}

	if err = c.cache.Set(ctx, key, body, c.ttl); err != nil {
		c.logger.Warn("cache write error", slog.Any("error", err))
	}
	return env.Data.Data, nil
}

// AnalyzedStatistics queries the rows matching the filter and runs the
// chart pipeline over them, so callers get plot-ready points directly.
func (c *Client) AnalyzedStatistics(ctx context.Context, filter port.StatisticsFilter, params analysis.Params) ([]analysis.Point, error) {
	rows, err := c.Statistics(ctx, filter)
	if err != nil {
		return nil, err
	}
	return analysis.Analyze(rows, params), nil
}

// FilterOptions fetches the distinct filter values. Options are cheap and
// change with every import, so they bypass the cache.
func (c *Client) FilterOptions(ctx context.Context) (*port.FilterOptions, error) {
	body, err := c.get(ctx, "/api/v1/statistics/filters", nil)
	if err != nil {
		return nil, err
	}
	var env struct {
		Success bool               `json:"success"`
		Message string             `json:"message"`
		Data    port.FilterOptions `json:"data"`
	}
	if err = json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode filter options response: %w", err)
	}
	if !env.Success {
		return nil, fmt.Errorf("filter options query failed: %s", env.Message)
	}
	return &env.Data, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}
	return body, nil
}
