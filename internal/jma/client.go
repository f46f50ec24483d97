package jma

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/jma-weather-archive/internal/common"
	"github.com/i474232898/jma-weather-archive/internal/store"
	"github.com/i474232898/jma-weather-archive/internal/weather"
)

// DefaultDelay is the pause after every network fetch.
const DefaultDelay = 2500 * time.Millisecond

// Client fetches pages of the historical weather data search through a
// cache. Only cache misses reach the network, one request at a time,
// each followed by a fixed delay.
type Client struct {
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	cache   store.Store
	delay   time.Duration
	logger  *slog.Logger
}

// Options configures a Client.
type Options struct {
	BaseURL string
	Delay   time.Duration
	Backoff BackoffConfig
	Logger  *slog.Logger
}

// NewClient creates a new Client over cache.
func NewClient(httpClient *http.Client, cache store.Store, opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Client{
		baseURL: opts.BaseURL,
		httpCfg: HTTPClientConfig{
			Client:  httpClient,
			Backoff: opts.Backoff,
		},
		circuit: newCircuitBreaker(),
		cache:   cache,
		delay:   opts.Delay,
		logger:  opts.Logger,
	}
}

// BaseURL returns the service root the client requests.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// StationListPage returns the top-level region list page.
func (c *Client) StationListPage(ctx context.Context) (string, error) {
	return c.page(ctx, StationListURL(c.baseURL), store.StationListKey())
}

// RegionPage returns the station list page of one region.
func (c *Client) RegionPage(ctx context.Context, regionID int) (string, error) {
	return c.page(ctx, RegionURL(c.baseURL, regionID), store.RegionKey(regionID))
}

// DayPage returns the hourly observation page of one station-day.
func (c *Client) DayPage(ctx context.Context, regionID, stationID int, date time.Time) (string, error) {
	return c.page(ctx, DayURL(c.baseURL, regionID, stationID, date), store.DayKey(regionID, stationID, date))
}

// FetchDay retrieves and parses one station-day.
func (c *Client) FetchDay(ctx context.Context, st weather.Station, date time.Time) ([]weather.Observation, error) {
	content, err := c.DayPage(ctx, st.RegionID, st.ID, date)
	if err != nil {
		return nil, err
	}
	obs, err := ParseDay(st.RegionID, st.ID, date, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s %s: %w", st.Key(), date.Format(common.ISODate), err)
	}
	return obs, nil
}

func (c *Client) page(ctx context.Context, rawURL, key string) (string, error) {
	content, _, err := store.GetOrFetch(ctx, c.cache, key, func(ctx context.Context) (string, error) {
		c.logger.Info("not cached yet", "key", key, "url", rawURL)
		body, err := getBody(ctx, c.httpCfg, c.circuit, rawURL)
		if err != nil {
			return "", fmt.Errorf("fetch %s: %w", rawURL, err)
		}
		if err := sleep(ctx, c.delay); err != nil {
			return "", err
		}
		return string(body), nil
	})
	return content, err
}
