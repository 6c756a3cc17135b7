// Package riot is a small Riot Games API client covering what rating lookups need.
package riot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/DoyleJ11/lol-custom-teams/internal/rating"
)

var ErrMissingAPIKey = errors.New("riot api key not set")
var ErrRateLimited = errors.New("riot rate limit retries exhausted")

// APIError is any non-2xx answer from the Riot API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("riot api error %d: %s", e.StatusCode, e.Body)
}

var platformRouting = map[string]string{
	"na":   "na1",
	"na1":  "na1",
	"br":   "br1",
	"br1":  "br1",
	"lan":  "la1",
	"la1":  "la1",
	"las":  "la2",
	"la2":  "la2",
	"oce":  "oc1",
	"oc1":  "oc1",
	"euw":  "euw1",
	"euw1": "euw1",
	"eune": "eun1",
	"eun1": "eun1",
	"tr":   "tr1",
	"tr1":  "tr1",
	"ru":   "ru",
	"kr":   "kr",
	"jp":   "jp1",
	"jp1":  "jp1",
}

// regionalRouting maps platforms to the regional hosts serving account-v1.
var regionalRouting = map[string]string{
	"na1":  "americas",
	"br1":  "americas",
	"la1":  "americas",
	"la2":  "americas",
	"oc1":  "americas",
	"euw1": "europe",
	"eun1": "europe",
	"tr1":  "europe",
	"ru":   "europe",
	"kr":   "asia",
	"jp1":  "asia",
}

// RegionalRoute returns the regional host for a platform, americas when unknown.
func RegionalRoute(platform string) string {
	if v, ok := regionalRouting[NormalizePlatform(platform)]; ok {
		return v
	}
	return "americas"
}

// NormalizePlatform maps friendly region names (na, euw, ...) to platform hosts.
func NormalizePlatform(p string) string {
	if v, ok := platformRouting[strings.ToLower(p)]; ok {
		return v
	}
	return p
}

type Options struct {
	APIKey   string
	Platform string
	// BaseURL overrides https://{platform}.api.riotgames.com.
	BaseURL string
	// RegionalBaseURL overrides https://{region}.api.riotgames.com.
	RegionalBaseURL string
	HTTPClient *http.Client
	// RequestsPerSecond defaults to the development key limit of 20.
	RequestsPerSecond float64
	Retries           int
	Logger            *zap.Logger
}

type Client struct {
	apiKey      string
	baseURL     string
	regionalURL string
	http    *http.Client
	limiter *rate.Limiter
	retries int
	logger  *zap.Logger
}

func NewClient(opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if opts.Platform == "" {
		opts.Platform = "na1"
	}
	if opts.BaseURL == "" {
		opts.BaseURL = fmt.Sprintf("https://%s.api.riotgames.com", NormalizePlatform(opts.Platform))
	}
	if opts.RegionalBaseURL == "" {
		opts.RegionalBaseURL = fmt.Sprintf("https://%s.api.riotgames.com", RegionalRoute(opts.Platform))
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 20
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Client{
		apiKey:      opts.APIKey,
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		regionalURL: strings.TrimRight(opts.RegionalBaseURL, "/"),
		http:        opts.HTTPClient,
		limiter:     rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), int(opts.RequestsPerSecond)),
		retries:     opts.Retries,
		logger:      opts.Logger,
	}, nil
}

// LeagueEntriesByPUUID returns the ranked standings of a player.
func (c *Client) LeagueEntriesByPUUID(ctx context.Context, puuid string) ([]rating.LeagueEntry, error) {
	var entries []rating.LeagueEntry
	path := "/lol/league/v4/entries/by-puuid/" + url.PathEscape(puuid)
	if err := c.getJSON(ctx, c.baseURL, path, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Account is a Riot ID as served by account-v1.
type Account struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// RiotID renders gameName#tagLine.
func (a Account) RiotID() string {
	if a.TagLine == "" {
		return a.GameName
	}
	return a.GameName + "#" + a.TagLine
}

func (c *Client) AccountByPUUID(ctx context.Context, puuid string) (Account, error) {
	var acc Account
	path := "/riot/account/v1/accounts/by-puuid/" + url.PathEscape(puuid)
	if err := c.getJSON(ctx, c.regionalURL, path, &acc); err != nil {
		return Account{}, err
	}
	return acc, nil
}

func (c *Client) getJSON(ctx context.Context, base, path string, out any) error {
	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+path, nil)
		if err != nil {
			return err
		}
		req.Header.Set("X-Riot-Token", c.apiKey)

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("riot request %s: %w", path, err)
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("read riot response: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			if attempt >= c.retries {
				return ErrRateLimited
			}
			wait := retryDelay(resp.Header.Get("Retry-After"))
			c.logger.Warn("riot rate limited, backing off",
				zap.String("path", path),
				zap.Duration("wait", wait),
				zap.Int("attempt", attempt+1))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
			continue
		case resp.StatusCode < 200 || resp.StatusCode > 299:
			return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
		}

		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode riot response: %w", err)
		}
		return nil
	}
}

var retryDelay = retryAfter

// retryAfter reads a Retry-After header in seconds, waiting at least one second.
func retryAfter(h string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil || secs < 1 {
		secs = 1
	}
	return time.Duration(secs) * time.Second
}
