// Package hltb wraps the HowLongToBeat lookup API used to enrich
// imported game titles with cover art and time-to-beat estimates.
package hltb

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

// Game is one lookup result. Time estimates are hours.
type Game struct {
	ID                  int     `json:"id"`
	HltbID              int     `json:"hltbId"`
	Title               string  `json:"title"`
	ImageURL            string  `json:"imageUrl"`
	SteamAppID          *int    `json:"steamAppId"`
	GogAppID            *int    `json:"gogAppId"`
	MainStory           float64 `json:"mainStory"`
	MainStoryWithExtras float64 `json:"mainStoryWithExtras"`
	Completionist       float64 `json:"completionist"`
	LastUpdatedAt       string  `json:"lastUpdatedAt"`
}

// Client is a HowLongToBeat API client. The API is unauthenticated and
// has no documented concurrency budget, so every outbound call goes
// through a shared rate limiter.
type Client struct {
	client  *resty.Client
	baseURL string
	limiter *rate.Limiter
}

// ClientConfig holds configuration for the HowLongToBeat client.
type ClientConfig struct {
	BaseURL       string
	Timeout       time.Duration
	RatePerSecond float64
	RateBurst     int
}

type searchRequest struct {
	SearchTerm string `json:"searchTerm"`
	MatchType  int    `json:"matchType"`
	Platform   string `json:"platform"`
}

// NewClient creates a new HowLongToBeat client.
// Parameters:
//   - cfg: client configuration including base URL and rate limits.
// Returns:
//   - *Client: initialized client.
func NewClient(cfg *ClientConfig) *Client {
	client := resty.New()
	client.SetHeader("Content-Type", "application/json")

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	client.SetTimeout(timeout)

	perSecond := cfg.RatePerSecond
	if perSecond <= 0 {
		perSecond = 2
	}
	burst := cfg.RateBurst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		client:  client,
		baseURL: cfg.BaseURL,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// Search looks up games matching a title.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - title: free-text game title to search for.
// Returns:
//   - []Game: ranked candidates; empty when nothing matches.
//   - error: non-nil on transport failure or a non-2xx response.
func (c *Client) Search(ctx context.Context, title string) ([]Game, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var games []Game
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(&searchRequest{
			SearchTerm: title,
			MatchType:  1,
			Platform:   "",
		}).
		SetResult(&games).
		Post(c.baseURL + "/hltb/search")
	if err != nil {
		return nil, fmt.Errorf("hltb search request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("hltb search returned status %d", resp.StatusCode())
	}

	return games, nil
}

// GetByID fetches a single game by its HowLongToBeat ID.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - id: HowLongToBeat game ID.
// Returns:
//   - *Game: the game if found.
//   - error: non-nil on transport failure or a non-2xx response.
func (c *Client) GetByID(ctx context.Context, id int) (*Game, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var game Game
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&game).
		Get(fmt.Sprintf("%s/hltb/%d", c.baseURL, id))
	if err != nil {
		return nil, fmt.Errorf("hltb lookup request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("hltb lookup returned status %d", resp.StatusCode())
	}

	return &game, nil
}
