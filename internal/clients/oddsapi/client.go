// Package oddsapi provides MLB schedule and moneyline/total odds fetching
// from The Odds API (v4).
package oddsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/dugoutapp/dugout/internal/domain"
)

const mlbSportKey = "baseball_mlb"

// Client for api.the-odds-api.com
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     zerolog.Logger
}

// NewClient creates a new Odds API client
func NewClient(baseURL, apiKey string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 15 * time.Second},
		log:     log.With().Str("client", "oddsapi").Logger(),
	}
}

// event mirrors the relevant slice of the upstream odds payload.
type event struct {
	HomeTeam     string    `json:"home_team"`
	AwayTeam     string    `json:"away_team"`
	CommenceTime time.Time `json:"commence_time"`
	Bookmakers   []struct {
		Key     string `json:"key"`
		Markets []struct {
			Key      string `json:"key"`
			Outcomes []struct {
				Name  string   `json:"name"`
				Price int      `json:"price"`
				Point *float64 `json:"point"`
			} `json:"outcomes"`
		} `json:"markets"`
	} `json:"bookmakers"`
}

// FetchGames pulls today's MLB slate with moneyline and total markets in
// American odds and converts it to game inputs tagged with the provider's
// provenance.
func (c *Client) FetchGames(ctx context.Context) ([]domain.GameInput, error) {
	u := fmt.Sprintf("%s/v4/sports/%s/odds?%s", c.baseURL, mlbSportKey, url.Values{
		"apiKey":     {c.apiKey},
		"regions":    {"us"},
		"markets":    {"h2h,totals"},
		"oddsFormat": {"american"},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	c.log.Debug().Msg("Fetching MLB odds")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("odds request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("odds API returned status %d", resp.StatusCode)
	}

	var events []event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("failed to parse odds response: %w", err)
	}

	inputs := make([]domain.GameInput, 0, len(events))
	for _, ev := range events {
		inputs = append(inputs, eventToInput(ev))
	}

	c.log.Info().Int("games", len(inputs)).Msg("Fetched MLB slate")
	return inputs, nil
}

// eventToInput flattens the first bookmaker that carries each market.
// Missing markets leave the corresponding odds fields empty; the ledger
// treats game odds as display data, not settlement input.
func eventToInput(ev event) domain.GameInput {
	in := domain.GameInput{
		HomeTeam: ev.HomeTeam,
		AwayTeam: ev.AwayTeam,
		GameTime: ev.CommenceTime,
		Source:   domain.SourceOddsAPI,
	}

	for _, bm := range ev.Bookmakers {
		for _, market := range bm.Markets {
			switch market.Key {
			case "h2h":
				if in.HomeOdds != "" {
					continue
				}
				for _, o := range market.Outcomes {
					if o.Name == ev.HomeTeam {
						in.HomeOdds = formatAmerican(o.Price)
					}
					if o.Name == ev.AwayTeam {
						in.AwayOdds = formatAmerican(o.Price)
					}
				}
			case "totals":
				if in.TotalLine != "" {
					continue
				}
				for _, o := range market.Outcomes {
					if o.Name == "Over" {
						if o.Point != nil {
							in.TotalLine = strconv.FormatFloat(*o.Point, 'f', -1, 64)
						}
						in.TotalOdds = formatAmerican(o.Price)
					}
				}
			}
		}
	}

	return in
}

// formatAmerican renders an integer price as a signed American odds string.
func formatAmerican(price int) string {
	if price > 0 {
		return fmt.Sprintf("+%d", price)
	}
	return strconv.Itoa(price)
}
