// Package llm generates betting recommendations through an OpenAI-compatible
// chat completions endpoint. The model is asked for strict JSON; everything
// it returns is validated downstream before it reaches the ledger.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dugoutapp/dugout/internal/domain"
)

// Client talks to a chat completions API (OpenAI or any compatible proxy).
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	log        zerolog.Logger
}

func NewClient(baseURL, apiKey, model string, log zerolog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		log:        log.With().Str("client", "llm").Logger(),
	}
}

const systemPrompt = `You are an MLB betting analyst. Given today's games and their
American odds, pick the strongest wagers. Respond with a JSON array only, no prose.
Each element: {"game": "Away @ Home", "betType": "moneyline|total", "odds": "+120",
"confidence": 1-100, "prediction": "one sentence rationale"}.`

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// pick mirrors the JSON shape the prompt asks the model for.
type pick struct {
	Game       string `json:"game"`
	BetType    string `json:"betType"`
	Odds       string `json:"odds"`
	Confidence int    `json:"confidence"`
	Prediction string `json:"prediction"`
}

// GeneratePicks asks the model for recommendations across the given games.
// Every returned input carries AI provenance on all five fields.
func (c *Client) GeneratePicks(ctx context.Context, games []domain.Game) ([]domain.RecommendationInput, error) {
	if len(games) == 0 {
		return nil, fmt.Errorf("no games to analyze")
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: describeGames(games)},
		},
		Temperature: 0.4,
		MaxTokens:   2048,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling chat completions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("chat completions returned %d: %s", resp.StatusCode, string(errBody))
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return nil, fmt.Errorf("decoding chat response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return nil, fmt.Errorf("chat completions returned no choices")
	}

	c.log.Debug().
		Int("prompt_tokens", chat.Usage.PromptTokens).
		Int("completion_tokens", chat.Usage.CompletionTokens).
		Msg("picks generated")

	picks, err := parsePicks(chat.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	inputs := make([]domain.RecommendationInput, 0, len(picks))
	for _, p := range picks {
		inputs = append(inputs, domain.RecommendationInput{
			Game:             p.Game,
			BetType:          p.BetType,
			Odds:             p.Odds,
			Confidence:       p.Confidence,
			Prediction:       p.Prediction,
			GameSource:       domain.SourceAIGenerated,
			BetTypeSource:    domain.SourceAIGenerated,
			OddsSource:       domain.SourceAIGenerated,
			ConfidenceSource: domain.SourceAIGenerated,
			PredictionSource: domain.SourceAIGenerated,
		})
	}
	return inputs, nil
}

// describeGames renders the slate as compact lines the model can reason over.
func describeGames(games []domain.Game) string {
	var b strings.Builder
	b.WriteString("Today's MLB slate:\n")
	for _, g := range games {
		fmt.Fprintf(&b, "- %s @ %s, %s; moneyline %s/%s",
			g.AwayTeam, g.HomeTeam, g.GameTime.Format("2006-01-02 15:04 MST"),
			g.AwayOdds, g.HomeOdds)
		if g.TotalLine != "" {
			fmt.Fprintf(&b, "; total %s (%s)", g.TotalLine, g.TotalOdds)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// parsePicks tolerates markdown code fences and leading prose around the array.
func parsePicks(content string) ([]pick, error) {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if i := strings.LastIndex(content, "```"); i >= 0 {
			content = content[:i]
		}
		content = strings.TrimSpace(content)
	}
	if start := strings.Index(content, "["); start > 0 {
		content = content[start:]
	}

	var picks []pick
	if err := json.Unmarshal([]byte(content), &picks); err != nil {
		return nil, fmt.Errorf("parsing model output: %w", err)
	}
	return picks, nil
}
