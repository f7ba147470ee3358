package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"lacrosse-tracker/internal/config"
	"lacrosse-tracker/internal/domain"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// ErrDisabled is returned when no API key is configured. Callers treat
// the AI service as supplementary: a failed or disabled call degrades
// the feature, never the session.
var ErrDisabled = errors.New("AI features are disabled")

type Client struct {
	apiKey string
	model  string
	client *fasthttp.Client
	logger zerolog.Logger
}

func NewClient(cfg *config.Config, logger zerolog.Logger) *Client {
	return &Client{
		apiKey: cfg.GeminiAPIKey,
		model:  cfg.GeminiModel,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         cfg.AITimeout,
			WriteTimeout:        cfg.AITimeout,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		logger: logger,
	}
}

func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// SummarizeGame asks the model for a short narrative recap of a finished
// game.
func (c *Client) SummarizeGame(ctx context.Context, g *domain.Game, lines map[string]domain.StatLine) (string, error) {
	prompt := buildSummaryPrompt(g, lines)
	return c.generate(ctx, prompt)
}

// AnalyzePlayer asks the model for coaching feedback on one player's
// aggregated stat line.
func (c *Client) AnalyzePlayer(ctx context.Context, player domain.Player, line domain.StatLine) (string, error) {
	prompt := buildAnalysisPrompt(player, line)
	return c.generate(ctx, prompt)
}

// ExtractRoster turns free-form pasted text into typed player records.
// The model is asked for a JSON array; anything that does not parse is
// an error surfaced to the caller, nothing is persisted.
func (c *Client) ExtractRoster(ctx context.Context, text string) ([]domain.Player, error) {
	prompt := buildRosterPrompt(text)
	raw, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return ParseRosterResponse(raw)
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	if !c.Enabled() {
		return "", ErrDisabled
	}

	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}

	start := time.Now()
	resp, err := doRequest[generateResponse](ctx, c, reqBody)
	if err != nil {
		return "", err
	}
	c.logger.Debug().Dur("duration", time.Since(start)).Msg("generate call completed")

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty model response")
	}
	return strings.TrimSpace(resp.Candidates[0].Content.Parts[0].Text), nil
}

func doRequest[T any](ctx context.Context, client *Client, body any) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	url := fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent", client.model)

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("x-goog-api-key", client.apiKey)
	req.SetBody(payload)

	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}
	} else {
		if err := client.client.Do(req, resp); err != nil {
			return nil, err
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("API error: %d", resp.StatusCode())
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}
