package moderation

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const anthropicVersion = "2023-06-01"

// AnthropicConfig configures the Messages API client.
type AnthropicConfig struct {
	Endpoint  string
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// AnthropicClassifier calls the Messages API. It never retries; a tripped
// breaker short-circuits calls so callers fall back immediately.
type AnthropicClassifier struct {
	cfg     AnthropicConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	log     *zap.Logger
}

var _ Classifier = (*AnthropicClassifier)(nil)

func NewAnthropicClassifier(cfg AnthropicConfig, log *zap.Logger) *AnthropicClassifier {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 800
	}
	st := gobreaker.Settings{
		Name:        "classifier",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Circuit breaker state change",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}
	return &AnthropicClassifier{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		breaker: gobreaker.NewCircuitBreaker(st),
		log:     log,
	}
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (a *AnthropicClassifier) Classify(ctx context.Context, req ClassifyRequest) (Verdict, error) {
	prompt, err := buildClassifyPrompt(req)
	if err != nil {
		return Verdict{}, err
	}
	text, err := a.complete(ctx, prompt)
	if err != nil {
		return Verdict{}, err
	}
	v, err := parseClassification(text)
	if err != nil {
		return Verdict{}, err
	}
	v.BusinessDetection = req.Business
	return v, nil
}

func (a *AnthropicClassifier) Reanalyze(ctx context.Context, req ReanalyzeRequest) (ReanalysisVerdict, error) {
	prompt, err := buildReanalyzePrompt(req)
	if err != nil {
		return ReanalysisVerdict{}, err
	}
	text, err := a.complete(ctx, prompt)
	if err != nil {
		return ReanalysisVerdict{}, err
	}
	return parseReanalysis(text)
}

// complete sends one user message and returns the first text block.
func (a *AnthropicClassifier) complete(ctx context.Context, prompt string) (string, error) {
	out, err := a.breaker.Execute(func() (interface{}, error) {
		return a.roundTrip(ctx, prompt)
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
	}
	return out.(string), nil
}

func (a *AnthropicClassifier) roundTrip(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(messagesRequest{
		Model:     a.cfg.Model,
		MaxTokens: a.cfg.MaxTokens,
		Messages:  []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.cfg.APIKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call classifier: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		a.log.Error("classifier returned error status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", b))
		return "", fmt.Errorf("classifier status %d", resp.StatusCode)
	}

	var mr messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	for _, c := range mr.Content {
		if c.Type == "text" || c.Type == "" {
			return c.Text, nil
		}
	}
	return "", fmt.Errorf("classifier response has no text content")
}
