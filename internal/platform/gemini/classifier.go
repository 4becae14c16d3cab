// Package gemini implements the classification.Classifier interface using
// Google's Gemini API as the emotion model. It is selected when the
// classifier provider is configured as "gemini".
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/moodlog-api/internal/classification"
	"github.com/phrazzld/moodlog-api/internal/config"
	"google.golang.org/genai"
)

// promptTemplate instructs the model to behave like a fixed-label emotion
// classifier and answer with bare JSON the adapter can parse.
const promptTemplate = `You are an emotion classifier. Score the following text against
exactly these labels: joy, sadness, anger, fear, disgust, surprise, neutral.
Respond with only a JSON array of objects of the form
{"label": "<label>", "score": <probability between 0 and 1>} covering every
label, with scores summing to 1.

Text:
%s`

// Classifier scores text by asking a Gemini model for a per-label
// probability distribution and normalizing the reply.
type Classifier struct {
	logger  *slog.Logger
	client  *genai.Client
	model   string
	timeout time.Duration
}

// Ensure Classifier implements the classification.Classifier interface
var _ classification.Classifier = (*Classifier)(nil)

// NewClassifier creates a new Gemini-backed classifier with the provided
// configuration. Returns an error if the API key or model is missing or the
// client cannot be constructed.
func NewClassifier(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.ClassifierConfig,
) (*Classifier, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", classification.ErrInvalidConfig)
	}

	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: model cannot be empty", classification.ErrInvalidConfig)
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 || timeout > 60*time.Second {
		return nil, fmt.Errorf("%w: timeout must be in (0s, 60s], got %s",
			classification.ErrInvalidConfig, timeout)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			classification.ErrInvalidConfig, err)
	}

	return &Classifier{
		logger:  logger.With(slog.String("component", "gemini_classifier")),
		client:  client,
		model:   cfg.Model,
		timeout: timeout,
	}, nil
}

// Classify implements classification.Classifier.Classify.
// All failure modes (transport errors, empty candidates, unparseable
// replies) are reported as classification.ErrUnavailable.
func (c *Classifier) Classify(ctx context.Context, text string) (*classification.Result, error) {
	if text == "" {
		return nil, classification.ErrEmptyText
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := fmt.Sprintf(promptTemplate, text)

	c.logger.DebugContext(ctx, "calling Gemini classifier",
		"model", c.model,
		"text_length", len(text))

	resp, err := c.client.Models.GenerateContent(
		ctx,
		c.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		c.logger.ErrorContext(ctx, "Gemini call failed", "error", err)
		return nil, fmt.Errorf("%w: %v", classification.ErrUnavailable, err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		c.logger.ErrorContext(ctx, "Gemini returned no candidates")
		return nil, fmt.Errorf("%w: empty response", classification.ErrUnavailable)
	}

	reply := resp.Text()
	var raw []classification.RawScore
	if err := json.Unmarshal([]byte(reply), &raw); err != nil {
		c.logger.ErrorContext(ctx, "unparseable Gemini reply",
			"error", err,
			"reply_length", len(reply))
		return nil, fmt.Errorf("%w: unparseable reply: %v", classification.ErrUnavailable, err)
	}

	result := classification.Normalize(raw)
	c.logger.DebugContext(ctx, "classified text",
		"top_label", result.Label,
		"top_score", result.Score)
	return result, nil
}
