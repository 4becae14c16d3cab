// Package huggingface implements the classification.Classifier interface
// against the HuggingFace inference REST API.
package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/moodlog-api/internal/classification"
	"github.com/phrazzld/moodlog-api/internal/config"
)

// defaultBaseURL is the HuggingFace inference endpoint prefix; the model
// name from configuration is appended to it.
const defaultBaseURL = "https://api-inference.huggingface.co/models/"

// Classifier calls a hosted emotion model over the HuggingFace inference
// API and normalizes its response into the canonical ranked distribution.
type Classifier struct {
	logger   *slog.Logger
	client   *http.Client
	url      string
	apiToken string
}

// Ensure Classifier implements the classification.Classifier interface
var _ classification.Classifier = (*Classifier)(nil)

// NewClassifier creates a new HuggingFace-backed classifier from the given
// configuration. The HTTP client timeout bounds every classification call
// and must stay within (0s, 60s].
func NewClassifier(logger *slog.Logger, cfg config.ClassifierConfig) (*Classifier, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.Model == "" {
		return nil, fmt.Errorf("%w: model cannot be empty", classification.ErrInvalidConfig)
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 || timeout > 60*time.Second {
		return nil, fmt.Errorf("%w: timeout must be in (0s, 60s], got %s",
			classification.ErrInvalidConfig, timeout)
	}

	return &Classifier{
		logger:   logger.With(slog.String("component", "huggingface_classifier")),
		client:   &http.Client{Timeout: timeout},
		url:      defaultBaseURL + cfg.Model,
		apiToken: cfg.APIToken,
	}, nil
}

// inferenceRequest is the request body for text classification models.
type inferenceRequest struct {
	Inputs string `json:"inputs"`
}

// Classify implements classification.Classifier.Classify.
// Network errors, timeouts, non-2xx statuses, and malformed payloads are all
// reported as classification.ErrUnavailable.
func (c *Classifier) Classify(ctx context.Context, text string) (*classification.Result, error) {
	if text == "" {
		return nil, classification.ErrEmptyText
	}

	body, err := json.Marshal(inferenceRequest{Inputs: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal inference request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}

	c.logger.DebugContext(ctx, "calling emotion classifier",
		"text_length", len(text))

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "classifier request failed", "error", err)
		return nil, fmt.Errorf("%w: %v", classification.ErrUnavailable, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.ErrorContext(ctx, "failed to close response body", "error", err)
		}
	}()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to read classifier response", "error", err)
		return nil, fmt.Errorf("%w: %v", classification.ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.ErrorContext(ctx, "classifier returned non-success status",
			"status", resp.StatusCode)
		return nil, fmt.Errorf("%w: status %d", classification.ErrUnavailable, resp.StatusCode)
	}

	raw, err := decodeDistribution(payload)
	if err != nil {
		c.logger.ErrorContext(ctx, "malformed classifier payload", "error", err)
		return nil, fmt.Errorf("%w: %v", classification.ErrUnavailable, err)
	}

	result := classification.Normalize(raw)
	c.logger.DebugContext(ctx, "classified text",
		"top_label", result.Label,
		"top_score", result.Score,
		"labels", len(result.Distribution))
	return result, nil
}

// decodeDistribution parses the inference payload, which arrives either as
// a flat list of label/score pairs or as that list wrapped in one extra
// array layer. Both shapes unwrap to the same flat list.
func decodeDistribution(payload []byte) ([]classification.RawScore, error) {
	var wrapped [][]classification.RawScore
	if err := json.Unmarshal(payload, &wrapped); err == nil {
		if len(wrapped) == 0 {
			// An empty list parses as either shape; normalization turns it
			// into the neutral default.
			return []classification.RawScore{}, nil
		}
		return wrapped[0], nil
	}

	var flat []classification.RawScore
	if err := json.Unmarshal(payload, &flat); err != nil {
		return nil, fmt.Errorf("unrecognized distribution shape: %w", err)
	}
	return flat, nil
}
