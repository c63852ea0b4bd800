package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mikey/scamguard/internal/config"
	"github.com/mikey/scamguard/internal/core"
	"github.com/mikey/scamguard/internal/utils"
	"go.uber.org/zap"
)

// defaultReason is used when the scoring service omits an explanation
const defaultReason = "No explanation provided"

// defaultConfidence is used when the scoring service omits a confidence
const defaultConfidence = 0.5

// Classifier delegates suspicion scoring to an external service. Requests
// carry the text and a bearer credential; responses may omit any field, in
// which case safe defaults apply. Endpoint and credential are read from the
// settings store on every request so runtime reconfiguration takes effect
// without a restart.
type Classifier struct {
	settings      *config.SettingsStore
	httpClient    *http.Client
	maxTextSize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// scoreRequest is the wire shape of a delegated classification request
type scoreRequest struct {
	Text string `json:"text"`
}

// scoreResponse is the wire shape of a delegated classification response.
// Pointer fields distinguish omitted values from zero values.
type scoreResponse struct {
	IsSuspicious *bool    `json:"isSuspicious"`
	Reason       *string  `json:"reason"`
	Confidence   *float64 `json:"confidence"`
}

// NewClassifier creates a new remote scoring-service classifier
func NewClassifier(
	settings *config.SettingsStore,
	timeout time.Duration,
	maxTextSize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *Classifier {
	return &Classifier{
		settings:      settings,
		httpClient:    &http.Client{Timeout: timeout},
		maxTextSize:   maxTextSize,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// Classify posts the text to the scoring service and maps the response onto
// an AIVerdict. Any transport, status, or decode failure is returned as an
// error so the fallback wrapper can recover with the heuristic evaluator.
func (c *Classifier) Classify(ctx context.Context, text string) (*core.AIVerdict, error) {
	settings := c.settings.Get()
	if settings.Endpoint == "" {
		return nil, fmt.Errorf("no scoring endpoint configured")
	}

	processed := c.textProcessor.ProcessText(text, c.maxTextSize)

	payload, err := json.Marshal(scoreRequest{Text: processed})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal scoring request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, settings.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build scoring request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+settings.Credential)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scoring service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("scoring service returned status %d: %s", resp.StatusCode, body)
	}

	var decoded scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode scoring response: %w", err)
	}

	verdict := &core.AIVerdict{
		IsSuspicious: false,
		Reason:       defaultReason,
		Confidence:   defaultConfidence,
		Source:       core.SourceRemote,
		Model:        settings.Endpoint,
		ClassifiedAt: time.Now(),
	}
	if decoded.IsSuspicious != nil {
		verdict.IsSuspicious = *decoded.IsSuspicious
	}
	if decoded.Reason != nil && *decoded.Reason != "" {
		verdict.Reason = *decoded.Reason
	}
	if decoded.Confidence != nil {
		verdict.Confidence = *decoded.Confidence
	}

	c.logger.Debug("Delegated classification succeeded",
		zap.Bool("suspicious", verdict.IsSuspicious),
		zap.Float64("confidence", verdict.Confidence))

	return verdict, nil
}
