package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/scamguard/internal/core"
	"github.com/mikey/scamguard/internal/utils"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// GeminiClassifier is an implementation of the SuspicionClassifier interface using Google Gemini
type GeminiClassifier struct {
	client        *genai.Client
	model         *genai.GenerativeModel
	modelName     string
	maxTextSize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
	promptFormat  string
}

// verdictResponse represents the structured response from the model
type verdictResponse struct {
	IsSuspicious bool    `json:"is_suspicious"`
	Confidence   float64 `json:"confidence"`
	Reason       string  `json:"reason"`
}

// NewGeminiClassifier creates a new Gemini classifier
func NewGeminiClassifier(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxTextSize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) (*GeminiClassifier, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))

	return &GeminiClassifier{
		client:        client,
		model:         model,
		modelName:     modelName,
		maxTextSize:   maxTextSize,
		logger:        logger,
		textProcessor: textProcessor,
		promptFormat: `You are a scam detection system. Analyze the following message and determine if it's a social-engineering or scam attempt.
Respond with a JSON object containing:
- is_suspicious: boolean (true if the message looks like a scam)
- confidence: number between 0 and 1 (how confident you are in your assessment)
- reason: string (brief explanation of why the message is or is not suspicious)

Message:
%s

Respond only with the JSON object and nothing else.`,
	}, nil
}

// Close closes the Gemini client
func (c *GeminiClassifier) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Classify analyzes a message to determine if it's a scam attempt
func (c *GeminiClassifier) Classify(ctx context.Context, text string) (*core.AIVerdict, error) {
	// Truncate and sanitize the text before sending it out
	processed := c.textProcessor.ProcessText(text, c.maxTextSize)

	prompt := fmt.Sprintf(c.promptFormat, processed)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	responseText := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])

	parsed, err := parseVerdictJSON(responseText)
	if err != nil {
		return nil, err
	}

	return &core.AIVerdict{
		IsSuspicious: parsed.IsSuspicious,
		Reason:       parsed.Reason,
		Confidence:   parsed.Confidence,
		Source:       core.SourceGemini,
		Model:        c.modelName,
		ClassifiedAt: time.Now(),
	}, nil
}

// parseVerdictJSON decodes the model output, tolerating prose wrapped around
// the JSON object
func parseVerdictJSON(responseText string) (*verdictResponse, error) {
	var parsed verdictResponse
	if err := json.Unmarshal([]byte(responseText), &parsed); err == nil {
		return &parsed, nil
	}

	jsonStart := 0
	jsonEnd := len(responseText)
	for i := 0; i < len(responseText); i++ {
		if responseText[i] == '{' {
			jsonStart = i
			break
		}
	}
	for i := len(responseText) - 1; i >= 0; i-- {
		if responseText[i] == '}' {
			jsonEnd = i + 1
			break
		}
	}

	if jsonStart >= jsonEnd {
		return nil, fmt.Errorf("failed to extract JSON from model response")
	}
	if err := json.Unmarshal([]byte(responseText[jsonStart:jsonEnd]), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse model response as JSON: %w", err)
	}
	return &parsed, nil
}
