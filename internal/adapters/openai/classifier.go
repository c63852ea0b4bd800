package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mikey/scamguard/internal/core"
	"github.com/mikey/scamguard/internal/utils"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIClassifier is an implementation of the SuspicionClassifier interface using OpenAI
type OpenAIClassifier struct {
	client        *openai.Client
	modelName     string
	maxTokens     int
	temperature   float32
	topP          float32
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

// NewOpenAIClassifier creates a new OpenAI classifier
func NewOpenAIClassifier(
	client *openai.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxTextSize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *OpenAIClassifier {
	return &OpenAIClassifier{
		client:        client,
		modelName:     modelName,
		maxTokens:     maxTokens,
		temperature:   temperature,
		topP:          topP,
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
	}
}

// Classify analyzes a message to determine if it's a scam attempt
func (c *OpenAIClassifier) Classify(ctx context.Context, text string) (*core.AIVerdict, error) {
	// Truncate and sanitize the text before sending it out
	processed := c.textProcessor.ProcessText(text, c.maxTextSize)

	prompt := fmt.Sprintf(c.promptFormat, processed)

	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a scam detection system. Respond only with JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
	}

	responseFormat := openai.ChatCompletionResponseFormat{
		Type: "json",
	}
	req.ResponseFormat = &responseFormat

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from OpenAI")
	}

	parsed, err := parseVerdictJSON(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	return &core.AIVerdict{
		IsSuspicious: parsed.IsSuspicious,
		Reason:       parsed.Reason,
		Confidence:   parsed.Confidence,
		Source:       core.SourceOpenAI,
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

	// Try to extract JSON from the text response
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
