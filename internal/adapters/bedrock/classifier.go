package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/scamguard/internal/core"
	"github.com/mikey/scamguard/internal/utils"
	"go.uber.org/zap"
)

// BedrockClassifier is an implementation of the SuspicionClassifier interface using Amazon Bedrock
type BedrockClassifier struct {
	client        *bedrockruntime.Client
	modelID       string
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

// NewBedrockClassifier creates a new Bedrock classifier
func NewBedrockClassifier(
	client *bedrockruntime.Client,
	modelID string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxTextSize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *BedrockClassifier {
	return &BedrockClassifier{
		client:        client,
		modelID:       modelID,
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
func (c *BedrockClassifier) Classify(ctx context.Context, text string) (*core.AIVerdict, error) {
	// Truncate and sanitize the text before sending it out
	processed := c.textProcessor.ProcessText(text, c.maxTextSize)

	prompt := fmt.Sprintf(c.promptFormat, processed)

	// Create the request based on the model
	var payload []byte
	var err error

	if c.isAnthropicModel() {
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":               prompt,
			"max_tokens_to_sample": c.maxTokens,
			"temperature":          c.temperature,
			"top_p":                c.topP,
		})
	} else if c.isAmazonTitanModel() {
		payload, err = json.Marshal(map[string]interface{}{
			"inputText": prompt,
			"textGenerationConfig": map[string]interface{}{
				"maxTokenCount": c.maxTokens,
				"temperature":   c.temperature,
				"topP":          c.topP,
			},
		})
	} else {
		// Default to a generic format
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":      prompt,
			"max_tokens":  c.maxTokens,
			"temperature": c.temperature,
			"top_p":       c.topP,
		})
	}

	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &c.modelID,
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	responseText, err := c.extractResponseText(resp.Body)
	if err != nil {
		return nil, err
	}

	parsed, err := parseVerdictJSON(responseText)
	if err != nil {
		return nil, err
	}

	return &core.AIVerdict{
		IsSuspicious: parsed.IsSuspicious,
		Reason:       parsed.Reason,
		Confidence:   parsed.Confidence,
		Source:       core.SourceBedrock,
		Model:        c.modelID,
		ClassifiedAt: time.Now(),
	}, nil
}

// extractResponseText pulls the generated text out of the model-specific
// response envelope
func (c *BedrockClassifier) extractResponseText(body []byte) (string, error) {
	if c.isAnthropicModel() {
		var claudeResp struct {
			Completion string `json:"completion"`
		}
		if err := json.Unmarshal(body, &claudeResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		return claudeResp.Completion, nil
	}

	if c.isAmazonTitanModel() {
		var titanResp struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(body, &titanResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Titan response: %w", err)
		}
		if len(titanResp.Results) == 0 {
			return "", fmt.Errorf("empty response from Titan model")
		}
		return titanResp.Results[0].OutputText, nil
	}

	// Try a generic approach
	var genericResp struct {
		Output   string `json:"output"`
		Text     string `json:"text"`
		Response string `json:"response"`
	}
	if err := json.Unmarshal(body, &genericResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal generic response: %w", err)
	}
	switch {
	case genericResp.Output != "":
		return genericResp.Output, nil
	case genericResp.Text != "":
		return genericResp.Text, nil
	case genericResp.Response != "":
		return genericResp.Response, nil
	default:
		// Just use the raw response as a string
		return string(body), nil
	}
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

// isAnthropicModel checks if the model is an Anthropic Claude model
func (c *BedrockClassifier) isAnthropicModel() bool {
	return strings.HasPrefix(c.modelID, "anthropic.claude")
}

// isAmazonTitanModel checks if the model is an Amazon Titan model
func (c *BedrockClassifier) isAmazonTitanModel() bool {
	return strings.HasPrefix(c.modelID, "amazon.titan")
}
