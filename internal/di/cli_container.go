package di

import (
	"flag"
	"strings"

	"github.com/mikey/scamguard/internal/config"
)

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	// Classifier flags
	Provider    string
	Endpoint    string
	Credential  string
	MaxTokens   int
	Temperature float64
	TopP        float64
	MaxTextSize int

	// Bedrock flags
	BedrockRegion  string
	BedrockModelID string

	// Gemini flags
	GeminiAPIKey    string
	GeminiModelName string

	// OpenAI flags
	OpenAIAPIKey    string
	OpenAIModelName string

	// Analysis flags
	SuspicionThreshold float64
	CustomKeywords     string

	// Input flags
	InputFile  string
	Text       string
	Source     string
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// ParseFlags parses command line flags and returns a CLIFlags struct
func ParseFlags() *CLIFlags {
	flags := &CLIFlags{}

	// Classifier flags
	flag.StringVar(&flags.Provider, "provider", "heuristic", "Classifier provider (heuristic, remote, openai, bedrock, gemini)")
	flag.StringVar(&flags.Endpoint, "endpoint", "", "Remote scoring-service endpoint URL")
	flag.StringVar(&flags.Credential, "credential", "", "Bearer credential for the remote scoring service")
	flag.IntVar(&flags.MaxTokens, "max-tokens", 1000, "Maximum tokens for model response")
	flag.Float64Var(&flags.Temperature, "temperature", 0.1, "Temperature for model generation")
	flag.Float64Var(&flags.TopP, "top-p", 0.9, "Top-p for model generation")
	flag.IntVar(&flags.MaxTextSize, "max-text-size", 16384, "Maximum text size to analyze")

	// Bedrock flags
	flag.StringVar(&flags.BedrockRegion, "bedrock-region", "us-east-1", "AWS region for Bedrock")
	flag.StringVar(&flags.BedrockModelID, "bedrock-model", "anthropic.claude-v2", "Bedrock model ID")

	// Gemini flags
	flag.StringVar(&flags.GeminiAPIKey, "gemini-api-key", "", "API key for Google Gemini")
	flag.StringVar(&flags.GeminiModelName, "gemini-model", "gemini-pro", "Gemini model name")

	// OpenAI flags
	flag.StringVar(&flags.OpenAIAPIKey, "openai-api-key", "", "API key for OpenAI")
	flag.StringVar(&flags.OpenAIModelName, "openai-model", "gpt-4", "OpenAI model name")

	// Analysis flags
	flag.Float64Var(&flags.SuspicionThreshold, "threshold", 0.5, "Blended-score suspicion threshold")
	flag.StringVar(&flags.CustomKeywords, "keywords", "", "Comma-separated list of extra keywords (flagged at high severity)")

	// Input flags
	flag.StringVar(&flags.InputFile, "file", "", "Input text file (use stdin if neither -file nor -text is given)")
	flag.StringVar(&flags.Text, "text", "", "Text to analyze")
	flag.StringVar(&flags.Source, "source", "input", "Capture source (selection, input)")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	flag.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	flag.StringVar(&flags.ConfigFile, "config", "", "Path to config file (overrides command line flags)")

	flag.Parse()
	return flags
}

// CreateConfigFromFlags creates a configuration from command line flags
func CreateConfigFromFlags(flags *CLIFlags) *config.Config {
	v := config.NewEmptyViper()

	v.Set("classifier.provider", flags.Provider)
	v.Set("classifier.mock_mode", flags.Provider == "heuristic")
	v.Set("classifier.endpoint", flags.Endpoint)
	v.Set("classifier.credential", flags.Credential)

	switch flags.Provider {
	case "bedrock":
		v.Set("bedrock.region", flags.BedrockRegion)
		v.Set("bedrock.model_id", flags.BedrockModelID)
		v.Set("bedrock.max_tokens", flags.MaxTokens)
		v.Set("bedrock.temperature", flags.Temperature)
		v.Set("bedrock.top_p", flags.TopP)
		v.Set("bedrock.max_text_size", flags.MaxTextSize)
	case "gemini":
		v.Set("gemini.api_key", flags.GeminiAPIKey)
		v.Set("gemini.model_name", flags.GeminiModelName)
		v.Set("gemini.max_tokens", flags.MaxTokens)
		v.Set("gemini.temperature", flags.Temperature)
		v.Set("gemini.top_p", flags.TopP)
		v.Set("gemini.max_text_size", flags.MaxTextSize)
	case "openai":
		v.Set("openai.api_key", flags.OpenAIAPIKey)
		v.Set("openai.model_name", flags.OpenAIModelName)
		v.Set("openai.max_tokens", flags.MaxTokens)
		v.Set("openai.temperature", flags.Temperature)
		v.Set("openai.top_p", flags.TopP)
		v.Set("openai.max_text_size", flags.MaxTextSize)
	}

	v.Set("analysis.suspicion_threshold", flags.SuspicionThreshold)
	v.Set("analysis.max_text_size", flags.MaxTextSize)
	v.Set("server.frontend_type", "cli")
	v.Set("cli.verbose", flags.Verbose)
	v.Set("history.type", "memory")
	v.Set("notify.type", "log")

	return config.NewFromViper(v)
}

// ParseCustomKeywords splits the -keywords flag into trimmed phrases
func ParseCustomKeywords(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	keywords := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			keywords = append(keywords, trimmed)
		}
	}
	return keywords
}
