package prose

import "github.com/nyashahama/fluir-backend/internal/recommend"

// NewAnthropicWriterAt points the Anthropic writer at a test server.
func NewAnthropicWriterAt(endpoint, apiKey, model string) Writer {
	return newAnthropicWriter(endpoint, apiKey, model)
}

func BuildPrompt(recs []recommend.Recommendation) string { return buildPrompt(group(recs)) }

var ParseReply = parseReply
