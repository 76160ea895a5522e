package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/studiopulse/pulse/pkg/config"
	"github.com/studiopulse/pulse/pkg/domain"
)

// Advisor turns aggregated engagement history into a short natural-language
// insight via an OpenAI-compatible endpoint. A local Ollama server qualifies;
// nothing model-specific is assumed beyond chat completions.
type Advisor struct {
	client    *openai.Client
	config    config.LLMConfig
	systemMsg string
}

// NewAdvisor creates a new LLM advisor
func NewAdvisor(cfg config.LLMConfig) *Advisor {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = cfg.Endpoint
	}

	return &Advisor{
		client:    openai.NewClientWithConfig(clientConfig),
		config:    cfg,
		systemMsg: systemPrompt,
	}
}

const systemPrompt = `You are an assistant for a photography business portal that analyzes
notification engagement statistics and suggests when to send notifications.

Respond with a single JSON object:
- summary: 2-3 sentences describing engagement patterns in plain language,
  addressed to the business owner. Never start with "The data shows" or
  "The statistics indicate"; start with the actual finding.
- recommendations: array of objects with fields category (one of the
  category names given in the input), send_hour (integer 0-23, local hour
  of day), reason (max 80 chars).

Only include categories present in the input. Base send_hour on the best
viewed hour when the sample is meaningful, otherwise suggest a sensible
business hour.`

// Insight is the parsed LLM output
type Insight struct {
	Summary         string           `json:"summary"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Recommendation is a per-category send-time suggestion
type Recommendation struct {
	Category string `json:"category"`
	SendHour int    `json:"send_hour"`
	Reason   string `json:"reason"`
}

// Advise asks the LLM for an engagement insight over the given stats.
// Retries up to 3 times when the reply carries no parseable JSON object.
func (a *Advisor) Advise(ctx context.Context, stats []domain.CategoryStats) (*Insight, error) {
	if len(stats) == 0 {
		return nil, fmt.Errorf("no engagement stats to analyze")
	}

	prompt := a.buildPrompt(stats)

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		req := openai.ChatCompletionRequest{
			Model:       a.config.Model,
			Temperature: float32(a.config.Temperature),
			MaxTokens:   a.config.MaxTokens,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: a.systemMsg},
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		}

		resp, err := a.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("llm request failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("no response from llm")
		}

		insight, err := parseInsight(resp.Choices[0].Message.Content)
		if err == nil {
			return insight, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("failed after 3 attempts: %w", lastErr)
}

// buildPrompt renders the stats table the model reasons over
func (a *Advisor) buildPrompt(stats []domain.CategoryStats) string {
	var sb strings.Builder

	sb.WriteString("Engagement statistics per notification category:\n\n")
	for _, st := range stats {
		sb.WriteString(fmt.Sprintf("- category: %s\n", st.Category))
		sb.WriteString(fmt.Sprintf("  events total: %d (viewed %d, clicked %d, dismissed %d)\n",
			st.Total, st.Viewed, st.Clicked, st.Dismissed))
		sb.WriteString(fmt.Sprintf("  average response latency: %s\n", st.AvgLatency.Round(0)))
		if st.BestHourHits > 0 {
			sb.WriteString(fmt.Sprintf("  most views at hour: %d (%d views)\n", st.BestHour, st.BestHourHits))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Respond with a JSON object as instructed.")
	return sb.String()
}

// parseInsight extracts the JSON object from the reply, tolerating prose
// around it, and clamps recommended hours into 0..23
func parseInsight(content string) (*Insight, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || start >= end {
		return nil, fmt.Errorf("no json object found in response")
	}

	var insight Insight
	if err := json.Unmarshal([]byte(content[start:end+1]), &insight); err != nil {
		return nil, fmt.Errorf("failed to parse json response: %w", err)
	}
	if insight.Summary == "" {
		return nil, fmt.Errorf("response has no summary")
	}

	for i := range insight.Recommendations {
		if insight.Recommendations[i].SendHour < 0 {
			insight.Recommendations[i].SendHour = 0
		}
		if insight.Recommendations[i].SendHour > 23 {
			insight.Recommendations[i].SendHour = 23
		}
	}

	return &insight, nil
}
