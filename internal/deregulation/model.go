package deregulation

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Model produces a narrative deregulation analysis for one agency.
// Implementations must be safe for concurrent use.
type Model interface {
	Analyze(ctx context.Context, prompt string) (string, error)
}

const analysisSystemPrompt = "You are a regulatory analyst. Assess how " +
	"actively a federal agency is deregulating based on its recent " +
	"amendment activity. Respond with exactly two lines:\n" +
	"LIKELIHOOD: [strong|moderate|low|unlikely]\n" +
	"EXPLANATION: [one or two sentences]"

type openAIModel struct {
	client    *openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
}

// NewModel creates an analysis model from configuration. Returns nil
// when no API key is configured.
func NewModel(cfg *ModelConfig) Model {
	if !cfg.Configured() {
		return nil
	}

	return &openAIModel{
		client:    openai.NewClient(cfg.APIKey),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.TimeoutDuration(),
	}
}

func (m *openAIModel) Analyze(ctx context.Context, prompt string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	resp, err := m.client.CreateChatCompletion(reqCtx, openai.ChatCompletionRequest{
		Model:     m.model,
		MaxTokens: m.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: analysisSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty response")
	}

	return resp.Choices[0].Message.Content, nil
}

// buildPrompt assembles the user prompt for one agency's analysis.
func buildPrompt(agencyName string, revisionDates []string, refCount int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Agency: %s\n", agencyName)
	fmt.Fprintf(&b, "CFR references: %d\n", refCount)
	fmt.Fprintf(&b, "Distinct amendment dates in the last 12 months: %d\n", len(revisionDates))

	if len(revisionDates) > 0 {
		sample := revisionDates
		if len(sample) > 10 {
			sample = sample[:10]
		}
		fmt.Fprintf(&b, "Most recent amendment dates: %s\n", strings.Join(sample, ", "))
	}

	return b.String()
}
