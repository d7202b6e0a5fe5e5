// Package llm は remediation.Suggester の OpenAI 実装を提供します。
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/remediation"
)

const systemPrompt = "You are an EHS training specialist. An employee is delayed in completing " +
	"their required training. Provide specific, actionable remediation suggestions to ensure the " +
	"employee completes the training and complies with safety standards. Consider the employee's " +
	"name, the training name, how many days the training is delayed, and its completion status " +
	"when generating the suggestions."

// chatClient は openai.Client のうち利用する操作だけを切り出したものです。
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAISuggester は OpenAI Chat Completions で是正提案を生成します。
type OpenAISuggester struct {
	client chatClient
	model  string
}

// NewOpenAISuggester は OpenAISuggester を生成します。
func NewOpenAISuggester(apiKey, model string) *OpenAISuggester {
	return &OpenAISuggester{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// Suggest は遅延した教育訓練に対する是正提案を生成します。
func (s *OpenAISuggester) Suggest(ctx context.Context, input remediation.Input) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: renderPrompt(input)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", remediation.ErrSuggesterUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", remediation.ErrSuggesterUnavailable)
	}

	suggestion := strings.TrimSpace(resp.Choices[0].Message.Content)
	if suggestion == "" {
		return "", fmt.Errorf("%w: empty suggestion returned", remediation.ErrSuggesterUnavailable)
	}

	return suggestion, nil
}

func renderPrompt(input remediation.Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Employee Name: %s\n", input.EmployeeName)
	fmt.Fprintf(&b, "Training Name: %s\n", input.TrainingName)
	fmt.Fprintf(&b, "Days Delayed: %d\n", input.DaysDelayed)
	fmt.Fprintf(&b, "Completion Status: %s\n\n", input.CompletionStatus)
	b.WriteString("Remediation Suggestions:")
	return b.String()
}
