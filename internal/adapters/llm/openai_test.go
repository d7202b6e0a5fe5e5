package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"

	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/remediation"
	"github.com/ogurasousui/codex-ehs-clean-arch/internal/core/training"
)

type fakeChatClient struct {
	lastRequest openai.ChatCompletionRequest
	response    openai.ChatCompletionResponse
	err         error
}

func (f *fakeChatClient) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.lastRequest = req
	return f.response, f.err
}

func TestOpenAISuggester_Suggest(t *testing.T) {
	t.Parallel()

	client := &fakeChatClient{
		response: openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "  Schedule a refresher session.  "}},
			},
		},
	}
	suggester := &OpenAISuggester{client: client, model: "gpt-4o-mini"}

	got, err := suggester.Suggest(context.Background(), remediation.Input{
		EmployeeName:     "John Doe",
		TrainingName:     "Fire Safety",
		DaysDelayed:      12,
		CompletionStatus: training.StatusOverdue,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Schedule a refresher session." {
		t.Fatalf("unexpected suggestion: %q", got)
	}

	if client.lastRequest.Model != "gpt-4o-mini" {
		t.Fatalf("unexpected model: %s", client.lastRequest.Model)
	}
	if len(client.lastRequest.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(client.lastRequest.Messages))
	}
	prompt := client.lastRequest.Messages[1].Content
	for _, want := range []string{
		"Employee Name: John Doe",
		"Training Name: Fire Safety",
		"Days Delayed: 12",
		"Completion Status: Overdue",
		"Remediation Suggestions:",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestOpenAISuggester_Suggest_APIError(t *testing.T) {
	t.Parallel()

	suggester := &OpenAISuggester{
		client: &fakeChatClient{err: errors.New("connection refused")},
		model:  "gpt-4o-mini",
	}

	_, err := suggester.Suggest(context.Background(), remediation.Input{})
	if !errors.Is(err, remediation.ErrSuggesterUnavailable) {
		t.Fatalf("expected ErrSuggesterUnavailable, got %v", err)
	}
}

func TestOpenAISuggester_Suggest_EmptyResponse(t *testing.T) {
	t.Parallel()

	suggester := &OpenAISuggester{
		client: &fakeChatClient{response: openai.ChatCompletionResponse{}},
		model:  "gpt-4o-mini",
	}

	_, err := suggester.Suggest(context.Background(), remediation.Input{})
	if !errors.Is(err, remediation.ErrSuggesterUnavailable) {
		t.Fatalf("expected ErrSuggesterUnavailable, got %v", err)
	}
}
