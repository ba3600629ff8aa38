package generator

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"ragchat/internal/domain"
)

type fakeLLM struct {
	response string
	err      error
	messages []llms.MessageContent
}

func (m *fakeLLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.messages = messages
	if m.err != nil {
		return nil, m.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: m.response}},
	}, nil
}

func (m *fakeLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return m.response, m.err
}

func result(source, text string) domain.SearchResult {
	return domain.SearchResult{Chunk: domain.Chunk{Source: source, Text: text}}
}

func humanPrompt(t *testing.T, messages []llms.MessageContent) string {
	t.Helper()
	require.Len(t, messages, 2)
	require.Equal(t, llms.ChatMessageTypeSystem, messages[0].Role)
	require.Equal(t, llms.ChatMessageTypeHuman, messages[1].Role)
	require.Len(t, messages[1].Parts, 1)
	text, ok := messages[1].Parts[0].(llms.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestAnswerPromptContainsQuestionAndContext(t *testing.T) {
	llm := &fakeLLM{response: "Paris."}
	g := NewWithClient(llm, "", 0)

	answer, err := g.Answer(context.Background(), "What is the capital of France?", []domain.SearchResult{
		result("sample.txt", "The capital of France is Paris."),
	})
	require.NoError(t, err)
	assert.Equal(t, "Paris.", answer)

	prompt := humanPrompt(t, llm.messages)
	assert.Contains(t, prompt, "Question: What is the capital of France?")
	assert.Contains(t, prompt, "[1] Source: sample.txt")
	assert.Contains(t, prompt, "The capital of France is Paris.")
}

func TestAnswerWrapsLLMError(t *testing.T) {
	g := NewWithClient(&fakeLLM{err: errors.New("rate limited")}, "", 0)
	_, err := g.Answer(context.Background(), "q", nil)
	assert.ErrorIs(t, err, domain.ErrService)
}

func TestAnswerEmptyResponse(t *testing.T) {
	llm := &emptyLLM{}
	g := NewWithClient(llm, "", 0)
	_, err := g.Answer(context.Background(), "q", nil)
	assert.ErrorIs(t, err, domain.ErrService)
}

type emptyLLM struct{}

func (m *emptyLLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	return &llms.ContentResponse{}, nil
}

func (m *emptyLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return "", nil
}

func TestContextBudgetDropsLowestRankedFirst(t *testing.T) {
	support := []domain.SearchResult{
		result("a.txt", "first chunk text"),
		result("b.txt", "second chunk text"),
		result("c.txt", "third chunk text"),
	}
	ctx := context.Background()

	// Budget fits only the first part.
	llm := &fakeLLM{response: "ok"}
	g := NewWithClient(llm, "", 50)
	_, err := g.Answer(ctx, "q", support)
	require.NoError(t, err)
	prompt := humanPrompt(t, llm.messages)
	assert.Contains(t, prompt, "first chunk text")
	assert.NotContains(t, prompt, "second chunk text")
	assert.NotContains(t, prompt, "third chunk text")

	// A large budget keeps all parts in rank order.
	llm = &fakeLLM{response: "ok"}
	g = NewWithClient(llm, "", 8000)
	_, err = g.Answer(ctx, "q", support)
	require.NoError(t, err)
	prompt = humanPrompt(t, llm.messages)
	for _, want := range []string{"[1] Source: a.txt", "[2] Source: b.txt", "[3] Source: c.txt"} {
		assert.Contains(t, prompt, want)
	}
}

func TestContextFirstChunkAlwaysIncluded(t *testing.T) {
	long := result("a.txt", fmt.Sprintf("%0200d", 0))
	llm := &fakeLLM{response: "ok"}
	g := NewWithClient(llm, "", 10)
	_, err := g.Answer(context.Background(), "q", []domain.SearchResult{long})
	require.NoError(t, err)
	assert.Contains(t, humanPrompt(t, llm.messages), long.Chunk.Text)
}

func TestCustomSystemPrompt(t *testing.T) {
	llm := &fakeLLM{response: "ok"}
	g := NewWithClient(llm, "Answer in French.", 0)

	_, err := g.Answer(context.Background(), "q", nil)
	require.NoError(t, err)
	require.Len(t, llm.messages, 2)
	text, ok := llm.messages[0].Parts[0].(llms.TextContent)
	require.True(t, ok)
	assert.Equal(t, "Answer in French.", text.Text)
}
