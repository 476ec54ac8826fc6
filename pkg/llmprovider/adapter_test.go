package llmprovider

import (
	"context"
	"testing"

	"nutrition-assistant/pkg/gemini"
	"nutrition-assistant/pkg/openrouter"
)

type mockGeminiClient struct {
	lastReq  *gemini.Request
	response *gemini.Response
}

func (m *mockGeminiClient) GenerateContent(ctx context.Context, req *gemini.Request) (*gemini.Response, error) {
	m.lastReq = req
	return m.response, nil
}

func (m *mockGeminiClient) Model() string { return "gemini-test" }

type mockOpenRouterClient struct {
	lastReq *openrouter.Request
}

func (m *mockOpenRouterClient) GenerateContent(ctx context.Context, req *openrouter.Request) (*openrouter.Response, error) {
	m.lastReq = req
	return &openrouter.Response{
		Choices: []openrouter.Choice{{Message: openrouter.Message{Role: "assistant", Content: "hello"}}},
		Usage:   openrouter.Usage{PromptTokens: 3, CompletionTokens: 1, TotalTokens: 4},
	}, nil
}

func (m *mockOpenRouterClient) Model() string { return "router-test" }

func TestGeminiAdapter(t *testing.T) {
	client := &mockGeminiClient{response: &gemini.Response{
		Content: gemini.Content{Role: "model", Parts: []gemini.Part{{Text: "hi "}, {Text: "there"}}},
	}}
	adapter := NewGeminiAdapter(client)

	resp, err := adapter.GenerateContent(context.Background(), &Request{
		Messages: []Message{
			{Role: RoleUser, Parts: []Part{{Text: "q"}}},
			{Role: RoleAssistant, Parts: []Part{{Text: "a"}}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text() != "hi there" {
		t.Errorf("unexpected text %q", resp.Text())
	}
	if resp.Content.Role != RoleAssistant {
		t.Errorf("expected assistant role, got %s", resp.Content.Role)
	}
	if client.lastReq.Messages[1].Role != "model" {
		t.Errorf("expected assistant to map to model, got %s", client.lastReq.Messages[1].Role)
	}
	if resp.Usage == nil {
		t.Error("expected non-nil usage")
	}
}

func TestOpenRouterAdapter(t *testing.T) {
	client := &mockOpenRouterClient{}
	adapter := NewOpenRouterAdapter(client)

	resp, err := adapter.GenerateContent(context.Background(), &Request{
		SystemInstruction: &Message{Parts: []Part{{Text: "be nice"}}},
		Messages:          []Message{{Role: RoleUser, Parts: []Part{{Text: "q"}}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text() != "hello" || resp.Usage.TotalTokens != 4 {
		t.Errorf("unexpected response %+v", resp)
	}
	if len(client.lastReq.Messages) != 2 || client.lastReq.Messages[0].Role != RoleSystem {
		t.Errorf("expected system message first, got %+v", client.lastReq.Messages)
	}
	if adapter.Name() != ProviderOpenRouter || adapter.Model() != "router-test" {
		t.Errorf("unexpected identity %s/%s", adapter.Name(), adapter.Model())
	}
}
