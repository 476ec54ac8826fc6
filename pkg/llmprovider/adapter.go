package llmprovider

import (
	"context"

	"nutrition-assistant/pkg/gemini"
	"nutrition-assistant/pkg/openrouter"
)

// GeminiAdapter adapts pkg/gemini to llmprovider.Provider interface
type GeminiAdapter struct {
	client gemini.IGemini
}

// NewGeminiAdapter creates a new Gemini adapter
func NewGeminiAdapter(client gemini.IGemini) *GeminiAdapter {
	return &GeminiAdapter{client: client}
}

// GenerateContent implements Provider interface
func (a *GeminiAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	geminiReq := &gemini.Request{
		SystemInstruction: convertToGeminiContent(req.SystemInstruction),
		Messages:          convertToGeminiContents(req.Messages),
		Temperature:       req.Temperature,
		MaxTokens:         req.MaxTokens,
	}

	resp, err := a.client.GenerateContent(ctx, geminiReq)
	if err != nil {
		return nil, err
	}

	usage := &Usage{}
	if resp.Usage != nil {
		usage.InputTokens = resp.Usage.InputTokens
		usage.OutputTokens = resp.Usage.OutputTokens
		usage.TotalTokens = resp.Usage.TotalTokens
	}

	return &Response{
		Content:      convertFromGeminiContent(resp.Content),
		ProviderName: ProviderGemini,
		ModelName:    a.client.Model(),
		Usage:        usage,
	}, nil
}

// Name returns provider name
func (a *GeminiAdapter) Name() string {
	return ProviderGemini
}

// Model returns model name
func (a *GeminiAdapter) Model() string {
	return a.client.Model()
}

// OpenRouterAdapter adapts pkg/openrouter to llmprovider.Provider interface
type OpenRouterAdapter struct {
	client openrouter.IOpenRouter
}

// NewOpenRouterAdapter creates a new OpenRouter adapter
func NewOpenRouterAdapter(client openrouter.IOpenRouter) *OpenRouterAdapter {
	return &OpenRouterAdapter{client: client}
}

// GenerateContent implements Provider interface
func (a *OpenRouterAdapter) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	msgs := make([]openrouter.Message, 0, len(req.Messages)+1)
	if req.SystemInstruction != nil {
		msgs = append(msgs, openrouter.Message{Role: RoleSystem, Content: joinParts(req.SystemInstruction.Parts)})
	}
	for _, m := range req.Messages {
		msgs = append(msgs, openrouter.Message{Role: m.Role, Content: joinParts(m.Parts)})
	}

	resp, err := a.client.GenerateContent(ctx, &openrouter.Request{
		Messages:    msgs,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	content := Message{Role: RoleAssistant}
	if len(resp.Choices) > 0 {
		content.Parts = []Part{{Text: resp.Choices[0].Message.Content}}
	}

	return &Response{
		Content:      content,
		ProviderName: ProviderOpenRouter,
		ModelName:    a.client.Model(),
		Usage: &Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}

// Name returns provider name
func (a *OpenRouterAdapter) Name() string {
	return ProviderOpenRouter
}

// Model returns model name
func (a *OpenRouterAdapter) Model() string {
	return a.client.Model()
}

func convertToGeminiContent(msg *Message) *gemini.Content {
	if msg == nil {
		return nil
	}
	c := convertToGeminiContents([]Message{*msg})[0]
	return &c
}

func convertToGeminiContents(msgs []Message) []gemini.Content {
	contents := make([]gemini.Content, len(msgs))
	for i, msg := range msgs {
		role := msg.Role
		// Gemini names the assistant "model"
		if role == RoleAssistant {
			role = "model"
		}
		parts := make([]gemini.Part, len(msg.Parts))
		for j, p := range msg.Parts {
			parts[j] = gemini.Part{Text: p.Text}
		}
		contents[i] = gemini.Content{Role: role, Parts: parts}
	}
	return contents
}

func convertFromGeminiContent(content gemini.Content) Message {
	parts := make([]Part, len(content.Parts))
	for i, p := range content.Parts {
		parts[i] = Part{Text: p.Text}
	}
	return Message{Role: RoleAssistant, Parts: parts}
}

func joinParts(parts []Part) string {
	var out string
	for _, p := range parts {
		out += p.Text
	}
	return out
}
