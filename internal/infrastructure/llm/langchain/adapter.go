// Package langchain adapts langchaingo models (Anthropic, Ollama) to the
// agent's LLM port.
package langchain

import (
	"context"
	"fmt"

	"budget-agent/internal/application/port/output"
	"budget-agent/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/ollama"
)

var _ output.LLMPort = (*Adapter)(nil)

type Adapter struct {
	model  llms.Model
	logger output.LoggerPort
}

func NewAdapter(model llms.Model, logger output.LoggerPort) *Adapter {
	return &Adapter{model: model, logger: logger}
}

func NewAnthropic(apiKey, model string, logger output.LoggerPort) (*Adapter, error) {
	llm, err := anthropic.New(anthropic.WithToken(apiKey), anthropic.WithModel(model))
	if err != nil {
		return nil, fmt.Errorf("create anthropic model: %w", err)
	}
	return NewAdapter(llm, logger), nil
}

func NewOllama(serverURL, model string, logger output.LoggerPort) (*Adapter, error) {
	opts := []ollama.Option{ollama.WithModel(model)}
	if serverURL != "" {
		opts = append(opts, ollama.WithServerURL(serverURL))
	}
	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create ollama model: %w", err)
	}
	return NewAdapter(llm, logger), nil
}

func (a *Adapter) Chat(ctx context.Context, req output.ChatRequest) (*output.ChatResponse, error) {
	opts := []llms.CallOption{llms.WithTemperature(float64(req.Temperature))}
	if tools := convertTools(req.Tools); len(tools) > 0 {
		opts = append(opts, llms.WithTools(tools))
	}

	a.logger.Debug("Generating content", "messages", len(req.Messages), "tools", len(req.Tools))

	resp, err := a.model.GenerateContent(ctx, convertMessages(req.Messages), opts...)
	if err != nil {
		return nil, fmt.Errorf("generate content failed: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	return &output.ChatResponse{Message: convertChoice(resp.Choices)}, nil
}

func convertRole(role entity.MessageRole) llms.ChatMessageType {
	switch role {
	case entity.RoleSystem:
		return llms.ChatMessageTypeSystem
	case entity.RoleHuman:
		return llms.ChatMessageTypeHuman
	case entity.RoleTool:
		return llms.ChatMessageTypeTool
	default:
		return llms.ChatMessageTypeAI
	}
}

func convertMessages(messages []entity.Message) []llms.MessageContent {
	result := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		mc := llms.MessageContent{Role: convertRole(msg.Role)}

		switch msg.Role {
		case entity.RoleTool:
			mc.Parts = append(mc.Parts, llms.ToolCallResponse{
				ToolCallID: msg.ToolCallID,
				Name:       msg.Name,
				Content:    msg.Text(),
			})
		default:
			if text := msg.Text(); text != "" {
				mc.Parts = append(mc.Parts, llms.TextContent{Text: text})
			}
			for _, tc := range msg.ToolCalls {
				mc.Parts = append(mc.Parts, llms.ToolCall{
					ID:   tc.ID,
					Type: "function",
					FunctionCall: &llms.FunctionCall{
						Name:      tc.Name.String(),
						Arguments: tc.Arguments,
					},
				})
			}
		}

		result = append(result, mc)
	}
	return result
}

func convertTools(tools []entity.ToolDefinition) []llms.Tool {
	result := make([]llms.Tool, 0, len(tools))
	for _, t := range tools {
		result = append(result, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        t.Name.String(),
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		})
	}
	return result
}

// convertChoice merges choices into one assistant message. Some providers
// split text and tool calls across several choices.
func convertChoice(choices []*llms.ContentChoice) entity.Message {
	msg := entity.Message{Role: entity.RoleAssistant}

	var fragments entity.Fragments
	for _, choice := range choices {
		if choice == nil {
			continue
		}
		if choice.Content != "" {
			fragments = append(fragments, entity.StringFragment(choice.Content))
		}
		for _, tc := range choice.ToolCalls {
			if tc.FunctionCall == nil {
				continue
			}
			id := tc.ID
			if id == "" {
				id = "call_" + uuid.NewString()
			}
			msg.ToolCalls = append(msg.ToolCalls, entity.ToolCall{
				ID:        id,
				Name:      entity.ToolName(tc.FunctionCall.Name),
				Arguments: tc.FunctionCall.Arguments,
			})
		}
	}

	if len(fragments) == 1 {
		msg.Content = entity.TextContent(fragments[0].Text())
	} else {
		msg.Content = fragments
	}
	return msg
}
