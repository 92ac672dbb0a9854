package executor

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"budget-agent/internal/application/port/input"
	"budget-agent/internal/application/port/output"
	"budget-agent/internal/domain/entity"
	"budget-agent/internal/usecase/router"
)

var _ input.TaskExecutor = (*UseCase)(nil)

const (
	DefaultMaxSteps   = 25
	maxObservationLen = 20000

	// LastStepApology replaces a tool-calling reply on the final step.
	LastStepApology = "Sorry, I could not find an answer to your question in the specified number of steps."
)

// PromptBuilder renders the system prompt for one turn.
type PromptBuilder func(tools []entity.ToolDefinition) (string, error)

// StaticPrompt returns a PromptBuilder that always yields prompt.
func StaticPrompt(prompt string) PromptBuilder {
	return func([]entity.ToolDefinition) (string, error) { return prompt, nil }
}

type UseCase struct {
	llm         output.LLMPort
	tools       output.ToolRegistry
	logger      output.LoggerPort
	buildPrompt PromptBuilder
	ui          output.UserInteractionPort
	maxSteps    int
}

type Option func(*UseCase)

func WithMaxSteps(n int) Option {
	return func(uc *UseCase) {
		if n > 0 {
			uc.maxSteps = n
		}
	}
}

func WithUserInteraction(ui output.UserInteractionPort) Option {
	return func(uc *UseCase) {
		if ui != nil {
			uc.ui = ui
		}
	}
}

func New(
	llm output.LLMPort,
	tools output.ToolRegistry,
	logger output.LoggerPort,
	buildPrompt PromptBuilder,
	opts ...Option,
) *UseCase {
	uc := &UseCase{
		llm:         llm,
		tools:       tools,
		logger:      logger,
		buildPrompt: buildPrompt,
		ui:          silent{},
		maxSteps:    DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *UseCase) MaxSteps() int { return uc.maxSteps }

// Execute appends question to state and drives the model until it answers
// without tool calls or the step budget runs out.
func (uc *UseCase) Execute(ctx context.Context, state *entity.ConversationState, question string) (*input.ExecuteResult, error) {
	if state == nil {
		return nil, &entity.InvalidStateError{Reason: "no conversation state"}
	}

	startQueries := len(state.Queries)
	state.Append(entity.NewHumanMessage(question))

	toolDefs := uc.tools.Definitions()
	systemPrompt, err := uc.buildPrompt(toolDefs)
	if err != nil {
		return nil, fmt.Errorf("render system prompt: %w", err)
	}

	for step := 1; step <= uc.maxSteps; step++ {
		uc.logger.Debug("Starting step", "step", step, "maxSteps", uc.maxSteps)
		uc.ui.ShowIteration(ctx, step, uc.maxSteps)

		state.IsLastStep = step == uc.maxSteps

		messages := make([]entity.Message, 0, len(state.Messages)+1)
		messages = append(messages, entity.Message{Role: entity.RoleSystem, Content: entity.TextContent(systemPrompt)})
		messages = append(messages, state.Messages...)

		resp, err := uc.llm.Chat(ctx, output.ChatRequest{
			Messages:    messages,
			Tools:       toolDefs,
			Temperature: 0.0,
		})
		if err != nil {
			return nil, fmt.Errorf("llm request failed: %w", err)
		}

		reply := resp.Message
		if state.IsLastStep && reply.HasToolCalls() {
			uc.logger.Warn("Step budget exhausted", "step", step, "toolCalls", len(reply.ToolCalls))
			reply = entity.NewAssistantMessage(LastStepApology)
		}
		state.Append(reply)

		edge, err := router.Route(state)
		if err != nil {
			return nil, err
		}

		if edge == router.EdgeEnd {
			answer := reply.Text()
			uc.logger.Info("Turn finished", "steps", step, "answerLen", len(answer))
			return &input.ExecuteResult{
				FinalAnswer: answer,
				Iterations:  step,
				Queries:     append([]string{}, state.Queries[startQueries:]...),
			}, nil
		}

		uc.ui.ShowThinking(ctx, reply.Text())
		for _, tc := range reply.ToolCalls {
			uc.executeTool(ctx, state, tc)
		}
	}

	return nil, fmt.Errorf("no answer after %d steps", uc.maxSteps)
}

func (uc *UseCase) executeTool(ctx context.Context, state *entity.ConversationState, tc entity.ToolCall) {
	tool, ok := uc.tools.Get(tc.Name)
	if !ok {
		uc.logger.Warn("Unknown tool called", "name", tc.Name)
		observation := fmt.Sprintf("Error: unknown tool '%s'", tc.Name)
		uc.ui.ShowToolResult(ctx, tc.Name.String(), observation, true)
		state.Append(entity.NewToolMessage(tc.ID, tc.Name, observation))
		return
	}

	uc.logger.Info("Executing tool", "name", tc.Name, "args", tc.Arguments)
	uc.ui.ShowToolStart(ctx, tc.Name.String(), tc.Arguments)

	if stateful, ok := tool.(output.StatefulToolPort); ok {
		update := stateful.Invoke(ctx, tc, state.QueryLog())
		observation := truncate(update.Message.Text())
		update.Message.Content = entity.TextContent(observation)
		state.Apply(update)
		uc.ui.ShowToolResult(ctx, tc.Name.String(), observation, strings.HasPrefix(observation, "Error"))
		return
	}

	result, err := tool.Execute(ctx, tc.Arguments)
	if err != nil {
		uc.logger.Error("Tool execution failed", "name", tc.Name, "error", err)
		observation := "Error: " + err.Error()
		uc.ui.ShowToolResult(ctx, tc.Name.String(), observation, true)
		state.Append(entity.NewToolMessage(tc.ID, tc.Name, observation))
		return
	}

	result = truncate(result)
	uc.logger.Debug("Tool completed", "name", tc.Name, "resultLen", len(result))
	uc.ui.ShowToolResult(ctx, tc.Name.String(), result, false)
	state.Append(entity.NewToolMessage(tc.ID, tc.Name, result))
}

func truncate(s string) string {
	if len(s) <= maxObservationLen {
		return s
	}
	cut := maxObservationLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "\n... (truncated)"
}

type silent struct{}

func (silent) ShowIteration(context.Context, int, int) {}
func (silent) ShowThinking(context.Context, string) {}
func (silent) ShowToolStart(context.Context, string, string) {}
func (silent) ShowToolResult(context.Context, string, string, bool) {}
