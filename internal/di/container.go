package di

import (
	"fmt"
	"time"

	"budget-agent/internal/adapter/tool"
	"budget-agent/internal/application/port/input"
	"budget-agent/internal/application/port/output"
	"budget-agent/internal/application/service"
	"budget-agent/internal/config"
	"budget-agent/internal/domain/entity"
	"budget-agent/internal/infrastructure/llm"
	"budget-agent/internal/infrastructure/logger"
	"budget-agent/internal/infrastructure/prompts"
	"budget-agent/internal/infrastructure/sqlite"
	"budget-agent/internal/usecase/executor"
)

type Container struct {
	Logger       output.LoggerPort
	Tools        output.ToolRegistry
	Sessions     *service.SessionStore
	TaskExecutor input.TaskExecutor
}

type Options struct {
	// RunName names the log file.
	RunName string
	// LLM overrides the provider chosen from cfg.Model.
	LLM output.LLMPort
	// UserInteraction receives loop progress; nil keeps the loop quiet.
	UserInteraction output.UserInteractionPort
	Now             func() time.Time
}

func NewContainer(cfg config.Config, opts Options) (*Container, error) {
	logCfg := logger.DefaultConfig(opts.RunName)
	logCfg.Dir = cfg.LogDir
	logCfg.Level = cfg.LogLevel
	logCfg.Console = cfg.LogConsole

	log, err := logger.NewLoggerAdapter(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	c, err := newContainer(cfg, opts, log)
	if err != nil {
		log.Close()
		return nil, err
	}

	log.Info("Container ready", "model", cfg.Model, "db", cfg.DBPath, "maxSteps", cfg.MaxSteps, "tools", len(c.Tools.All()))
	return c, nil
}

func newContainer(cfg config.Config, opts Options, log output.LoggerPort) (*Container, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	model := opts.LLM
	if model == nil {
		var err error
		model, err = llm.New(cfg, log.WithField("component", "llm"))
		if err != nil {
			return nil, fmt.Errorf("failed to create llm: %w", err)
		}
	}

	db := sqlite.NewStore(cfg.DBPath)
	tools := service.NewToolRegistry(tool.NewBudgetTools(db, now, log.WithField("component", "tool"))...)

	buildPrompt := func(defs []entity.ToolDefinition) (string, error) {
		return prompts.GenerateSystemPrompt(prompts.SystemPrompt, now(), defs)
	}

	uc := executor.New(model, tools, log, buildPrompt,
		executor.WithMaxSteps(cfg.MaxSteps),
		executor.WithUserInteraction(opts.UserInteraction),
	)

	return &Container{
		Logger:       log,
		Tools:        tools,
		Sessions:     service.NewSessionStore(),
		TaskExecutor: uc,
	}, nil
}

func (c *Container) Close() {
	if c.Logger != nil {
		_ = c.Logger.Close()
	}
}
