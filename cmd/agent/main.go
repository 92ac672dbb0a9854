package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"budget-agent/internal/config"
	"budget-agent/internal/infrastructure/env"

	"github.com/spf13/cobra"
)

type rootFlags struct {
	configPath string
	model      string
	dbPath     string
	maxSteps   int
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "budget-agent",
		Short:         "Answer budget questions against a SQLite database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&flags.model, "model", "", "model as provider/model (overrides MODEL)")
	root.PersistentFlags().StringVar(&flags.dbPath, "db", "", "path to the budget SQLite database (overrides BUDGET_DB_PATH)")
	root.PersistentFlags().IntVar(&flags.maxSteps, "max-steps", 0, "maximum model steps per question (overrides MAX_STEPS)")

	root.AddCommand(
		newAskCommand(flags),
		newChatCommand(flags),
		newServeCommand(flags),
		newSchemaCommand(flags),
	)
	return root
}

// loadConfig resolves settings in order: defaults, YAML file, environment,
// command-line flags.
func loadConfig(flags *rootFlags) (config.Config, error) {
	cfg, err := config.Load(flags.configPath, env.NewEnvService())
	if err != nil {
		return config.Config{}, err
	}

	if flags.model != "" {
		cfg.Model = flags.model
	}
	if flags.dbPath != "" {
		cfg.DBPath = flags.dbPath
	}
	if flags.maxSteps > 0 {
		cfg.MaxSteps = flags.maxSteps
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
