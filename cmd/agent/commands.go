package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"budget-agent/internal/adapter/httpapi"
	"budget-agent/internal/adapter/tool"
	"budget-agent/internal/di"
	"budget-agent/internal/domain/entity"
	"budget-agent/internal/infrastructure/logger"
	"budget-agent/internal/infrastructure/sqlite"
	"budget-agent/internal/infrastructure/userinteraction"

	"github.com/spf13/cobra"
)

const turnTimeout = 10 * time.Minute

func newAskCommand(flags *rootFlags) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a single question and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			console := userinteraction.NewConsoleUserInteraction()
			opts := di.Options{RunName: "ask"}
			if !quiet {
				opts.UserInteraction = console
			}

			container, err := di.NewContainer(cfg, opts)
			if err != nil {
				return err
			}
			defer container.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), turnTimeout)
			defer cancel()

			question := strings.Join(args, " ")
			container.Logger.Info("Question received", "question", question)

			result, err := container.TaskExecutor.Execute(ctx, entity.NewConversationState(), question)
			if err != nil {
				container.Logger.Error("Question failed", "error", err)
				return err
			}

			container.Logger.Info("Question answered", "steps", result.Iterations, "queries", len(result.Queries))
			console.ShowAnswer(ctx, result.FinalAnswer, result.Queries)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "hide step-by-step progress")
	return cmd
}

func newChatCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Ask follow-up questions in one conversation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			console := userinteraction.NewConsoleUserInteraction()
			container, err := di.NewContainer(cfg, di.Options{
				RunName:         "chat",
				UserInteraction: console,
			})
			if err != nil {
				return err
			}
			defer container.Close()

			session := container.Sessions.Create(cmd.Context())
			log := container.Logger.WithField("sessionID", session.ID)
			fmt.Fprintln(cmd.OutOrStdout(), "Ask about your budget. Type 'exit' to quit.")

			for {
				question, err := console.ReadQuestion(cmd.Context())
				if errors.Is(err, io.EOF) {
					return nil
				}
				if err != nil {
					return err
				}
				switch strings.ToLower(question) {
				case "":
					continue
				case "exit", "quit":
					return nil
				}

				ctx, cancel := context.WithTimeout(cmd.Context(), turnTimeout)
				err = session.Do(func(state *entity.ConversationState) error {
					result, err := container.TaskExecutor.Execute(ctx, state, question)
					if err != nil {
						return err
					}
					log.Info("Turn completed", "steps", result.Iterations, "queries", len(result.Queries))
					console.ShowAnswer(ctx, result.FinalAnswer, result.Queries)
					return nil
				})
				cancel()

				if err != nil {
					if cmd.Context().Err() != nil {
						return nil
					}
					log.Error("Turn failed", "error", err)
					fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
				}
			}
		},
	}
}

func newServeCommand(flags *rootFlags) *cobra.Command {
	var addr string
	var accessLog bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the session HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.HTTPAddr = addr
			}

			container, err := di.NewContainer(cfg, di.Options{RunName: "serve"})
			if err != nil {
				return err
			}
			defer container.Close()

			router := httpapi.NewRouter(container.Sessions, container.TaskExecutor, container.Logger, httpapi.Options{
				AccessLog: accessLog,
			})
			server := &http.Server{
				Addr:              cfg.HTTPAddr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				container.Logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-cmd.Context().Done():
			}

			container.Logger.Info("Shutting down HTTP server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides HTTP_ADDR)")
	cmd.Flags().BoolVar(&accessLog, "access-log", true, "log every request as JSON to stdout")
	return cmd
}

func newSchemaCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print every table with its schema and sample rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			inspect := tool.NewSchemaTool(sqlite.NewStore(cfg.DBPath), logger.NewNop())
			doc, err := inspect.Execute(cmd.Context(), "")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), doc)
			return nil
		},
	}
}
