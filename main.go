package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/topi314/partiful-sync/internal/xerrors"
	"github.com/topi314/partiful-sync/sync"
	"github.com/topi314/partiful-sync/sync/lesswrong"
)

const tokenEnvVar = "LESSWRONG_TOKEN"

func main() {
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func printError(err error) {
	errs := xerrors.Unwrap(err)
	if len(errs) == 1 {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return
	}
	_, _ = fmt.Fprintln(os.Stderr, "Error:")
	for _, e := range errs {
		_, _ = fmt.Fprintf(os.Stderr, "  %s\n", e)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgPath  string
		token    string
		graphiql bool
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:           "partiful-sync <partiful-url>",
		Short:         "Sync a Partiful event to LessWrong",
		Long:          "Fetches one Partiful event and creates or updates a matching draft event post on LessWrong, so you can review and edit it before publishing.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := sync.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			setupLogger(cfg.Log)
			slog.Debug("Loaded config", slog.String("config", cfg.String()))

			if token == "" {
				token = os.Getenv(tokenEnvVar)
			}
			// Preview modes work without a token; matching is then best effort.
			if token == "" && !graphiql && !dryRun {
				return fmt.Errorf("lesswrong login token required: pass --token or set %s (the loginToken cookie from your browser session)", tokenEnvVar)
			}

			var previewer sync.Previewer
			if graphiql {
				previewer = sync.NewBrowserPreviewer()
			} else if dryRun {
				previewer = sync.NewWriterPreviewer(cmd.OutOrStdout())
			}

			result, err := sync.New(cfg, token, previewer).Run(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			printResult(cmd, result)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.toml", "path to the config file")
	cmd.PersistentFlags().StringVar(&token, "token", "", "LessWrong loginToken cookie value (or set "+tokenEnvVar+")")
	cmd.Flags().BoolVar(&graphiql, "graphiql", false, "open the mutation in the GraphiQL editor instead of executing it")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the mutation without making changes")

	cmd.AddCommand(newIntrospectCmd(&cfgPath, &token))

	return cmd
}

func printResult(cmd *cobra.Command, result *sync.Result) {
	if result.Previewed {
		return
	}

	switch result.Action {
	case sync.ActionCreate:
		cmd.Printf("Draft created: %s\nReview and publish it on LessWrong.\n", result.Post.URL)
	case sync.ActionUpdate:
		cmd.Printf("Event updated: %s\n", result.Post.URL)
	}
}

func newIntrospectCmd(cfgPath *string, token *string) *cobra.Command {
	return &cobra.Command{
		Use:           "introspect",
		Short:         "Print the LessWrong GraphQL schema introspection",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := sync.LoadConfig(*cfgPath)
			if err != nil {
				return err
			}
			setupLogger(cfg.Log)

			t := *token
			if t == "" {
				t = os.Getenv(tokenEnvVar)
			}

			client := lesswrong.New(cfg.LessWrong, t, &http.Client{
				Timeout: time.Duration(cfg.HTTPTimeout),
			})
			schema, err := client.IntrospectSchema(cmd.Context())
			if err != nil {
				return err
			}

			var out bytes.Buffer
			if err = json.Indent(&out, schema, "", "  "); err != nil {
				return fmt.Errorf("failed to format schema: %w", err)
			}
			cmd.Println(out.String())
			return nil
		},
	}
}

func setupLogger(cfg sync.LogConfig) {
	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	switch cfg.Format {
	case sync.LogFormatJSON:
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}
