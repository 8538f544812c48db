// Package main provides the codechat CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/richinex/codechat/cli"
)

var (
	// Global flags
	provider     string
	envFile      string
	projectsFile string
	projectsDB   string
	verbose      bool
)

func main() {
	// Load .env file if present (ignore "file not found" errors)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
		}
	}

	rootCmd := &cobra.Command{
		Use:   "codechat",
		Short: "Ask questions about a project's source files",
		Long: `A backend for chatting about a codebase with a pluggable LLM provider.

Providers: openrouter (default), gemini, openai, deepseek, anthropic.
Select one with AI_PROVIDER or --provider and set <PROVIDER>_API_KEY.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&provider, "provider", "p", "", "LLM provider (overrides AI_PROVIDER)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file re-read on every request")
	rootCmd.PersistentFlags().StringVar(&projectsFile, "projects", "", "Path to a YAML project catalog")
	rootCmd.PersistentFlags().StringVar(&projectsDB, "projects-db", "", "Path to the SQLite project registry")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show verbose output")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(overviewCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(providersCmd())
	rootCmd.AddCommand(projectsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func options() cli.Options {
	opts := cli.DefaultOptions()
	opts.Provider = provider
	if envFile != "" {
		opts.EnvFiles = []string{envFile}
	}
	opts.ProjectsFile = projectsFile
	opts.ProjectsDB = projectsDB
	opts.Verbose = verbose
	return opts
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat API over HTTP",
		Long: `Serve the chat API over HTTP.

Routes:
  POST /api/chat
  POST /api/projects/{projectName}/overview
  GET  /api/config/status
  GET  /api/providers
  GET  /api/projects      (with --projects or --projects-db)
  GET  /health`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Serve(context.Background(), addr, options())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default CODECHAT_ADDR or :3001)")

	return cmd
}

func askCmd() *cobra.Command {
	var args cli.AskArgs

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a single question about a project",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, positional []string) error {
			args.Question = strings.Join(positional, " ")
			return cli.Ask(cmd.Context(), args, options(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&args.Project, "project", "", "Project name in the catalog")
	cmd.Flags().StringVar(&args.Root, "root", "", "Project root directory (skips the catalog)")
	cmd.Flags().StringArrayVarP(&args.Files, "file", "f", nil, "File to include, relative to the project root (repeatable)")

	return cmd
}

func overviewCmd() *cobra.Command {
	var project, root string
	var maxFiles int

	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Generate a structured overview of a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Overview(cmd.Context(), project, root, maxFiles, options(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project name in the catalog")
	cmd.Flags().StringVar(&root, "root", "", "Project root directory (skips the catalog)")
	cmd.Flags().IntVar(&maxFiles, "max-files", 0, "Maximum file paths sent to the provider (default 500)")

	return cmd
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a provider is configured",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Status(options(), cmd.OutOrStdout())
		},
	}
}

func providersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List supported providers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.ListProviders(options(), cmd.OutOrStdout())
		},
	}
}

func projectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage the project registry",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add [name] [path]",
		Short: "Register a project root in the SQLite registry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.AddProject(cmd.Context(), args[0], args[1], options())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List known projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.ListProjects(cmd.Context(), options(), cmd.OutOrStdout())
		},
	})

	return cmd
}
