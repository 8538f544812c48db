// Command execution for CLI commands.
//
// Information Hiding:
// - Command dispatch logic hidden
// - Output formatting hidden

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/richinex/codechat/assistant"
	"github.com/richinex/codechat/files"
	"github.com/richinex/codechat/projects"
	"github.com/richinex/codechat/server"
)

// AskArgs are the inputs of the ask command.
type AskArgs struct {
	Question string
	Project  string
	Root     string   // project root used instead of a catalog lookup
	Files    []string // paths relative to the project root
}

// Serve runs the HTTP server until interrupted.
func Serve(ctx context.Context, addr string, opts Options) error {
	app, err := NewApp(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	cfg := server.DefaultConfig(app.Settings.Timeout)
	cfg.Addr = app.Settings.Addr
	if addr != "" {
		cfg.Addr = addr
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	router := server.NewRouter(app.Service, app.Catalog, app.Logger)
	return server.NewServer(router, cfg, app.Logger).Start(ctx)
}

// Ask answers a single question and prints it to out.
func Ask(ctx context.Context, args AskArgs, opts Options, out io.Writer) error {
	project := args.Project
	if args.Root != "" {
		if project == "" {
			project = filepath.Base(args.Root)
		}
		opts.Catalog = projects.NewStaticCatalog(projects.Project{Name: project, Path: args.Root})
	}

	app, err := NewApp(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	refs := make([]files.Reference, len(args.Files))
	for i, f := range args.Files {
		refs[i] = files.Reference{Path: f}
	}

	answer, err := app.Service.Chat(ctx, assistant.ChatRequest{
		Message:     args.Question,
		ProjectName: project,
		Context:     assistant.ChatContext{FileReferences: refs},
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(out, answer.Response)
	if opts.Verbose {
		fmt.Fprintf(out, "\n(%s / %s)\n", answer.Provider, answer.Model)
	}
	return nil
}

// Overview lists the files of a project and prints the generated overview.
func Overview(ctx context.Context, project, root string, maxFiles int, opts Options, out io.Writer) error {
	app, err := NewApp(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	if root == "" {
		if app.Catalog == nil {
			return fmt.Errorf("no project root: pass --root or a project catalog")
		}
		root, err = app.Catalog.Root(ctx, project)
		if err != nil {
			return err
		}
	}
	if project == "" {
		project = filepath.Base(root)
	}

	paths, err := projects.ListFiles(ctx, root, maxFiles)
	if err != nil {
		return err
	}

	overview, err := app.Service.SummarizeProject(ctx, project, paths)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, overview.Overview)
	return nil
}

// Status prints the configuration status.
func Status(opts Options, out io.Writer) error {
	app, err := NewApp(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	status := app.Service.ConfigStatus()
	if !status.Configured {
		fmt.Fprintf(out, "not configured: %s\n", status.Error)
		return nil
	}
	fmt.Fprintf(out, "configured: %s (%s)\n", status.Provider, status.Model)
	return nil
}

// ListProviders prints the registered providers.
func ListProviders(opts Options, out io.Writer) error {
	app, err := NewApp(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	for _, name := range app.Service.Providers() {
		fmt.Fprintln(out, name)
	}
	return nil
}

// AddProject registers a project in the SQLite registry.
func AddProject(ctx context.Context, name, path string, opts Options) error {
	if opts.ProjectsDB == "" {
		return fmt.Errorf("--projects-db is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	db, err := projects.OpenSqlite(opts.ProjectsDB)
	if err != nil {
		return err
	}
	defer db.Close()

	return db.Register(ctx, projects.Project{Name: name, Path: abs})
}

// ListProjects prints every project in the configured catalog.
func ListProjects(ctx context.Context, opts Options, out io.Writer) error {
	app, err := NewApp(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	if app.Catalog == nil {
		return fmt.Errorf("no project catalog: pass --projects or --projects-db")
	}
	list, err := app.Catalog.List(ctx)
	if err != nil {
		return err
	}
	for _, p := range list {
		fmt.Fprintf(out, "%s\t%s\n", p.Name, p.Path)
	}
	return nil
}
