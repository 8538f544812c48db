// Application wiring for CLI commands.
//
// Information Hiding:
// - Construction order of settings, logger, registry, adapter, reader, catalog
// - Per-request environment source (.env files re-read, --provider override)

package cli

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/richinex/codechat/assistant"
	"github.com/richinex/codechat/config"
	"github.com/richinex/codechat/files"
	"github.com/richinex/codechat/internal/logging"
	"github.com/richinex/codechat/llm"
	"github.com/richinex/codechat/projects"
)

// Options holds CLI execution options.
type Options struct {
	Provider     string   // overrides AI_PROVIDER when set
	EnvFiles     []string // .env files read on every request
	ProjectsFile string   // YAML project catalog
	ProjectsDB   string   // SQLite project registry
	Verbose      bool
	LogOutput    io.Writer

	// Catalog, when set, is used instead of ProjectsFile and ProjectsDB.
	Catalog projects.Catalog
}

// DefaultOptions returns default CLI options.
func DefaultOptions() Options {
	return Options{
		EnvFiles:  []string{".env"},
		LogOutput: os.Stderr,
	}
}

// App is the wired service graph shared by every command.
type App struct {
	Settings config.Settings
	Logger   *slog.Logger
	Service  *assistant.Service
	Catalog  projects.Catalog
	Reader   *files.Reader

	closers []io.Closer
}

// NewApp builds the service graph from opts.
func NewApp(opts Options) (*App, error) {
	envSource := environmentSource(opts)

	env, err := envSource()
	if err != nil {
		return nil, err
	}
	settings, err := config.Load(env)
	if err != nil {
		return nil, err
	}

	level := settings.LogLevel
	if opts.Verbose {
		level = "debug"
	}
	out := opts.LogOutput
	if out == nil {
		out = os.Stderr
	}
	logger, err := logging.New(out, level, settings.LogFormat)
	if err != nil {
		return nil, err
	}

	app := &App{Settings: settings, Logger: logger}

	catalog, err := app.openCatalog(opts)
	if err != nil {
		return nil, err
	}

	resolver := config.NewResolver(config.NewRegistry(env))
	adapter := llm.NewAdapter(settings.Timeout).WithLogger(logger)
	app.Reader = files.NewReader(settings.RootCacheSize).WithLogger(logger)
	app.Catalog = catalog
	app.Service = assistant.NewService(resolver, adapter, app.Reader, catalog).
		WithEnvironment(envSource).
		WithLogger(logger)

	return app, nil
}

// Close releases the project registry, if one was opened.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

func (a *App) openCatalog(opts Options) (projects.Catalog, error) {
	switch {
	case opts.Catalog != nil:
		return opts.Catalog, nil
	case opts.ProjectsFile != "" && opts.ProjectsDB != "":
		return nil, errors.New("use either --projects or --projects-db, not both")
	case opts.ProjectsFile != "":
		return projects.LoadCatalogFile(opts.ProjectsFile)
	case opts.ProjectsDB != "":
		db, err := projects.OpenSqlite(opts.ProjectsDB)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db)
		return db, nil
	default:
		return nil, nil
	}
}

// environmentSource reads the .env files and process environment fresh on
// each call so rotated keys apply without a restart.
func environmentSource(opts Options) assistant.EnvironmentSource {
	return func() (config.Environment, error) {
		env, err := config.LoadEnvironment(opts.EnvFiles...)
		if err != nil {
			return nil, err
		}
		if opts.Provider != "" {
			env[config.EnvProvider] = opts.Provider
		}
		return env, nil
	}
}
