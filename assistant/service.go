// Package assistant composes configuration, file reading, prompt building
// and the provider adapter into the chat and overview operations.
//
// Information Hiding:
// - Pipeline order (validate -> config -> files -> prompt -> provider)
// - Project root lookup and the not-found policy
// - Per-request configuration resolution
package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/richinex/codechat/config"
	"github.com/richinex/codechat/files"
	"github.com/richinex/codechat/llm"
	"github.com/richinex/codechat/projects"
	"github.com/richinex/codechat/prompt"
)

// ValidationError reports a missing required request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Invoker sends a conversation to the configured provider.
type Invoker interface {
	Invoke(ctx context.Context, conversation []llm.ChatMessage, cfg llm.ActiveConfig) (string, error)
}

// FileReader resolves references against a project root.
type FileReader interface {
	ReadAll(ctx context.Context, root string, refs []files.Reference) []files.Content
}

// EnvironmentSource returns the configuration environment for one request.
type EnvironmentSource func() (config.Environment, error)

// Service answers questions about projects.
// It holds no per-request state and is safe for concurrent use.
type Service struct {
	resolver *config.Resolver
	env      EnvironmentSource
	invoker  Invoker
	reader   FileReader
	catalog  projects.Catalog
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a service. catalog may be nil, in which case every
// project is treated as not found.
func NewService(resolver *config.Resolver, invoker Invoker, reader FileReader, catalog projects.Catalog) *Service {
	return &Service{
		resolver: resolver,
		env:      func() (config.Environment, error) { return config.FromOS(), nil },
		invoker:  invoker,
		reader:   reader,
		catalog:  catalog,
		logger:   slog.New(slog.DiscardHandler),
		now:      time.Now,
	}
}

// WithEnvironment sets where per-request configuration is read from.
func (s *Service) WithEnvironment(env EnvironmentSource) *Service {
	s.env = env
	return s
}

// WithLogger sets the logger.
func (s *Service) WithLogger(logger *slog.Logger) *Service {
	s.logger = logger
	return s
}

// WithClock sets the time source used for response timestamps.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Question is a fully validated chat request.
type Question struct {
	Text        string
	Overview    *prompt.ProjectOverview
	References  []files.Reference
	ProjectName string
}

// Answer is the result of AnswerQuestion.
type Answer struct {
	Response  string    `json:"response"`
	Provider  string    `json:"provider"`
	Model     string    `json:"model"`
	Timestamp time.Time `json:"timestamp"`
}

// AnswerQuestion resolves configuration, reads the referenced files, builds
// the conversation and returns the provider's answer. An unknown project is
// not an error: the question is answered with no file contents.
func (s *Service) AnswerQuestion(ctx context.Context, q Question) (Answer, error) {
	start := s.now()

	cfg, err := s.resolve()
	if err != nil {
		return Answer{}, err
	}

	resolved, err := s.readReferences(ctx, q.ProjectName, q.References)
	if err != nil {
		return Answer{}, err
	}

	systemPrompt := prompt.BuildSystemPrompt(q.Overview, q.References)
	conversation := prompt.BuildConversation(q.Text, systemPrompt, resolved)

	text, err := s.invoker.Invoke(ctx, conversation, cfg)
	if err != nil {
		s.logger.Error("chat failed",
			"provider", cfg.Provider,
			"model", cfg.Model,
			"files", len(resolved),
			"duration", s.now().Sub(start),
			"error", err,
		)
		return Answer{}, err
	}

	s.logger.Info("chat answered",
		"provider", cfg.Provider,
		"model", cfg.Model,
		"files", len(resolved),
		"duration", s.now().Sub(start),
	)

	return Answer{
		Response:  text,
		Provider:  cfg.Provider,
		Model:     cfg.Model,
		Timestamp: s.now(),
	}, nil
}

// readReferences looks up the project root and reads refs. It returns no
// contents when refs is empty or the project is unknown.
func (s *Service) readReferences(ctx context.Context, projectName string, refs []files.Reference) ([]files.Content, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	if s.catalog == nil {
		s.logger.Warn("no project catalog; ignoring file references", "project", projectName, "files", len(refs))
		return nil, nil
	}

	root, err := s.catalog.Root(ctx, projectName)
	if errors.Is(err, projects.ErrNotFound) {
		s.logger.Warn("project not found; ignoring file references", "project", projectName, "files", len(refs))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up project %s: %w", projectName, err)
	}

	return s.reader.ReadAll(ctx, root, refs), nil
}

// Overview is the result of SummarizeProject.
type Overview struct {
	Overview  string    `json:"overview"`
	Timestamp time.Time `json:"timestamp"`
}

// SummarizeProject asks the provider for a structured overview of a project
// given its file list. Both arguments are required and are checked before
// any configuration or network work.
func (s *Service) SummarizeProject(ctx context.Context, projectName string, paths []string) (Overview, error) {
	if strings.TrimSpace(projectName) == "" {
		return Overview{}, &ValidationError{Field: "projectName", Reason: "is required"}
	}
	if len(paths) == 0 {
		return Overview{}, &ValidationError{Field: "files", Reason: "must not be empty"}
	}

	start := s.now()

	cfg, err := s.resolve()
	if err != nil {
		return Overview{}, err
	}

	conversation := []llm.ChatMessage{
		llm.SystemMessage(prompt.OverviewSystemPrompt()),
		llm.UserMessage(prompt.OverviewUserMessage(paths)),
	}

	text, err := s.invoker.Invoke(ctx, conversation, cfg)
	if err != nil {
		s.logger.Error("overview failed", "project", projectName, "provider", cfg.Provider, "error", err)
		return Overview{}, err
	}

	s.logger.Info("overview generated",
		"project", projectName,
		"provider", cfg.Provider,
		"model", cfg.Model,
		"files", len(paths),
		"duration", s.now().Sub(start),
	)

	return Overview{Overview: text, Timestamp: s.now()}, nil
}

// ConfigStatus reports whether a provider is usable. It never fails:
// configuration problems are returned in Error.
type ConfigStatus struct {
	Configured bool   `json:"configured"`
	Provider   string `json:"provider,omitempty"`
	Model      string `json:"model,omitempty"`
	Error      string `json:"error,omitempty"`
}

// ConfigStatus resolves the current configuration and reports the outcome.
func (s *Service) ConfigStatus() ConfigStatus {
	cfg, err := s.resolve()
	if err != nil {
		return ConfigStatus{Configured: false, Error: err.Error()}
	}
	return ConfigStatus{Configured: true, Provider: cfg.Provider, Model: cfg.Model}
}

// Providers returns the names of every provider the resolver can select.
func (s *Service) Providers() []string {
	return s.resolver.Registry().Names()
}

func (s *Service) resolve() (llm.ActiveConfig, error) {
	env, err := s.env()
	if err != nil {
		return llm.ActiveConfig{}, &config.ConfigurationError{Reason: err.Error()}
	}
	return s.resolver.Resolve(env)
}
