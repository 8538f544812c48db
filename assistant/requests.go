package assistant

import (
	"context"
	"strings"

	"github.com/richinex/codechat/files"
	"github.com/richinex/codechat/prompt"
)

// ChatContext is optional context attached to a chat request.
type ChatContext struct {
	ProjectOverview *prompt.ProjectOverview `json:"projectOverview,omitempty"`
	FileReferences  []files.Reference       `json:"fileReferences,omitempty"`
}

// ChatRequest is the JSON shape accepted by Chat.
type ChatRequest struct {
	Message     string      `json:"message"`
	Context     ChatContext `json:"context"`
	ProjectName string      `json:"projectName"`
}

// Chat validates req and answers it.
func (s *Service) Chat(ctx context.Context, req ChatRequest) (Answer, error) {
	if strings.TrimSpace(req.Message) == "" {
		return Answer{}, &ValidationError{Field: "message", Reason: "is required"}
	}
	return s.AnswerQuestion(ctx, Question{
		Text:        req.Message,
		Overview:    req.Context.ProjectOverview,
		References:  req.Context.FileReferences,
		ProjectName: req.ProjectName,
	})
}

// OverviewRequest is the JSON shape accepted by GenerateOverview.
type OverviewRequest struct {
	ProjectName string            `json:"projectName"`
	Files       []files.Reference `json:"files"`
}

// GenerateOverview validates req and summarizes the project from its file list.
func (s *Service) GenerateOverview(ctx context.Context, req OverviewRequest) (Overview, error) {
	paths := make([]string, 0, len(req.Files))
	for _, f := range req.Files {
		if f.Path != "" {
			paths = append(paths, f.Path)
		}
	}
	return s.SummarizeProject(ctx, req.ProjectName, paths)
}
