// Package prompt builds the system prompt and the provider-agnostic
// conversation sent for each question.
package prompt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/richinex/codechat/files"
)

// unknown is rendered for every missing overview field.
const unknown = "Unknown"

// ProjectOverview is optional project metadata supplied by the caller.
type ProjectOverview struct {
	Name         string   `json:"name,omitempty"`
	DisplayName  string   `json:"displayName,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	FileCount    *int     `json:"fileCount,omitempty"`
}

// BuildSystemPrompt renders the system prompt for a question. Missing
// overview fields render as "Unknown" so the prompt always has the same shape.
func BuildSystemPrompt(overview *ProjectOverview, refs []files.Reference) string {
	if overview == nil {
		overview = &ProjectOverview{}
	}

	name := orUnknown(overview.Name)
	displayName := orUnknown(overview.DisplayName)
	technologies := orUnknown(strings.Join(nonEmpty(overview.Technologies), ", "))
	fileCount := unknown
	if overview.FileCount != nil {
		fileCount = strconv.Itoa(*overview.FileCount)
	}

	var b strings.Builder
	b.WriteString("You are an AI assistant helping developers understand and work with their codebase.\n\n")
	b.WriteString("Project Information:\n")
	fmt.Fprintf(&b, "- Name: %s\n", name)
	fmt.Fprintf(&b, "- Display Name: %s\n", displayName)
	fmt.Fprintf(&b, "- Technologies: %s\n", technologies)
	fmt.Fprintf(&b, "- File Count: %s\n", fileCount)

	if len(refs) > 0 {
		b.WriteString("\nThe user has referenced the following files:\n")
		for _, ref := range refs {
			fmt.Fprintf(&b, "- %s\n", ref.Path)
		}
		b.WriteString("The contents of these files are provided in the user's message.\n")
	}

	b.WriteString("\nAnswer questions about this project's code clearly and accurately. ")
	b.WriteString("Reference specific files when it helps, use code blocks for code, ")
	b.WriteString("and say so when you are unsure.")

	return b.String()
}

// OverviewSystemPrompt is the fixed instruction used to summarize a project
// from its file list.
func OverviewSystemPrompt() string {
	return `You are an expert software architect. Given the list of files in a project, write a concise overview of the project.

Cover the following sections:
1. Project type and purpose
2. Main technologies and frameworks
3. Key directories and what they contain
4. Entry points
5. Architecture and notable patterns
6. Dependencies and build tooling

Use markdown headings for each section. Base every statement on the file list and say when something is inferred.`
}

// OverviewUserMessage lists the project's file paths, one per line.
func OverviewUserMessage(paths []string) string {
	return strings.Join(paths, "\n")
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return unknown
	}
	return s
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
