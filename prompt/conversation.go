package prompt

import (
	"fmt"
	"strings"

	"github.com/richinex/codechat/files"
	"github.com/richinex/codechat/llm"
)

// QuestionSeparator introduces the user's question after any file context.
const QuestionSeparator = "User question: "

// BuildConversation returns the message list for one question: the system
// prompt (when non-empty) followed by a single user message. File contents
// are packed into the user message because not every provider has a
// separate attachment role.
func BuildConversation(userText, systemPrompt string, resolved []files.Content) []llm.ChatMessage {
	messages := make([]llm.ChatMessage, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, llm.SystemMessage(systemPrompt))
	}
	return append(messages, llm.UserMessage(userContent(userText, resolved)))
}

func userContent(userText string, resolved []files.Content) string {
	if len(resolved) == 0 {
		return userText
	}

	var b strings.Builder
	for _, file := range resolved {
		fmt.Fprintf(&b, "File: %s\n```%s\n%s\n```\n\n", file.Path, file.Language(), file.Content)
	}
	b.WriteString(QuestionSeparator)
	b.WriteString(userText)
	return b.String()
}
