// ABOUTME: Prompt assembly for grounded answers
// ABOUTME: Builds the system + user message pair sent to the completion provider
package core

import "fmt"

// Chat roles
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one chat message sent to the completion provider
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// BuildMessages interpolates the context and question verbatim into the user message
func BuildMessages(systemPrompt, contextText, question string) []Message {
	return []Message{
		{Role: RoleSystem, Content: systemPrompt},
		{Role: RoleUser, Content: fmt.Sprintf("Context:\n%s\n\nQuestion: %s", contextText, question)},
	}
}
