package schema

import (
	einoschema "github.com/cloudwego/eino/schema"
)

// RoleType is the speaker of a chat message.
type RoleType string

const (
	// System is the high-priority instruction role.
	System RoleType = "system"
	// User is the question-asking role.
	User RoleType = "user"
	// Assistant is the model reply role.
	Assistant RoleType = "assistant"
)

// Message is one turn of a conversation, either supplied by the
// caller as history or produced by the chat model.
type Message struct {
	Role    RoleType `json:"role" v:"required|in:system,user,assistant" dc:"message role"`
	Content string   `json:"content" v:"required" dc:"message content"`
}

// ToEinoMessage converts a history message into the chat model's type.
func (m Message) ToEinoMessage() *einoschema.Message {
	var role einoschema.RoleType
	switch m.Role {
	case System:
		role = einoschema.System
	case Assistant:
		role = einoschema.Assistant
	default:
		role = einoschema.User
	}
	return &einoschema.Message{
		Role:    role,
		Content: m.Content,
	}
}
