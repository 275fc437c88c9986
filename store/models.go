// Package store is the persistence service for conversation history. It sits
// between the application and the SQLite record store, encrypting titles and
// message bodies on the way down and decrypting them on the way up, while
// maintaining a plaintext search index alongside the ciphertext.
package store

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// autoTitleLimit caps the auto-generated conversation title length in runes.
const autoTitleLimit = 40

// Message represents a single chat message
type Message struct {
	ID              string    `json:"id" yaml:"id"`
	ConversationID  string    `json:"conversationId" yaml:"conversation_id"`
	Role            string    `json:"role" yaml:"role"`
	Content         string    `json:"content" yaml:"content"`
	Timestamp       time.Time `json:"timestamp" yaml:"timestamp"`
	ModelUsed       string    `json:"modelUsed,omitempty" yaml:"model_used,omitempty"`
	ThinkingContent string    `json:"thinkingContent,omitempty" yaml:"thinking_content,omitempty"`
}

// Conversation represents a chat conversation with its messages
type Conversation struct {
	ID              string     `json:"id" yaml:"id"`
	Title           string     `json:"title" yaml:"title"`
	CreatedAt       time.Time  `json:"createdAt" yaml:"created_at"`
	UpdatedAt       time.Time  `json:"updatedAt" yaml:"updated_at"`
	Model           string     `json:"model,omitempty" yaml:"model,omitempty"`
	ThinkingEnabled bool       `json:"thinkingEnabled,omitempty" yaml:"thinking_enabled,omitempty"`
	IsPinned        bool       `json:"isPinned,omitempty" yaml:"is_pinned,omitempty"`
	Messages        []*Message `json:"messages" yaml:"messages"`
}

// SearchResult is one matching message with enough context to render a hit.
type SearchResult struct {
	ID                string    `json:"id"`
	ConversationID    string    `json:"conversationId"`
	ConversationTitle string    `json:"conversationTitle"`
	Role              string    `json:"role"`
	Content           string    `json:"content"`
	Timestamp         time.Time `json:"timestamp"`
	ThinkingContent   string    `json:"thinkingContent,omitempty"`
}

// StorageStats summarizes the stored corpus.
type StorageStats struct {
	ConversationCount int64  `json:"conversationCount"`
	MessageCount      int64  `json:"messageCount"`
	EstimatedSize     string `json:"estimatedSize"`
}

// NewConversation creates an empty conversation with a fresh ID and the
// default title.
func NewConversation() *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        uuid.NewString(),
		Title:     "New Chat",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddMessage appends a message with a fresh ID and returns it. The first user
// message auto-titles a conversation still carrying the default title.
func (c *Conversation) AddMessage(role, content string) *Message {
	msg := &Message{
		ID:             uuid.NewString(),
		ConversationID: c.ID,
		Role:           role,
		Content:        content,
		Timestamp:      time.Now(),
	}
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = msg.Timestamp

	if role == RoleUser && c.Title == "New Chat" {
		c.Title = truncateTitle(content)
	}

	return msg
}

// truncateTitle collapses whitespace and cuts the text to the title limit,
// respecting rune boundaries.
func truncateTitle(content string) string {
	title := strings.Join(strings.Fields(content), " ")
	if title == "" {
		return "New Chat"
	}

	runes := []rune(title)
	if len(runes) <= autoTitleLimit {
		return title
	}
	return string(runes[:autoTitleLimit]) + "..."
}
