package db

import (
	"errors"
	"time"
)

// ErrNotFound is returned by lookups when no record matches the given key.
var ErrNotFound = errors.New("record not found")

// ConversationRecord is the stored form of a conversation. Title holds a
// ciphertext blob, except for records written before encryption was
// introduced, which carry plaintext.
type ConversationRecord struct {
	ID              string
	Title           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Model           string
	ThinkingEnabled bool
	IsPinned        bool
}

// MessageRecord is the stored form of a message. Content and ThinkingContent
// hold ciphertext blobs; SearchText is the lower-cased plaintext shadow of
// Content that makes substring search possible without decrypting the corpus.
type MessageRecord struct {
	ID              string
	ConversationID  string
	Role            string
	Content         string
	Timestamp       time.Time
	ModelUsed       string
	ThinkingContent string
	SearchText      string
}
