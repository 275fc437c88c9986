package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"moltstore/crypt"
	"moltstore/db"
	"moltstore/utils"
)

// avgMessageSizeBytes is the rough per-message footprint used for the size
// estimate shown in settings. It deliberately avoids touching the database
// file so it works the same against any record store.
const avgMessageSizeBytes = 500

// RecordStore is the storage contract the service operates against. *db.DB
// satisfies it; tests substitute an in-memory implementation.
type RecordStore interface {
	UpsertConversation(rec *db.ConversationRecord) error
	GetConversation(id string) (*db.ConversationRecord, error)
	ListConversations() ([]*db.ConversationRecord, error)
	ReplaceConversation(rec *db.ConversationRecord, msgs []*db.MessageRecord) error
	DeleteConversationCascade(id string) error
	DeleteConversationsOlderThan(cutoff time.Time) (int64, error)
	UpsertMessage(msg *db.MessageRecord) error
	ListMessages(conversationID string) ([]*db.MessageRecord, error)
	ListAllMessages() ([]*db.MessageRecord, error)
	DeleteMessage(id string) error
	DeleteMessages(ids []string) error
	ClearAll() error
	CountConversations() (int64, error)
	CountMessages() (int64, error)
}

// Service persists conversations and messages with field-level encryption.
// Mutations report errors to the caller; read paths degrade to empty results
// and log, so a corrupted store never takes the conversation list down.
type Service struct {
	store  RecordStore
	cipher *crypt.Cipher
	logger *utils.Logger
}

// NewService creates a persistence service over the given record store.
func NewService(store RecordStore, cipher *crypt.Cipher, logger *utils.Logger) *Service {
	return &Service{store: store, cipher: cipher, logger: logger}
}

// SaveConversation writes the conversation and its complete message set,
// replacing whatever was stored under the same ID.
func (s *Service) SaveConversation(conv *Conversation) error {
	rec, err := s.encryptConversation(conv)
	if err != nil {
		return err
	}

	msgs := make([]*db.MessageRecord, 0, len(conv.Messages))
	for _, msg := range conv.Messages {
		encrypted, err := s.encryptMessage(msg)
		if err != nil {
			return err
		}
		msgs = append(msgs, encrypted)
	}

	if err := s.store.ReplaceConversation(rec, msgs); err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}
	return nil
}

// UpdateConversation writes conversation metadata only, leaving stored
// messages alone. Used for renames, pinning, and model switches.
func (s *Service) UpdateConversation(conv *Conversation) error {
	rec, err := s.encryptConversation(conv)
	if err != nil {
		return err
	}
	if err := s.store.UpsertConversation(rec); err != nil {
		return fmt.Errorf("failed to update conversation: %w", err)
	}
	return nil
}

// SaveMessage writes a single message without touching its conversation row.
func (s *Service) SaveMessage(msg *Message) error {
	encrypted, err := s.encryptMessage(msg)
	if err != nil {
		return err
	}
	if err := s.store.UpsertMessage(encrypted); err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}
	return nil
}

// DeleteMessage removes a single message.
func (s *Service) DeleteMessage(id string) error {
	if err := s.store.DeleteMessage(id); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

// DeleteMessages removes a batch of messages by ID.
func (s *Service) DeleteMessages(ids []string) error {
	if err := s.store.DeleteMessages(ids); err != nil {
		return fmt.Errorf("failed to delete messages: %w", err)
	}
	return nil
}

// DeleteConversation removes a conversation and all its messages.
func (s *Service) DeleteConversation(id string) error {
	if err := s.store.DeleteConversationCascade(id); err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return nil
}

// ClearAll wipes every conversation and message.
func (s *Service) ClearAll() error {
	if err := s.store.ClearAll(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// PruneOlderThan removes conversations not updated in the given number of
// days, returning how many were deleted. Days of zero or less is a no-op.
func (s *Service) PruneOlderThan(days int) (int64, error) {
	if days <= 0 {
		return 0, nil
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	removed, err := s.store.DeleteConversationsOlderThan(cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune conversations: %w", err)
	}
	if removed > 0 {
		s.logger.Info("Pruned %d conversations older than %d days", removed, days)
	}
	return removed, nil
}

// LoadAll returns every conversation with its messages, most recently updated
// first. Storage failures return nil; individual messages that fail to
// decrypt are skipped so one corrupt row cannot hide the rest of the history.
func (s *Service) LoadAll() []*Conversation {
	records, err := s.store.ListConversations()
	if err != nil {
		s.logger.Error("Failed to load conversations: %v", err)
		return nil
	}

	conversations := make([]*Conversation, 0, len(records))
	for _, rec := range records {
		conv := s.decryptConversation(rec)
		conv.Messages = s.loadMessages(rec.ID)
		conversations = append(conversations, conv)
	}

	return conversations
}

// LoadConversation returns a single conversation with its messages.
func (s *Service) LoadConversation(id string) (*Conversation, error) {
	rec, err := s.store.GetConversation(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}

	conv := s.decryptConversation(rec)
	conv.Messages = s.loadMessages(id)
	return conv, nil
}

func (s *Service) loadMessages(conversationID string) []*Message {
	records, err := s.store.ListMessages(conversationID)
	if err != nil {
		s.logger.Error("Failed to load messages for conversation %s: %v", conversationID, err)
		return []*Message{}
	}

	messages := make([]*Message, 0, len(records))
	for _, rec := range records {
		msg, err := s.decryptMessage(rec)
		if err != nil {
			s.logger.Warn("Skipping undecryptable message %s: %v", rec.ID, err)
			continue
		}
		messages = append(messages, msg)
	}
	return messages
}

// Stats reports counts and an estimated size. Errors degrade to zeroed stats
// with "0 KB" so settings screens always have something to show.
func (s *Service) Stats() StorageStats {
	convCount, err := s.store.CountConversations()
	if err != nil {
		s.logger.Error("Failed to count conversations: %v", err)
		return StorageStats{EstimatedSize: "0 KB"}
	}

	msgCount, err := s.store.CountMessages()
	if err != nil {
		s.logger.Error("Failed to count messages: %v", err)
		return StorageStats{EstimatedSize: "0 KB"}
	}

	return StorageStats{
		ConversationCount: convCount,
		MessageCount:      msgCount,
		EstimatedSize:     formatEstimatedSize(msgCount * avgMessageSizeBytes),
	}
}

func formatEstimatedSize(bytes int64) string {
	kb := float64(bytes) / 1024
	if kb < 1024 {
		return fmt.Sprintf("%.2f KB", kb)
	}
	return fmt.Sprintf("%.2f MB", kb/1024)
}

func (s *Service) encryptConversation(conv *Conversation) (*db.ConversationRecord, error) {
	title, err := s.cipher.Encrypt(conv.Title)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt title: %w", err)
	}

	return &db.ConversationRecord{
		ID:              conv.ID,
		Title:           title,
		CreatedAt:       conv.CreatedAt,
		UpdatedAt:       conv.UpdatedAt,
		Model:           conv.Model,
		ThinkingEnabled: conv.ThinkingEnabled,
		IsPinned:        conv.IsPinned,
	}, nil
}

func (s *Service) decryptConversation(rec *db.ConversationRecord) *Conversation {
	return &Conversation{
		ID:              rec.ID,
		Title:           s.decryptTitle(rec),
		CreatedAt:       rec.CreatedAt,
		UpdatedAt:       rec.UpdatedAt,
		Model:           rec.Model,
		ThinkingEnabled: rec.ThinkingEnabled,
		IsPinned:        rec.IsPinned,
	}
}

// decryptTitle falls back to the stored value when decryption fails. Titles
// written before encryption was introduced are plaintext, and rendering them
// as-is beats losing the conversation from the sidebar.
func (s *Service) decryptTitle(rec *db.ConversationRecord) string {
	title, err := s.cipher.Decrypt(rec.Title)
	if err != nil {
		if !errors.Is(err, crypt.ErrDecryptionFailed) {
			s.logger.Error("Failed to decrypt title for conversation %s: %v", rec.ID, err)
		}
		return rec.Title
	}
	return title
}

func (s *Service) encryptMessage(msg *Message) (*db.MessageRecord, error) {
	content, err := s.cipher.Encrypt(msg.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt message content: %w", err)
	}

	thinking, err := s.cipher.Encrypt(msg.ThinkingContent)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt thinking content: %w", err)
	}

	return &db.MessageRecord{
		ID:              msg.ID,
		ConversationID:  msg.ConversationID,
		Role:            msg.Role,
		Content:         content,
		Timestamp:       msg.Timestamp,
		ModelUsed:       msg.ModelUsed,
		ThinkingContent: thinking,
		SearchText:      strings.ToLower(msg.Content),
	}, nil
}

func (s *Service) decryptMessage(rec *db.MessageRecord) (*Message, error) {
	content, err := s.cipher.Decrypt(rec.Content)
	if err != nil {
		return nil, err
	}

	thinking, err := s.cipher.Decrypt(rec.ThinkingContent)
	if err != nil {
		return nil, err
	}

	return &Message{
		ID:              rec.ID,
		ConversationID:  rec.ConversationID,
		Role:            rec.Role,
		Content:         content,
		Timestamp:       rec.Timestamp,
		ModelUsed:       rec.ModelUsed,
		ThinkingContent: thinking,
	}, nil
}
