package store

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"moltstore/crypt"
	"moltstore/db"
	"moltstore/utils"
)

var errStoreDown = errors.New("store unavailable")

// memStore is an in-memory RecordStore with fault injection for exercising
// the service's degradation paths.
type memStore struct {
	conversations map[string]*db.ConversationRecord
	messages      map[string]*db.MessageRecord
	failing       bool
}

func newMemStore() *memStore {
	return &memStore{
		conversations: make(map[string]*db.ConversationRecord),
		messages:      make(map[string]*db.MessageRecord),
	}
}

func (m *memStore) UpsertConversation(rec *db.ConversationRecord) error {
	if m.failing {
		return errStoreDown
	}
	clone := *rec
	m.conversations[rec.ID] = &clone
	return nil
}

func (m *memStore) GetConversation(id string) (*db.ConversationRecord, error) {
	if m.failing {
		return nil, errStoreDown
	}
	rec, ok := m.conversations[id]
	if !ok {
		return nil, fmt.Errorf("conversation %s: %w", id, db.ErrNotFound)
	}
	clone := *rec
	return &clone, nil
}

func (m *memStore) ListConversations() ([]*db.ConversationRecord, error) {
	if m.failing {
		return nil, errStoreDown
	}
	var records []*db.ConversationRecord
	for _, rec := range m.conversations {
		clone := *rec
		records = append(records, &clone)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].UpdatedAt.After(records[j].UpdatedAt)
	})
	return records, nil
}

func (m *memStore) ReplaceConversation(rec *db.ConversationRecord, msgs []*db.MessageRecord) error {
	if m.failing {
		return errStoreDown
	}
	clone := *rec
	m.conversations[rec.ID] = &clone
	for id, msg := range m.messages {
		if msg.ConversationID == rec.ID {
			delete(m.messages, id)
		}
	}
	for _, msg := range msgs {
		msgClone := *msg
		m.messages[msg.ID] = &msgClone
	}
	return nil
}

func (m *memStore) DeleteConversationCascade(id string) error {
	if m.failing {
		return errStoreDown
	}
	delete(m.conversations, id)
	for msgID, msg := range m.messages {
		if msg.ConversationID == id {
			delete(m.messages, msgID)
		}
	}
	return nil
}

func (m *memStore) DeleteConversationsOlderThan(cutoff time.Time) (int64, error) {
	if m.failing {
		return 0, errStoreDown
	}
	var removed int64
	for id, rec := range m.conversations {
		if rec.UpdatedAt.Before(cutoff) {
			if err := m.DeleteConversationCascade(id); err != nil {
				return removed, err
			}
			removed++
		}
	}
	return removed, nil
}

func (m *memStore) UpsertMessage(msg *db.MessageRecord) error {
	if m.failing {
		return errStoreDown
	}
	clone := *msg
	m.messages[msg.ID] = &clone
	return nil
}

func (m *memStore) ListMessages(conversationID string) ([]*db.MessageRecord, error) {
	if m.failing {
		return nil, errStoreDown
	}
	var records []*db.MessageRecord
	for _, msg := range m.messages {
		if msg.ConversationID == conversationID {
			clone := *msg
			records = append(records, &clone)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})
	return records, nil
}

func (m *memStore) ListAllMessages() ([]*db.MessageRecord, error) {
	if m.failing {
		return nil, errStoreDown
	}
	var records []*db.MessageRecord
	for _, msg := range m.messages {
		clone := *msg
		records = append(records, &clone)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})
	return records, nil
}

func (m *memStore) DeleteMessage(id string) error {
	if m.failing {
		return errStoreDown
	}
	delete(m.messages, id)
	return nil
}

func (m *memStore) DeleteMessages(ids []string) error {
	if m.failing {
		return errStoreDown
	}
	for _, id := range ids {
		delete(m.messages, id)
	}
	return nil
}

func (m *memStore) ClearAll() error {
	if m.failing {
		return errStoreDown
	}
	m.conversations = make(map[string]*db.ConversationRecord)
	m.messages = make(map[string]*db.MessageRecord)
	return nil
}

func (m *memStore) CountConversations() (int64, error) {
	if m.failing {
		return 0, errStoreDown
	}
	return int64(len(m.conversations)), nil
}

func (m *memStore) CountMessages() (int64, error) {
	if m.failing {
		return 0, errStoreDown
	}
	return int64(len(m.messages)), nil
}

// memSecrets is a minimal crypt.SecretStore for tests.
type memSecrets struct {
	mu      sync.Mutex
	entries map[string]string
}

func (s *memSecrets) Get(name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	secret, ok := s.entries[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", crypt.ErrSecretNotFound, name)
	}
	return secret, nil
}

func (s *memSecrets) Set(name, secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries == nil {
		s.entries = make(map[string]string)
	}
	s.entries[name] = secret
	return nil
}

func newTestService() (*Service, *memStore) {
	records := newMemStore()
	cipher := crypt.NewCipher(crypt.NewKeyManager(&memSecrets{}, crypt.DefaultKeyName))
	return NewService(records, cipher, utils.New(io.Discard)), records
}
