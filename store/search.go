package store

import (
	"errors"
	"strings"

	"moltstore/db"
)

// SearchMessages finds messages whose content contains every token of query,
// case-insensitively, matching against the plaintext search index rather than
// decrypting the corpus. An empty query matches everything. conversationID
// narrows the search to one conversation when non-empty. Storage failures
// degrade to nil; messages that match but cannot be decrypted are skipped.
func (s *Service) SearchMessages(query, conversationID string) []SearchResult {
	tokens := strings.Fields(strings.ToLower(query))

	records, err := s.listSearchCandidates(conversationID)
	if err != nil {
		s.logger.Error("Search failed: %v", err)
		return nil
	}

	titles := make(map[string]string)
	var results []SearchResult
	for _, rec := range records {
		if !matchesAll(rec.SearchText, tokens) {
			continue
		}

		msg, err := s.decryptMessage(rec)
		if err != nil {
			s.logger.Warn("Skipping undecryptable search hit %s: %v", rec.ID, err)
			continue
		}

		results = append(results, SearchResult{
			ID:                msg.ID,
			ConversationID:    msg.ConversationID,
			ConversationTitle: s.conversationTitle(msg.ConversationID, titles),
			Role:              msg.Role,
			Content:           msg.Content,
			Timestamp:         msg.Timestamp,
			ThinkingContent:   msg.ThinkingContent,
		})
	}

	return results
}

func (s *Service) listSearchCandidates(conversationID string) ([]*db.MessageRecord, error) {
	if conversationID != "" {
		return s.store.ListMessages(conversationID)
	}
	return s.store.ListAllMessages()
}

// matchesAll reports whether text contains every token as a substring.
func matchesAll(text string, tokens []string) bool {
	for _, token := range tokens {
		if !strings.Contains(text, token) {
			return false
		}
	}
	return true
}

// conversationTitle resolves and caches the decrypted title for a hit's
// conversation. Orphaned messages report "Unknown".
func (s *Service) conversationTitle(conversationID string, cache map[string]string) string {
	if title, ok := cache[conversationID]; ok {
		return title
	}

	title := "Unknown"
	rec, err := s.store.GetConversation(conversationID)
	if err == nil {
		title = s.decryptTitle(rec)
	} else if !errors.Is(err, db.ErrNotFound) {
		s.logger.Error("Failed to resolve conversation %s during search: %v", conversationID, err)
	}

	cache[conversationID] = title
	return title
}
