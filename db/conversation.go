package db

import (
	"database/sql"
	"fmt"
	"time"
)

// UpsertConversation inserts or replaces a conversation record by primary key.
func (db *DB) UpsertConversation(rec *ConversationRecord) error {
	_, err := db.conn.Exec(
		`INSERT OR REPLACE INTO conversations (id, title, created_at, updated_at, model, thinking_enabled, is_pinned)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Title, rec.CreatedAt, rec.UpdatedAt, rec.Model, rec.ThinkingEnabled, rec.IsPinned,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert conversation: %w", err)
	}
	return nil
}

// GetConversation retrieves a conversation by ID. Returns ErrNotFound when no
// record exists.
func (db *DB) GetConversation(id string) (*ConversationRecord, error) {
	var rec ConversationRecord
	err := db.conn.QueryRow(
		"SELECT id, title, created_at, updated_at, model, thinking_enabled, is_pinned FROM conversations WHERE id = ?",
		id,
	).Scan(&rec.ID, &rec.Title, &rec.CreatedAt, &rec.UpdatedAt, &rec.Model, &rec.ThinkingEnabled, &rec.IsPinned)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("conversation %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}

	return &rec, nil
}

// ListConversations retrieves all conversations, most recently updated first.
func (db *DB) ListConversations() ([]*ConversationRecord, error) {
	rows, err := db.conn.Query(
		"SELECT id, title, created_at, updated_at, model, thinking_enabled, is_pinned FROM conversations ORDER BY updated_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	var conversations []*ConversationRecord
	for rows.Next() {
		var rec ConversationRecord
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.CreatedAt, &rec.UpdatedAt, &rec.Model, &rec.ThinkingEnabled, &rec.IsPinned); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		conversations = append(conversations, &rec)
	}

	return conversations, rows.Err()
}

// ReplaceConversation atomically upserts the conversation record and replaces
// its complete message set. Readers never observe the conversation with a
// partial message list.
func (db *DB) ReplaceConversation(rec *ConversationRecord, msgs []*MessageRecord) error {
	return db.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO conversations (id, title, created_at, updated_at, model, thinking_enabled, is_pinned)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, rec.Title, rec.CreatedAt, rec.UpdatedAt, rec.Model, rec.ThinkingEnabled, rec.IsPinned,
		); err != nil {
			return fmt.Errorf("failed to upsert conversation: %w", err)
		}

		if _, err := tx.Exec("DELETE FROM messages WHERE conversation_id = ?", rec.ID); err != nil {
			return fmt.Errorf("failed to delete existing messages: %w", err)
		}

		for _, msg := range msgs {
			if err := insertMessageTx(tx, msg); err != nil {
				return err
			}
		}

		return nil
	})
}

// DeleteConversationCascade removes the conversation and every message that
// references it in one transaction.
func (db *DB) DeleteConversationCascade(id string) error {
	return db.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM messages WHERE conversation_id = ?", id); err != nil {
			return fmt.Errorf("failed to delete messages: %w", err)
		}
		if _, err := tx.Exec("DELETE FROM conversations WHERE id = ?", id); err != nil {
			return fmt.Errorf("failed to delete conversation: %w", err)
		}
		return nil
	})
}

// DeleteConversationsOlderThan deletes conversations whose updated_at is
// before cutoff, along with their messages. Returns the number of
// conversations removed.
func (db *DB) DeleteConversationsOlderThan(cutoff time.Time) (int64, error) {
	var removed int64
	err := db.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(
			"DELETE FROM messages WHERE conversation_id IN (SELECT id FROM conversations WHERE updated_at < ?)",
			cutoff,
		); err != nil {
			return fmt.Errorf("failed to delete old messages: %w", err)
		}

		result, err := tx.Exec("DELETE FROM conversations WHERE updated_at < ?", cutoff)
		if err != nil {
			return fmt.Errorf("failed to delete old conversations: %w", err)
		}

		removed, err = result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		return nil
	})
	return removed, err
}
