package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// UpsertMessage inserts or replaces a single message record by primary key.
func (db *DB) UpsertMessage(msg *MessageRecord) error {
	_, err := db.conn.Exec(
		`INSERT OR REPLACE INTO messages (id, conversation_id, role, content, timestamp, model_used, thinking_content, search_text)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.ConversationID, msg.Role, msg.Content, msg.Timestamp, msg.ModelUsed, msg.ThinkingContent, msg.SearchText,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert message: %w", err)
	}
	return nil
}

func insertMessageTx(tx *sql.Tx, msg *MessageRecord) error {
	_, err := tx.Exec(
		`INSERT OR REPLACE INTO messages (id, conversation_id, role, content, timestamp, model_used, thinking_content, search_text)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.ConversationID, msg.Role, msg.Content, msg.Timestamp, msg.ModelUsed, msg.ThinkingContent, msg.SearchText,
	)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// ListMessages retrieves all messages in a conversation, oldest first.
func (db *DB) ListMessages(conversationID string) ([]*MessageRecord, error) {
	rows, err := db.conn.Query(
		"SELECT id, conversation_id, role, content, timestamp, model_used, thinking_content, search_text FROM messages WHERE conversation_id = ? ORDER BY timestamp ASC",
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

// ListAllMessages retrieves every message in the store in table order.
func (db *DB) ListAllMessages() ([]*MessageRecord, error) {
	rows, err := db.conn.Query(
		"SELECT id, conversation_id, role, content, timestamp, model_used, thinking_content, search_text FROM messages",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

func scanMessages(rows *sql.Rows) ([]*MessageRecord, error) {
	var messages []*MessageRecord
	for rows.Next() {
		var msg MessageRecord
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.Role, &msg.Content, &msg.Timestamp, &msg.ModelUsed, &msg.ThinkingContent, &msg.SearchText); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, &msg)
	}
	return messages, rows.Err()
}

// DeleteMessage deletes a message
func (db *DB) DeleteMessage(id string) error {
	_, err := db.conn.Exec("DELETE FROM messages WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

// DeleteMessages deletes many messages by primary key in one statement.
func (db *DB) DeleteMessages(ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	_, err := db.conn.Exec("DELETE FROM messages WHERE id IN ("+placeholders+")", args...)
	if err != nil {
		return fmt.Errorf("failed to delete messages: %w", err)
	}
	return nil
}
