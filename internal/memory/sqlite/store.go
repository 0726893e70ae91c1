package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	"github.com/liemdt/zbot/internal/memory"
	"github.com/liemdt/zbot/pkg/message"
)

// Append records a completed exchange and trims the conversation to
// memory.MaxTurns in the same transaction.
func (s *Store) Append(key message.Key, userText, botText string) error {
	ctx := context.TODO()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin append: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO turns (conversation, seq, user_text, bot_text)
		VALUES (?, COALESCE((SELECT MAX(seq) FROM turns WHERE conversation = ?), 0) + 1, ?, ?)`,
		string(key), string(key), userText, botText,
	)
	if err != nil {
		return fmt.Errorf("sqlite: append turn: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM turns
		WHERE conversation = ?
		  AND seq <= (SELECT MAX(seq) FROM turns WHERE conversation = ?) - ?`,
		string(key), string(key), memory.MaxTurns,
	)
	if err != nil {
		return fmt.Errorf("sqlite: trim turns: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit append: %w", err)
	}
	return nil
}

// Recent returns up to n most recent turns in chronological order.
func (s *Store) Recent(key message.Key, n int) ([]memory.Turn, error) {
	if n <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(context.TODO(), `
		SELECT user_text, bot_text, created_at
		FROM turns
		WHERE conversation = ?
		ORDER BY seq DESC
		LIMIT ?`,
		string(key), n,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: recent turns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var turns []memory.Turn
	for rows.Next() {
		t, err := scanTurn(rows)
		if err != nil {
			return nil, err
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: recent rows: %w", err)
	}

	// Reverse to chronological order.
	slices.Reverse(turns)
	return turns, nil
}

// Clear removes the conversation entirely.
func (s *Store) Clear(key message.Key) error {
	if _, err := s.db.ExecContext(context.TODO(),
		"DELETE FROM turns WHERE conversation = ?", string(key)); err != nil {
		return fmt.Errorf("sqlite: clear conversation: %w", err)
	}
	return nil
}

// Len returns the number of turns stored for the conversation.
func (s *Store) Len(key message.Key) (int, error) {
	var n int
	err := s.db.QueryRowContext(context.TODO(),
		"SELECT COUNT(*) FROM turns WHERE conversation = ?", string(key)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("sqlite: count turns: %w", err)
	}
	return n, nil
}

func scanTurn(rows *sql.Rows) (memory.Turn, error) {
	var t memory.Turn
	var created string
	if err := rows.Scan(&t.UserText, &t.BotText, &created); err != nil {
		return memory.Turn{}, fmt.Errorf("sqlite: scan turn: %w", err)
	}
	if ts, err := time.Parse(time.RFC3339Nano, created); err == nil {
		t.Timestamp = ts
	}
	return t, nil
}
