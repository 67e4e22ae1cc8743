package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Turn is one persisted user/bot exchange. Turns are immutable once
// written; ids are assigned by the store and strictly increase in
// insertion order.
type Turn struct {
	ID     int64
	UserID int64
	Input  string
	Output string
}

// Store is an append-only conversation log backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the store at the given path, ensuring that
// the parent directory exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create db directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open db at %s: %w", path, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping db at %s: %w", path, err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the messages table if absent. Safe to call from
// concurrent startups.
func (s *Store) EnsureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			message TEXT NOT NULL,
			response TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_messages_user_id ON messages(user_id);
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// Append inserts one turn and returns its store-assigned id.
func (s *Store) Append(userID int64, input, output string) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO messages (user_id, message, response) VALUES (?, ?, ?)`,
		userID, input, output,
	)
	if err != nil {
		return 0, fmt.Errorf("insert turn for user %d: %w", userID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get turn id: %w", err)
	}
	return id, nil
}

// Recent returns up to limit most recent turns for the user in
// chronological order (oldest of the window first). An unseen user
// yields an empty slice, not an error.
func (s *Store) Recent(userID int64, limit int) ([]Turn, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.Query(
		`SELECT id, user_id, message, response FROM messages
		 WHERE user_id = ? ORDER BY id DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent turns for user %d: %w", userID, err)
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var t Turn
		if err := rows.Scan(&t.ID, &t.UserID, &t.Input, &t.Output); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent turns: %w", err)
	}

	// Reverse to chronological order.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}
