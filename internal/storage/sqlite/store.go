// Package sqlite provides a SQLite-backed game storage implementation
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/mcoot/mastermind-go/internal/model"
	"github.com/mcoot/mastermind-go/internal/storage"
)

//go:embed schema.sql
var schemaSQL string

// Store persists roster, session and settings in SQLite
type Store struct {
	sqlDB *sql.DB
}

// Ensure Store implements the interface
var _ storage.Storage = (*Store)(nil)

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite store and applies the embedded schema
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schemaSQL); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Roster operations

// GetPlayers returns the roster in insertion order
func (s *Store) GetPlayers(ctx context.Context) ([]model.Player, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT name, wins, losses FROM players ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	players := []model.Player{}
	for rows.Next() {
		var player model.Player
		if err := rows.Scan(&player.Name, &player.Wins, &player.Losses); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, player)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate players: %w", err)
	}
	return players, nil
}

// SavePlayers replaces the whole roster in one transaction
func (s *Store) SavePlayers(ctx context.Context, players []model.Player) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM players`); err != nil {
		return fmt.Errorf("clear players: %w", err)
	}
	for i, player := range players {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO players (position, name, wins, losses) VALUES (?, ?, ?, ?)`,
			i, player.Name, player.Wins, player.Losses,
		)
		if err != nil {
			return fmt.Errorf("insert player %q: %w", player.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit players: %w", err)
	}
	return nil
}

// Session operations

// GetSession returns the stored round or model.ErrNoActiveSession
func (s *Store) GetSession(ctx context.Context) (*model.Session, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT player, secret, attempt, history, help_tokens,
		        restart_used, allow_repeats, started_at
		   FROM session
		  WHERE id = 1`)

	var (
		session   model.Session
		secret    string
		history   string
		startedAt int64
	)
	err := row.Scan(
		&session.Player,
		&secret,
		&session.Attempt,
		&history,
		&session.HelpTokens,
		&session.RestartUsed,
		&session.AllowRepeats,
		&startedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrNoActiveSession
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	entries, err := decodeHistory(history)
	if err != nil {
		return nil, err
	}
	session.Secret = model.Code(secret)
	session.History = entries
	session.Active = true
	session.StartedAt = fromMillis(startedAt)
	return &session, nil
}

// CreateSession inserts the round row, failing if one already exists
func (s *Store) CreateSession(ctx context.Context, session *model.Session) error {
	history, err := encodeHistory(session.History)
	if err != nil {
		return err
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO session (
		   id, player, secret, attempt, history, help_tokens,
		   restart_used, allow_repeats, started_at
		 ) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.Player,
		string(session.Secret),
		session.Attempt,
		history,
		session.HelpTokens,
		session.RestartUsed,
		session.AllowRepeats,
		toMillis(session.StartedAt),
	)
	if err != nil {
		if isPrimaryKeyViolation(err) {
			return model.ErrSessionInProgress
		}
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// SaveSession updates the existing round row
func (s *Store) SaveSession(ctx context.Context, session *model.Session) error {
	history, err := encodeHistory(session.History)
	if err != nil {
		return err
	}
	result, err := s.sqlDB.ExecContext(ctx,
		`UPDATE session
		    SET player = ?, secret = ?, attempt = ?, history = ?, help_tokens = ?,
		        restart_used = ?, allow_repeats = ?, started_at = ?
		  WHERE id = 1`,
		session.Player,
		string(session.Secret),
		session.Attempt,
		history,
		session.HelpTokens,
		session.RestartUsed,
		session.AllowRepeats,
		toMillis(session.StartedAt),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if affected == 0 {
		return model.ErrNoActiveSession
	}
	return nil
}

// DeleteSession removes the round row if present
func (s *Store) DeleteSession(ctx context.Context) error {
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM session WHERE id = 1`); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteSessionFor removes the round row only when player owns it
func (s *Store) DeleteSessionFor(ctx context.Context, player string) (bool, error) {
	result, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM session WHERE id = 1 AND player = ?`, player)
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return affected > 0, nil
}

// Settings operations

// GetSettings returns saved settings or the defaults
func (s *Store) GetSettings(ctx context.Context) (*model.Settings, error) {
	settings := model.DefaultSettings()
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT allow_repeats FROM settings WHERE id = 1`,
	).Scan(&settings.AllowRepeats)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return &settings, nil
}

// SaveSettings upserts the settings row
func (s *Store) SaveSettings(ctx context.Context, settings *model.Settings) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO settings (id, allow_repeats) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET allow_repeats = excluded.allow_repeats`,
		settings.AllowRepeats,
	)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// History is stored as a JSON array of "Attempt n: guess -> label" lines
func encodeHistory(entries []model.HistoryEntry) (string, error) {
	lines := make([]string, len(entries))
	for i, entry := range entries {
		lines[i] = entry.String()
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return "", fmt.Errorf("encode history: %w", err)
	}
	return string(data), nil
}

func decodeHistory(raw string) ([]model.HistoryEntry, error) {
	var lines []string
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	entries := make([]model.HistoryEntry, 0, len(lines))
	for _, line := range lines {
		entry, err := model.ParseHistoryEntry(line)
		if err != nil {
			return nil, fmt.Errorf("decode history: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func isPrimaryKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed") &&
		strings.Contains(message, "session.id")
}
