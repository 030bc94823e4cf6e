package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"radioBot/internal/domain"
)

const defaultListLimit = 50

// Store keeps the bot's history: songs it announced and admin commands it ran.
type Store struct {
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("sqlite: empty db path")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite: creating dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}

	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func migrate(db *sql.DB) error {
	const historyTable = `
CREATE TABLE IF NOT EXISTS radio_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	kind TEXT NOT NULL CHECK (kind IN ('now_playing', 'admin_action', 'generic')),
	platform TEXT NOT NULL DEFAULT '',
	user_id TEXT NOT NULL DEFAULT '',
	username TEXT NOT NULL DEFAULT '',
	command TEXT NOT NULL DEFAULT '',
	song_title TEXT,
	song_artist TEXT,
	message TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_radio_history_created_at ON radio_history(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_radio_history_command ON radio_history(command) WHERE command <> '';`

	if _, err := db.Exec(historyTable); err != nil {
		return fmt.Errorf("sqlite: migrate radio_history: %w", err)
	}

	return nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) SaveNotification(ctx context.Context, notification *domain.Notification) (*domain.Notification, error) {
	if notification == nil {
		return nil, fmt.Errorf("sqlite: notification nil")
	}
	if notification.Type == "" {
		notification.Type = domain.NotificationGeneric
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}

	var title, artist sql.NullString
	if song := notification.Song; song != nil {
		title = sql.NullString{String: song.Title, Valid: true}
		artist = sql.NullString{String: song.Artist, Valid: true}
	}

	const stmt = `
INSERT INTO radio_history (kind, platform, user_id, username, command, song_title, song_artist, message, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
`

	res, err := s.db.ExecContext(
		ctx,
		stmt,
		string(notification.Type),
		string(notification.Platform),
		notification.UserID,
		notification.Username,
		notification.Command,
		title,
		artist,
		notification.Message,
		notification.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: save %s record: %w", notification.Type, err)
	}

	if id, err := res.LastInsertId(); err == nil {
		notification.ID = id
	}

	return notification, nil
}

// ListNotifications returns the newest records first.
func (s *Store) ListNotifications(ctx context.Context, limit int) ([]*domain.Notification, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	const query = `
SELECT id, kind, platform, user_id, username, command, song_title, song_artist, message, created_at
FROM radio_history
ORDER BY created_at DESC, id DESC
LIMIT ?;
`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list history: %w", err)
	}
	defer rows.Close()

	var out []*domain.Notification
	for rows.Next() {
		var (
			record        domain.Notification
			kind, plat    string
			title, artist sql.NullString
		)

		if err := rows.Scan(
			&record.ID,
			&kind,
			&plat,
			&record.UserID,
			&record.Username,
			&record.Command,
			&title,
			&artist,
			&record.Message,
			&record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scan history: %w", err)
		}

		record.Type = domain.NotificationType(kind)
		record.Platform = domain.Platform(plat)
		if title.Valid {
			record.Song = &domain.Song{Title: title.String, Artist: artist.String}
		}

		out = append(out, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list history rows: %w", err)
	}

	return out, nil
}

var _ domain.NotificationRepository = (*Store)(nil)
