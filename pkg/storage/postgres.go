package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/lumilabs/lumi/pkg/config"
)

// PostgresStore is the production Store backed by Postgres.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection pool and verifies connectivity.
func NewPostgresStore(ctx context.Context, cfg config.DatabaseConfig) (*PostgresStore, error) {
	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &PostgresStore{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS schedule (
			id UUID PRIMARY KEY,
			date DATE NOT NULL,
			time TEXT NOT NULL,
			title TEXT NOT NULL,
			location TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_schedule_date ON schedule (date)`,
		`CREATE TABLE IF NOT EXISTS fan_letters (
			id UUID PRIMARY KEY,
			author TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS songs (
			title TEXT NOT NULL,
			artist TEXT NOT NULL,
			mood TEXT NOT NULL,
			comment TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (title, artist)
		)`,
		`CREATE TABLE IF NOT EXISTS profile (
			name TEXT PRIMARY KEY,
			debut TEXT NOT NULL,
			signature_color TEXT NOT NULL,
			fan_name TEXT NOT NULL,
			hobbies TEXT[] NOT NULL,
			favorite_food TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) GetSchedule(ctx context.Context, date string) ([]ScheduleEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, to_char(date, 'YYYY-MM-DD'), time, title, location
		 FROM schedule WHERE date = $1 ORDER BY time`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule: %w", err)
	}
	defer rows.Close()

	var entries []ScheduleEntry
	for rows.Next() {
		var e ScheduleEntry
		if err := rows.Scan(&e.ID, &e.Date, &e.Time, &e.Title, &e.Location); err != nil {
			return nil, fmt.Errorf("failed to scan schedule entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (s *PostgresStore) SaveFanLetter(ctx context.Context, author, content string) (*FanLetter, error) {
	letter := FanLetter{
		ID:      uuid.NewString(),
		Author:  author,
		Content: content,
	}

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO fan_letters (id, author, content) VALUES ($1, $2, $3)
		 RETURNING created_at`,
		letter.ID, letter.Author, letter.Content,
	).Scan(&letter.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save fan letter: %w", err)
	}

	return &letter, nil
}

func (s *PostgresStore) GetSongsByMood(ctx context.Context, mood string) ([]Song, error) {
	mood = strings.ToLower(strings.TrimSpace(mood))

	rows, err := s.db.QueryContext(ctx,
		`SELECT title, artist, mood, comment FROM songs WHERE mood = $1`, mood)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	var songs []Song
	for rows.Next() {
		var song Song
		if err := rows.Scan(&song.Title, &song.Artist, &song.Mood, &song.Comment); err != nil {
			return nil, fmt.Errorf("failed to scan song: %w", err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(songs) == 0 {
		// Fall back to any song so the tool always has an answer.
		row := s.db.QueryRowContext(ctx,
			`SELECT title, artist, mood, comment FROM songs LIMIT 1`)
		var song Song
		if err := row.Scan(&song.Title, &song.Artist, &song.Mood, &song.Comment); err == nil {
			songs = append(songs, song)
		}
	}

	return songs, nil
}

func (s *PostgresStore) GetProfile(ctx context.Context) (*Profile, error) {
	var p Profile
	err := s.db.QueryRowContext(ctx,
		`SELECT name, debut, signature_color, fan_name, hobbies, favorite_food
		 FROM profile LIMIT 1`,
	).Scan(&p.Name, &p.Debut, &p.SignatureColor, &p.FanName, pq.Array(&p.Hobbies), &p.FavoriteFood)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("profile not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}

	return &p, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

var _ Store = (*PostgresStore)(nil)
