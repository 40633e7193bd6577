// Package storage holds the data behind the agent's tools: schedules, fan
// letters, song picks, and the idol profile. Postgres is the production
// backend; a seeded in-memory store keeps the service usable without a
// database.
package storage

import (
	"context"
	"time"
)

// ScheduleEntry is one item on the activity calendar.
type ScheduleEntry struct {
	ID       string `json:"id"`
	Date     string `json:"date"` // YYYY-MM-DD
	Time     string `json:"time"` // HH:MM, local
	Title    string `json:"title"`
	Location string `json:"location"`
}

// FanLetter is a message from a fan, read aloud on free-talk streams.
type FanLetter struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Song is a track the agent can recommend.
type Song struct {
	Title   string `json:"title"`
	Artist  string `json:"artist"`
	Mood    string `json:"mood"`
	Comment string `json:"comment"`
}

// Profile is the idol's public profile card.
type Profile struct {
	Name           string   `json:"name"`
	Debut          string   `json:"debut"`
	SignatureColor string   `json:"signature_color"`
	FanName        string   `json:"fan_name"`
	Hobbies        []string `json:"hobbies"`
	FavoriteFood   string   `json:"favorite_food"`
}

// Store is the data access layer used by the tools.
type Store interface {
	GetSchedule(ctx context.Context, date string) ([]ScheduleEntry, error)
	SaveFanLetter(ctx context.Context, author, content string) (*FanLetter, error)
	GetSongsByMood(ctx context.Context, mood string) ([]Song, error)
	GetProfile(ctx context.Context) (*Profile, error)
	Ping(ctx context.Context) error
	Close() error
}
