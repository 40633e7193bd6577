package storage

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemStore is an in-memory Store seeded with sample data. It backs the
// tools when no database is configured, so local development and demos work
// out of the box.
type MemStore struct {
	mu       sync.RWMutex
	schedule []ScheduleEntry
	letters  []FanLetter
	songs    []Song
	profile  Profile
}

// NewMemStore creates a seeded in-memory store. Schedule dates are laid out
// relative to now so lookups for "today" and "tomorrow" return data.
func NewMemStore() *MemStore {
	today := time.Now()
	day := func(offset int) string {
		return today.AddDate(0, 0, offset).Format("2006-01-02")
	}

	return &MemStore{
		schedule: []ScheduleEntry{
			{ID: uuid.NewString(), Date: day(0), Time: "20:00", Title: "Singing stream", Location: "Home studio"},
			{ID: uuid.NewString(), Date: day(1), Time: "19:00", Title: "Horror game stream", Location: "Home studio"},
			{ID: uuid.NewString(), Date: day(2), Time: "14:00", Title: "Recording session for new single", Location: "Aurora Records"},
			{ID: uuid.NewString(), Date: day(4), Time: "20:00", Title: "Free-talk stream with fan letters", Location: "Home studio"},
		},
		songs: []Song{
			{Title: "Starlit Echo", Artist: "Lumi", Mood: "happy", Comment: "My first original! It always lifts my spirits."},
			{Title: "Paper Moon", Artist: "Lumi", Mood: "sad", Comment: "For nights when you miss someone far away."},
			{Title: "Neon Sprint", Artist: "Lumi", Mood: "energetic", Comment: "I warm up to this one before every concert."},
			{Title: "Night Walk", Artist: "Lumi", Mood: "calm", Comment: "Slow synths for winding down after a stream."},
			{Title: "Shine On", Artist: "Lumi", Mood: "happy", Comment: "Written for the Lumières, my favorite people."},
		},
		profile: Profile{
			Name:           "Lumi",
			Debut:          "2024-03-21",
			SignatureColor: "aurora violet",
			FanName:        "Lumières",
			Hobbies:        []string{"singing", "horror games", "late night walks"},
			FavoriteFood:   "iced peach tea and convenience store sandwiches",
		},
	}
}

func (s *MemStore) GetSchedule(_ context.Context, date string) ([]ScheduleEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []ScheduleEntry
	for _, e := range s.schedule {
		if e.Date == date {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (s *MemStore) SaveFanLetter(_ context.Context, author, content string) (*FanLetter, error) {
	letter := FanLetter{
		ID:        uuid.NewString(),
		Author:    author,
		Content:   content,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.letters = append(s.letters, letter)
	s.mu.Unlock()

	return &letter, nil
}

func (s *MemStore) GetSongsByMood(_ context.Context, mood string) ([]Song, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mood = strings.ToLower(strings.TrimSpace(mood))

	var songs []Song
	for _, song := range s.songs {
		if song.Mood == mood {
			songs = append(songs, song)
		}
	}

	// Unknown moods still get a recommendation rather than an empty answer.
	if len(songs) == 0 && len(s.songs) > 0 {
		songs = append(songs, s.songs[0])
	}

	return songs, nil
}

func (s *MemStore) GetProfile(_ context.Context) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile := s.profile
	return &profile, nil
}

func (s *MemStore) Ping(_ context.Context) error {
	return nil
}

func (s *MemStore) Close() error {
	return nil
}

// Letters returns saved fan letters, newest last. Used by tests.
func (s *MemStore) Letters() []FanLetter {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]FanLetter, len(s.letters))
	copy(out, s.letters)
	return out
}

var _ Store = (*MemStore)(nil)
