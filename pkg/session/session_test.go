package session

import (
	"testing"
	"time"
)

func TestStore_GetOrCreate(t *testing.T) {
	store := NewStore(10, time.Hour)
	defer store.Close()

	// Empty id creates a new session with a generated id.
	s1 := store.GetOrCreate("")
	if s1.ID == "" {
		t.Fatal("generated session has empty ID")
	}

	// Same id returns the same session.
	s2 := store.GetOrCreate(s1.ID)
	if s2 != s1 {
		t.Error("GetOrCreate() with existing id returned a different session")
	}

	// Unknown id creates a session under that id.
	s3 := store.GetOrCreate("client-chosen")
	if s3.ID != "client-chosen" {
		t.Errorf("session ID = %q, want client-chosen", s3.ID)
	}

	if store.Count() != 2 {
		t.Errorf("Count() = %d, want 2", store.Count())
	}
}

func TestStore_AppendTurn_Bounded(t *testing.T) {
	store := NewStore(3, time.Hour)
	defer store.Close()

	session := store.GetOrCreate("s1")
	store.AppendTurn("s1", "first", "reply 1")
	store.AppendTurn("s1", "second", "reply 2")
	store.AppendTurn("s1", "third", "reply 3")
	store.AppendTurn("s1", "fourth", "reply 4")

	turns := session.Turns()
	if len(turns) != 3 {
		t.Fatalf("turns = %d, want bound of 3", len(turns))
	}
	if turns[0].User != "second" {
		t.Errorf("oldest kept turn = %q, want second", turns[0].User)
	}
	if turns[2].Assistant != "reply 4" {
		t.Errorf("newest turn assistant = %q, want reply 4", turns[2].Assistant)
	}
}

func TestStore_Expire(t *testing.T) {
	store := NewStore(10, time.Millisecond)
	defer store.Close()

	session := store.GetOrCreate("old")
	session.mu.Lock()
	session.UpdatedAt = time.Now().Add(-time.Hour)
	session.mu.Unlock()

	store.GetOrCreate("fresh")

	store.expire(time.Now())

	if store.Count() != 1 {
		t.Fatalf("Count() after expire = %d, want 1", store.Count())
	}
	if got := store.GetOrCreate("fresh"); got.ID != "fresh" {
		t.Error("fresh session was expired")
	}
}
