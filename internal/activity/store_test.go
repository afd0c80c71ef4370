package activity

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "activity.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestTouchAndLastSeen(t *testing.T) {
	s := openTestStore(t)

	if _, seen, err := s.LastSeen("42"); err != nil || seen {
		t.Fatalf("LastSeen before touch = seen=%v err=%v, want unseen", seen, err)
	}

	before := time.Now().Add(-time.Second)
	if err := s.Touch("42"); err != nil {
		t.Fatalf("Touch failed: %v", err)
	}

	got, seen, err := s.LastSeen("42")
	if err != nil {
		t.Fatalf("LastSeen failed: %v", err)
	}
	if !seen {
		t.Fatal("member unseen after Touch")
	}
	if got.Before(before) {
		t.Errorf("LastSeen = %v, want at or after %v", got, before)
	}
}

func TestTouchUpsertsLatest(t *testing.T) {
	s := openTestStore(t)

	old := time.Now().Add(-48 * time.Hour)
	if err := s.touchAt("42", old); err != nil {
		t.Fatalf("touchAt failed: %v", err)
	}
	if err := s.Touch("42"); err != nil {
		t.Fatalf("Touch failed: %v", err)
	}

	got, _, err := s.LastSeen("42")
	if err != nil {
		t.Fatalf("LastSeen failed: %v", err)
	}
	if got.Sub(old) < 24*time.Hour {
		t.Errorf("LastSeen = %v, second Touch did not overwrite %v", got, old)
	}
}

func TestIdleSince(t *testing.T) {
	s := openTestStore(t)

	now := time.Now()
	if err := s.touchAt("stale", now.Add(-72*time.Hour)); err != nil {
		t.Fatalf("touchAt failed: %v", err)
	}
	if err := s.touchAt("fresh", now); err != nil {
		t.Fatalf("touchAt failed: %v", err)
	}

	idle, err := s.IdleSince(now.Add(-24 * time.Hour))
	if err != nil {
		t.Fatalf("IdleSince failed: %v", err)
	}
	if len(idle) != 1 || idle[0] != "stale" {
		t.Errorf("IdleSince = %v, want [stale]", idle)
	}
}
