package flash

import (
	"testing"
	"time"
)

func TestMarkReplacesAndExpires(t *testing.T) {
	s := New(40*time.Millisecond, nil)
	if _, ok := s.Current(); ok {
		t.Fatal("new store should be empty")
	}

	s.Mark(3)
	s.Mark(4)
	if id, ok := s.Current(); !ok || id != 4 {
		t.Fatalf("current got %d,%v want 4,true", id, ok)
	}

	time.Sleep(120 * time.Millisecond)
	if id, ok := s.Current(); ok {
		t.Fatalf("mark %d should have expired", id)
	}
}

func TestClear(t *testing.T) {
	s := New(time.Minute, nil)
	s.Mark(1)
	s.Clear()
	if _, ok := s.Current(); ok {
		t.Fatal("clear should drop the mark")
	}
}

func TestDefaultTTL(t *testing.T) {
	if got := New(0, nil).TTL(); got != DefaultTTL {
		t.Fatalf("ttl got %v want %v", got, DefaultTTL)
	}
}

func TestMarkExpiresOnInjectedClock(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	s := New(time.Minute, func() time.Time { return now })

	s.Mark(2)
	now = now.Add(59 * time.Second)
	if id, ok := s.Current(); !ok || id != 2 {
		t.Fatalf("current got %d,%v want 2,true", id, ok)
	}

	now = now.Add(time.Second)
	if _, ok := s.Current(); ok {
		t.Fatal("mark should expire once the clock passes the ttl")
	}
}
