package cache

import (
	"testing"
	"time"
)

func TestMemoGetSet(t *testing.T) {
	m := NewMemo(time.Hour, nil)

	if _, ok := m.Get("missing"); ok {
		t.Error("Get on empty memo returned ok")
	}

	m.Set("a", 42)
	v, ok := m.Get("a")
	if !ok {
		t.Fatal("Get after Set returned miss")
	}
	if v.(int) != 42 {
		t.Errorf("Get = %v, want 42", v)
	}
	if m.Len() != 1 {
		t.Errorf("Len = %d, want 1", m.Len())
	}
}

func TestMemoExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	m := NewMemo(time.Hour, clock)

	m.Set("a", "value")

	now = now.Add(59 * time.Minute)
	if _, ok := m.Get("a"); !ok {
		t.Error("entry expired before TTL")
	}

	now = now.Add(time.Minute)
	if _, ok := m.Get("a"); ok {
		t.Error("entry survived past TTL")
	}

	// Expired entries are removed on access.
	if m.Len() != 0 {
		t.Errorf("Len = %d, want 0 after expiry", m.Len())
	}
}

func TestMemoZeroTTLNeverExpires(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	m := NewMemo(0, clock)

	m.Set("a", "value")
	now = now.Add(24 * 365 * time.Hour)

	if _, ok := m.Get("a"); !ok {
		t.Error("zero-TTL entry expired")
	}
}

func TestMemoOverwrite(t *testing.T) {
	m := NewMemo(time.Hour, nil)
	m.Set("a", 1)
	m.Set("a", 2)

	v, _ := m.Get("a")
	if v.(int) != 2 {
		t.Errorf("Get = %v, want 2", v)
	}
	if m.Len() != 1 {
		t.Errorf("Len = %d, want 1", m.Len())
	}
}
