package settings

import (
	"encoding/json"
	"sync"
	"time"
)

// Snapshot holds the latest DB-backed settings in memory.
type Snapshot struct {
	mu        sync.RWMutex
	values    map[string]json.RawMessage
	updatedAt time.Time
}

// NewSnapshot constructs an empty Snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{values: make(map[string]json.RawMessage)}
}

// Store replaces the snapshot contents.
func (s *Snapshot) Store(updatedAt time.Time, values map[string]json.RawMessage) {
	if s == nil {
		return
	}
	copied := make(map[string]json.RawMessage, len(values))
	for key, value := range values {
		copied[key] = append(json.RawMessage(nil), value...)
	}
	s.mu.Lock()
	s.values = copied
	s.updatedAt = updatedAt
	s.mu.Unlock()
}

// Value returns the raw JSON value stored under key.
func (s *Snapshot) Value(key string) (json.RawMessage, bool) {
	if s == nil {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.values[key]
	return raw, ok
}

// UpdatedAt returns the newest settings timestamp seen by the snapshot.
func (s *Snapshot) UpdatedAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

// Int returns the non-negative integer under key, or fallback.
func (s *Snapshot) Int(key string, fallback int) int {
	raw, ok := s.Value(key)
	if !ok {
		return fallback
	}
	if parsed, okParse := ParseNonNegativeInt(raw); okParse {
		return parsed
	}
	return fallback
}

// Bool returns the boolean under key, or fallback.
func (s *Snapshot) Bool(key string, fallback bool) bool {
	raw, ok := s.Value(key)
	if !ok {
		return fallback
	}
	if parsed, okParse := ParseBool(raw); okParse {
		return parsed
	}
	return fallback
}

// String returns the string under key, or fallback.
func (s *Snapshot) String(key string, fallback string) string {
	raw, ok := s.Value(key)
	if !ok {
		return fallback
	}
	if parsed, okParse := ParseString(raw); okParse && parsed != "" {
		return parsed
	}
	return fallback
}
