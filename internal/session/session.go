// Package session owns the conversation log for one run of the advisor and
// moves it to and from the key-value store at explicit lifecycle points.
package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/comigor/advisor-go/internal/conversation"
	"github.com/comigor/advisor-go/internal/logger"
	"github.com/comigor/advisor-go/internal/store"
)

// DefaultKey is the store key the conversation log is saved under.
const DefaultKey = "messages"

// Session represents a conversation session
type Session struct {
	ID  string
	Key string
	Log *conversation.Log

	store store.Store
}

// New creates an empty session that saves to st under key.
func New(st store.Store, key string) *Session {
	if key == "" {
		key = DefaultKey
	}
	return &Session{
		ID:    uuid.New().String(),
		Key:   key,
		Log:   conversation.NewLog(),
		store: st,
	}
}

// Load reads the persisted log once. A missing key yields an empty log.
func Load(ctx context.Context, st store.Store, key string) (*Session, error) {
	s := New(st, key)
	raw, found, err := st.Get(ctx, s.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to read session log: %w", err)
	}
	if found && raw != "" {
		if err := json.Unmarshal([]byte(raw), s.Log); err != nil {
			return nil, fmt.Errorf("failed to parse session log: %w", err)
		}
	}
	logger.L.Info("session loaded", "session_id", s.ID, "short_id", s.GetShortID(), "key", s.Key, "turns", s.Log.Len())
	return s, nil
}

// Save writes the whole log to the store.
func (s *Session) Save(ctx context.Context) error {
	data, err := json.Marshal(s.Log)
	if err != nil {
		return fmt.Errorf("failed to serialize session log: %w", err)
	}
	if err := s.store.Set(ctx, s.Key, string(data)); err != nil {
		return fmt.Errorf("failed to write session log: %w", err)
	}
	logger.L.Info("session saved", "session_id", s.ID, "key", s.Key, "turns", s.Log.Len())
	return nil
}

// Reset clears the conversation.
func (s *Session) Reset() {
	s.Log.Reset()
}

// GetShortID returns the shortened session ID (first 8 characters)
func (s *Session) GetShortID() string {
	if len(s.ID) >= 8 {
		return s.ID[:8]
	}
	return s.ID
}
