// Package chat keeps per-session dashboard chat transcripts in memory.
// Transcripts are append-only for any single session, capped, and never
// persisted: a restart starts everyone fresh.
package chat

import (
	"fmt"
	"sync"
	"time"

	"github.com/NikolayViktorovich/crypto-dashboard/internal/model"
)

const defaultMaxMessages = 100

// Store holds chat transcripts keyed by session ID.
type Store struct {
	mu          sync.Mutex
	sessions    map[string][]model.ChatMessage
	maxMessages int
	seq         uint64
}

// NewStore creates an empty store. maxMessages <= 0 uses the default cap.
func NewStore(maxMessages int) *Store {
	if maxMessages <= 0 {
		maxMessages = defaultMaxMessages
	}
	return &Store{
		sessions:    make(map[string][]model.ChatMessage),
		maxMessages: maxMessages,
	}
}

// Append adds a message to a session's transcript and returns it with its
// assigned ID and timestamp. The oldest messages are dropped past the cap.
func (s *Store) Append(sessionID string, role model.MessageRole, content string) model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	msg := model.ChatMessage{
		ID:        fmt.Sprintf("%d-%d", time.Now().UnixMilli(), s.seq),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}

	transcript := append(s.sessions[sessionID], msg)
	if len(transcript) > s.maxMessages {
		transcript = transcript[len(transcript)-s.maxMessages:]
	}
	s.sessions[sessionID] = transcript
	return msg
}

// Messages returns a copy of a session's transcript, oldest first.
func (s *Store) Messages(sessionID string) []model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	transcript := s.sessions[sessionID]
	out := make([]model.ChatMessage, len(transcript))
	copy(out, transcript)
	return out
}

// Clear drops one session's transcript.
func (s *Store) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}
