// Package memory keeps the per-conversation transcripts used as inference
// context: a bounded ordered list of turns per conversation id, persisted on
// every mutation as a flat JSON array of [conversationID, turns] pairs.
package memory

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/venlabs/majordomo/internal/fsstore"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	// MaxTurns bounds each transcript; the oldest turns are dropped first.
	MaxTurns = 30
)

type Turn struct {
	Role      string          `json:"role"`
	Content   string          `json:"content"`
	Reasoning json.RawMessage `json:"reasoning_details,omitempty"`
}

type Store struct {
	mu    sync.Mutex
	path  string
	turns map[string][]Turn
}

func NewStore(path string) *Store {
	return &Store{
		path:  strings.TrimSpace(path),
		turns: make(map[string][]Turn),
	}
}

// Load reads the persisted transcript set. A missing or corrupt file starts
// the store empty; corruption is reported but never fatal.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = make(map[string][]Turn)
	if s.path == "" {
		return nil
	}

	var pairs []transcriptPair
	found, err := fsstore.ReadJSON(s.path, &pairs)
	if err != nil {
		return fmt.Errorf("load transcripts: %w", err)
	}
	if !found {
		return nil
	}
	for _, p := range pairs {
		if p.ConversationID == "" {
			continue
		}
		s.turns[p.ConversationID] = trim(p.Turns)
	}
	return nil
}

// Turns returns a copy of the transcript for a conversation.
func (s *Store) Turns(conversationID string) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing := s.turns[conversationID]
	out := make([]Turn, len(existing))
	copy(out, existing)
	return out
}

// Replace swaps in a new transcript for a conversation, trims it to the most
// recent MaxTurns entries, and persists the whole store.
func (s *Store) Replace(conversationID string, turns []Turn) error {
	if strings.TrimSpace(conversationID) == "" {
		return fmt.Errorf("conversation id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns[conversationID] = trim(turns)
	return s.persistLocked()
}

func (s *Store) Delete(conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.turns[conversationID]; !ok {
		return nil
	}
	delete(s.turns, conversationID)
	return s.persistLocked()
}

func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = make(map[string][]Turn)
	return s.persistLocked()
}

// Count reports the number of conversations holding at least one turn.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, turns := range s.turns {
		if len(turns) > 0 {
			n++
		}
	}
	return n
}

func (s *Store) persistLocked() error {
	if s.path == "" {
		return nil
	}
	ids := make([]string, 0, len(s.turns))
	for id := range s.turns {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	pairs := make([]transcriptPair, 0, len(ids))
	for _, id := range ids {
		pairs = append(pairs, transcriptPair{ConversationID: id, Turns: s.turns[id]})
	}
	return fsstore.WriteJSONAtomic(s.path, pairs, fsstore.FileOptions{})
}

func trim(turns []Turn) []Turn {
	if len(turns) <= MaxTurns {
		out := make([]Turn, len(turns))
		copy(out, turns)
		return out
	}
	out := make([]Turn, MaxTurns)
	copy(out, turns[len(turns)-MaxTurns:])
	return out
}

// transcriptPair serializes as a two-element JSON array so the on-disk format
// stays the flat [id, turns] pair list the rest of the tooling expects.
type transcriptPair struct {
	ConversationID string
	Turns          []Turn
}

func (p transcriptPair) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{p.ConversationID, p.Turns})
}

func (p *transcriptPair) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("transcript pair must have two elements, got %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], &p.ConversationID); err != nil {
		return fmt.Errorf("transcript pair id: %w", err)
	}
	if err := json.Unmarshal(raw[1], &p.Turns); err != nil {
		return fmt.Errorf("transcript pair turns: %w", err)
	}
	return nil
}
