package contact

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/foliosite/folio/pkg/fl/kv"
)

// MessagesKey is the kv slot holding the message collection.
const MessagesKey = "contactMessages"

// Store keeps the contact messages as one JSON array in a kv slot,
// newest first. A corrupt or unparsable slot is treated as an empty
// collection rather than surfaced as an error.
type Store struct {
	slots *kv.Store

	// slotMu serializes read-modify-write cycles on the slot. Mutations
	// load the whole array and write it back, so concurrent writers would
	// otherwise clobber each other's changes.
	slotMu sync.Mutex

	mu     sync.Mutex
	lastID int64
}

// NewStore creates a Store over the given slot store.
func NewStore(slots *kv.Store) *Store {
	return &Store{slots: slots}
}

// ListAll returns the full message sequence, most recent first.
// An absent or corrupt slot yields an empty sequence.
func (s *Store) ListAll(ctx context.Context) ([]Message, error) {
	raw, ok, err := s.slots.Get(ctx, MessagesKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []Message{}, nil
	}

	var messages []Message
	if err := json.Unmarshal([]byte(raw), &messages); err != nil {
		// Corrupt payload counts as absent; availability over corruption
		// detection.
		return []Message{}, nil
	}
	if messages == nil {
		messages = []Message{}
	}
	return messages, nil
}

// Append inserts the message at the head of the collection and persists it.
func (s *Store) Append(ctx context.Context, msg Message) error {
	s.slotMu.Lock()
	defer s.slotMu.Unlock()

	messages, err := s.ListAll(ctx)
	if err != nil {
		return err
	}

	messages = append([]Message{msg}, messages...)
	return s.persist(ctx, messages)
}

// DeleteByID removes the entry whose id matches, preserving the relative
// order of the rest. Deleting an absent id is a no-op.
func (s *Store) DeleteByID(ctx context.Context, id int64) error {
	s.slotMu.Lock()
	defer s.slotMu.Unlock()

	messages, err := s.ListAll(ctx)
	if err != nil {
		return err
	}

	kept := messages[:0]
	for _, m := range messages {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	if len(kept) == len(messages) {
		return nil
	}
	return s.persist(ctx, kept)
}

// ClearAll erases the entire collection. The user-facing confirmation step
// lives in the handler, not here.
func (s *Store) ClearAll(ctx context.Context) error {
	s.slotMu.Lock()
	defer s.slotMu.Unlock()

	return s.slots.Delete(ctx, MessagesKey)
}

// Seed primes the id generator from the newest stored message so ids stay
// unique across restarts.
func (s *Store) Seed(ctx context.Context) error {
	messages, err := s.ListAll(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(messages) > 0 && messages[0].ID > s.lastID {
		s.lastID = messages[0].ID
	}
	return nil
}

// NextID returns a fresh message id derived from the clock. Ids are
// monotonically increasing even when two submissions land within the same
// millisecond.
func (s *Store) NextID(nowMilli int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := nowMilli
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

func (s *Store) persist(ctx context.Context, messages []Message) error {
	data, err := json.Marshal(messages)
	if err != nil {
		return err
	}
	return s.slots.Set(ctx, MessagesKey, string(data))
}
