package session

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/isitmyturn/isitmyturn/pkg/turnlist"
)

// InMemoryStore keeps sessions and items in process memory. It honors the
// same contract as the MySQL store, including all-or-nothing batches, and
// backs tests and one-off local runs
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	items    map[string][]turnlist.Item // sessionSlug -> items
}

// NewInMemoryStore creates a new in-memory session store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[string]*Session),
		items:    make(map[string][]turnlist.Item),
	}
}

// CreateSession creates a new session in memory
func (s *InMemoryStore) CreateSession(ctx context.Context, name, sessionSlug string) (*Session, error) {
	if err := validateSession(name, sessionSlug); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[sessionSlug]; exists {
		return nil, ErrSlugTaken
	}

	now := time.Now().UTC()
	session := &Session{
		Slug:      sessionSlug,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.sessions[sessionSlug] = session
	s.items[sessionSlug] = []turnlist.Item{}

	copied := *session
	return &copied, nil
}

// GetSessionBySlug retrieves a session by its slug
func (s *InMemoryStore) GetSessionBySlug(ctx context.Context, sessionSlug string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, exists := s.sessions[sessionSlug]
	if !exists {
		return nil, ErrSessionNotFound
	}

	copied := *session
	return &copied, nil
}

// ListItems retrieves all items for a session ordered for display
func (s *InMemoryStore) ListItems(ctx context.Context, sessionSlug string) ([]turnlist.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, exists := s.sessions[sessionSlug]; !exists {
		return nil, ErrSessionNotFound
	}

	items := append([]turnlist.Item(nil), s.items[sessionSlug]...)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Order < items[j].Order
	})
	return items, nil
}

// CreateItem saves a new item in memory
func (s *InMemoryStore) CreateItem(ctx context.Context, item turnlist.Item) error {
	if err := validateItem(item); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.touch(item.SessionSlug); err != nil {
		return err
	}

	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	s.items[item.SessionSlug] = append(s.items[item.SessionSlug], item)
	return nil
}

// UpdateItem writes a single item's name, order, and list. A missing item is
// a silent no-op
func (s *InMemoryStore) UpdateItem(ctx context.Context, sessionSlug string, update ItemUpdate) error {
	if err := validateUpdate(update); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.touch(sessionSlug); err != nil {
		return err
	}

	s.apply(sessionSlug, update)
	return nil
}

// UpdateItemsAtomic writes a batch of item updates all-or-nothing: every
// target is checked before any write happens
func (s *InMemoryStore) UpdateItemsAtomic(ctx context.Context, sessionSlug string, updates []ItemUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	for _, update := range updates {
		if err := validateUpdate(update); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[sessionSlug]; !exists {
		return ErrSessionNotFound
	}

	present := make(map[string]bool, len(s.items[sessionSlug]))
	for _, item := range s.items[sessionSlug] {
		present[item.ID] = true
	}
	for _, update := range updates {
		if !present[update.ItemID] {
			return ErrItemNotFound
		}
	}

	if err := s.touch(sessionSlug); err != nil {
		return err
	}
	for _, update := range updates {
		s.apply(sessionSlug, update)
	}
	return nil
}

// DeleteItem removes one item. A missing item is a silent no-op
func (s *InMemoryStore) DeleteItem(ctx context.Context, sessionSlug, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.touch(sessionSlug); err != nil {
		return err
	}

	items := s.items[sessionSlug]
	for i := range items {
		if items[i].ID == itemID {
			s.items[sessionSlug] = append(items[:i:i], items[i+1:]...)
			break
		}
	}
	return nil
}

// PruneSessions deletes sessions whose last write is older than idleFor
func (s *InMemoryStore) PruneSessions(ctx context.Context, idleFor time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().UTC().Add(-idleFor)
	pruned := 0
	for sessionSlug, session := range s.sessions {
		if session.UpdatedAt.Before(cutoff) {
			delete(s.sessions, sessionSlug)
			delete(s.items, sessionSlug)
			pruned++
		}
	}
	return pruned, nil
}

// apply writes one item in place; missing ids are dropped. Callers hold the
// write lock
func (s *InMemoryStore) apply(sessionSlug string, update ItemUpdate) {
	items := s.items[sessionSlug]
	for i := range items {
		if items[i].ID == update.ItemID {
			items[i].Name = update.NewName
			items[i].Order = update.NewOrder
			items[i].List = update.NewList
			items[i].UpdatedAt = time.Now().UTC()
			return
		}
	}
}

// touch bumps the session's updated_at and doubles as the existence check.
// Callers hold the write lock
func (s *InMemoryStore) touch(sessionSlug string) error {
	session, exists := s.sessions[sessionSlug]
	if !exists {
		return ErrSessionNotFound
	}
	session.UpdatedAt = time.Now().UTC()
	return nil
}
