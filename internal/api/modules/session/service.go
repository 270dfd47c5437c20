package session_module

import (
	"context"

	"github.com/isitmyturn/isitmyturn/pkg/sdk"
	"github.com/isitmyturn/isitmyturn/pkg/session"
	"github.com/isitmyturn/isitmyturn/pkg/turnlist"
)

// SessionService handles session and item operations against the store
type SessionService struct {
	store session.Store
}

var sessionService *SessionService

/** ---- INIT ---- */

// Init creates a new session service backed by the given store
func Init(store session.Store) {
	sessionService = &SessionService{store: store}
}

/** ---- SERVICE METHODS ---- */

// CreateSession creates a new session. The slug is validated server-side; a
// client-computed slug is never trusted
func (s *SessionService) CreateSession(ctx context.Context, req *sdk.CreateSessionRequest) (*session.Session, error) {
	return s.store.CreateSession(ctx, req.Name, req.Slug)
}

// LookupSession reports whether a session exists for a slug. A missing
// session is a normal answer here, not an error, so availability checks
// during session creation never 404
func (s *SessionService) LookupSession(ctx context.Context, sessionSlug string) (*sdk.SessionLookupResponse, error) {
	found, err := s.store.GetSessionBySlug(ctx, sessionSlug)
	if err == session.ErrSessionNotFound {
		return &sdk.SessionLookupResponse{Exists: false}, nil
	} else if err != nil {
		return nil, err
	}

	return &sdk.SessionLookupResponse{Exists: true, Name: found.Name}, nil
}

// GetItems returns every item in a session
func (s *SessionService) GetItems(ctx context.Context, sessionSlug string) ([]turnlist.Item, error) {
	return s.store.ListItems(ctx, sessionSlug)
}

// CreateItem adds a new item to a session. The id is assigned here unless the
// client supplied one (clients that mutate optimistically need their local id
// to match the stored one)
func (s *SessionService) CreateItem(ctx context.Context, sessionSlug string, req *sdk.CreateItemRequest) (turnlist.Item, error) {
	item := turnlist.NewItem(sessionSlug, req.Name, req.Order, req.List)
	if req.ID != "" {
		item.ID = req.ID
	}

	if err := s.store.CreateItem(ctx, item); err != nil {
		return turnlist.Item{}, err
	}
	return item, nil
}

// UpdateItem writes a single item. Unknown ids are silent no-ops
func (s *SessionService) UpdateItem(ctx context.Context, sessionSlug, itemID string, req *sdk.UpdateItemRequest) error {
	return s.store.UpdateItem(ctx, sessionSlug, session.ItemUpdate{
		ItemID:   itemID,
		NewName:  req.NewName,
		NewOrder: req.NewOrder,
		NewList:  req.NewList,
	})
}

// UpdateItems writes a batch of items all-or-nothing
func (s *SessionService) UpdateItems(ctx context.Context, sessionSlug string, req *sdk.UpdateItemsRequest) error {
	return s.store.UpdateItemsAtomic(ctx, sessionSlug, req.Updates)
}

// DeleteItem removes a single item. Unknown ids are silent no-ops
func (s *SessionService) DeleteItem(ctx context.Context, sessionSlug, itemID string) error {
	return s.store.DeleteItem(ctx, sessionSlug, itemID)
}
