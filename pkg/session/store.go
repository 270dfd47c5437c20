package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/isitmyturn/isitmyturn/pkg/slug"
	"github.com/isitmyturn/isitmyturn/pkg/turnlist"
)

// MaxSessionNameLength is the maximum number of characters in a session name
const MaxSessionNameLength = 50

var (
	// ErrSessionNotFound is returned when no session exists for a slug
	ErrSessionNotFound = errors.New("session not found")
	// ErrItemNotFound is returned when an atomic batch references a missing item
	ErrItemNotFound = errors.New("item not found")
	// ErrSlugTaken is returned when creating a session whose slug already exists
	ErrSlugTaken = errors.New("session slug already taken")
	// ErrSessionNameTooLong is returned when a session name exceeds MaxSessionNameLength
	ErrSessionNameTooLong = errors.New("session name too long")
	// ErrInvalidSlug is returned when a slug fails the lowercase-alphanumeric-hyphen pattern
	ErrInvalidSlug = errors.New("session slug is invalid")
	// ErrItemNameTooLong is returned when an item name exceeds the maximum length
	ErrItemNameTooLong = errors.New("item name too long")
)

// Session represents one shared turn queue, identified by its unique slug
type Session struct {
	Slug      string    `json:"slug" gorm:"size:36;primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`

	Name  string          `json:"name" gorm:"size:50;not null"`
	Items []turnlist.Item `json:"items,omitempty" gorm:"foreignKey:SessionSlug;references:Slug;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for GORM
func (*Session) TableName() string {
	return "sessions"
}

// ItemUpdate is one item write within a single or batched update
type ItemUpdate struct {
	ItemID   string        `json:"item_id"`
	NewName  string        `json:"new_name"`
	NewOrder int           `json:"new_order"`
	NewList  turnlist.List `json:"new_list"`
}

// Store is the durable home of sessions and their items. Multi-item updates
// are atomic: either every item in the batch is written or none are, since a
// partial write would leave readers observing a broken NEXT or order
// invariant. Single-item updates and deletes targeting an id that no longer
// exists are silent no-ops (a concurrent participant may have removed it
// first).
type Store interface {
	CreateSession(ctx context.Context, name, sessionSlug string) (*Session, error)
	GetSessionBySlug(ctx context.Context, sessionSlug string) (*Session, error)
	ListItems(ctx context.Context, sessionSlug string) ([]turnlist.Item, error)
	CreateItem(ctx context.Context, item turnlist.Item) error
	UpdateItem(ctx context.Context, sessionSlug string, update ItemUpdate) error
	UpdateItemsAtomic(ctx context.Context, sessionSlug string, updates []ItemUpdate) error
	DeleteItem(ctx context.Context, sessionSlug, itemID string) error
}

// Pruner is the optional maintenance capability of a store: remove sessions
// whose last write is older than idleFor. The SDK client does not implement
// it; pruning runs next to the database
type Pruner interface {
	PruneSessions(ctx context.Context, idleFor time.Duration) (int, error)
}

// validateSession checks session fields server-side; client-computed slugs
// are never trusted
func validateSession(name, sessionSlug string) error {
	if len(name) > MaxSessionNameLength {
		return ErrSessionNameTooLong
	}
	if !slug.IsValid(sessionSlug) {
		return ErrInvalidSlug
	}
	return nil
}

// validateItem checks item fields server-side
func validateItem(item turnlist.Item) error {
	if len(item.Name) > turnlist.MaxItemNameLength {
		return ErrItemNameTooLong
	}
	if !slug.IsValid(item.SessionSlug) {
		return ErrInvalidSlug
	}
	if !item.List.Valid() {
		return fmt.Errorf("unknown list %q", item.List)
	}
	return nil
}

// validateUpdate checks update fields server-side
func validateUpdate(update ItemUpdate) error {
	if len(update.NewName) > turnlist.MaxItemNameLength {
		return ErrItemNameTooLong
	}
	if !update.NewList.Valid() {
		return fmt.Errorf("unknown list %q", update.NewList)
	}
	return nil
}
