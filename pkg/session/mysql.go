package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/isitmyturn/isitmyturn/pkg/turnlist"
)

// MySqlStore handles session persistence using GORM
type MySqlStore struct {
	db *gorm.DB
}

// NewMySqlStore creates a new session store with GORM connection
func NewMySqlStore(databaseURL string) (*MySqlStore, error) {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &MySqlStore{db: db}

	// Auto-migrate tables
	if err := db.AutoMigrate(&Session{}, &turnlist.Item{}); err != nil {
		return nil, fmt.Errorf("failed to migrate tables: %w", err)
	}

	return store, nil
}

// CreateSession creates a new session in the database
func (s *MySqlStore) CreateSession(ctx context.Context, name, sessionSlug string) (*Session, error) {
	if err := validateSession(name, sessionSlug); err != nil {
		return nil, err
	}

	session := &Session{
		Slug: sessionSlug,
		Name: name,
	}

	result := s.db.WithContext(ctx).Create(session)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("failed to create session: %w", result.Error)
	}

	return session, nil
}

// GetSessionBySlug retrieves a session by its slug
func (s *MySqlStore) GetSessionBySlug(ctx context.Context, sessionSlug string) (*Session, error) {
	var session Session
	result := s.db.WithContext(ctx).First(&session, "slug = ?", sessionSlug)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", result.Error)
	}

	return &session, nil
}

// ListItems retrieves all items for a session ordered for display
func (s *MySqlStore) ListItems(ctx context.Context, sessionSlug string) ([]turnlist.Item, error) {
	if _, err := s.GetSessionBySlug(ctx, sessionSlug); err != nil {
		return nil, err
	}

	var items []turnlist.Item
	result := s.db.WithContext(ctx).
		Where("session_slug = ?", sessionSlug).
		Order("item_order ASC").Order("id ASC").
		Find(&items)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to query items: %w", result.Error)
	}

	return items, nil
}

// CreateItem saves a new item to the database
func (s *MySqlStore) CreateItem(ctx context.Context, item turnlist.Item) error {
	if err := validateItem(item); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := touchSession(tx, item.SessionSlug); err != nil {
			return err
		}
		if err := tx.Create(&item).Error; err != nil {
			return fmt.Errorf("failed to save item: %w", err)
		}
		return nil
	})
}

// UpdateItem writes a single item's name, order, and list. A missing item is
// a silent no-op
func (s *MySqlStore) UpdateItem(ctx context.Context, sessionSlug string, update ItemUpdate) error {
	if err := validateUpdate(update); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := touchSession(tx, sessionSlug); err != nil {
			return err
		}
		return applyUpdate(tx, sessionSlug, update)
	})
}

// UpdateItemsAtomic writes a batch of item updates in one transaction:
// either every item is updated or none are. Unlike single updates, a missing
// item fails the whole batch, since applying the rest would break the
// invariants the batch exists to protect
func (s *MySqlStore) UpdateItemsAtomic(ctx context.Context, sessionSlug string, updates []ItemUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	for _, update := range updates {
		if err := validateUpdate(update); err != nil {
			return err
		}
	}

	ids := make([]string, len(updates))
	for i, update := range updates {
		ids[i] = update.ItemID
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var found int64
		if err := tx.Model(&turnlist.Item{}).
			Where("session_slug = ? AND id IN ?", sessionSlug, ids).
			Count(&found).Error; err != nil {
			return fmt.Errorf("failed to check batch targets: %w", err)
		}
		if found != int64(len(ids)) {
			return ErrItemNotFound
		}

		if err := touchSession(tx, sessionSlug); err != nil {
			return err
		}

		for _, update := range updates {
			if err := applyUpdate(tx, sessionSlug, update); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteItem removes one item. A missing item is a silent no-op
func (s *MySqlStore) DeleteItem(ctx context.Context, sessionSlug, itemID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := touchSession(tx, sessionSlug); err != nil {
			return err
		}
		result := tx.Where("session_slug = ? AND id = ?", sessionSlug, itemID).
			Delete(&turnlist.Item{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete item: %w", result.Error)
		}
		return nil
	})
}

// PruneSessions deletes sessions whose last write is older than idleFor,
// along with their items. Returns the number of sessions removed
func (s *MySqlStore) PruneSessions(ctx context.Context, idleFor time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-idleFor)
	pruned := 0

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var slugs []string
		if err := tx.Model(&Session{}).
			Where("updated_at < ?", cutoff).
			Pluck("slug", &slugs).Error; err != nil {
			return fmt.Errorf("failed to find idle sessions: %w", err)
		}
		if len(slugs) == 0 {
			return nil
		}

		if err := tx.Where("session_slug IN ?", slugs).Delete(&turnlist.Item{}).Error; err != nil {
			return fmt.Errorf("failed to delete idle session items: %w", err)
		}
		if err := tx.Where("slug IN ?", slugs).Delete(&Session{}).Error; err != nil {
			return fmt.Errorf("failed to delete idle sessions: %w", err)
		}

		pruned = len(slugs)
		return nil
	})

	return pruned, err
}

// GetDB returns the underlying GORM database connection
func (s *MySqlStore) GetDB() *gorm.DB {
	return s.db
}

// Close closes the database connection
func (s *MySqlStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB from gorm.DB: %w", err)
	}
	return sqlDB.Close()
}

// applyUpdate writes one item row; zero rows affected means the item is gone
// and the write is dropped
func applyUpdate(tx *gorm.DB, sessionSlug string, update ItemUpdate) error {
	result := tx.Model(&turnlist.Item{}).
		Where("session_slug = ? AND id = ?", sessionSlug, update.ItemID).
		Updates(map[string]any{
			"name":       update.NewName,
			"item_order": update.NewOrder,
			"list":       update.NewList,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update item: %w", result.Error)
	}
	return nil
}

// touchSession bumps the session's updated_at so the janitor sees it as
// active, and doubles as the existence check for item writes
func touchSession(tx *gorm.DB, sessionSlug string) error {
	result := tx.Model(&Session{}).
		Where("slug = ?", sessionSlug).
		Update("updated_at", time.Now().UTC())
	if result.Error != nil {
		return fmt.Errorf("failed to touch session: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}
