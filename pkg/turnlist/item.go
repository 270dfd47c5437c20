package turnlist

import (
	"time"

	"github.com/google/uuid"
)

// MaxItemNameLength is the maximum number of characters in an item name
const MaxItemNameLength = 500

// List identifies which of the three session lists holds an item
type List string

const (
	// ListQueue holds items awaiting a turn
	ListQueue List = "QUEUE"
	// ListNext is the singleton slot for the item currently up
	ListNext List = "NEXT"
	// ListWent holds items that already had a turn
	ListWent List = "WENT"
)

// Valid reports whether l is one of the three known lists
func (l List) Valid() bool {
	switch l {
	case ListQueue, ListNext, ListWent:
		return true
	}
	return false
}

// Item represents one participant in a session. ID is stable across renames
// and reorders; Order defines iteration order ascending within a list.
// `order` is a reserved word in SQL, so the column is named item_order.
type Item struct {
	ID        string    `json:"id" gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`

	Name  string `json:"name" gorm:"size:500;not null"`
	Order int    `json:"order" gorm:"column:item_order;not null;index:idx_session_list_order,priority:3"`
	List  List   `json:"list" gorm:"type:varchar(8);not null;index:idx_session_list_order,priority:2"`

	SessionSlug string `json:"session_slug" gorm:"size:36;not null;index:idx_session_list_order,priority:1"`
}

// NewItem creates a queue-bound item with a fresh UUID
func NewItem(sessionSlug, name string, order int, list List) Item {
	now := time.Now().UTC()
	return Item{
		ID:          uuid.NewString(),
		CreatedAt:   now,
		UpdatedAt:   now,
		Name:        name,
		Order:       order,
		List:        list,
		SessionSlug: sessionSlug,
	}
}
