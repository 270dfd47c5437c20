package turnlist

import (
	"math/rand"
	"sort"

	"github.com/isitmyturn/isitmyturn/pkg/shuffle"
)

// Outcome tags the result of a board transition
type Outcome int

const (
	// OutcomeOK means the transition applied
	OutcomeOK Outcome = iota
	// OutcomeInvalid means validation rejected the input and no state changed
	OutcomeInvalid
	// OutcomeNotFound means the referenced item is not on the board
	OutcomeNotFound
)

// Board holds the three ordered lists for one session and applies every list
// transition in memory. Each mutating method returns the items whose list or
// order changed so the caller can persist exactly those deltas.
//
// Order values are scoped session-wide, not per-list: Add numbers a new item
// past every existing item, and Delete renumbers across all three lists.
// Shuffle and Reorder preserve the queue's minimum order so queue renumbering
// never collides with order values held by NEXT or WENT.
//
// Board is not safe for concurrent use; callers serialize access.
type Board struct {
	sessionSlug string
	queue       []Item
	next        *Item
	went        []Item
}

// NewBoard partitions items into the three lists, each sorted ascending by
// order. The input slice is not retained.
func NewBoard(sessionSlug string, items []Item) *Board {
	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})

	b := &Board{sessionSlug: sessionSlug}
	for _, item := range sorted {
		switch item.List {
		case ListNext:
			item := item
			b.next = &item
		case ListWent:
			b.went = append(b.went, item)
		default:
			b.queue = append(b.queue, item)
		}
	}
	return b
}

// SessionSlug returns the slug of the owning session
func (b *Board) SessionSlug() string {
	return b.sessionSlug
}

// Queue returns a copy of the queue, ascending by order
func (b *Board) Queue() []Item {
	return append([]Item(nil), b.queue...)
}

// Next returns the occupant of the up-next slot, if any
func (b *Board) Next() (Item, bool) {
	if b.next == nil {
		return Item{}, false
	}
	return *b.next, true
}

// Went returns a copy of the went-already list in advance order
func (b *Board) Went() []Item {
	return append([]Item(nil), b.went...)
}

// Len returns the total number of items across all three lists
func (b *Board) Len() int {
	n := len(b.queue) + len(b.went)
	if b.next != nil {
		n++
	}
	return n
}

// Advance pops the head of the queue into the up-next slot. A previous
// occupant moves to the tail of went with its order untouched, so went order
// reflects historical advance order. Returns false when the queue is empty.
func (b *Board) Advance() ([]Item, bool) {
	if len(b.queue) == 0 {
		return nil, false
	}

	var changed []Item

	if b.next != nil {
		prev := *b.next
		prev.List = ListWent
		b.went = append(b.went, prev)
		changed = append(changed, prev)
	}

	head := b.queue[0]
	b.queue = append([]Item(nil), b.queue[1:]...)
	head.List = ListNext
	b.next = &head
	changed = append(changed, head)

	return changed, true
}

// Shuffle permutes the queue uniformly at random and renumbers each item to
// minimum(orders) + new index, keeping the queue's order range disjoint from
// the other lists. Returns every queue item for persistence. A nil r uses
// the shared random source.
func (b *Board) Shuffle(r *rand.Rand) []Item {
	if len(b.queue) == 0 {
		return nil
	}

	shuffled := make([]Item, len(b.queue))
	copy(shuffled, b.queue)
	shuffle.Slice(shuffled, r)

	minOrder := shuffled[0].Order
	for _, item := range shuffled[1:] {
		if item.Order < minOrder {
			minOrder = item.Order
		}
	}
	for i := range shuffled {
		shuffled[i].Order = minOrder + i
	}

	b.queue = shuffled
	return append([]Item(nil), shuffled...)
}

// Reset concatenates queue ++ went ++ next into a fresh queue, renumbering
// every item to its index in that concatenation, and clears the other lists.
// Returns every item for persistence.
func (b *Board) Reset() []Item {
	combined := make([]Item, 0, b.Len())
	combined = append(combined, b.queue...)
	combined = append(combined, b.went...)
	if b.next != nil {
		combined = append(combined, *b.next)
	}
	if len(combined) == 0 {
		return nil
	}

	for i := range combined {
		combined[i].Order = i
		combined[i].List = ListQueue
	}

	b.queue = combined
	b.next = nil
	b.went = nil
	return append([]Item(nil), combined...)
}

// Add validates the candidate name and appends a new item to the tail of the
// queue, numbered past every existing item in the session. Rejection leaves
// the board untouched.
func (b *Board) Add(name string) (Item, Outcome) {
	if name == "" || len(name) > MaxItemNameLength {
		return Item{}, OutcomeInvalid
	}

	order := len(b.queue) + len(b.went)
	if b.next != nil {
		order++
	}

	item := NewItem(b.sessionSlug, name, order, ListQueue)
	b.queue = append(b.queue, item)
	return item, OutcomeOK
}

// Rename updates an item's display name in place, preserving its order and
// list. Unknown ids are a no-op.
func (b *Board) Rename(id, name string) (Item, Outcome) {
	for i := range b.queue {
		if b.queue[i].ID == id {
			b.queue[i].Name = name
			return b.queue[i], OutcomeOK
		}
	}
	if b.next != nil && b.next.ID == id {
		b.next.Name = name
		return *b.next, OutcomeOK
	}
	for i := range b.went {
		if b.went[i].ID == id {
			b.went[i].Name = name
			return b.went[i], OutcomeOK
		}
	}
	return Item{}, OutcomeNotFound
}

// Reorder replaces the queue with the sequence named by ids, which must be a
// permutation of the current queue's ids. Items are renumbered to
// minimum(orders) + new index. Returns every queue item for persistence.
func (b *Board) Reorder(ids []string) ([]Item, Outcome) {
	if len(ids) != len(b.queue) {
		return nil, OutcomeInvalid
	}
	if len(ids) == 0 {
		return nil, OutcomeOK
	}

	byID := make(map[string]Item, len(b.queue))
	minOrder := b.queue[0].Order
	for _, item := range b.queue {
		byID[item.ID] = item
		if item.Order < minOrder {
			minOrder = item.Order
		}
	}

	reordered := make([]Item, 0, len(ids))
	for i, id := range ids {
		item, ok := byID[id]
		if !ok {
			return nil, OutcomeInvalid
		}
		delete(byID, id)
		item.Order = minOrder + i
		reordered = append(reordered, item)
	}

	b.queue = reordered
	return append([]Item(nil), reordered...), OutcomeOK
}

// Delete removes an item from whichever list holds it, then decrements the
// order of every remaining item in the session whose order exceeded the
// deleted item's, closing the gap. Returns the deleted item and the
// renumbered siblings. Unknown ids are a no-op.
func (b *Board) Delete(id string) (Item, []Item, Outcome) {
	deleted, ok := b.remove(id)
	if !ok {
		return Item{}, nil, OutcomeNotFound
	}

	var changed []Item
	for i := range b.queue {
		if b.queue[i].Order > deleted.Order {
			b.queue[i].Order--
			changed = append(changed, b.queue[i])
		}
	}
	if b.next != nil && b.next.Order > deleted.Order {
		b.next.Order--
		changed = append(changed, *b.next)
	}
	for i := range b.went {
		if b.went[i].Order > deleted.Order {
			b.went[i].Order--
			changed = append(changed, b.went[i])
		}
	}

	return deleted, changed, OutcomeOK
}

// remove detaches an item from its holding list
func (b *Board) remove(id string) (Item, bool) {
	for i := range b.queue {
		if b.queue[i].ID == id {
			item := b.queue[i]
			b.queue = append(b.queue[:i:i], b.queue[i+1:]...)
			return item, true
		}
	}
	if b.next != nil && b.next.ID == id {
		item := *b.next
		b.next = nil
		return item, true
	}
	for i := range b.went {
		if b.went[i].ID == id {
			item := b.went[i]
			b.went = append(b.went[:i:i], b.went[i+1:]...)
			return item, true
		}
	}
	return Item{}, false
}
