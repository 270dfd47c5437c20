package syncer

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/isitmyturn/isitmyturn/pkg/session"
	"github.com/isitmyturn/isitmyturn/pkg/turnlist"
)

const (
	// DefaultReorderWindow is the quiet window before a reorder batch is sent
	DefaultReorderWindow = 1500 * time.Millisecond
	// DefaultSuccessLinger is how long a settled call reports success before
	// decaying to idle
	DefaultSuccessLinger = time.Second
)

// Options tunes a Coordinator. Zero values pick the defaults
type Options struct {
	ReorderWindow time.Duration
	SuccessLinger time.Duration
	Rand          *rand.Rand // shuffle source; nil uses the shared source
}

// Coordinator mediates between the optimistic in-memory board and the
// durable store for one session. Board transitions apply synchronously;
// persistence runs out of band and is never resent on failure — instead a
// full refetch reconciles the board with ground truth, discarding unsent
// optimistic changes.
//
// Writes are keyed by item id with no version token, so concurrent edits
// from multiple participants race last-write-wins at the store.
type Coordinator struct {
	store       session.Store
	sessionSlug string
	opts        Options

	mu    sync.Mutex
	board *turnlist.Board

	queryInFlight     bool
	queryFailed       bool
	mutationsInFlight int
	mutationFailed    bool
	lastSettled       time.Time

	reorderPending bool
	reorderGen     uint64
	pendingOrder   []session.ItemUpdate

	debounce *debouncer
	wg       sync.WaitGroup
}

// New creates a coordinator for one session backed by the given store
func New(store session.Store, sessionSlug string, opts Options) *Coordinator {
	if opts.ReorderWindow <= 0 {
		opts.ReorderWindow = DefaultReorderWindow
	}
	if opts.SuccessLinger <= 0 {
		opts.SuccessLinger = DefaultSuccessLinger
	}

	c := &Coordinator{
		store:       store,
		sessionSlug: sessionSlug,
		opts:        opts,
		board:       turnlist.NewBoard(sessionSlug, nil),
	}
	c.debounce = newDebouncer(opts.ReorderWindow, c.flushReorder)
	return c
}

// Refresh fetches every item for the session and rebuilds the board from
// ground truth. A successful refresh clears any standing error
func (c *Coordinator) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.queryInFlight = true
	c.mu.Unlock()

	items, err := c.store.ListItems(ctx, c.sessionSlug)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.queryInFlight = false

	if err != nil {
		c.queryFailed = true
		return fmt.Errorf("failed to fetch session items: %w", err)
	}

	c.board = turnlist.NewBoard(c.sessionSlug, items)
	c.queryFailed = false
	c.mutationFailed = false
	c.lastSettled = time.Now()
	return nil
}

// Advance pops the queue head into the next slot, sending both affected
// items as one atomic batch so readers never observe two NEXT occupants.
// Returns false when the queue is empty
func (c *Coordinator) Advance() ([]turnlist.Item, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	changed, ok := c.board.Advance()
	if !ok {
		return nil, false
	}

	updates := toUpdates(changed)
	c.dispatchLocked(func(ctx context.Context) error {
		return c.store.UpdateItemsAtomic(ctx, c.sessionSlug, updates)
	}, nil)
	return changed, true
}

// Shuffle permutes the queue and persists every renumbered item as one
// atomic batch
func (c *Coordinator) Shuffle() []turnlist.Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	changed := c.board.Shuffle(c.opts.Rand)
	if len(changed) == 0 {
		return nil
	}

	updates := toUpdates(changed)
	c.dispatchLocked(func(ctx context.Context) error {
		return c.store.UpdateItemsAtomic(ctx, c.sessionSlug, updates)
	}, nil)
	return changed
}

// Reset moves everything back into the queue and persists the renumbered
// items as one atomic batch
func (c *Coordinator) Reset() []turnlist.Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	changed := c.board.Reset()
	if len(changed) == 0 {
		return nil
	}

	updates := toUpdates(changed)
	c.dispatchLocked(func(ctx context.Context) error {
		return c.store.UpdateItemsAtomic(ctx, c.sessionSlug, updates)
	}, nil)
	return changed
}

// Add validates and appends a new queue item, persisting it with a single
// create call. Rejection makes no store call
func (c *Coordinator) Add(name string) (turnlist.Item, turnlist.Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, outcome := c.board.Add(name)
	if outcome != turnlist.OutcomeOK {
		return turnlist.Item{}, outcome
	}

	c.dispatchLocked(func(ctx context.Context) error {
		return c.store.CreateItem(ctx, item)
	}, nil)
	return item, outcome
}

// Rename updates an item's display name, persisting it with a single update
// call. Unknown ids make no store call
func (c *Coordinator) Rename(id, name string) (turnlist.Item, turnlist.Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, outcome := c.board.Rename(id, name)
	if outcome != turnlist.OutcomeOK {
		return turnlist.Item{}, outcome
	}

	update := session.ItemUpdate{
		ItemID:   item.ID,
		NewName:  item.Name,
		NewOrder: item.Order,
		NewList:  item.List,
	}
	c.dispatchLocked(func(ctx context.Context) error {
		return c.store.UpdateItem(ctx, c.sessionSlug, update)
	}, nil)
	return item, outcome
}

// Delete removes an item and persists the deletion together with the
// session-wide order renumbering it causes. Unknown ids make no store call
func (c *Coordinator) Delete(id string) (turnlist.Item, turnlist.Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	deleted, changed, outcome := c.board.Delete(id)
	if outcome != turnlist.OutcomeOK {
		return turnlist.Item{}, outcome
	}

	updates := toUpdates(changed)
	c.dispatchLocked(func(ctx context.Context) error {
		if err := c.store.DeleteItem(ctx, c.sessionSlug, deleted.ID); err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		return c.store.UpdateItemsAtomic(ctx, c.sessionSlug, updates)
	}, nil)
	return deleted, outcome
}

// Reorder applies a full new queue ordering optimistically and debounces
// persistence: only the last ordering inside a quiet window is sent, as one
// atomic batch. ReorderPending reports true from the first event until the
// flushed batch resolves
func (c *Coordinator) Reorder(ids []string) ([]turnlist.Item, turnlist.Outcome) {
	c.mu.Lock()

	changed, outcome := c.board.Reorder(ids)
	if outcome != turnlist.OutcomeOK || len(changed) == 0 {
		c.mu.Unlock()
		return changed, outcome
	}

	c.pendingOrder = toUpdates(changed)
	c.reorderPending = true
	c.reorderGen++
	c.mu.Unlock()

	c.debounce.Trigger()
	return changed, outcome
}

// ReorderPending reports whether a reorder batch is outstanding; callers
// disable edit affordances while true to avoid racing stale order values
func (c *Coordinator) ReorderPending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reorderPending
}

// flushReorder sends the latest pending ordering once the quiet window
// elapses
func (c *Coordinator) flushReorder() {
	c.mu.Lock()
	defer c.mu.Unlock()

	updates := c.pendingOrder
	c.pendingOrder = nil
	if len(updates) == 0 {
		return
	}

	gen := c.reorderGen
	c.dispatchLocked(func(ctx context.Context) error {
		return c.store.UpdateItemsAtomic(ctx, c.sessionSlug, updates)
	}, func() {
		c.mu.Lock()
		// A newer reorder may have re-armed the debouncer meanwhile
		if c.reorderGen == gen {
			c.reorderPending = false
		}
		c.mu.Unlock()
	})
}

// Flush force-fires any pending reorder and waits for every in-flight
// persistence call to settle. Used on shutdown and in tests
func (c *Coordinator) Flush() {
	c.debounce.FlushNow()
	c.wg.Wait()
}

// Close stops the debounce timer and drains in-flight work
func (c *Coordinator) Close() {
	c.debounce.Stop()
	c.wg.Wait()
}

// Queue returns a snapshot of the queue, ascending by order
func (c *Coordinator) Queue() []turnlist.Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.board.Queue()
}

// Next returns the up-next occupant, if any
func (c *Coordinator) Next() (turnlist.Item, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.board.Next()
}

// Went returns a snapshot of the went-already list
func (c *Coordinator) Went() []turnlist.Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.board.Went()
}

// Status returns the aggregate sync state
func (c *Coordinator) Status() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Snapshot returns the signals a caller needs to project its affordances
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		State:             c.stateLocked(),
		QueryInFlight:     c.queryInFlight,
		MutationsInFlight: c.mutationsInFlight,
		ReorderPending:    c.reorderPending,
		QueueLength:       len(c.board.Queue()),
	}
}

// Controls returns the derived affordance flags for the current snapshot
func (c *Coordinator) Controls() Controls {
	return ProjectControls(c.Snapshot())
}

// stateLocked derives the aggregate state; callers hold the lock
func (c *Coordinator) stateLocked() State {
	switch {
	case c.queryInFlight || c.mutationsInFlight > 0:
		return StateLoading
	case c.queryFailed || c.mutationFailed:
		return StateError
	case !c.lastSettled.IsZero() && time.Since(c.lastSettled) < c.opts.SuccessLinger:
		return StateSuccess
	default:
		return StateIdle
	}
}

// dispatchLocked sends one persistence call out of band. Callers hold the
// lock. Failures are never resent; a full refetch reconciles instead
func (c *Coordinator) dispatchLocked(persist func(context.Context) error, onSettled func()) {
	c.mutationsInFlight++
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		err := persist(context.Background())

		c.mu.Lock()
		c.mutationsInFlight--
		if err == nil {
			c.lastSettled = time.Now()
		} else {
			c.mutationFailed = true
		}
		c.mu.Unlock()

		if onSettled != nil {
			onSettled()
		}

		if err != nil {
			log.Printf("[SYNC]: Mutation failed for session %s: %v", c.sessionSlug, err)
			if rerr := c.Refresh(context.Background()); rerr != nil {
				log.Printf("[SYNC]: Reconciling refetch failed for session %s: %v", c.sessionSlug, rerr)
			}
		}
	}()
}

// toUpdates converts changed items into store update payloads
func toUpdates(items []turnlist.Item) []session.ItemUpdate {
	updates := make([]session.ItemUpdate, len(items))
	for i, item := range items {
		updates[i] = session.ItemUpdate{
			ItemID:   item.ID,
			NewName:  item.Name,
			NewOrder: item.Order,
			NewList:  item.List,
		}
	}
	return updates
}
