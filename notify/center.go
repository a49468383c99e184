package notify

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"workconnect/dto"
)

// Persister writes read-state back to the server.
type Persister interface {
	MarkRead(ctx context.Context, taskID string) error
}

// Center holds the UI-facing notification state: the known upcoming
// reminders, the unread count, and the single transient popup. It is fed by
// an initial fetch plus the live channel stream.
type Center struct {
	mu           sync.Mutex
	persist      Persister
	dismissAfter time.Duration

	items  []dto.TaskResponse
	unread int

	popup      *dto.TaskResponse
	popupTimer *time.Timer
	popupGen   uint64
}

func NewCenter(persist Persister, dismissAfter time.Duration) *Center {
	return &Center{persist: persist, dismissAfter: dismissAfter}
}

// Load merges an initial upcoming fetch into the list.
func (c *Center) Load(upcoming dto.UpcomingResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range upcoming.Today {
		c.upsert(t)
	}
	for _, t := range upcoming.Tomorrow {
		c.upsert(t)
	}
	c.resort()
}

// ApplyEvent merges one pushed reminder and makes it the transient popup,
// auto-dismissed after the configured delay.
func (c *Center) ApplyEvent(task dto.TaskResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.upsert(task)
	c.resort()

	popup := task
	c.popup = &popup
	c.popupGen++
	gen := c.popupGen
	if c.popupTimer != nil {
		c.popupTimer.Stop()
	}
	if c.dismissAfter > 0 {
		c.popupTimer = time.AfterFunc(c.dismissAfter, func() {
			c.dismissExpired(gen)
		})
	}
}

// dismissExpired clears the popup slot only when it still belongs to the
// generation that armed the timer. A stopped timer may already be blocked on
// the lock when a newer popup takes the slot; its callback must not clear it.
func (c *Center) dismissExpired(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.popupGen {
		return
	}
	c.popup = nil
	c.popupTimer = nil
}

// MarkAsRead flips a record to read optimistically and persists the change.
// A persistence failure is logged and the optimistic state kept; a second
// call for the same id is a no-op on the count.
func (c *Center) MarkAsRead(ctx context.Context, taskID string) {
	c.mu.Lock()
	var changed bool
	for i := range c.items {
		if c.items[i].ID == taskID && !c.items[i].IsRead {
			c.items[i].IsRead = true
			changed = true
			break
		}
	}
	if changed {
		c.recount()
	}
	c.mu.Unlock()

	if !changed {
		return
	}
	if err := c.persist.MarkRead(ctx, taskID); err != nil {
		log.Printf("notify: mark read %s failed: %v", taskID, err)
	}
}

// DismissPopup clears the transient popup slot; read state and the list are
// untouched.
func (c *Center) DismissPopup() {
	c.mu.Lock()
	c.popup = nil
	if c.popupTimer != nil {
		c.popupTimer.Stop()
		c.popupTimer = nil
	}
	c.mu.Unlock()
}

// Popup returns a copy of the current transient popup, if any.
func (c *Center) Popup() (dto.TaskResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.popup == nil {
		return dto.TaskResponse{}, false
	}
	return *c.popup, true
}

// Unread returns the number of unread reminders.
func (c *Center) Unread() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unread
}

// Items returns the reminder list sorted by due time ascending.
func (c *Center) Items() []dto.TaskResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]dto.TaskResponse, len(c.items))
	copy(out, c.items)
	return out
}

// upsert replaces an existing record in place or inserts a new one. Callers
// hold the lock and resort afterwards.
func (c *Center) upsert(task dto.TaskResponse) {
	for i := range c.items {
		if c.items[i].ID == task.ID {
			c.items[i] = task
			return
		}
	}
	c.items = append(c.items, task)
}

func (c *Center) resort() {
	sort.SliceStable(c.items, func(i, j int) bool {
		return c.items[i].DueAt < c.items[j].DueAt
	})
	c.recount()
}

func (c *Center) recount() {
	n := 0
	for _, t := range c.items {
		if !t.IsRead {
			n++
		}
	}
	c.unread = n
}
