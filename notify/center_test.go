package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"workconnect/dto"
)

type fakePersister struct {
	mu    sync.Mutex
	calls []string
	fail  bool
}

func (p *fakePersister) MarkRead(ctx context.Context, taskID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, taskID)
	if p.fail {
		return errors.New("persist failed")
	}
	return nil
}

func task(id, dueAt string, read bool) dto.TaskResponse {
	return dto.TaskResponse{ID: id, Title: "task " + id, DueAt: dueAt, IsRead: read}
}

func TestLoadComputesUnread(t *testing.T) {
	c := NewCenter(&fakePersister{}, 0)
	c.Load(dto.UpcomingResponse{
		Today:    []dto.TaskResponse{task("a", "2025-06-01T09:00:00Z", false)},
		Tomorrow: []dto.TaskResponse{task("b", "2025-06-02T09:00:00Z", true)},
	})

	if c.Unread() != 1 {
		t.Fatalf("unread = %d, want 1", c.Unread())
	}
	items := c.Items()
	if len(items) != 2 || items[0].ID != "a" || items[1].ID != "b" {
		t.Fatalf("items = %+v", items)
	}
}

func TestApplyEventInsertsSortedAndSetsPopup(t *testing.T) {
	c := NewCenter(&fakePersister{}, 0)
	c.Load(dto.UpcomingResponse{Today: []dto.TaskResponse{
		task("late", "2025-06-01T18:00:00Z", false),
	}})

	c.ApplyEvent(task("early", "2025-06-01T08:00:00Z", false))

	items := c.Items()
	if items[0].ID != "early" {
		t.Fatalf("list not resorted: %+v", items)
	}
	if c.Unread() != 2 {
		t.Fatalf("unread = %d, want 2", c.Unread())
	}
	popup, ok := c.Popup()
	if !ok || popup.ID != "early" {
		t.Fatalf("popup = %+v, ok = %v", popup, ok)
	}
}

func TestApplyEventMergesExistingRecord(t *testing.T) {
	c := NewCenter(&fakePersister{}, 0)
	c.Load(dto.UpcomingResponse{Today: []dto.TaskResponse{
		task("a", "2025-06-01T09:00:00Z", false),
	}})

	updated := task("a", "2025-06-01T09:00:00Z", false)
	updated.Title = "renamed"
	c.ApplyEvent(updated)

	items := c.Items()
	if len(items) != 1 {
		t.Fatalf("duplicate inserted: %+v", items)
	}
	if items[0].Title != "renamed" {
		t.Fatalf("title = %q", items[0].Title)
	}
	if c.Unread() != 1 {
		t.Fatalf("unread = %d, want 1", c.Unread())
	}
}

func TestMarkAsReadOptimisticAndIdempotent(t *testing.T) {
	persist := &fakePersister{}
	c := NewCenter(persist, 0)
	c.Load(dto.UpcomingResponse{Today: []dto.TaskResponse{
		task("a", "2025-06-01T09:00:00Z", false),
		task("b", "2025-06-01T10:00:00Z", false),
	}})

	c.MarkAsRead(context.Background(), "a")
	if c.Unread() != 1 {
		t.Fatalf("unread = %d, want 1", c.Unread())
	}

	// Second call is a no-op on the count and never hits the server again.
	c.MarkAsRead(context.Background(), "a")
	if c.Unread() != 1 {
		t.Fatalf("unread = %d after double mark, want 1", c.Unread())
	}
	persist.mu.Lock()
	calls := len(persist.calls)
	persist.mu.Unlock()
	if calls != 1 {
		t.Fatalf("persist calls = %d, want 1", calls)
	}
}

func TestMarkAsReadKeepsLocalStateOnPersistFailure(t *testing.T) {
	persist := &fakePersister{fail: true}
	c := NewCenter(persist, 0)
	c.Load(dto.UpcomingResponse{Today: []dto.TaskResponse{
		task("a", "2025-06-01T09:00:00Z", false),
	}})

	c.MarkAsRead(context.Background(), "a")

	// Best-effort UX: the optimistic flip survives the failed call.
	if c.Unread() != 0 {
		t.Fatalf("unread = %d, want 0", c.Unread())
	}
	items := c.Items()
	if !items[0].IsRead {
		t.Fatal("read flag rolled back")
	}
}

func TestDismissPopupClearsOnlyTheSlot(t *testing.T) {
	c := NewCenter(&fakePersister{}, 0)
	c.ApplyEvent(task("a", "2025-06-01T09:00:00Z", false))

	c.DismissPopup()

	if _, ok := c.Popup(); ok {
		t.Fatal("popup still set after dismiss")
	}
	if len(c.Items()) != 1 || c.Unread() != 1 {
		t.Fatal("dismiss touched the list or the unread count")
	}
}

func TestStaleTimerCannotClearNewerPopup(t *testing.T) {
	c := NewCenter(&fakePersister{}, 0)

	c.ApplyEvent(task("first", "2025-06-01T09:00:00Z", false))
	c.ApplyEvent(task("second", "2025-06-01T10:00:00Z", false))

	// A timer armed for the first popup that fires late must leave the
	// second popup alone.
	c.dismissExpired(1)
	popup, ok := c.Popup()
	if !ok || popup.ID != "second" {
		t.Fatalf("popup = %+v, ok = %v; stale timer cleared the newer popup", popup, ok)
	}

	// The current generation still dismisses normally.
	c.dismissExpired(2)
	if _, ok := c.Popup(); ok {
		t.Fatal("current-generation dismiss did not clear the popup")
	}
}

func TestPopupAutoDismiss(t *testing.T) {
	c := NewCenter(&fakePersister{}, 20*time.Millisecond)
	c.ApplyEvent(task("a", "2025-06-01T09:00:00Z", false))

	if _, ok := c.Popup(); !ok {
		t.Fatal("popup not set")
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, ok := c.Popup(); !ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("popup not auto-dismissed")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
