package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"workconnect/model"
	"workconnect/realtime"
)

type memStore struct {
	mu      sync.Mutex
	tasks   map[string]*model.Task
	failDue bool
}

func newMemStore(tasks ...model.Task) *memStore {
	m := &memStore{tasks: make(map[string]*model.Task)}
	for i := range tasks {
		t := tasks[i]
		m.tasks[t.TaskID] = &t
	}
	return m
}

func (m *memStore) DueTasks(ctx context.Context, before time.Time) ([]model.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failDue {
		return nil, errors.New("store unavailable")
	}
	var due []model.Task
	for _, t := range m.tasks {
		if t.Due(before) {
			due = append(due, *t)
		}
	}
	return due, nil
}

func (m *memStore) MarkNotified(ctx context.Context, taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[taskID]
	if !ok {
		return errors.New("task not found")
	}
	t.IsNotified = true
	return nil
}

func (m *memStore) notified(taskID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tasks[taskID].IsNotified
}

type memDirectory struct {
	clients map[string]model.Client
}

func (d *memDirectory) ClientsByID(ctx context.Context, ids []string) ([]model.Client, error) {
	var out []model.Client
	for _, id := range ids {
		if c, ok := d.clients[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

type memPresence struct {
	conns map[string]realtime.Conn
}

func (p *memPresence) Lookup(id string) (realtime.Conn, bool) {
	c, ok := p.conns[id]
	return c, ok
}

type recordConn struct {
	mu     sync.Mutex
	events []realtime.Envelope
	fail   bool
}

func (c *recordConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("connection gone")
	}
	c.events = append(c.events, v.(realtime.Envelope))
	return nil
}

func (c *recordConn) Close() error { return nil }

func (c *recordConn) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func newScanner(store *memStore, dir *memDirectory, pres *memPresence, lookahead time.Duration, now time.Time) *Scanner {
	return &Scanner{
		Store:      store,
		Dispatcher: &Dispatcher{Presence: pres, Clients: dir},
		Interval:   5 * time.Second,
		Lookahead:  lookahead,
		Now:        func() time.Time { return now },
	}
}

func TestScanMarksDueTasksEvenWithNobodyOnline(t *testing.T) {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	store := newMemStore(model.Task{
		TaskID:       "t1",
		Title:        "Follow up",
		ReminderDate: base.Add(-time.Minute),
	})
	s := newScanner(store, &memDirectory{}, &memPresence{conns: map[string]realtime.Conn{}}, 5*time.Second, base)

	s.Scan(context.Background())

	if !store.notified("t1") {
		t.Fatal("due task not marked notified after one cycle")
	}
}

func TestScanIdempotent(t *testing.T) {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	conn := &recordConn{}
	store := newMemStore(model.Task{
		TaskID:       "t1",
		Title:        "Follow up",
		ReminderDate: base,
		CreatedBy:    "u1",
	})
	pres := &memPresence{conns: map[string]realtime.Conn{"u1": conn}}
	s := newScanner(store, &memDirectory{}, pres, 5*time.Second, base)

	s.Scan(context.Background())
	s.Scan(context.Background())

	if got := conn.count(); got != 1 {
		t.Fatalf("pushes = %d, want exactly 1", got)
	}
}

func TestScanLookaheadWindow(t *testing.T) {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	store := newMemStore(
		model.Task{TaskID: "soon", Title: "a", ReminderDate: base.Add(3 * time.Second)},
		model.Task{TaskID: "later", Title: "b", ReminderDate: base.Add(12 * time.Second)},
	)
	pres := &memPresence{conns: map[string]realtime.Conn{}}
	dir := &memDirectory{}

	// Scan at T+0 with a 5s lookahead: only the task due at T+3 qualifies.
	s := newScanner(store, dir, pres, 5*time.Second, base)
	s.Scan(context.Background())
	if !store.notified("soon") {
		t.Fatal("task due at T+3s missed by the T+0 scan")
	}
	if store.notified("later") {
		t.Fatal("task due at T+12s dispatched too early")
	}

	// Scan at T+10: the second task (due in 2s) is inside the window now.
	s.Now = func() time.Time { return base.Add(10 * time.Second) }
	s.Scan(context.Background())
	if !store.notified("later") {
		t.Fatal("task due at T+12s missed by the T+10 scan")
	}
}

func TestScanStoreFailureSkipsCycle(t *testing.T) {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	store := newMemStore(model.Task{TaskID: "t1", Title: "a", ReminderDate: base})
	store.failDue = true
	s := newScanner(store, &memDirectory{}, &memPresence{conns: map[string]realtime.Conn{}}, 5*time.Second, base)

	s.Scan(context.Background())
	if store.notified("t1") {
		t.Fatal("task marked despite failed store read")
	}

	// The next cycle retries naturally.
	store.mu.Lock()
	store.failDue = false
	store.mu.Unlock()
	s.Scan(context.Background())
	if !store.notified("t1") {
		t.Fatal("task not picked up once the store recovered")
	}
}

func TestScanSkipsCompletedTasks(t *testing.T) {
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	store := newMemStore(model.Task{
		TaskID:       "done",
		Title:        "a",
		ReminderDate: base,
		IsCompleted:  true,
	})
	s := newScanner(store, &memDirectory{}, &memPresence{conns: map[string]realtime.Conn{}}, 5*time.Second, base)

	s.Scan(context.Background())
	if store.notified("done") {
		t.Fatal("completed task dispatched")
	}
}
