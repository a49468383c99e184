package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"workconnect/dto"
	"workconnect/model"
	"workconnect/realtime"
)

// Presence answers whether a recipient is currently reachable.
type Presence interface {
	Lookup(recipientID string) (realtime.Conn, bool)
}

// ClientDirectory resolves assigned-client ids to client records. Unresolvable
// ids (deleted clients) are omitted from the result, not errors.
type ClientDirectory interface {
	ClientsByID(ctx context.Context, ids []string) ([]model.Client, error)
}

// Dispatcher turns one due task into zero or more pushed reminder events.
type Dispatcher struct {
	Presence Presence
	Clients  ClientDirectory
}

// Dispatch resolves the recipient set of the task and pushes the reminder to
// every recipient that is online. Delivery is best-effort: offline recipients
// are skipped, and a failed push to one recipient never blocks the others.
func (d *Dispatcher) Dispatch(ctx context.Context, task model.Task) error {
	clients, err := d.Clients.ClientsByID(ctx, task.AssignedClients)
	if err != nil {
		return err
	}

	event, err := realtime.NewReminderEnvelope(Snapshot(task, clients))
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	for _, id := range recipientKeys(task, clients) {
		conn, ok := d.Presence.Lookup(id)
		if !ok {
			continue
		}
		wg.Add(1)
		go func(id string, conn realtime.Conn) {
			defer wg.Done()
			if err := conn.WriteJSON(event); err != nil {
				log.Printf("dispatch: push to %s failed: %v", id, err)
			}
		}(id, conn)
	}
	wg.Wait()
	return nil
}

// recipientKeys is the task creator plus every assigned client, deduplicated.
// Clients are keyed by email when they have one (the natural key used at
// assignment time), otherwise by id.
func recipientKeys(task model.Task, clients []model.Client) []string {
	seen := make(map[string]bool)
	var keys []string
	add := func(k string) {
		if k != "" && !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}

	add(task.CreatedBy)
	for _, c := range clients {
		if c.Email != "" {
			add(c.Email)
		} else {
			add(c.ClientID)
		}
	}
	return keys
}

// Snapshot builds the canonical reminder payload for a task and its resolved
// clients.
func Snapshot(task model.Task, clients []model.Client) dto.TaskResponse {
	summaries := make([]dto.ClientSummary, 0, len(clients))
	for _, c := range clients {
		summaries = append(summaries, dto.ClientSummary{ID: c.ClientID, Name: c.Name})
	}
	return dto.TaskResponse{
		ID:              task.TaskID,
		Title:           task.Title,
		Description:     task.Description,
		DueAt:           task.ReminderDate.UTC().Format(time.RFC3339),
		AssignedClients: summaries,
		IsRead:          task.IsRead,
		IsCompleted:     task.IsCompleted,
	}
}
