package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"workconnect/dto"
	"workconnect/realtime"

	"github.com/gorilla/websocket"
)

const reconnectDelay = 2 * time.Second

// Client keeps a live channel session open, registering the recipient after
// every (re)connect and feeding pushed reminders into a Center. Registration
// does not survive a reconnect, so it is re-sent each time.
type Client struct {
	URL         string // ws:// endpoint
	RecipientID string
	Center      *Center
}

// Run dials and reads until the context is cancelled, reconnecting with a
// fixed delay on any failure.
func (c *Client) Run(ctx context.Context) {
	for {
		if err := c.session(ctx); err != nil {
			log.Printf("notify: channel session ended: %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
	}
}

func (c *Client) session(ctx context.Context) error {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, c.URL, nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	register, err := realtime.RegisterEnvelope(c.RecipientID)
	if err != nil {
		return err
	}
	if err := ws.WriteJSON(register); err != nil {
		return err
	}

	// Close the socket when the context goes away so ReadJSON unblocks.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			ws.Close()
		case <-done:
		}
	}()

	for {
		var env realtime.Envelope
		if err := ws.ReadJSON(&env); err != nil {
			return err
		}
		if env.Event != realtime.EventNewReminder {
			continue
		}
		var task dto.TaskResponse
		if err := json.Unmarshal(env.Data, &task); err != nil {
			log.Printf("notify: bad reminder payload: %v", err)
			continue
		}
		c.Center.ApplyEvent(task)
	}
}
