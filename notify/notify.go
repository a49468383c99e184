package notify

import (
	"strings"
	"time"
)

// Options wires a live notification view for one recipient.
type Options struct {
	BaseURL          string // http(s):// origin of the REST surface
	Token            string
	RecipientID      string
	PopupAutoDismiss time.Duration
}

// New builds a Center persisted through the REST surface and a channel
// Client feeding it, ready for Client.Run. The returned REST serves the
// initial upcoming fetch.
func New(opts Options) (*Center, *Client, *REST) {
	rest := NewREST(opts.BaseURL, opts.Token)
	center := NewCenter(rest, opts.PopupAutoDismiss)
	client := &Client{
		URL:         SocketURL(opts.BaseURL),
		RecipientID: opts.RecipientID,
		Center:      center,
	}
	return center, client, rest
}

// SocketURL derives the live channel endpoint from the REST origin.
func SocketURL(baseURL string) string {
	return "ws" + strings.TrimPrefix(baseURL, "http") + "/ws"
}
