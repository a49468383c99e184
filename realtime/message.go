package realtime

import (
	"encoding/json"

	"workconnect/dto"
)

const (
	// EventRegister is sent by the client right after connecting; its data is
	// the recipient identifier as a JSON string.
	EventRegister = "register"
	// EventNewReminder carries a task snapshot from server to client.
	EventNewReminder = "new-reminder"
)

// Envelope is the wire frame for every live channel message.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// NewReminderEnvelope wraps a task snapshot for pushing.
func NewReminderEnvelope(task dto.TaskResponse) (Envelope, error) {
	data, err := json.Marshal(task)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Event: EventNewReminder, Data: data}, nil
}

// RegisterEnvelope builds the client-side registration frame.
func RegisterEnvelope(recipientID string) (Envelope, error) {
	data, err := json.Marshal(recipientID)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Event: EventRegister, Data: data}, nil
}
