package model

import (
	"time"
)

type Task struct {
	TaskID          string    `firestore:"taskid,omitempty"`
	Title           string    `firestore:"title,omitempty"`
	Description     string    `firestore:"description,omitempty"`
	AssignedClients []string  `firestore:"assignedclients,omitempty"` // client ids, input order
	ReminderDate    time.Time `firestore:"reminderdate,omitempty"`
	IsCompleted     bool      `firestore:"iscompleted"`
	IsNotified      bool      `firestore:"isnotified"` // set once by the dispatcher, never unset
	IsRead          bool      `firestore:"isread"`
	CreatedBy       string    `firestore:"createdby,omitempty"`
	CreatedAt       time.Time `firestore:"createdat,omitempty"`
	UpdatedAt       time.Time `firestore:"updatedat,omitempty"`
}

// Due reports whether the task still needs a reminder pushed before the
// given deadline.
func (t Task) Due(before time.Time) bool {
	return !t.IsCompleted && !t.IsNotified && t.ReminderDate.Before(before)
}
