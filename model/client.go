package model

import "time"

const (
	StatusLead       = "Lead"
	StatusInProgress = "In Progress"
	StatusConverted  = "Converted"
)

type Client struct {
	ClientID  string    `firestore:"clientid,omitempty"`
	Name      string    `firestore:"name,omitempty"`
	Email     string    `firestore:"email,omitempty"`
	Phone     string    `firestore:"phone,omitempty"`
	Status    string    `firestore:"status,omitempty"` // Lead, In Progress, Converted
	CreatedAt time.Time `firestore:"createdat,omitempty"`
	UpdatedAt time.Time `firestore:"updatedat,omitempty"`
}

// ValidStatus reports whether s is one of the closed client status set.
func ValidStatus(s string) bool {
	switch s {
	case StatusLead, StatusInProgress, StatusConverted:
		return true
	}
	return false
}
