package model

import "time"

type User struct {
	UserID    string    `firestore:"userid,omitempty"`
	Username  string    `firestore:"username,omitempty"`
	Email     string    `firestore:"email,omitempty"`
	Password  string    `firestore:"password,omitempty"` // bcrypt hash, never plaintext
	Role      string    `firestore:"role,omitempty"`     // "user" or "admin"
	CreatedAt time.Time `firestore:"createdat,omitempty"`
}
