package dto

type CreateTaskRequest struct {
	Title           string   `json:"title" binding:"required"`
	Description     string   `json:"description"`
	AssignedClients []string `json:"assignedClients" binding:"required,min=1"` // client emails
	ReminderDate    string   `json:"reminderDate" binding:"required"`          // RFC3339
}

type UpdateTaskRequest struct {
	Title        string  `json:"title"`
	Description  *string `json:"description"`
	ReminderDate string  `json:"reminderDate"`
	IsCompleted  *bool   `json:"isCompleted"`
}

// ClientSummary is the per-client slice of a reminder payload.
type ClientSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TaskResponse is the canonical task snapshot used by every REST response and
// the live channel. Normalized once at the server boundary.
type TaskResponse struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	DueAt           string          `json:"dueAt"` // RFC3339
	AssignedClients []ClientSummary `json:"assignedClients"`
	IsRead          bool            `json:"isRead"`
	IsCompleted     bool            `json:"isCompleted"`
}

type UpcomingResponse struct {
	Today    []TaskResponse `json:"today"`
	Tomorrow []TaskResponse `json:"tomorrow"`
}
