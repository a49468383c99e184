package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"workconnect/dto"
)

// REST talks to the reminder-relevant REST surface: the upcoming fetch and
// the mark-as-read patch.
type REST struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func NewREST(baseURL, token string) *REST {
	return &REST{BaseURL: baseURL, Token: token, HTTP: http.DefaultClient}
}

func (r *REST) MarkRead(ctx context.Context, taskID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch,
		fmt.Sprintf("%s/api/task/%s/read", r.BaseURL, taskID), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+r.Token)

	resp, err := r.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mark read: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// Upcoming fetches tasks due today and tomorrow.
func (r *REST) Upcoming(ctx context.Context) (dto.UpcomingResponse, error) {
	var upcoming dto.UpcomingResponse

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		r.BaseURL+"/api/task/upcoming", nil)
	if err != nil {
		return upcoming, err
	}
	req.Header.Set("Authorization", "Bearer "+r.Token)

	resp, err := r.HTTP.Do(req)
	if err != nil {
		return upcoming, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return upcoming, fmt.Errorf("upcoming: unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&upcoming); err != nil {
		return upcoming, err
	}
	return upcoming, nil
}
