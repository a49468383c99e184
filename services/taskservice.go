package services

import (
	"context"
	"time"

	"workconnect/model"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

// TaskService wraps the Tasks collection.
type TaskService struct {
	FB *firestore.Client
}

func NewTaskService(fb *firestore.Client) *TaskService {
	return &TaskService{FB: fb}
}

// DueTasks returns undispatched, incomplete tasks due before the deadline.
// There is no lower bound: tasks that became due while the process was down
// are picked up on the next cycle, and the isnotified flag keeps them from
// ever being dispatched twice.
func (s *TaskService) DueTasks(ctx context.Context, before time.Time) ([]model.Task, error) {
	iter := s.FB.Collection("Tasks").
		Where("isnotified", "==", false).
		Where("iscompleted", "==", false).
		Where("reminderdate", "<", before).
		Documents(ctx)

	var tasks []model.Task
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var task model.Task
		if err := doc.DataTo(&task); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// MarkNotified flags a task as dispatched. The flag is never unset.
func (s *TaskService) MarkNotified(ctx context.Context, taskID string) error {
	_, err := s.FB.Collection("Tasks").Doc(taskID).Update(ctx, []firestore.Update{
		{Path: "isnotified", Value: true},
		{Path: "updatedat", Value: time.Now()},
	})
	return err
}

// TasksBetween returns tasks with reminderdate in [from, to), ascending.
func (s *TaskService) TasksBetween(ctx context.Context, from, to time.Time) ([]model.Task, error) {
	iter := s.FB.Collection("Tasks").
		Where("reminderdate", ">=", from).
		Where("reminderdate", "<", to).
		OrderBy("reminderdate", firestore.Asc).
		Documents(ctx)

	var tasks []model.Task
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var task model.Task
		if err := doc.DataTo(&task); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// AllTasks returns every task ordered by reminderdate ascending.
func (s *TaskService) AllTasks(ctx context.Context) ([]model.Task, error) {
	iter := s.FB.Collection("Tasks").
		OrderBy("reminderdate", firestore.Asc).
		Documents(ctx)

	var tasks []model.Task
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var task model.Task
		if err := doc.DataTo(&task); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// TasksForClient returns tasks referencing the client, newest due first.
func (s *TaskService) TasksForClient(ctx context.Context, clientID string) ([]model.Task, error) {
	iter := s.FB.Collection("Tasks").
		Where("assignedclients", "array-contains", clientID).
		OrderBy("reminderdate", firestore.Desc).
		Documents(ctx)

	var tasks []model.Task
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		var task model.Task
		if err := doc.DataTo(&task); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// DayBounds returns the start of the day containing t and the start of the
// next day, in t's location.
func DayBounds(t time.Time) (time.Time, time.Time) {
	year, month, day := t.Date()
	start := time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	return start, start.Add(24 * time.Hour)
}
