package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"workconnect/model"

	"github.com/robfig/cron/v3"
)

// TaskSource is the slice of the task store the scanner needs.
type TaskSource interface {
	// DueTasks returns tasks with reminderdate before the deadline that are
	// neither completed nor already notified.
	DueTasks(ctx context.Context, before time.Time) ([]model.Task, error)
	// MarkNotified permanently flags a task as dispatched.
	MarkNotified(ctx context.Context, taskID string) error
}

// Scanner polls the store on a fixed interval and hands due tasks to the
// dispatcher. "Due" is a one-time event: after a best-effort dispatch attempt
// the task is flagged and never reconsidered, even across restarts.
type Scanner struct {
	Store      TaskSource
	Dispatcher *Dispatcher
	Interval   time.Duration
	Lookahead  time.Duration

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time

	cron    *cron.Cron
	running int32
}

// Start schedules the recurring scan. Stop must be called to release the
// cron goroutine.
func (s *Scanner) Start() error {
	s.cron = cron.New(cron.WithSeconds())
	seconds := int(s.Interval.Seconds())
	if seconds <= 0 {
		seconds = 1
	}
	if _, err := s.cron.AddFunc(fmt.Sprintf("@every %ds", seconds), func() {
		s.Scan(context.Background())
	}); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

func (s *Scanner) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
}

// Scan runs one cycle. A store failure skips the cycle; the next interval
// retries naturally. Overlapping cycles are skipped rather than stacked.
func (s *Scanner) Scan(ctx context.Context) {
	if !atomic.CompareAndSwapInt32(&s.running, 0, 1) {
		return
	}
	defer atomic.StoreInt32(&s.running, 0)

	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}

	tasks, err := s.Store.DueTasks(ctx, now.Add(s.Lookahead))
	if err != nil {
		log.Printf("scanner: due query failed: %v", err)
		return
	}

	for _, task := range tasks {
		if err := s.Dispatcher.Dispatch(ctx, task); err != nil {
			log.Printf("scanner: dispatch %s failed: %v", task.TaskID, err)
		}
		// Flag even when dispatch failed or nobody was online; there is no
		// offline queue and the task must never be re-selected.
		if err := s.Store.MarkNotified(ctx, task.TaskID); err != nil {
			log.Printf("scanner: mark notified %s failed: %v", task.TaskID, err)
		}
	}
}
