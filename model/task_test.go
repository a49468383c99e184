package model

import (
	"testing"
	"time"
)

func TestTaskDue(t *testing.T) {
	deadline := time.Date(2025, 6, 1, 9, 0, 5, 0, time.UTC)
	tests := []struct {
		name string
		task Task
		want bool
	}{
		{"inside window", Task{ReminderDate: deadline.Add(-time.Second)}, true},
		{"overdue", Task{ReminderDate: deadline.Add(-time.Hour)}, true},
		{"beyond window", Task{ReminderDate: deadline.Add(time.Second)}, false},
		{"already notified", Task{ReminderDate: deadline.Add(-time.Second), IsNotified: true}, false},
		{"completed", Task{ReminderDate: deadline.Add(-time.Second), IsCompleted: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.Due(deadline); got != tt.want {
				t.Fatalf("Due() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusLead, StatusInProgress, StatusConverted} {
		if !ValidStatus(s) {
			t.Fatalf("ValidStatus(%q) = false", s)
		}
	}
	for _, s := range []string{"", "lead", "Done", "in progress"} {
		if ValidStatus(s) {
			t.Fatalf("ValidStatus(%q) = true", s)
		}
	}
}
