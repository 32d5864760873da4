package store

import (
	"strings"
	"time"
)

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

type TaskStatus string

const (
	StatusPending   TaskStatus = "Pending"
	StatusCompleted TaskStatus = "Completed"
	// StatusOverdue is advisory. Nothing in the store assigns it.
	StatusOverdue TaskStatus = "Overdue"
)

type SessionType string

const (
	SessionPomodoro SessionType = "Pomodoro"
	SessionManual   SessionType = "Manual"
)

type Task struct {
	ID               int64
	Title            string
	Subject          string
	Priority         Priority
	EstimatedMinutes int
	ActualMinutes    int
	Deadline         time.Time // calendar date, UTC midnight
	Status           TaskStatus
	Tags             []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Completed reports whether the task counts toward experience.
func (t Task) Completed() bool { return t.Status == StatusCompleted }

// StudySession is an append-only record of finished study time.
type StudySession struct {
	ID         int64
	StartedAt  time.Time
	Duration   int // minutes
	Subject    string
	FocusScore int // 1-10
	Type       SessionType
}

type Note struct {
	ID        int64
	Title     string
	Content   string
	Subject   string
	Tags      []string
	Summary   string
	UpdatedAt time.Time
}

type Setting struct {
	Key   string
	Value string
}

// TaskInput carries the user-editable fields of a task.
type TaskInput struct {
	Title            string
	Subject          string
	Priority         Priority
	EstimatedMinutes int
	ActualMinutes    int
	Deadline         time.Time
	Tags             []string
}

// StudyTotal is study time aggregated under a label (weekday or subject).
type StudyTotal struct {
	Label    string
	Minutes  int64
	Sessions int
}

func joinTags(tags []string) string {
	var clean []string
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" {
			clean = append(clean, t)
		}
	}
	return strings.Join(clean, ",")
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// ParseTags splits a comma separated tag string as typed in forms.
func ParseTags(s string) []string {
	return splitTags(joinTags(strings.Split(s, ",")))
}
