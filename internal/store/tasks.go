package store

import (
	"fmt"
	"strings"
	"time"
)

const taskColumns = `id, title, subject, priority, estimated_minutes, actual_minutes, deadline, status, tags, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func validPriority(p Priority) bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

func validStatus(st TaskStatus) bool {
	switch st {
	case StatusPending, StatusCompleted, StatusOverdue:
		return true
	}
	return false
}

func (in TaskInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidTask)
	}
	if in.EstimatedMinutes <= 0 {
		return fmt.Errorf("%w: estimated duration must be positive", ErrInvalidTask)
	}
	if in.ActualMinutes < 0 {
		return fmt.Errorf("%w: actual duration cannot be negative", ErrInvalidTask)
	}
	if !validPriority(in.Priority) {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidTask, in.Priority)
	}
	return nil
}

// CreateTask inserts a new task. New tasks always start Pending.
func (s *Store) CreateTask(in TaskInput) (*Task, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	now := nowString()
	res, err := s.db.Exec(
		`INSERT INTO tasks (title, subject, priority, estimated_minutes, actual_minutes, deadline, status, tags, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		strings.TrimSpace(in.Title), in.Subject, string(in.Priority), in.EstimatedMinutes, in.ActualMinutes,
		in.Deadline.UTC().Format(dateLayout), string(StatusPending), joinTags(in.Tags), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetTask(id)
}

func scanTask(r rowScanner) (Task, error) {
	var t Task
	var priority, status, deadline, tags, createdAt, updatedAt string
	err := r.Scan(&t.ID, &t.Title, &t.Subject, &priority, &t.EstimatedMinutes, &t.ActualMinutes,
		&deadline, &status, &tags, &createdAt, &updatedAt)
	if err != nil {
		return t, err
	}
	t.Priority = Priority(priority)
	t.Status = TaskStatus(status)
	t.Tags = splitTags(tags)
	t.Deadline, _ = time.Parse(dateLayout, deadline)
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	t.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return t, nil
}

func (s *Store) GetTask(id int64) (*Task, error) {
	t, err := scanTask(s.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "task", id)
	}
	return &t, nil
}

// ListTasks returns every task ordered by deadline, then priority.
func (s *Store) ListTasks() ([]Task, error) {
	rows, err := s.db.Query(`SELECT ` + taskColumns + ` FROM tasks
		ORDER BY deadline,
		CASE priority WHEN 'High' THEN 0 WHEN 'Medium' THEN 1 ELSE 2 END,
		id`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) UpdateTask(id int64, in TaskInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	res, err := s.db.Exec(
		`UPDATE tasks SET title = ?, subject = ?, priority = ?, estimated_minutes = ?, actual_minutes = ?,
		 deadline = ?, tags = ?, updated_at = ? WHERE id = ?`,
		strings.TrimSpace(in.Title), in.Subject, string(in.Priority), in.EstimatedMinutes, in.ActualMinutes,
		in.Deadline.UTC().Format(dateLayout), joinTags(in.Tags), nowString(), id,
	)
	if err != nil {
		return fmt.Errorf("update task %d: %w", id, err)
	}
	return expectRow(res, "task", id)
}

func (s *Store) SetTaskStatus(id int64, status TaskStatus) error {
	if !validStatus(status) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTask, status)
	}
	res, err := s.db.Exec(
		`UPDATE tasks SET status = ?, updated_at = ? WHERE id = ?`, string(status), nowString(), id,
	)
	if err != nil {
		return fmt.Errorf("set task %d status: %w", id, err)
	}
	return expectRow(res, "task", id)
}

// ToggleTaskStatus flips a task between Pending and Completed. An Overdue
// task is marked Completed.
func (s *Store) ToggleTaskStatus(id int64) (*Task, error) {
	t, err := s.GetTask(id)
	if err != nil {
		return nil, err
	}
	next := StatusCompleted
	if t.Status == StatusCompleted {
		next = StatusPending
	}
	if err := s.SetTaskStatus(id, next); err != nil {
		return nil, err
	}
	return s.GetTask(id)
}

func (s *Store) DeleteTask(id int64) error {
	res, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return expectRow(res, "task", id)
}
