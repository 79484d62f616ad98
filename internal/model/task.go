package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrMissingID      = errors.New("model: task id is required")
	ErrEmptyTitle     = errors.New("model: task title is empty")
	ErrDanglingHandle = errors.New("model: reminder handle without reminder time")
	ErrZeroReminder   = errors.New("model: reminder time is zero")
)

// Task is the sole entity: a short text item with an optional one-shot
// reminder. ReminderHandle identifies a platform-scheduled trigger and is
// empty on the fallback-timer path.
type Task struct {
	ID             string
	Title          string
	Completed      bool
	ReminderAt     *time.Time
	ReminderHandle string
}

// NewTask builds a task with a fresh id. Callers validate and trim the title
// before constructing.
func NewTask(title string) Task {
	return Task{
		ID:    uuid.NewString(),
		Title: title,
	}
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrMissingID
	}
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if t.ReminderHandle != "" && t.ReminderAt == nil {
		return ErrDanglingHandle
	}
	if t.ReminderAt != nil && t.ReminderAt.IsZero() {
		return ErrZeroReminder
	}
	return nil
}

// HasReminder reports whether a reminder is currently armed.
func (t Task) HasReminder() bool {
	return t.ReminderAt != nil
}

// PlatformBacked reports whether the armed reminder is held by the platform
// notification service rather than a process-local timer.
func (t Task) PlatformBacked() bool {
	return t.ReminderAt != nil && t.ReminderHandle != ""
}

// ClearReminder returns a copy of the task with no reminder armed.
func (t Task) ClearReminder() Task {
	t.ReminderAt = nil
	t.ReminderHandle = ""
	return t
}
