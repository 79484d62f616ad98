package model

import (
	"errors"
	"testing"
	"time"
)

func TestNewTaskDefaults(t *testing.T) {
	task := NewTask("Buy milk")
	if task.ID == "" {
		t.Fatal("expected generated id")
	}
	if task.Title != "Buy milk" {
		t.Fatalf("unexpected title: %q", task.Title)
	}
	if task.Completed {
		t.Fatal("expected completed=false at creation")
	}
	if task.ReminderAt != nil || task.ReminderHandle != "" {
		t.Fatalf("expected unarmed reminder, got %v / %q", task.ReminderAt, task.ReminderHandle)
	}
	if err := task.Validate(); err != nil {
		t.Fatalf("expected valid task, got: %v", err)
	}
}

func TestNewTaskIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		task := NewTask("x")
		if seen[task.ID] {
			t.Fatalf("duplicate id generated: %s", task.ID)
		}
		seen[task.ID] = true
	}
}

func TestValidateRejectsEmptyTitle(t *testing.T) {
	task := Task{ID: "task-1", Title: "   "}
	if err := task.Validate(); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got: %v", err)
	}
}

func TestValidateRejectsHandleWithoutTime(t *testing.T) {
	task := Task{ID: "task-1", Title: "ok", ReminderHandle: "notif-9"}
	if err := task.Validate(); !errors.Is(err, ErrDanglingHandle) {
		t.Fatalf("expected ErrDanglingHandle, got: %v", err)
	}
}

func TestReminderPredicates(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	task := Task{ID: "task-1", Title: "ok", ReminderAt: &at, ReminderHandle: "notif-9"}
	if !task.HasReminder() || !task.PlatformBacked() {
		t.Fatalf("expected platform-backed reminder: %+v", task)
	}

	task.ReminderHandle = ""
	if !task.HasReminder() || task.PlatformBacked() {
		t.Fatalf("expected fallback-path reminder: %+v", task)
	}

	cleared := task.ClearReminder()
	if cleared.HasReminder() || cleared.ReminderHandle != "" {
		t.Fatalf("expected cleared reminder: %+v", cleared)
	}
	if task.ReminderAt == nil {
		t.Fatal("ClearReminder must not mutate the receiver")
	}
}
