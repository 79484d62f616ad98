// Package store holds the in-memory task list, newest first, and mirrors a
// full snapshot to the key-value store after every mutation. Persistence is
// fire-and-forget: writes funnel through a latest-wins channel, a failed
// write never rolls back the in-memory state, and two rapid writes resolve
// to the final state because the whole list is written each time.
//
// Methods are not safe for concurrent use; the UI event loop is the single
// caller.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/qianzhouyu594-ai/todoAPP/internal/model"
	"github.com/qianzhouyu594-ai/todoAPP/internal/scheduler"
	"github.com/qianzhouyu594-ai/todoAPP/internal/storage"
)

type Store struct {
	tasks     []model.Task
	editingID string
	kv        storage.KeyValue
	sched     *scheduler.Scheduler
	pending   chan []byte
	quit      chan struct{}
	done      chan struct{}
}

// New builds a store over the given snapshot. Callers re-arm fallback
// timers separately via scheduler.ReconcileOnLoad.
func New(kv storage.KeyValue, sched *scheduler.Scheduler, initial []model.Task) *Store {
	s := &Store{
		tasks:   append([]model.Task(nil), initial...),
		kv:      kv,
		sched:   sched,
		pending: make(chan []byte, 1),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go s.persistLoop()
	return s
}

// Close flushes the last pending snapshot and stops the persist loop.
func (s *Store) Close() {
	select {
	case <-s.quit:
		return
	default:
	}
	close(s.quit)
	<-s.done
}

// Tasks returns the list in display order, newest first.
func (s *Store) Tasks() []model.Task {
	return append([]model.Task(nil), s.tasks...)
}

func (s *Store) Get(id string) (model.Task, bool) {
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// Counts reports the total, active, and completed task counts.
func (s *Store) Counts() (total, active, completed int) {
	for _, t := range s.tasks {
		if t.Completed {
			completed++
		} else {
			active++
		}
	}
	return len(s.tasks), active, completed
}

// Add prepends a new task. An empty trimmed title is a no-op.
func (s *Store) Add(title string) (model.Task, bool) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return model.Task{}, false
	}
	task := model.NewTask(trimmed)
	s.tasks = append([]model.Task{task}, s.tasks...)
	s.persist()
	return task, true
}

// Remove cancels any armed reminder for the id, then excises the task.
// Unknown ids are a no-op, so a repeated remove is idempotent.
func (s *Store) Remove(ctx context.Context, id string) bool {
	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	s.cancelReminder(ctx, s.tasks[idx])
	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	if s.editingID == id {
		s.editingID = ""
	}
	s.persist()
	return true
}

// Toggle flips completion. Reminder state is untouched.
func (s *Store) Toggle(id string) bool {
	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	s.tasks[idx].Completed = !s.tasks[idx].Completed
	s.persist()
	return true
}

// BeginEdit marks the task as being edited and returns its current title.
func (s *Store) BeginEdit(id string) (string, bool) {
	idx := s.indexOf(id)
	if idx < 0 {
		return "", false
	}
	s.editingID = id
	return s.tasks[idx].Title, true
}

// CommitEdit replaces the edited task's title. An empty trimmed value
// discards the edit, leaving the title unchanged.
func (s *Store) CommitEdit(newTitle string) {
	id := s.editingID
	s.editingID = ""
	if id == "" {
		return
	}
	trimmed := strings.TrimSpace(newTitle)
	if trimmed == "" {
		return
	}
	idx := s.indexOf(id)
	if idx < 0 {
		return
	}
	s.tasks[idx].Title = trimmed
	s.persist()
}

func (s *Store) CancelEdit() {
	s.editingID = ""
}

func (s *Store) EditingID() string {
	return s.editingID
}

// CompleteAll marks every task completed.
func (s *Store) CompleteAll() {
	if len(s.tasks) == 0 {
		return
	}
	for i := range s.tasks {
		s.tasks[i].Completed = true
	}
	s.persist()
}

// DeleteAll cancels every armed reminder, then empties the list. The
// confirmation step lives in the UI; once invoked this is unconditional.
func (s *Store) DeleteAll(ctx context.Context) {
	for _, t := range s.tasks {
		s.cancelReminder(ctx, t)
	}
	s.tasks = nil
	s.editingID = ""
	s.persist()
}

// ClearCompleted removes every completed task, cancelling its reminder
// first. Remaining tasks keep their relative order.
func (s *Store) ClearCompleted(ctx context.Context) int {
	kept := s.tasks[:0]
	removed := 0
	for _, t := range s.tasks {
		if t.Completed {
			s.cancelReminder(ctx, t)
			if s.editingID == t.ID {
				s.editingID = ""
			}
			removed++
			continue
		}
		kept = append(kept, t)
	}
	if removed == 0 {
		return 0
	}
	s.tasks = kept
	s.persist()
	return removed
}

// SetReminder arms a trigger for the task at the target instant and records
// the result on the task record. The input layer has already validated that
// the target is in the future.
func (s *Store) SetReminder(ctx context.Context, id string, at time.Time) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return nil
	}
	handle, err := s.sched.Arm(ctx, id, s.tasks[idx].Title, at)
	if err != nil {
		if errors.Is(err, scheduler.ErrSuperseded) {
			return nil
		}
		// Aborted arm leaves the task unarmed.
		s.tasks[idx] = s.tasks[idx].ClearReminder()
		s.persist()
		return err
	}
	target := at
	s.tasks[idx].ReminderAt = &target
	s.tasks[idx].ReminderHandle = handle
	s.persist()
	return nil
}

// ClearReminder disarms the task's trigger and nulls its reminder fields.
func (s *Store) ClearReminder(ctx context.Context, id string) {
	idx := s.indexOf(id)
	if idx < 0 {
		return
	}
	s.cancelReminder(ctx, s.tasks[idx])
	s.tasks[idx] = s.tasks[idx].ClearReminder()
	s.persist()
}

// ReminderFired transitions a task back to unarmed after its fallback timer
// elapsed.
func (s *Store) ReminderFired(id string) {
	idx := s.indexOf(id)
	if idx < 0 {
		return
	}
	if !s.tasks[idx].HasReminder() {
		return
	}
	s.tasks[idx] = s.tasks[idx].ClearReminder()
	s.persist()
}

func (s *Store) cancelReminder(ctx context.Context, t model.Task) {
	if !t.HasReminder() {
		return
	}
	s.sched.Cancel(ctx, t.ID, t.ReminderHandle)
}

func (s *Store) indexOf(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) persist() {
	snapshot, err := storage.EncodeSnapshot(s.tasks)
	if err != nil {
		return
	}
	for {
		select {
		case s.pending <- snapshot:
			return
		default:
			// Drop the stale pending snapshot; last write wins.
			select {
			case <-s.pending:
			default:
			}
		}
	}
}

func (s *Store) persistLoop() {
	defer close(s.done)
	for {
		select {
		case snapshot := <-s.pending:
			// Write failures are swallowed; the in-memory list is
			// authoritative.
			_ = s.kv.Save(context.Background(), storage.SnapshotKey, snapshot)
		case <-s.quit:
			select {
			case snapshot := <-s.pending:
				_ = s.kv.Save(context.Background(), storage.SnapshotKey, snapshot)
			default:
			}
			return
		}
	}
}
